package music

import (
	"fmt"

	"tunekeeper/internal/core"
	"tunekeeper/pkg/util"

	"github.com/bwmarrin/discordgo"
)

type NowPlayingCommand struct {
	Bot core.BotMusic
}

func (c *NowPlayingCommand) Name() string        { return "nowplaying" }
func (c *NowPlayingCommand) Description() string { return "Show the currently playing track" }
func (c *NowPlayingCommand) Aliases() []string   { return []string{"np"} }
func (c *NowPlayingCommand) Group() string       { return "music" }
func (c *NowPlayingCommand) Category() string    { return "🎵 Music" }
func (c *NowPlayingCommand) RequireAdmin() bool  { return false }
func (c *NowPlayingCommand) RequireDev() bool    { return false }

func (c *NowPlayingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *NowPlayingCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	session, event := sctx.Session, sctx.Event

	p := activePlayer(c.Bot, event.GuildID)
	if p == nil {
		return core.RespondEphemeral(session, event, "🎵 Nothing is playing.")
	}
	track := p.Current()
	if track == nil {
		return core.RespondEphemeral(session, event, "🎵 Nothing is playing.")
	}

	position := c.Bot.Position(event.GuildID)
	progress := fmt.Sprintf("%s `%s / %s`",
		util.ProgressBar(position, track.Duration, 0),
		util.FormatTrackTime(position),
		util.FormatTrackTime(track.Duration))
	if track.Stream {
		progress = "🔴 live"
	}

	status := "▶️ Now playing"
	if p.Paused() {
		status = "⏸ Paused"
	}

	return core.RespondEmbed(session, event, &discordgo.MessageEmbed{
		Title:       status,
		Description: fmt.Sprintf("%s\n%s", trackLine(*track), progress),
	})
}
