package music

import (
	"context"
	"errors"
	"fmt"

	"tunekeeper/internal/core"
	"tunekeeper/internal/player"
	"tunekeeper/pkg/util"

	"github.com/bwmarrin/discordgo"
)

type SeekCommand struct {
	Bot core.BotMusic
}

func (c *SeekCommand) Name() string        { return "seek" }
func (c *SeekCommand) Description() string { return "Jump to a position in the current track" }
func (c *SeekCommand) Aliases() []string   { return []string{} }
func (c *SeekCommand) Group() string       { return "music" }
func (c *SeekCommand) Category() string    { return "🎵 Music" }
func (c *SeekCommand) RequireAdmin() bool  { return false }
func (c *SeekCommand) RequireDev() bool    { return false }

func (c *SeekCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "position",
				Description: "Target position, like 90 or 1:30",
				Required:    true,
			},
		},
	}
}

func (c *SeekCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	session, event := sctx.Session, sctx.Event

	var raw string
	for _, opt := range event.ApplicationCommandData().Options {
		if opt.Name == "position" {
			raw = opt.StringValue()
		}
	}
	positionMs, err := util.ParseTrackTime(raw)
	if err != nil {
		return core.RespondEphemeral(session, event, fmt.Sprintf("🎵 Can't read `%s` as a position. Try 90 or 1:30.", raw))
	}

	p := activePlayer(c.Bot, event.GuildID)
	if p == nil {
		return core.RespondEphemeral(session, event, "🎵 Nothing is playing.")
	}

	err = p.Seek(context.Background(), positionMs)
	switch {
	case errors.Is(err, player.ErrNothingPlaying):
		return core.RespondEphemeral(session, event, "🎵 Nothing is playing.")
	case errors.Is(err, player.ErrNotSeekable):
		return core.RespondEphemeral(session, event, "🎵 This track can't be seeked.")
	case errors.Is(err, player.ErrInvalidPosition):
		return core.RespondEphemeral(session, event, "🎵 That position is past the end of the track.")
	case err != nil:
		return core.RespondEphemeral(session, event, "🎵 Error: "+err.Error())
	}

	return core.Respond(session, event, fmt.Sprintf("⏩ Jumped to `%s`.", util.FormatTrackTime(positionMs)))
}
