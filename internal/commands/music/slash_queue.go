package music

import (
	"fmt"
	"strings"

	"tunekeeper/internal/core"
	"tunekeeper/pkg/util"

	"github.com/bwmarrin/discordgo"
)

const queuePageSize = 10

type QueueCommand struct {
	Bot core.BotMusic
}

func (c *QueueCommand) Name() string        { return "queue" }
func (c *QueueCommand) Description() string { return "Show the current queue" }
func (c *QueueCommand) Aliases() []string   { return []string{} }
func (c *QueueCommand) Group() string       { return "music" }
func (c *QueueCommand) Category() string    { return "🎵 Music" }
func (c *QueueCommand) RequireAdmin() bool  { return false }
func (c *QueueCommand) RequireDev() bool    { return false }

func (c *QueueCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *QueueCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	session, event := sctx.Session, sctx.Event

	p := activePlayer(c.Bot, event.GuildID)
	if p == nil {
		return core.RespondEphemeral(session, event, "🎵 Nothing is playing.")
	}

	var sb strings.Builder
	if cur := p.Current(); cur != nil {
		fmt.Fprintf(&sb, "**Now playing**\n%s `%s`\n\n", trackLine(*cur), util.FormatTrackTime(cur.Duration))
	}

	tracks := p.QueueSnapshot()
	if len(tracks) == 0 {
		sb.WriteString("The queue is empty.")
	} else {
		sb.WriteString("**Up next**\n")
		for i, t := range tracks {
			if i >= queuePageSize {
				fmt.Fprintf(&sb, "… and %d more", len(tracks)-queuePageSize)
				break
			}
			fmt.Fprintf(&sb, "`%2d.` %s `%s`\n", i+1, trackLine(t), util.FormatTrackTime(t.Duration))
		}
	}

	var flags []string
	if mode := p.Loop(); mode.String() != "off" {
		flags = append(flags, "loop: "+mode.String())
	}
	if p.Shuffle() {
		flags = append(flags, "shuffle")
	}
	if p.Autoplay() {
		flags = append(flags, "autoplay")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎶 Queue",
		Description: sb.String(),
	}
	if len(flags) > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: strings.Join(flags, " · ")}
	}
	return core.RespondEmbed(session, event, embed)
}
