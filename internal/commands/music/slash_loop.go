package music

import (
	"tunekeeper/internal/core"
	"tunekeeper/internal/player"

	"github.com/bwmarrin/discordgo"
)

type LoopCommand struct {
	Bot core.BotMusic
}

func (c *LoopCommand) Name() string        { return "loop" }
func (c *LoopCommand) Description() string { return "Loop the current track or the whole queue" }
func (c *LoopCommand) Aliases() []string   { return []string{} }
func (c *LoopCommand) Group() string       { return "music" }
func (c *LoopCommand) Category() string    { return "🎵 Music" }
func (c *LoopCommand) RequireAdmin() bool  { return false }
func (c *LoopCommand) RequireDev() bool    { return false }

func (c *LoopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "mode",
				Description: "What to loop",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "off", Value: "off"},
					{Name: "track", Value: "track"},
					{Name: "queue", Value: "queue"},
				},
			},
		},
	}
}

func (c *LoopCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	session, event := sctx.Session, sctx.Event

	p := activePlayer(c.Bot, event.GuildID)
	if p == nil {
		return core.RespondEphemeral(session, event, "🎵 Nothing is playing.")
	}

	mode := player.LoopNone
	for _, opt := range event.ApplicationCommandData().Options {
		if opt.Name == "mode" {
			switch opt.StringValue() {
			case "track":
				mode = player.LoopTrack
			case "queue":
				mode = player.LoopQueue
			}
		}
	}

	p.SetLoop(mode)

	switch mode {
	case player.LoopTrack:
		return core.Respond(session, event, "🔂 Looping the current track.")
	case player.LoopQueue:
		return core.Respond(session, event, "🔁 Looping the queue.")
	default:
		return core.Respond(session, event, "➡️ Loop disabled.")
	}
}
