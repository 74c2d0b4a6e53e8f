package music

import (
	"tunekeeper/internal/core"

	"github.com/bwmarrin/discordgo"
)

type ShuffleCommand struct {
	Bot core.BotMusic
}

func (c *ShuffleCommand) Name() string        { return "shuffle" }
func (c *ShuffleCommand) Description() string { return "Shuffle the queue or toggle shuffle mode" }
func (c *ShuffleCommand) Aliases() []string   { return []string{} }
func (c *ShuffleCommand) Group() string       { return "music" }
func (c *ShuffleCommand) Category() string    { return "🎵 Music" }
func (c *ShuffleCommand) RequireAdmin() bool  { return false }
func (c *ShuffleCommand) RequireDev() bool    { return false }

func (c *ShuffleCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "mode",
				Description: "Shuffle once, or keep reshuffling new tracks",
				Required:    false,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "now", Value: "now"},
					{Name: "on", Value: "on"},
					{Name: "off", Value: "off"},
				},
			},
		},
	}
}

func (c *ShuffleCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	session, event := sctx.Session, sctx.Event

	p := activePlayer(c.Bot, event.GuildID)
	if p == nil {
		return core.RespondEphemeral(session, event, "🎵 Nothing is playing.")
	}

	mode := "now"
	for _, opt := range event.ApplicationCommandData().Options {
		if opt.Name == "mode" {
			mode = opt.StringValue()
		}
	}

	switch mode {
	case "on":
		p.SetShuffle(true)
		return core.Respond(session, event, "🔀 Shuffle mode enabled.")
	case "off":
		p.SetShuffle(false)
		return core.Respond(session, event, "🔀 Shuffle mode disabled.")
	default:
		p.ShuffleQueue()
		return core.Respond(session, event, "🔀 Queue shuffled.")
	}
}
