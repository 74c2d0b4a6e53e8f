package music

import (
	"context"
	"time"

	"tunekeeper/internal/core"

	"github.com/bwmarrin/discordgo"
)

type AutoplayCommand struct {
	Bot core.BotMusic
}

func (c *AutoplayCommand) Name() string { return "autoplay" }
func (c *AutoplayCommand) Description() string {
	return "Keep playing related tracks when the queue runs out"
}
func (c *AutoplayCommand) Aliases() []string  { return []string{} }
func (c *AutoplayCommand) Group() string      { return "music" }
func (c *AutoplayCommand) Category() string   { return "🎵 Music" }
func (c *AutoplayCommand) RequireAdmin() bool { return false }
func (c *AutoplayCommand) RequireDev() bool   { return false }

func (c *AutoplayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "enabled",
				Description: "Turn autoplay on or off",
				Required:    true,
			},
		},
	}
}

func (c *AutoplayCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	session, event := sctx.Session, sctx.Event

	p := activePlayer(c.Bot, event.GuildID)
	if p == nil {
		return core.RespondEphemeral(session, event, "🎵 Nothing is playing.")
	}

	enabled := false
	for _, opt := range event.ApplicationCommandData().Options {
		if opt.Name == "enabled" {
			enabled = opt.BoolValue()
		}
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := p.SetAutoplay(reqCtx, enabled, event.ChannelID); err != nil {
		return err
	}

	if enabled {
		return core.Respond(session, event, "♾️ Autoplay enabled.")
	}
	return core.Respond(session, event, "♾️ Autoplay disabled.")
}
