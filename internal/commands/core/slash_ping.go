package core

import (
	"fmt"

	"tunekeeper/internal/core"

	"github.com/bwmarrin/discordgo"
)

type PingCommand struct{}

func (c *PingCommand) Name() string        { return "ping" }
func (c *PingCommand) Description() string { return "Check bot latency" }
func (c *PingCommand) Aliases() []string   { return []string{} }
func (c *PingCommand) Group() string       { return "core" }
func (c *PingCommand) Category() string    { return "🕯️ Information" }
func (c *PingCommand) RequireAdmin() bool  { return false }
func (c *PingCommand) RequireDev() bool    { return false }

func (c *PingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *PingCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	session, event := sctx.Session, sctx.Event

	latency := session.HeartbeatLatency().Milliseconds()
	return core.RespondEmbedEphemeral(session, event, &discordgo.MessageEmbed{
		Title:       "Pong!",
		Description: fmt.Sprintf("Latency: %dms", latency),
	})
}

func init() {
	core.RegisterCommand(
		core.ApplyMiddlewares(
			&PingCommand{},
			core.WithGuildOnly(),
			core.WithAccessControl(),
			core.WithCommandLogger(),
		),
	)
}
