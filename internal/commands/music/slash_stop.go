package music

import (
	"context"
	"fmt"

	"tunekeeper/internal/core"

	"github.com/bwmarrin/discordgo"
)

type StopCommand struct {
	Bot core.BotMusic
}

func (c *StopCommand) Name() string        { return "stop" }
func (c *StopCommand) Description() string { return "Stop playback and clear the queue" }
func (c *StopCommand) Aliases() []string   { return []string{} }
func (c *StopCommand) Group() string       { return "music" }
func (c *StopCommand) Category() string    { return "🎵 Music" }
func (c *StopCommand) RequireAdmin() bool  { return false }
func (c *StopCommand) RequireDev() bool    { return false }

func (c *StopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *StopCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	session, event := sctx.Session, sctx.Event

	p := activePlayer(c.Bot, event.GuildID)
	if p == nil {
		return core.RespondEphemeral(session, event, "🎵 Nothing to stop.")
	}

	if err := p.Stop(context.Background()); err != nil {
		return core.RespondEphemeral(session, event, fmt.Sprintf("🎵 Error: %v", err))
	}
	return core.Respond(session, event, "⏹ Playback stopped, queue cleared.")
}
