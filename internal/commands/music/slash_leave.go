package music

import (
	"context"
	"time"

	"tunekeeper/internal/core"

	"github.com/bwmarrin/discordgo"
)

type LeaveCommand struct {
	Bot core.BotMusic
}

func (c *LeaveCommand) Name() string        { return "leave" }
func (c *LeaveCommand) Description() string { return "Leave the voice channel and forget the queue" }
func (c *LeaveCommand) Aliases() []string   { return []string{"disconnect"} }
func (c *LeaveCommand) Group() string       { return "music" }
func (c *LeaveCommand) Category() string    { return "🎵 Music" }
func (c *LeaveCommand) RequireAdmin() bool  { return false }
func (c *LeaveCommand) RequireDev() bool    { return false }

func (c *LeaveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *LeaveCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	session, event := sctx.Session, sctx.Event

	if activePlayer(c.Bot, event.GuildID) == nil {
		return core.RespondEphemeral(session, event, "I am not in a voice channel.")
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.Bot.Leave(reqCtx, event.GuildID); err != nil {
		return err
	}
	return core.Respond(session, event, "👋 Left the voice channel.")
}
