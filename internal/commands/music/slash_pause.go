package music

import (
	"context"
	"errors"

	"tunekeeper/internal/core"
	"tunekeeper/internal/player"

	"github.com/bwmarrin/discordgo"
)

type PauseCommand struct {
	Bot core.BotMusic
}

func (c *PauseCommand) Name() string        { return "pause" }
func (c *PauseCommand) Description() string { return "Pause the current track" }
func (c *PauseCommand) Aliases() []string   { return []string{} }
func (c *PauseCommand) Group() string       { return "music" }
func (c *PauseCommand) Category() string    { return "🎵 Music" }
func (c *PauseCommand) RequireAdmin() bool  { return false }
func (c *PauseCommand) RequireDev() bool    { return false }

func (c *PauseCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *PauseCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	session, event := sctx.Session, sctx.Event

	p := activePlayer(c.Bot, event.GuildID)
	if p == nil {
		return core.RespondEphemeral(session, event, "🎵 Nothing is playing.")
	}

	err := p.Pause(context.Background())
	switch {
	case errors.Is(err, player.ErrNotPlaying):
		return core.RespondEphemeral(session, event, "🎵 Nothing is playing.")
	case errors.Is(err, player.ErrAlreadyPaused):
		return core.RespondEphemeral(session, event, "⏸ Already paused.")
	case err != nil:
		return core.RespondEphemeral(session, event, "🎵 Error: "+err.Error())
	}
	return core.Respond(session, event, "⏸ Paused.")
}
