package music

import (
	"context"
	"errors"

	"tunekeeper/internal/core"
	"tunekeeper/internal/player"

	"github.com/bwmarrin/discordgo"
)

type ResumeCommand struct {
	Bot core.BotMusic
}

func (c *ResumeCommand) Name() string        { return "resume" }
func (c *ResumeCommand) Description() string { return "Resume a paused track" }
func (c *ResumeCommand) Aliases() []string   { return []string{} }
func (c *ResumeCommand) Group() string       { return "music" }
func (c *ResumeCommand) Category() string    { return "🎵 Music" }
func (c *ResumeCommand) RequireAdmin() bool  { return false }
func (c *ResumeCommand) RequireDev() bool    { return false }

func (c *ResumeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *ResumeCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	session, event := sctx.Session, sctx.Event

	p := activePlayer(c.Bot, event.GuildID)
	if p == nil {
		return core.RespondEphemeral(session, event, "🎵 Nothing is playing.")
	}

	err := p.Resume(context.Background())
	switch {
	case errors.Is(err, player.ErrNotPlaying):
		return core.RespondEphemeral(session, event, "🎵 Nothing is playing.")
	case errors.Is(err, player.ErrNotPaused):
		return core.RespondEphemeral(session, event, "▶️ Not paused.")
	case err != nil:
		return core.RespondEphemeral(session, event, "🎵 Error: "+err.Error())
	}
	return core.Respond(session, event, "▶️ Resumed.")
}
