package music

import (
	"context"
	"errors"
	"fmt"

	"tunekeeper/internal/core"
	"tunekeeper/internal/player"

	"github.com/bwmarrin/discordgo"
)

type SkipCommand struct {
	Bot core.BotMusic
}

func (c *SkipCommand) Name() string        { return "skip" }
func (c *SkipCommand) Description() string { return "Skip the current track" }
func (c *SkipCommand) Aliases() []string   { return []string{} }
func (c *SkipCommand) Group() string       { return "music" }
func (c *SkipCommand) Category() string    { return "🎵 Music" }
func (c *SkipCommand) RequireAdmin() bool  { return false }
func (c *SkipCommand) RequireDev() bool    { return false }

func (c *SkipCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *SkipCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	session, event := sctx.Session, sctx.Event

	p := activePlayer(c.Bot, event.GuildID)
	if p == nil {
		return core.RespondEphemeral(session, event, "🎵 Nothing is playing.")
	}

	skipped, err := p.Skip(context.Background())
	if errors.Is(err, player.ErrNothingPlaying) {
		return core.RespondEphemeral(session, event, "🎵 Nothing is playing.")
	}
	if err != nil {
		return core.RespondEphemeral(session, event, fmt.Sprintf("🎵 Error: %v", err))
	}

	return core.RespondEmbed(session, event, &discordgo.MessageEmbed{
		Title:       "⏭ Skipped",
		Description: trackLine(skipped),
	})
}
