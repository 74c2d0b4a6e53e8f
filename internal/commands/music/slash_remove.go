package music

import (
	"errors"
	"fmt"

	"tunekeeper/internal/core"
	"tunekeeper/internal/player"

	"github.com/bwmarrin/discordgo"
)

type RemoveCommand struct {
	Bot core.BotMusic
}

func (c *RemoveCommand) Name() string        { return "remove" }
func (c *RemoveCommand) Description() string { return "Remove a track from the queue" }
func (c *RemoveCommand) Aliases() []string   { return []string{} }
func (c *RemoveCommand) Group() string       { return "music" }
func (c *RemoveCommand) Category() string    { return "🎵 Music" }
func (c *RemoveCommand) RequireAdmin() bool  { return false }
func (c *RemoveCommand) RequireDev() bool    { return false }

func (c *RemoveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	minPos := float64(1)
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "position",
				Description: "Queue position to remove, as shown by /queue",
				Required:    true,
				MinValue:    &minPos,
			},
		},
	}
}

func (c *RemoveCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	session, event := sctx.Session, sctx.Event

	p := activePlayer(c.Bot, event.GuildID)
	if p == nil {
		return core.RespondEphemeral(session, event, "🎵 Nothing is playing.")
	}

	position := int64(1)
	for _, opt := range event.ApplicationCommandData().Options {
		if opt.Name == "position" {
			position = opt.IntValue()
		}
	}

	track, err := p.RemoveFromQueue(int(position) - 1)
	if err != nil {
		switch {
		case errors.Is(err, player.ErrEmptyQueue):
			return core.RespondEphemeral(session, event, "The queue is empty.")
		case errors.Is(err, player.ErrOutOfRange):
			return core.RespondEphemeral(session, event, fmt.Sprintf("There is no track at position %d.", position))
		default:
			return err
		}
	}

	return core.RespondEmbed(session, event, &discordgo.MessageEmbed{
		Title:       "🗑 Removed",
		Description: trackLine(track),
	})
}
