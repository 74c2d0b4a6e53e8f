package music

import (
	"fmt"
	"strings"

	"tunekeeper/internal/core"
	"tunekeeper/pkg/util"

	"github.com/bwmarrin/discordgo"
)

type HistoryCommand struct{}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show recently played tracks" }
func (c *HistoryCommand) Aliases() []string   { return []string{} }
func (c *HistoryCommand) Group() string       { return "music" }
func (c *HistoryCommand) Category() string    { return "🎵 Music" }
func (c *HistoryCommand) RequireAdmin() bool  { return false }
func (c *HistoryCommand) RequireDev() bool    { return false }

func (c *HistoryCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *HistoryCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	session, event := sctx.Session, sctx.Event

	records, err := sctx.Storage.FetchTrackHistory(event.GuildID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return core.RespondEphemeral(session, event, "No tracks played yet.")
	}

	var sb strings.Builder
	// Newest first.
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		when := util.FormatDateTpl(r.PlayedAt.UnixMilli(), "DD.MM hh:mm")
		fmt.Fprintf(&sb, "`%s` [%s](%s) by %s\n", when, r.Title, r.URI, r.Author)
	}

	return core.RespondEmbed(session, event, &discordgo.MessageEmbed{
		Title:       "📼 Recently played",
		Description: sb.String(),
	})
}
