package music

import (
	"tunekeeper/internal/core"

	"github.com/bwmarrin/discordgo"
)

type AnnounceCommand struct{}

func (c *AnnounceCommand) Name() string        { return "announce" }
func (c *AnnounceCommand) Description() string { return "Toggle now-playing announcements" }
func (c *AnnounceCommand) Aliases() []string   { return []string{} }
func (c *AnnounceCommand) Group() string       { return "music" }
func (c *AnnounceCommand) Category() string    { return "🎵 Music" }
func (c *AnnounceCommand) RequireAdmin() bool  { return true }
func (c *AnnounceCommand) RequireDev() bool    { return false }

func (c *AnnounceCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "enabled",
				Description: "Announce tracks as they start playing",
				Required:    true,
			},
		},
	}
}

func (c *AnnounceCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	session, event := sctx.Session, sctx.Event

	enabled := true
	for _, opt := range event.ApplicationCommandData().Options {
		if opt.Name == "enabled" {
			enabled = opt.BoolValue()
		}
	}

	if err := sctx.Storage.SetAnnounceMuted(event.GuildID, !enabled); err != nil {
		return err
	}

	if enabled {
		return core.Respond(session, event, "📣 Now-playing announcements enabled.")
	}
	return core.Respond(session, event, "🔕 Now-playing announcements disabled.")
}
