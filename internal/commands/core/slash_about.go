package core

import (
	"strings"
	"time"

	"tunekeeper/internal/core"
	"tunekeeper/internal/version"

	"github.com/bwmarrin/discordgo"
)

type AboutCommand struct{}

func (c *AboutCommand) Name() string        { return "about" }
func (c *AboutCommand) Description() string { return "Discover the origin of this bot" }
func (c *AboutCommand) Aliases() []string   { return []string{} }
func (c *AboutCommand) Group() string       { return "core" }
func (c *AboutCommand) Category() string    { return "🕯️ Information" }
func (c *AboutCommand) RequireAdmin() bool  { return false }
func (c *AboutCommand) RequireDev() bool    { return false }

func (c *AboutCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *AboutCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	session, event := sctx.Session, sctx.Event

	buildDate := "unknown"
	if version.BuildDate != "" {
		if t, err := time.Parse(time.RFC3339, version.BuildDate); err == nil {
			buildDate = t.Format("2006-01-02")
		}
	}

	goVer := strings.TrimPrefix(version.GoVersion, "go")

	fields := []*discordgo.MessageEmbedField{
		{
			Name:  "Repository",
			Value: version.AppRepository,
		},
		{
			Name:  "Release",
			Value: buildDate + " (Go " + goVer + ")",
		},
	}

	return core.RespondEmbedEphemeral(session, event, &discordgo.MessageEmbed{
		Title:       "ℹ️ About " + version.AppName,
		Description: version.AppDescription,
		Fields:      fields,
	})
}

func init() {
	core.RegisterCommand(
		core.ApplyMiddlewares(
			&AboutCommand{},
			core.WithGuildOnly(),
			core.WithCommandLogger(),
		),
	)
}
