package core

import (
	"fmt"
	"sort"
	"strings"

	"tunekeeper/internal/config"
	"tunekeeper/internal/core"
	"tunekeeper/internal/version"

	"github.com/bwmarrin/discordgo"
)

type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Get a list of available commands" }
func (c *HelpCommand) Aliases() []string   { return []string{} }
func (c *HelpCommand) Group() string       { return "core" }
func (c *HelpCommand) Category() string    { return "🕯️ Information" }
func (c *HelpCommand) RequireAdmin() bool  { return false }
func (c *HelpCommand) RequireDev() bool    { return false }

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "view_as",
				Description: "View commands as categories or a flat list",
				Required:    false,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Categories", Value: "category"},
					{Name: "Flat list", Value: "flat"},
				},
			},
		},
	}
}

func (c *HelpCommand) Run(ctx interface{}) error {
	sctx, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	session, event := sctx.Session, sctx.Event

	viewAs := "category"
	if opts := event.ApplicationCommandData().Options; len(opts) > 0 {
		viewAs = opts[0].StringValue()
	}

	var output string
	switch viewAs {
	case "flat":
		output = buildHelpFlat(session, event)
	default:
		output = buildHelpByCategory(session, event)
	}

	return core.RespondEmbedEphemeral(session, event, &discordgo.MessageEmbed{
		Title:       version.AppName + " Help",
		Description: output,
	})
}

func visibleCommands(session *discordgo.Session, event *discordgo.InteractionCreate) []core.Command {
	userID := event.Member.User.ID

	var cmds []core.Command
	for _, cmd := range core.AllCommands() {
		if cmd.RequireAdmin() && !core.IsAdministrator(session, event.GuildID, event.Member) {
			continue
		}
		if cmd.RequireDev() && !core.IsDeveloper(userID) {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func buildHelpByCategory(session *discordgo.Session, event *discordgo.InteractionCreate) string {
	categoryMap := make(map[string][]core.Command)
	for _, cmd := range visibleCommands(session, event) {
		categoryMap[cmd.Category()] = append(categoryMap[cmd.Category()], cmd)
	}

	var cats []string
	for cat := range categoryMap {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		return config.CategoryWeights[cats[i]] < config.CategoryWeights[cats[j]]
	})

	var sb strings.Builder
	for _, cat := range cats {
		sb.WriteString(fmt.Sprintf("**%s**\n", cat))
		cmds := categoryMap[cat]
		sort.Slice(cmds, func(i, j int) bool {
			return cmds[i].Name() < cmds[j].Name()
		})
		for _, cmd := range cmds {
			sb.WriteString(fmt.Sprintf("`%s` - %s\n", cmd.Name(), cmd.Description()))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func buildHelpFlat(session *discordgo.Session, event *discordgo.InteractionCreate) string {
	cmds := visibleCommands(session, event)
	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].Name() < cmds[j].Name()
	})

	var sb strings.Builder
	for _, cmd := range cmds {
		sb.WriteString(fmt.Sprintf("`%s` - %s\n", cmd.Name(), cmd.Description()))
	}
	return sb.String()
}

func init() {
	core.RegisterCommand(
		core.ApplyMiddlewares(
			&HelpCommand{},
			core.WithGuildOnly(),
		),
	)
}
