package core

import (
	"tunekeeper/internal/storage"

	"github.com/bwmarrin/discordgo"
)

type Command interface {
	Name() string
	Description() string
	Aliases() []string
	Group() string
	Category() string
	RequireAdmin() bool
	RequireDev() bool
	Run(ctx interface{}) error
}

// Providers - how this command should be registered with Discord
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// Contexts - what runtime hands you when executing a command
// Slash command
type SlashInteractionContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Storage *storage.Storage
}

type ComponentInteractionContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Storage *storage.Storage
}

// Hook for component beyond Run
type ComponentInteractionHandler interface {
	Component(*ComponentInteractionContext) error
}

// Hook for option autocomplete beyond Run
type AutocompleteHandler interface {
	Autocomplete(*SlashInteractionContext) error
}
