package discord

import (
	"log"
	"sync"
	"time"

	"tunekeeper/internal/core"

	"github.com/bwmarrin/discordgo"
)

// registerCommands reconciles the guild's slash commands with the registry.
// Hashes of previously pushed definitions are cached on disk so unchanged
// commands are not re-sent on every start.
func (b *Bot) registerCommands(guildID string) error {
	appID := b.dg.State.User.ID
	if appID == "" {
		user, err := b.dg.User("@me")
		if err != nil {
			return err
		}
		appID = user.ID
	}

	existing, _ := b.dg.ApplicationCommands(appID, guildID)
	localHashes := loadGuildCommandHashes(guildID)

	var wanted []*discordgo.ApplicationCommand
	wantedHashes := make(map[string]string)
	for _, cmd := range core.AllCommands() {
		if def := normalizeDefinition(cmd); def != nil {
			wanted = append(wanted, def)
			wantedHashes[def.Name] = hashCommand(def)
		}
	}

	// Delete commands no longer in the registry.
	for _, old := range existing {
		if _, ok := wantedHashes[old.Name]; !ok {
			log.Printf("[INFO] [%s] Deleting obsolete command: %s", guildID, old.Name)
			if err := b.dg.ApplicationCommandDelete(appID, guildID, old.ID); err != nil {
				log.Printf("[ERR] [%s] Failed to delete %s: %v", guildID, old.Name, err)
			}
			delete(localHashes, old.Name)
		}
	}

	var changed []*discordgo.ApplicationCommand
	for _, cmd := range wanted {
		if localHashes[cmd.Name] != wantedHashes[cmd.Name] {
			changed = append(changed, cmd)
		}
	}

	if len(changed) > 0 {
		log.Printf("[INFO] [%s] %d commands changed, updating with rate limit...", guildID, len(changed))
		b.createCommandsWithRateLimit(guildID, changed)
		for _, c := range changed {
			localHashes[c.Name] = wantedHashes[c.Name]
		}
	}

	saveGuildCommandHashes(guildID, localHashes)
	return nil
}

// normalizeDefinition extracts a pushable definition from a command.
func normalizeDefinition(cmd core.Command) *discordgo.ApplicationCommand {
	slash, ok := cmd.(core.SlashProvider)
	if !ok {
		return nil
	}
	def := slash.SlashDefinition()
	if def == nil {
		return nil
	}
	if def.Type == 0 {
		def.Type = discordgo.ChatApplicationCommand
	}
	return def
}

// createCommandsWithRateLimit pushes command definitions spaced out so bulk
// registration does not trip the API rate limiter.
func (b *Bot) createCommandsWithRateLimit(guildID string, cmds []*discordgo.ApplicationCommand) {
	ticker := time.NewTicker(time.Second / 40)
	defer ticker.Stop()

	var wg sync.WaitGroup
	for _, job := range cmds {
		wg.Add(1)
		go func(cmd *discordgo.ApplicationCommand) {
			defer wg.Done()
			<-ticker.C

			if _, err := b.dg.ApplicationCommandCreate(b.dg.State.User.ID, guildID, cmd); err != nil {
				log.Printf("[ERR] Can't create command %s: %v", cmd.Name, err)
			} else {
				log.Printf("[DONE] Command created: %s", cmd.Name)
			}
		}(job)
	}
	wg.Wait()
}
