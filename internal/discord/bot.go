package discord

import (
	"context"
	"fmt"
	"log"
	"sync"

	"tunekeeper/internal/audionode"
	"tunekeeper/internal/commands/music"
	"tunekeeper/internal/config"
	"tunekeeper/internal/core"
	"tunekeeper/internal/player"
	"tunekeeper/internal/sources/youtube"
	"tunekeeper/internal/storage"
	"tunekeeper/pkg/jobmgr"

	"github.com/bwmarrin/discordgo"
)

// Bot is the Discord gateway side of the music bot. It owns the session, the
// audio node client, and the per-guild player registry.
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	storage  *storage.Storage
	node     *audionode.Client
	registry *player.Registry
	router   *player.Router
	provider *youtube.Provider
	jobs     *jobmgr.Manager

	// Gateway voice ops, thin wrappers over the session.
	joinVoice func(guildID, channelID string) error
	dropVoice func(guildID string) error

	registerMusicOnce sync.Once
}

// StartBot runs the Discord bot until ctx is cancelled.
func StartBot(ctx context.Context, cfg *config.Config, store *storage.Storage) error {
	b := &Bot{
		cfg:     cfg,
		storage: store,
		jobs:    jobmgr.NewManager(nil),
	}
	if err := b.run(ctx); err != nil {
		return fmt.Errorf("bot run error: %w", err)
	}
	return nil
}

func (b *Bot) run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg
	b.joinVoice = func(guildID, channelID string) error {
		// Mute=false, deaf=true: the bot never consumes incoming audio.
		return dg.ChannelVoiceJoinManual(guildID, channelID, false, true)
	}
	b.dropVoice = func(guildID string) error {
		return dg.ChannelVoiceJoinManual(guildID, "", false, false)
	}

	// The audio node wants our user ID before the gateway is up; a plain
	// REST lookup works with just the token.
	me, err := dg.User("@me")
	if err != nil {
		return fmt.Errorf("failed to fetch bot user: %w", err)
	}

	b.node = audionode.NewClient(audionode.Config{
		Host:         b.cfg.AudioNodeHost,
		Port:         b.cfg.AudioNodePort,
		Password:     b.cfg.AudioNodePassword,
		Secure:       b.cfg.AudioNodeSecure,
		BotUserID:    me.ID,
		VoiceTimeout: b.cfg.VoiceJoinTimeout,
	}, &nodeRelay{bot: b})
	b.provider = youtube.NewProvider(b.node)
	b.registry = player.NewRegistry(b.node, b.provider)
	b.router = player.NewRouter(b.registry, b.node, &stateOccupancy{dg: dg}, &gatewayVoice{dg: dg}, me.ID)

	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onVoiceStateUpdate)
	dg.AddHandler(b.onVoiceServerUpdate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	if err := b.node.Connect(); err != nil {
		return fmt.Errorf("failed to reach audio node: %w", err)
	}
	defer b.node.Close()

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	b.shutdownPlayers()
	return nil
}

func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMembers
}

// onReady is called when the gateway session is established.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	botInfo, err := s.User("@me")
	if err != nil {
		log.Println("[WARN] Error retrieving bot user:", err)
		return
	}

	b.registerMusicCommands()

	for _, g := range r.Guilds {
		if b.cfg.InitSlashCommands {
			if err := b.registerCommands(g.ID); err != nil {
				log.Println("[ERR] Error registering slash commands for guild", g.ID, ":", err)
			}
		} else {
			log.Println("[INFO] Registering slash commands skipped")
		}
	}

	log.Printf("[INFO] ✅ Discord bot %v is running.", botInfo.Username)
}

// onGuildCreate is called when the bot joins a guild.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)

	b.registerMusicCommands()

	if err := b.registerCommands(g.Guild.ID); err != nil {
		log.Printf("[ERR] Failed to register commands for new guild %s: %v", g.Guild.ID, err)
	}
}

// registerMusicCommands registers the music commands once. They carry the bot
// instance, so they cannot self-register from an init like the core ones.
func (b *Bot) registerMusicCommands() {
	b.registerMusicOnce.Do(func() {
		core.RegisterCommand(music.All(b)...)
	})
}

// onInteractionCreate dispatches slash and component interactions.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		cmdName := i.ApplicationCommandData().Name

		cmd, ok := core.GetCommand(cmdName)
		if !ok {
			log.Printf("[WARN] Unknown command: %s", cmdName)
			return
		}

		ctx := &core.SlashInteractionContext{
			Session: s,
			Event:   i,
			Storage: b.storage,
		}
		if err := cmd.Run(ctx); err != nil {
			log.Println("[ERR] Error running slash command:", err)
			core.RespondEmbedEphemeral(s, i, &discordgo.MessageEmbed{
				Description: fmt.Sprintf("Error running command: %v", err),
			})
		}

	case discordgo.InteractionApplicationCommandAutocomplete:
		cmdName := i.ApplicationCommandData().Name

		cmd, ok := core.GetCommand(cmdName)
		if !ok {
			return
		}
		handler, ok := cmd.(core.AutocompleteHandler)
		if !ok {
			return
		}
		ctx := &core.SlashInteractionContext{
			Session: s,
			Event:   i,
			Storage: b.storage,
		}
		if err := handler.Autocomplete(ctx); err != nil {
			log.Printf("[WARN] Autocomplete failed for %s: %v", cmdName, err)
		}

	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID

		for _, cmd := range core.AllCommands() {
			if !componentBelongsTo(customID, cmd.Name()) {
				continue
			}
			handler, ok := cmd.(core.ComponentInteractionHandler)
			if !ok {
				log.Printf("[WARN] Command %s has no component handler", cmd.Name())
				return
			}
			ctx := &core.ComponentInteractionContext{
				Session: s,
				Event:   i,
				Storage: b.storage,
			}
			if err := handler.Component(ctx); err != nil {
				log.Printf("[ERR] Error running component %s: %v", cmd.Name(), err)
				core.RespondEmbedEphemeral(s, i, &discordgo.MessageEmbed{
					Description: fmt.Sprintf("Error running component: %v", err),
				})
			}
			return
		}
		log.Printf("[WARN] No matching component for customID: %s", customID)
	}
}

func componentBelongsTo(customID, name string) bool {
	if customID == name {
		return true
	}
	if len(customID) > len(name) {
		sep := customID[len(name)]
		return customID[:len(name)] == name && (sep == ':' || sep == '_')
	}
	return false
}

// shutdownPlayers tears down every live player so the node and the gateway do
// not keep orphaned voice sessions.
func (b *Bot) shutdownPlayers() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, guildID := range b.registry.GuildIDs() {
		if err := b.Leave(ctx, guildID); err != nil {
			log.Printf("[WARN] Failed to leave guild %s on shutdown: %v", guildID, err)
		}
	}
}
