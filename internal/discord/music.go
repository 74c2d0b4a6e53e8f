package discord

import (
	"context"
	"fmt"
	"log"
	"time"

	"tunekeeper/internal/audionode"
	"tunekeeper/internal/core"
	"tunekeeper/internal/player"
)

const shutdownTimeout = 10 * time.Second

// Join puts the bot into the given voice channel and returns the guild's
// player. Joining is refused while playback runs in a different channel. A
// failed join never leaves a fresh channel-less player in the registry.
func (b *Bot) Join(ctx context.Context, guildID, voiceChannelID, textChannelID string) (*player.Player, error) {
	existing := b.registry.Get(guildID)
	if existing != nil {
		current := existing.VoiceChannelID()
		if current != "" && current != voiceChannelID && existing.IsPlaying() {
			return nil, player.ErrAlreadyInDifferentChannel
		}
		if current == voiceChannelID {
			existing.SetChannels(voiceChannelID, textChannelID)
			return existing, nil
		}
	}

	p := b.registry.GetOrCreate(guildID)

	if err := b.joinVoice(guildID, voiceChannelID); err != nil {
		if existing == nil {
			b.registry.Remove(guildID)
		}
		return nil, fmt.Errorf("failed to join voice channel: %w", err)
	}
	if err := b.node.AwaitSession(ctx, guildID); err != nil {
		if existing == nil {
			b.registry.Remove(guildID)
		}
		// The gateway may be half-joined at this point.
		if dropErr := b.dropVoice(guildID); dropErr != nil {
			log.Printf("[WARN] Failed to drop voice after join failure on guild %s: %v", guildID, dropErr)
		}
		return nil, err
	}

	p.SetChannels(voiceChannelID, textChannelID)
	return p, nil
}

// Leave tears the guild's playback down entirely: player, node session, and
// the gateway voice connection.
func (b *Bot) Leave(ctx context.Context, guildID string) error {
	b.jobs.Stop(idleJobName(guildID))

	p := b.registry.Get(guildID)
	if p != nil {
		if err := p.Leave(ctx); err != nil {
			return err
		}
		b.registry.Remove(guildID)
	}

	if err := b.node.Destroy(ctx, guildID); err != nil {
		return err
	}
	return b.dropVoice(guildID)
}

// Player returns the guild's player, or nil when the bot is idle there.
func (b *Bot) Player(guildID string) *player.Player {
	return b.registry.Get(guildID)
}

// ResolveQuery turns user input into loadable tracks.
func (b *Bot) ResolveQuery(ctx context.Context, query, requester string) (*audionode.LoadResult, error) {
	return b.provider.Resolve(ctx, query, requester)
}

// Search returns search hits for autocomplete pickers.
func (b *Bot) Search(ctx context.Context, query string) ([]player.Track, error) {
	return b.provider.SearchChoices(ctx, query)
}

// FindUserVoiceState finds the voice state of a user.
func (b *Bot) FindUserVoiceState(guildID, userID string) (*core.VoiceState, error) {
	guild, err := b.dg.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving guild: %w", err)
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return &core.VoiceState{
				ChannelID: vs.ChannelID,
				UserID:    vs.UserID,
			}, nil
		}
	}
	return nil, fmt.Errorf("user not in any voice channel")
}

// Position reports the current playback position in milliseconds.
func (b *Bot) Position(guildID string) int64 {
	return b.node.Position(guildID)
}
