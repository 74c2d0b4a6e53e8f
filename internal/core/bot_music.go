// /internal/core/bot_music.go
package core

import (
	"context"

	"tunekeeper/internal/audionode"
	"tunekeeper/internal/player"
)

// BotMusic is what music commands see of the running bot: voice membership,
// per-guild players, and query resolution. Implemented by the discord package.
type BotMusic interface {
	Join(ctx context.Context, guildID, voiceChannelID, textChannelID string) (*player.Player, error)
	Leave(ctx context.Context, guildID string) error
	Player(guildID string) *player.Player
	ResolveQuery(ctx context.Context, query, requester string) (*audionode.LoadResult, error)
	Search(ctx context.Context, query string) ([]player.Track, error)
	FindUserVoiceState(guildID, userID string) (*VoiceState, error)
	Position(guildID string) int64
}

type VoiceState struct {
	ChannelID string
	UserID    string
}
