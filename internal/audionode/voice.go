package audionode

import (
	"context"
	"log"
	"time"

	"tunekeeper/internal/player"
)

// voiceSession collects the two halves of the gateway voice handshake for a
// guild. The forward to the node happens once both halves are present.
type voiceSession struct {
	sessionID string
	channelID string
	endpoint  string
	token     string
	forwarded bool
	ready     chan struct{}
}

func newVoiceSession() *voiceSession {
	return &voiceSession{ready: make(chan struct{})}
}

func (c *Client) voiceSessionFor(guildID string) *voiceSession {
	if vs, ok := c.voice[guildID]; ok {
		return vs
	}
	vs := newVoiceSession()
	c.voice[guildID] = vs
	return vs
}

// HandleVoiceServerUpdate records the server half of the handshake: the voice
// endpoint and token Discord assigned for the guild.
func (c *Client) HandleVoiceServerUpdate(guildID, endpoint, token string) {
	c.voiceMu.Lock()
	defer c.voiceMu.Unlock()

	vs := c.voiceSessionFor(guildID)
	vs.endpoint = endpoint
	vs.token = token
	c.forwardVoiceLocked(guildID, vs)
}

// HandleVoiceStateUpdate records the state half of the handshake: the bot's
// own gateway session ID and target channel.
func (c *Client) HandleVoiceStateUpdate(guildID, sessionID, channelID string) {
	c.voiceMu.Lock()
	defer c.voiceMu.Unlock()

	vs := c.voiceSessionFor(guildID)
	vs.sessionID = sessionID
	vs.channelID = channelID
	c.forwardVoiceLocked(guildID, vs)
}

func (c *Client) forwardVoiceLocked(guildID string, vs *voiceSession) {
	if vs.forwarded || vs.sessionID == "" || vs.endpoint == "" || vs.token == "" {
		return
	}

	err := c.sendOp(context.Background(), map[string]any{
		"op":        "voiceUpdate",
		"guildId":   guildID,
		"sessionId": vs.sessionID,
		"event": map[string]any{
			"token":    vs.token,
			"guild_id": guildID,
			"endpoint": vs.endpoint,
		},
	})
	if err != nil {
		log.Printf("[WARN] Voice update forward failed on guild %s: %v", guildID, err)
		return
	}

	vs.forwarded = true
	close(vs.ready)
}

// AwaitSession blocks until the guild's voice handshake has reached the node,
// the context ends, or the configured voice timeout fires.
func (c *Client) AwaitSession(ctx context.Context, guildID string) error {
	c.voiceMu.Lock()
	vs := c.voiceSessionFor(guildID)
	ready := vs.ready
	done := vs.forwarded
	c.voiceMu.Unlock()

	if done {
		return nil
	}

	timer := time.NewTimer(c.cfg.VoiceTimeout)
	defer timer.Stop()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return player.ErrVoiceJoinTimeout
	}
}
