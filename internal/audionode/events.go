package audionode

import (
	"encoding/json"
	"log"

	"tunekeeper/internal/player"
)

// inbound is the superset of fields across the node's message types. Which
// fields are populated depends on op and, for events, on type.
type inbound struct {
	Op      string `json:"op"`
	Type    string `json:"type"`
	GuildID string `json:"guildId"`

	// ready
	SessionID string `json:"sessionId"`
	Resumed   bool   `json:"resumed"`

	// playerUpdate
	State *struct {
		Time      int64 `json:"time"`
		Position  int64 `json:"position"`
		Connected bool  `json:"connected"`
	} `json:"state"`

	// event
	Track     string `json:"track"`
	Reason    string `json:"reason"`
	Exception *struct {
		Message  string `json:"message"`
		Severity string `json:"severity"`
	} `json:"exception"`
	Code   int    `json:"code"`
	ByNode bool   `json:"byRemote"`
	Error  string `json:"error"`
}

func (c *Client) dispatch(raw []byte) {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("[WARN] Unreadable audio node message: %v", err)
		return
	}

	switch msg.Op {
	case "ready":
		log.Printf("[INFO] Audio node ready, session %s resumed=%v", msg.SessionID, msg.Resumed)
	case "playerUpdate":
		if msg.State == nil {
			return
		}
		c.mu.Lock()
		c.positions[msg.GuildID] = msg.State.Position
		c.mu.Unlock()
	case "event":
		c.dispatchEvent(msg)
	case "stats":
		// Node load statistics, nothing acts on them.
	}
}

func (c *Client) dispatchEvent(msg inbound) {
	if c.handler == nil {
		return
	}

	switch msg.Type {
	case "TrackStartEvent":
		c.handler.OnTrackStart(msg.GuildID, msg.Track)
	case "TrackEndEvent":
		c.handler.OnTrackEnd(msg.GuildID, msg.Track, parseEndReason(msg.Reason))
	case "TrackExceptionEvent":
		cause := msg.Error
		if msg.Exception != nil {
			cause = msg.Exception.Message
		}
		c.handler.OnTrackException(msg.GuildID, msg.Track, cause)
	case "TrackStuckEvent":
		// A stuck track never ends on its own; treat it like a playback fault.
		c.handler.OnTrackException(msg.GuildID, msg.Track, "track stuck")
	case "WebSocketClosedEvent":
		log.Printf("[WARN] Node voice socket closed on guild %s: code %d %s", msg.GuildID, msg.Code, msg.Reason)
	}
}

// parseEndReason maps the node's wire reason to the player's vocabulary.
// Unknown reasons map to cleanup, which never advances the queue.
func parseEndReason(reason string) player.EndReason {
	switch reason {
	case "finished", "FINISHED":
		return player.EndFinished
	case "loadFailed", "LOAD_FAILED":
		return player.EndLoadFailed
	case "stopped", "STOPPED":
		return player.EndStopped
	case "replaced", "REPLACED":
		return player.EndReplaced
	default:
		return player.EndCleanup
	}
}
