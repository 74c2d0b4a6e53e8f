// Package audionode implements the websocket client for the audio node that
// performs the actual voice playback. The bot sends playback ops over the
// socket and receives track lifecycle events back.
package audionode

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tunekeeper/internal/player"
)

const (
	clientName       = "tunekeeper/1.0"
	handshakeTimeout = 10 * time.Second
	reconnectDelay   = 5 * time.Second
)

// ErrNodeUnavailable is returned for any op attempted while the websocket
// session is down.
var ErrNodeUnavailable = errors.New("audio node not connected")

// Config holds the connection settings for one audio node.
type Config struct {
	Host         string
	Port         int
	Password     string
	Secure       bool
	BotUserID    string
	VoiceTimeout time.Duration
}

// EventHandler receives track lifecycle events from the node. Calls arrive on
// the read loop goroutine; handlers must not block for long.
//
// OnNodeDisconnect fires once per unexpected connection loss, after the
// client has dropped its per-guild session state. A restarted node knows
// nothing about old players, so whatever was playing is gone and the handler
// is expected to tear the affected players down. A deliberate Close does not
// fire it.
type EventHandler interface {
	OnTrackStart(guildID, encoded string)
	OnTrackEnd(guildID, encoded string, reason player.EndReason)
	OnTrackException(guildID, encoded, message string)
	OnNodeDisconnect()
}

// Client is a single-node audio client. It implements player.AudioNode for
// playback ops and player.VoiceRelay for the gateway voice handshake.
type Client struct {
	cfg     Config
	handler EventHandler

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	closing   bool
	positions map[string]int64

	voiceMu sync.Mutex
	voice   map[string]*voiceSession

	httpc *http.Client
}

// NewClient builds a disconnected client. Call Connect before sending ops.
func NewClient(cfg Config, handler EventHandler) *Client {
	if cfg.VoiceTimeout <= 0 {
		cfg.VoiceTimeout = 10 * time.Second
	}
	return &Client{
		cfg:       cfg,
		handler:   handler,
		positions: make(map[string]int64),
		voice:     make(map[string]*voiceSession),
		httpc:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) wsURL() string {
	scheme := "ws"
	if c.cfg.Secure {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s:%d/v4/websocket", scheme, c.cfg.Host, c.cfg.Port)
}

func (c *Client) restURL(path string) string {
	scheme := "http"
	if c.cfg.Secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d%s", scheme, c.cfg.Host, c.cfg.Port, path)
}

// Connect dials the node websocket. The first dial failure is returned to the
// caller; once connected, drops are retried in the background until Close.
func (c *Client) Connect() error {
	conn, err := c.dial()
	if err != nil {
		return fmt.Errorf("audio node dial: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	log.Printf("[INFO] Connected to audio node %s:%d", c.cfg.Host, c.cfg.Port)
	go c.readLoop(conn)
	return nil
}

func (c *Client) dial() (*websocket.Conn, error) {
	headers := http.Header{}
	headers.Set("Authorization", c.cfg.Password)
	headers.Set("User-Id", c.cfg.BotUserID)
	headers.Set("Client-Name", clientName)

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.Dial(c.wsURL(), headers)
	return conn, err
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			c.handleDisconnect(err)
			return
		}
		c.dispatch(raw)
	}
}

// handleDisconnect marks the session down and keeps redialing until the node
// comes back or the client is closed.
func (c *Client) handleDisconnect(cause error) {
	c.mu.Lock()
	closing := c.closing
	c.connected = false
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	if closing {
		return
	}
	log.Printf("[WARN] Audio node connection lost: %v, reconnecting", cause)

	// Positions and voice handshakes belong to the dead session. The
	// handler sees the loss only after they are gone, so its cleanup and
	// any rejoin start from a clean slate.
	c.resetSessions()
	if c.handler != nil {
		c.handler.OnNodeDisconnect()
	}

	for {
		time.Sleep(reconnectDelay)

		c.mu.Lock()
		if c.closing {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		conn, err := c.dial()
		if err != nil {
			log.Printf("[WARN] Audio node reconnect failed: %v", err)
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.connected = true
		c.mu.Unlock()

		log.Printf("[INFO] Reconnected to audio node %s:%d", c.cfg.Host, c.cfg.Port)
		go c.readLoop(conn)
		return
	}
}

// resetSessions drops all per-guild state tied to a lost connection.
func (c *Client) resetSessions() {
	c.mu.Lock()
	c.positions = make(map[string]int64)
	c.mu.Unlock()

	c.voiceMu.Lock()
	c.voice = make(map[string]*voiceSession)
	c.voiceMu.Unlock()
}

// Connected reports whether the websocket session is up.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Close tears the websocket down and stops the reconnect loop.
func (c *Client) Close() {
	c.mu.Lock()
	c.closing = true
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connected = false
	c.mu.Unlock()
}

func (c *Client) sendOp(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected || c.conn == nil {
		return ErrNodeUnavailable
	}
	return c.conn.WriteJSON(v)
}

// Play tells the node to start the encoded track, optionally from an offset.
func (c *Client) Play(ctx context.Context, guildID, encoded string, startMs int64) error {
	op := map[string]any{
		"op":      "play",
		"guildId": guildID,
		"track":   encoded,
	}
	if startMs > 0 {
		op["startTime"] = startMs
	}
	return c.sendOp(ctx, op)
}

// Stop halts playback in the guild. The node answers with a TrackEndEvent
// carrying reason "stopped".
func (c *Client) Stop(ctx context.Context, guildID string) error {
	return c.sendOp(ctx, map[string]any{
		"op":      "stop",
		"guildId": guildID,
	})
}

// Seek moves the playing track to the given position.
func (c *Client) Seek(ctx context.Context, guildID string, positionMs int64) error {
	return c.sendOp(ctx, map[string]any{
		"op":       "seek",
		"guildId":  guildID,
		"position": positionMs,
	})
}

// SetPause pauses or resumes playback without dropping the track.
func (c *Client) SetPause(ctx context.Context, guildID string, paused bool) error {
	return c.sendOp(ctx, map[string]any{
		"op":      "pause",
		"guildId": guildID,
		"pause":   paused,
	})
}

// Destroy drops the node-side player and all local session state for a guild.
func (c *Client) Destroy(ctx context.Context, guildID string) error {
	c.mu.Lock()
	delete(c.positions, guildID)
	c.mu.Unlock()

	c.voiceMu.Lock()
	delete(c.voice, guildID)
	c.voiceMu.Unlock()

	return c.sendOp(ctx, map[string]any{
		"op":      "destroy",
		"guildId": guildID,
	})
}

// Position returns the last playback position the node reported for the
// guild, in milliseconds.
func (c *Client) Position(guildID string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.positions[guildID]
}
