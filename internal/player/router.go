package player

import (
	"context"
	"log"
)

// VoiceState is the slice of a gateway voice state the router cares about.
type VoiceState struct {
	GuildID   string
	UserID    string
	ChannelID string // empty means the user left voice
	SessionID string
	SelfDeaf  bool
}

// VoiceStateEvent pairs a voice state with the previous one, when known.
type VoiceStateEvent struct {
	State VoiceState
	Prev  *VoiceState
}

// VoiceServerEvent carries the voice server handshake data from the gateway.
type VoiceServerEvent struct {
	GuildID  string
	Endpoint string
	Token    string
}

// VoiceRelay is the audio node's side of the gateway handshake. Both updates
// are pure relays; the node combines them into its voice session.
type VoiceRelay interface {
	HandleVoiceServerUpdate(guildID, endpoint, token string)
	HandleVoiceStateUpdate(guildID, sessionID, channelID string)
}

// OccupancyView answers who is in a voice channel. Implemented by the
// gateway glue over its state cache.
type OccupancyView interface {
	// HumanCount returns how many non-bot users occupy the channel.
	HumanCount(guildID, channelID string) int
}

// GatewayVoice disconnects the bot from a guild's voice, the gateway-side
// half of leaving.
type GatewayVoice interface {
	Disconnect(ctx context.Context, guildID string) error
}

// Router bridges gateway voice events to the audio node handshake and to
// player transitions: auto-pause on deafen, auto-leave when alone, teardown
// on forced disconnect.
type Router struct {
	registry  *Registry
	relay     VoiceRelay
	occupancy OccupancyView
	gateway   GatewayVoice
	botUserID string
}

// NewRouter wires a router to its collaborators. botUserID distinguishes the
// bot's own voice state from everyone else's.
func NewRouter(registry *Registry, relay VoiceRelay, occupancy OccupancyView, gateway GatewayVoice, botUserID string) *Router {
	return &Router{
		registry:  registry,
		relay:     relay,
		occupancy: occupancy,
		gateway:   gateway,
		botUserID: botUserID,
	}
}

// OnVoiceServerUpdate forwards endpoint and token to the audio node unchanged.
func (r *Router) OnVoiceServerUpdate(ev VoiceServerEvent) {
	r.relay.HandleVoiceServerUpdate(ev.GuildID, ev.Endpoint, ev.Token)
}

// OnVoiceStateUpdate routes a gateway voice state change. Events for the
// bot's own user feed the node handshake; events for other users drive the
// alone/deafen business rules. Events not touching the bot's channel are
// ignored.
func (r *Router) OnVoiceStateUpdate(ctx context.Context, ev VoiceStateEvent) error {
	guildID := ev.State.GuildID

	if ev.State.UserID == r.botUserID {
		if ev.State.ChannelID == "" {
			// Forced disconnect (kicked from voice, channel deleted).
			return r.evict(ctx, guildID, false)
		}
		r.relay.HandleVoiceStateUpdate(guildID, ev.State.SessionID, ev.State.ChannelID)
		if p := r.registry.Get(guildID); p != nil {
			p.SetChannels(ev.State.ChannelID, "")
		}
		return nil
	}

	p := r.registry.Get(guildID)
	if p == nil {
		return nil
	}
	botChannel := p.VoiceChannelID()
	if botChannel == "" {
		return nil
	}
	if ev.State.ChannelID != botChannel && (ev.Prev == nil || ev.Prev.ChannelID != botChannel) {
		return nil
	}

	humans := r.occupancy.HumanCount(guildID, botChannel)
	if humans == 0 {
		log.Printf("[INFO] Alone in voice on guild %s, leaving", guildID)
		return r.evict(ctx, guildID, true)
	}
	if humans != 1 || ev.Prev == nil {
		// Deafen-follow only applies with exactly one human listener;
		// one person deafening in a group should not pause for everyone.
		return nil
	}

	if !ev.Prev.SelfDeaf && ev.State.SelfDeaf {
		if p.IsPlaying() && !p.Paused() {
			return p.Pause(ctx)
		}
		return nil
	}
	if ev.Prev.SelfDeaf && !ev.State.SelfDeaf {
		if p.Paused() {
			return p.Resume(ctx)
		}
	}
	return nil
}

// evict tears the guild's player down and removes it from the registry.
// disconnect is false when the gateway already dropped the voice session.
func (r *Router) evict(ctx context.Context, guildID string, disconnect bool) error {
	p := r.registry.Get(guildID)
	if p == nil {
		return nil
	}
	if err := p.Leave(ctx); err != nil {
		log.Printf("[WARN] Player teardown failed on guild %s: %v", guildID, err)
	}
	r.registry.Remove(guildID)

	if !disconnect {
		return nil
	}
	return r.gateway.Disconnect(ctx, guildID)
}
