package player

import (
	"context"
	"sync"
	"testing"
)

type fakeRelay struct {
	mu      sync.Mutex
	servers []VoiceServerEvent
	states  []VoiceState
}

func (r *fakeRelay) HandleVoiceServerUpdate(guildID, endpoint, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.servers = append(r.servers, VoiceServerEvent{GuildID: guildID, Endpoint: endpoint, Token: token})
}

func (r *fakeRelay) HandleVoiceStateUpdate(guildID, sessionID, channelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, VoiceState{GuildID: guildID, SessionID: sessionID, ChannelID: channelID})
}

type fakeOccupancy struct {
	humans int
}

func (o *fakeOccupancy) HumanCount(_, _ string) int { return o.humans }

type fakeGateway struct {
	disconnects []string
}

func (g *fakeGateway) Disconnect(_ context.Context, guildID string) error {
	g.disconnects = append(g.disconnects, guildID)
	return nil
}

const botID = "bot-user"

func newTestRouter(humans int) (*Router, *Registry, *fakeRelay, *fakeGateway, *fakeNode) {
	node := &fakeNode{}
	reg := NewRegistry(node, nil)
	relay := &fakeRelay{}
	gw := &fakeGateway{}
	r := NewRouter(reg, relay, &fakeOccupancy{humans: humans}, gw, botID)
	return r, reg, relay, gw, node
}

func playingPlayer(t *testing.T, reg *Registry, guildID string) *Player {
	t.Helper()
	p := reg.GetOrCreate(guildID)
	p.SetChannels("vc-1", "tc-1")
	if _, err := p.Play(context.Background(), []Track{track("t1")}, EnqueueOptions{}); err != nil {
		t.Fatalf("Play err = %v", err)
	}
	return p
}

func TestRouterRelaysVoiceServerUpdate(t *testing.T) {
	r, _, relay, _, _ := newTestRouter(1)

	r.OnVoiceServerUpdate(VoiceServerEvent{GuildID: "g1", Endpoint: "ep", Token: "tok"})

	if len(relay.servers) != 1 || relay.servers[0].Endpoint != "ep" || relay.servers[0].Token != "tok" {
		t.Fatalf("relayed servers = %v", relay.servers)
	}
}

func TestRouterRelaysOwnVoiceState(t *testing.T) {
	r, reg, relay, _, _ := newTestRouter(1)
	reg.GetOrCreate("g1")

	r.OnVoiceStateUpdate(context.Background(), VoiceStateEvent{
		State: VoiceState{GuildID: "g1", UserID: botID, ChannelID: "vc-1", SessionID: "sess"},
	})

	if len(relay.states) != 1 || relay.states[0].SessionID != "sess" {
		t.Fatalf("relayed states = %v", relay.states)
	}
	if reg.Get("g1").VoiceChannelID() != "vc-1" {
		t.Fatal("bot voice channel not recorded")
	}
}

func TestRouterForcedDisconnectEvicts(t *testing.T) {
	r, reg, _, gw, _ := newTestRouter(1)
	playingPlayer(t, reg, "g1")

	r.OnVoiceStateUpdate(context.Background(), VoiceStateEvent{
		State: VoiceState{GuildID: "g1", UserID: botID, ChannelID: ""},
	})

	if reg.Get("g1") != nil {
		t.Fatal("player not evicted after forced disconnect")
	}
	// Gateway already dropped the session, no disconnect call needed.
	if len(gw.disconnects) != 0 {
		t.Fatalf("disconnects = %v, want none", gw.disconnects)
	}
}

func TestRouterLeavesWhenAlone(t *testing.T) {
	r, reg, _, gw, _ := newTestRouter(0)
	playingPlayer(t, reg, "g1")

	r.OnVoiceStateUpdate(context.Background(), VoiceStateEvent{
		State: VoiceState{GuildID: "g1", UserID: "human-1", ChannelID: ""},
		Prev:  &VoiceState{GuildID: "g1", UserID: "human-1", ChannelID: "vc-1"},
	})

	if reg.Get("g1") != nil {
		t.Fatal("player not evicted when left alone")
	}
	if len(gw.disconnects) != 1 || gw.disconnects[0] != "g1" {
		t.Fatalf("disconnects = %v, want [g1]", gw.disconnects)
	}
}

func TestRouterDeafenPausesWithOneHuman(t *testing.T) {
	r, reg, _, _, _ := newTestRouter(1)
	p := playingPlayer(t, reg, "g1")

	deafen := VoiceStateEvent{
		State: VoiceState{GuildID: "g1", UserID: "human-1", ChannelID: "vc-1", SelfDeaf: true},
		Prev:  &VoiceState{GuildID: "g1", UserID: "human-1", ChannelID: "vc-1", SelfDeaf: false},
	}
	if err := r.OnVoiceStateUpdate(context.Background(), deafen); err != nil {
		t.Fatalf("OnVoiceStateUpdate err = %v", err)
	}
	if !p.Paused() {
		t.Fatal("lone human deafened but player not paused")
	}

	undeafen := VoiceStateEvent{
		State: VoiceState{GuildID: "g1", UserID: "human-1", ChannelID: "vc-1", SelfDeaf: false},
		Prev:  &VoiceState{GuildID: "g1", UserID: "human-1", ChannelID: "vc-1", SelfDeaf: true},
	}
	if err := r.OnVoiceStateUpdate(context.Background(), undeafen); err != nil {
		t.Fatalf("OnVoiceStateUpdate err = %v", err)
	}
	if p.Paused() {
		t.Fatal("lone human undeafened but player still paused")
	}
}

func TestRouterDeafenIgnoredWithTwoHumans(t *testing.T) {
	r, reg, _, _, _ := newTestRouter(2)
	p := playingPlayer(t, reg, "g1")

	r.OnVoiceStateUpdate(context.Background(), VoiceStateEvent{
		State: VoiceState{GuildID: "g1", UserID: "human-1", ChannelID: "vc-1", SelfDeaf: true},
		Prev:  &VoiceState{GuildID: "g1", UserID: "human-1", ChannelID: "vc-1", SelfDeaf: false},
	})

	if p.Paused() {
		t.Fatal("deafen with two humans present paused the player")
	}
}

func TestRouterIgnoresOtherChannels(t *testing.T) {
	r, reg, _, gw, _ := newTestRouter(0)
	p := playingPlayer(t, reg, "g1")

	// Event entirely in another channel: no leave even though count is 0.
	r.OnVoiceStateUpdate(context.Background(), VoiceStateEvent{
		State: VoiceState{GuildID: "g1", UserID: "human-1", ChannelID: "vc-other"},
		Prev:  &VoiceState{GuildID: "g1", UserID: "human-1", ChannelID: "vc-other"},
	})

	if reg.Get("g1") != p {
		t.Fatal("event in unrelated channel evicted the player")
	}
	if len(gw.disconnects) != 0 {
		t.Fatalf("disconnects = %v, want none", gw.disconnects)
	}
}
