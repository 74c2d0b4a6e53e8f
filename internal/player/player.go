package player

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// LoopMode controls what happens when a track finishes.
type LoopMode int

const (
	LoopNone  LoopMode = iota // advance normally
	LoopTrack                 // replay the current track
	LoopQueue                 // cycle finished tracks back to the queue tail
)

func (m LoopMode) String() string {
	switch m {
	case LoopTrack:
		return "track"
	case LoopQueue:
		return "queue"
	default:
		return "off"
	}
}

// AudioNode is the capability the player needs from the audio backend. The
// node does the actual decoding and streaming; the player only issues
// commands. Implementations may block on network I/O, so every call takes a
// context.
type AudioNode interface {
	Play(ctx context.Context, guildID, encoded string, startMs int64) error
	Stop(ctx context.Context, guildID string) error
	Seek(ctx context.Context, guildID string, positionMs int64) error
	SetPause(ctx context.Context, guildID string, paused bool) error
}

// Recommender supplies related tracks for autoplay, seeded by the track that
// just finished.
type Recommender interface {
	Related(ctx context.Context, seed Track, limit int) ([]Track, error)
}

// EndReason says why the audio node reported a track as ended.
type EndReason string

const (
	EndFinished   EndReason = "finished"
	EndLoadFailed EndReason = "load_failed"
	EndStopped    EndReason = "stopped"
	EndReplaced   EndReason = "replaced"
	EndCleanup    EndReason = "cleanup"
)

// ShouldAdvance reports whether this end reason moves the queue forward.
// Stopped/replaced ends were caused by our own commands and the follow-up
// action has already been decided.
func (r EndReason) ShouldAdvance() bool {
	return r == EndFinished || r == EndLoadFailed
}

// EnqueueOptions tweaks how Play inserts tracks.
type EnqueueOptions struct {
	Position        Position // head ("play next") or tail
	ShufflePlaylist bool     // shuffle multi-track input before inserting
	LoopQueue       bool     // enable queue loop as part of the add
}

// advanceCause says why the player is picking a new track. A TRACK loop only
// replays on a natural end; a QUEUE loop never recycles a track that just
// failed, otherwise a broken track would cycle to the tail and fail forever.
type advanceCause int

const (
	advanceNatural advanceCause = iota // track finished on its own
	advanceManual                      // initial start or user skip
	advanceFault                       // playback failure
)

// Player is the per-guild playback state machine. All mutation goes through
// the player mutex, so a skip racing a track-end event cannot interleave;
// different guilds never share a lock.
type Player struct {
	mu sync.Mutex

	guildID        string
	voiceChannelID string
	textChannelID  string

	current     *Track
	queue       Queue
	autoplayBuf AutoplayBuffer

	loop     LoopMode
	shuffle  bool
	autoplay bool
	paused   bool

	node        AudioNode
	recommender Recommender
}

// New creates an idle player for a guild.
func New(guildID string, node AudioNode, recommender Recommender) *Player {
	return &Player{
		guildID:     guildID,
		node:        node,
		recommender: recommender,
	}
}

// Play inserts tracks into the queue and, if the player is idle, starts
// playback with the first pick. It reports whether playback was started by
// this call; a play command only goes to the node when something actually
// starts, never on a mere enqueue.
func (p *Player) Play(ctx context.Context, tracks []Track, opts EnqueueOptions) (bool, error) {
	if len(tracks) == 0 {
		return false, ErrEmptyQueue
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if opts.ShufflePlaylist && len(tracks) > 1 {
		shuffled := make([]Track, len(tracks))
		copy(shuffled, tracks)
		shuffleTracks(shuffled)
		tracks = shuffled
	}

	if opts.Position == PositionHead {
		// Insert in order so tracks[0] plays first.
		for i := len(tracks) - 1; i >= 0; i-- {
			p.queue.Enqueue(tracks[i], PositionHead)
		}
	} else {
		for _, t := range tracks {
			p.queue.Enqueue(t, PositionTail)
		}
	}

	// A track must never sit in both the queue and the autoplay buffer.
	for _, t := range tracks {
		p.autoplayBuf.RemoveByID(t.ID)
	}

	if opts.LoopQueue {
		p.loop = LoopQueue
	}

	if p.current != nil {
		return false, nil
	}
	if err := p.advanceLocked(ctx, advanceManual); err != nil {
		return false, err
	}
	return true, nil
}

// Skip abandons the current track and advances, ignoring a TRACK loop for
// this one decision: a manual skip must never hand back the same track.
// Returns the skipped track for confirmation messaging.
func (p *Player) Skip(ctx context.Context) (Track, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return Track{}, ErrNothingPlaying
	}
	skipped := *p.current
	if err := p.advanceLocked(ctx, advanceManual); err != nil {
		return skipped, err
	}
	return skipped, nil
}

// Stop tears playback down: queue and autoplay buffer cleared, loop/shuffle/
// autoplay back to defaults, stop command to the node. Safe to call twice;
// the second call only re-confirms the idle state.
func (p *Player) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopLocked(ctx)
}

func (p *Player) stopLocked(ctx context.Context) error {
	wasPlaying := p.current != nil

	p.queue.Clear()
	p.autoplayBuf.Reset()
	p.loop = LoopNone
	p.shuffle = false
	p.autoplay = false
	p.paused = false
	p.current = nil

	if !wasPlaying {
		return nil
	}
	return p.node.Stop(ctx, p.guildID)
}

// Pause suspends playback without losing position.
func (p *Player) Pause(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return ErrNotPlaying
	}
	if p.paused {
		return ErrAlreadyPaused
	}
	if err := p.node.SetPause(ctx, p.guildID, true); err != nil {
		return err
	}
	p.paused = true
	return nil
}

// Resume continues paused playback.
func (p *Player) Resume(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return ErrNotPlaying
	}
	if !p.paused {
		return ErrNotPaused
	}
	if err := p.node.SetPause(ctx, p.guildID, false); err != nil {
		return err
	}
	p.paused = false
	return nil
}

// Seek moves the playback position, in milliseconds from the track start.
func (p *Player) Seek(ctx context.Context, positionMs int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil || !p.current.Seekable() {
		return ErrNotSeekable
	}
	if positionMs < 0 || positionMs >= p.current.Duration {
		return ErrInvalidPosition
	}
	return p.node.Seek(ctx, p.guildID, positionMs)
}

// SetLoop switches the loop mode.
func (p *Player) SetLoop(mode LoopMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loop = mode
}

// SetShuffle toggles random next-track selection. It only changes which
// queued track is chosen next; the current track is untouched.
func (p *Player) SetShuffle(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shuffle = enabled
}

// SetAutoplay toggles automatic continuation from related tracks. Enabling
// it refills the buffer immediately, seeded by the current track, so the
// queue-end transition has candidates ready. Disabling clears the buffer.
func (p *Player) SetAutoplay(ctx context.Context, enabled bool, textChannelID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.autoplay = enabled
	if textChannelID != "" {
		p.textChannelID = textChannelID
	}
	if !enabled {
		p.autoplayBuf.Clear()
		return nil
	}
	if p.current != nil && p.recommender != nil {
		return p.refillLocked(ctx, *p.current)
	}
	return nil
}

// RemoveFromQueue removes the queued track at index, 0 being "up next".
func (p *Player) RemoveFromQueue(index int) (Track, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.RemoveAt(index)
}

// ShuffleQueue permutes the queued tracks once, independent of the shuffle
// flag used for next-track selection.
func (p *Player) ShuffleQueue() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue.Shuffle()
}

// Leave is Stop plus forgetting the voice and text channels. The caller is
// responsible for the gateway disconnect and for evicting the registry entry.
func (p *Player) Leave(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.stopLocked(ctx)
	p.voiceChannelID = ""
	p.textChannelID = ""
	return err
}

// HandleTrackEnd advances after the node reports a track end. Reasons caused
// by our own stop/replace commands are ignored, their follow-up was already
// decided when the command was issued.
func (p *Player) HandleTrackEnd(ctx context.Context, reason EndReason) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil || !reason.ShouldAdvance() {
		return nil
	}
	cause := advanceNatural
	if reason == EndLoadFailed {
		cause = advanceFault
	}
	return p.advanceLocked(ctx, cause)
}

// HandleTrackException skips past a track the node failed to play. The
// advance deliberately bypasses both loop modes so a broken track cannot
// loop its own failure.
func (p *Player) HandleTrackException(ctx context.Context, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil
	}
	log.Printf("[WARN] Track exception on guild %s (%s): %s", p.guildID, p.current.Title, message)
	return p.advanceLocked(ctx, advanceFault)
}

// advanceLocked decides what plays next. Only a natural end may satisfy a
// TRACK loop; a fault also keeps the failed track out of a QUEUE loop.
//
// Priority: TRACK loop replay, QUEUE loop re-append, queue pop, autoplay
// buffer, autoplay refill (one retry), idle.
func (p *Player) advanceLocked(ctx context.Context, cause advanceCause) error {
	if cause == advanceNatural && p.loop == LoopTrack && p.current != nil {
		return p.startLocked(ctx, *p.current)
	}

	if cause != advanceFault && p.loop == LoopQueue && p.current != nil {
		p.queue.Enqueue(*p.current, PositionTail)
	}

	if next, err := p.queue.PopNext(p.shuffle); err == nil {
		return p.startLocked(ctx, next)
	}

	if p.autoplay {
		if next, err := p.autoplayBuf.PopRandom(); err == nil {
			next.Requester = ""
			return p.startLocked(ctx, next)
		}
		if p.current != nil && p.recommender != nil {
			if err := p.refillLocked(ctx, *p.current); err != nil {
				log.Printf("[WARN] Autoplay refill failed on guild %s: %v", p.guildID, err)
			} else if next, err := p.autoplayBuf.PopRandom(); err == nil {
				next.Requester = ""
				return p.startLocked(ctx, next)
			}
		}
	}

	return p.idleLocked(ctx)
}

func (p *Player) startLocked(ctx context.Context, t Track) error {
	p.current = &t
	p.paused = false
	p.autoplayBuf.MarkPlayed(t.ID)

	if err := p.node.Play(ctx, p.guildID, t.Encoded, 0); err != nil {
		return fmt.Errorf("play command failed: %w", err)
	}
	return nil
}

func (p *Player) idleLocked(ctx context.Context) error {
	p.current = nil
	p.paused = false
	return p.node.Stop(ctx, p.guildID)
}

// refillLocked asks the recommender for related tracks. One transient
// failure is retried; a second failure surfaces so the caller can fall back
// to idling instead of hanging.
func (p *Player) refillLocked(ctx context.Context, seed Track) error {
	related, err := p.recommender.Related(ctx, seed, autoplayRefillLimit)
	if err != nil {
		related, err = p.recommender.Related(ctx, seed, autoplayRefillLimit)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
	}

	candidates := related[:0:0]
	for _, t := range related {
		if p.queue.ContainsID(t.ID) {
			continue
		}
		candidates = append(candidates, t)
	}
	p.autoplayBuf.Refill(candidates)
	return nil
}

// autoplayRefillLimit caps how many related tracks a single refill requests.
const autoplayRefillLimit = 3

// --- read-only accessors ---

// GuildID returns the guild this player belongs to.
func (p *Player) GuildID() string { return p.guildID }

// Current returns a copy of the playing track, or nil when idle.
func (p *Player) Current() *Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	t := *p.current
	return &t
}

// IsPlaying reports whether a track is loaded (paused still counts).
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}

// Paused reports whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// QueueSnapshot returns a copy of the upcoming tracks in order.
func (p *Player) QueueSnapshot() []Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Snapshot()
}

// QueueLen returns the number of queued tracks.
func (p *Player) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Len()
}

// Loop returns the loop mode.
func (p *Player) Loop() LoopMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loop
}

// Shuffle reports whether random next-track selection is on.
func (p *Player) Shuffle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shuffle
}

// Autoplay reports whether automatic continuation is on.
func (p *Player) Autoplay() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.autoplay
}

// VoiceChannelID returns the connected voice channel, empty when not connected.
func (p *Player) VoiceChannelID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.voiceChannelID
}

// TextChannelID returns the channel now-playing notices go to.
func (p *Player) TextChannelID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.textChannelID
}

// SetChannels records the voice and text channels after a successful join.
func (p *Player) SetChannels(voiceChannelID, textChannelID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.voiceChannelID = voiceChannelID
	if textChannelID != "" {
		p.textChannelID = textChannelID
	}
}
