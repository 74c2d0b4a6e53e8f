package player

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
)

// fakeNode records the commands a player issues to the audio backend.
type fakeNode struct {
	mu      sync.Mutex
	plays   []string // encoded handles in issue order
	stops   int
	pauses  []bool
	seeks   []int64
	playErr error
}

func (n *fakeNode) Play(_ context.Context, _ string, encoded string, _ int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.playErr != nil {
		return n.playErr
	}
	n.plays = append(n.plays, encoded)
	return nil
}

func (n *fakeNode) Stop(_ context.Context, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stops++
	return nil
}

func (n *fakeNode) Seek(_ context.Context, _ string, positionMs int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seeks = append(n.seeks, positionMs)
	return nil
}

func (n *fakeNode) SetPause(_ context.Context, _ string, paused bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pauses = append(n.pauses, paused)
	return nil
}

func (n *fakeNode) playCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.plays)
}

func (n *fakeNode) stopCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stops
}

// fakeRecommender hands out canned related tracks and counts calls.
type fakeRecommender struct {
	mu      sync.Mutex
	related []Track
	err     error
	failN   int // fail this many calls before succeeding
	calls   int
}

func (r *fakeRecommender) Related(_ context.Context, _ Track, _ int) ([]Track, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failN > 0 {
		r.failN--
		return nil, errors.New("provider down")
	}
	if r.err != nil {
		return nil, r.err
	}
	return r.related, nil
}

func newTestPlayer(rec Recommender) (*Player, *fakeNode) {
	node := &fakeNode{}
	return New("guild-1", node, rec), node
}

func TestPlayStartsWhenIdle(t *testing.T) {
	p, node := newTestPlayer(nil)
	ctx := context.Background()

	started, err := p.Play(ctx, []Track{track("t1"), track("t2"), track("t3")}, EnqueueOptions{})
	if err != nil {
		t.Fatalf("Play err = %v", err)
	}
	if !started {
		t.Fatal("Play on idle player did not start playback")
	}

	cur := p.Current()
	if cur == nil || cur.ID != "t1" {
		t.Fatalf("current = %v, want t1", cur)
	}
	rest := p.QueueSnapshot()
	if len(rest) != 2 || rest[0].ID != "t2" || rest[1].ID != "t3" {
		t.Fatalf("queue = %v, want [t2 t3]", rest)
	}
	if node.playCount() != 1 {
		t.Fatalf("play commands = %d, want 1", node.playCount())
	}
}

func TestPlayWhilePlayingOnlyEnqueues(t *testing.T) {
	p, node := newTestPlayer(nil)
	ctx := context.Background()

	p.Play(ctx, []Track{track("t1")}, EnqueueOptions{})
	started, err := p.Play(ctx, []Track{track("t2")}, EnqueueOptions{})
	if err != nil {
		t.Fatalf("Play err = %v", err)
	}
	if started {
		t.Fatal("enqueue while playing reported a start")
	}
	if node.playCount() != 1 {
		t.Fatalf("play commands = %d, want 1 (no play on mere enqueue)", node.playCount())
	}
	if cur := p.Current(); cur.ID != "t1" {
		t.Fatalf("current = %s, want t1", cur.ID)
	}
}

func TestPlayHeadInsertsInOrder(t *testing.T) {
	p, _ := newTestPlayer(nil)
	ctx := context.Background()

	p.Play(ctx, []Track{track("t1"), track("t2")}, EnqueueOptions{})
	p.Play(ctx, []Track{track("n1"), track("n2")}, EnqueueOptions{Position: PositionHead})

	got := p.QueueSnapshot()
	want := []string{"n1", "n2", "t2"}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("queue = %v, want %v", got, want)
		}
	}
}

func TestLoopTrackNaturalAdvance(t *testing.T) {
	p, node := newTestPlayer(nil)
	ctx := context.Background()

	p.Play(ctx, []Track{track("t1"), track("t2")}, EnqueueOptions{})
	p.SetLoop(LoopTrack)

	if err := p.HandleTrackEnd(ctx, EndFinished); err != nil {
		t.Fatalf("HandleTrackEnd err = %v", err)
	}

	if cur := p.Current(); cur.ID != "t1" {
		t.Fatalf("current after TRACK loop = %s, want t1", cur.ID)
	}
	if p.QueueLen() != 1 {
		t.Fatalf("queue length changed to %d", p.QueueLen())
	}
	if node.playCount() != 2 {
		t.Fatalf("play commands = %d, want 2 (replay)", node.playCount())
	}
}

func TestLoopQueueNaturalAdvance(t *testing.T) {
	p, _ := newTestPlayer(nil)
	ctx := context.Background()

	p.Play(ctx, []Track{track("t1"), track("t2")}, EnqueueOptions{})
	p.SetLoop(LoopQueue)

	p.HandleTrackEnd(ctx, EndFinished)

	if cur := p.Current(); cur.ID != "t2" {
		t.Fatalf("current = %s, want t2", cur.ID)
	}
	got := p.QueueSnapshot()
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("queue = %v, want [t1]", got)
	}
}

func TestSkipBypassesTrackLoop(t *testing.T) {
	p, _ := newTestPlayer(nil)
	ctx := context.Background()

	p.Play(ctx, []Track{track("t1"), track("t2")}, EnqueueOptions{})
	p.SetLoop(LoopTrack)

	skipped, err := p.Skip(ctx)
	if err != nil {
		t.Fatalf("Skip err = %v", err)
	}
	if skipped.ID != "t1" {
		t.Fatalf("skipped = %s, want t1", skipped.ID)
	}
	if cur := p.Current(); cur.ID != "t2" {
		t.Fatalf("current after skip = %s, want t2 (TRACK loop must not replay)", cur.ID)
	}
}

func TestSkipWhenIdle(t *testing.T) {
	p, _ := newTestPlayer(nil)
	if _, err := p.Skip(context.Background()); !errors.Is(err, ErrNothingPlaying) {
		t.Fatalf("Skip on idle err = %v, want ErrNothingPlaying", err)
	}
}

func TestAutoplayTriggerOnQueueEnd(t *testing.T) {
	p, _ := newTestPlayer(nil)
	ctx := context.Background()

	p.Play(ctx, []Track{track("t1")}, EnqueueOptions{})
	p.mu.Lock()
	p.autoplay = true
	a1 := track("a1")
	a1.Requester = "user-9"
	p.autoplayBuf.Refill([]Track{a1})
	p.mu.Unlock()

	p.HandleTrackEnd(ctx, EndFinished)

	cur := p.Current()
	if cur == nil || cur.ID != "a1" {
		t.Fatalf("current = %v, want a1", cur)
	}
	if !cur.IsAutoplay() {
		t.Fatalf("autoplay track requester = %q, want system", cur.Requester)
	}
}

func TestAutoplayRefillRetriesOnce(t *testing.T) {
	rec := &fakeRecommender{related: []Track{track("a1")}, failN: 1}
	p, _ := newTestPlayer(rec)
	ctx := context.Background()

	p.Play(ctx, []Track{track("t1")}, EnqueueOptions{})
	p.mu.Lock()
	p.autoplay = true
	p.mu.Unlock()

	p.HandleTrackEnd(ctx, EndFinished)

	if cur := p.Current(); cur == nil || cur.ID != "a1" {
		t.Fatalf("current = %v, want a1 after retried refill", cur)
	}
	if rec.calls != 2 {
		t.Fatalf("refill calls = %d, want 2 (one retry)", rec.calls)
	}
}

func TestAutoplayProviderDownGoesIdle(t *testing.T) {
	rec := &fakeRecommender{err: errors.New("provider down")}
	p, node := newTestPlayer(rec)
	ctx := context.Background()

	p.Play(ctx, []Track{track("t1")}, EnqueueOptions{})
	p.mu.Lock()
	p.autoplay = true
	p.mu.Unlock()

	if err := p.HandleTrackEnd(ctx, EndFinished); err != nil {
		t.Fatalf("HandleTrackEnd err = %v", err)
	}
	if p.IsPlaying() {
		t.Fatal("player did not go idle after refill failure")
	}
	if node.stopCount() != 1 {
		t.Fatalf("stop commands = %d, want 1", node.stopCount())
	}
}

func TestQueueEndWithoutAutoplayGoesIdle(t *testing.T) {
	p, node := newTestPlayer(nil)
	ctx := context.Background()

	p.Play(ctx, []Track{track("t1")}, EnqueueOptions{})
	p.HandleTrackEnd(ctx, EndFinished)

	if p.IsPlaying() {
		t.Fatal("player still playing after queue end")
	}
	if node.stopCount() != 1 {
		t.Fatalf("stop commands = %d, want exactly 1", node.stopCount())
	}
}

func TestStopIsIdempotent(t *testing.T) {
	p, node := newTestPlayer(nil)
	ctx := context.Background()

	p.Play(ctx, []Track{track("t1"), track("t2")}, EnqueueOptions{})
	p.SetLoop(LoopQueue)
	p.SetShuffle(true)

	if err := p.Stop(ctx); err != nil {
		t.Fatalf("Stop err = %v", err)
	}
	if err := p.Stop(ctx); err != nil {
		t.Fatalf("second Stop err = %v", err)
	}

	if p.IsPlaying() || p.QueueLen() != 0 {
		t.Fatal("state not reset by Stop")
	}
	if p.Loop() != LoopNone || p.Shuffle() || p.Autoplay() {
		t.Fatal("flags not reset by Stop")
	}
	if node.stopCount() != 1 {
		t.Fatalf("stop commands = %d, want 1 (second Stop is a no-op)", node.stopCount())
	}
}

func TestPauseResume(t *testing.T) {
	p, _ := newTestPlayer(nil)
	ctx := context.Background()

	if err := p.Pause(ctx); !errors.Is(err, ErrNotPlaying) {
		t.Fatalf("Pause on idle err = %v, want ErrNotPlaying", err)
	}

	p.Play(ctx, []Track{track("t1")}, EnqueueOptions{})

	if err := p.Resume(ctx); !errors.Is(err, ErrNotPaused) {
		t.Fatalf("Resume while playing err = %v, want ErrNotPaused", err)
	}
	if err := p.Pause(ctx); err != nil {
		t.Fatalf("Pause err = %v", err)
	}
	if err := p.Pause(ctx); !errors.Is(err, ErrAlreadyPaused) {
		t.Fatalf("double Pause err = %v, want ErrAlreadyPaused", err)
	}
	if err := p.Resume(ctx); err != nil {
		t.Fatalf("Resume err = %v", err)
	}
	if p.Paused() {
		t.Fatal("still paused after Resume")
	}
}

func TestSeekValidation(t *testing.T) {
	p, node := newTestPlayer(nil)
	ctx := context.Background()

	if err := p.Seek(ctx, 1000); !errors.Is(err, ErrNotSeekable) {
		t.Fatalf("Seek on idle err = %v, want ErrNotSeekable", err)
	}

	live := track("live")
	live.Stream = true
	live.Duration = 0
	p.Play(ctx, []Track{live}, EnqueueOptions{})
	if err := p.Seek(ctx, 1000); !errors.Is(err, ErrNotSeekable) {
		t.Fatalf("Seek on stream err = %v, want ErrNotSeekable", err)
	}
	p.Stop(ctx)

	p.Play(ctx, []Track{track("t1")}, EnqueueOptions{})
	if err := p.Seek(ctx, -1); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("Seek(-1) err = %v, want ErrInvalidPosition", err)
	}
	if err := p.Seek(ctx, 180_000); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("Seek(duration) err = %v, want ErrInvalidPosition", err)
	}
	if err := p.Seek(ctx, 90_000); err != nil {
		t.Fatalf("Seek err = %v", err)
	}
	if len(node.seeks) != 1 || node.seeks[0] != 90_000 {
		t.Fatalf("seek commands = %v, want [90000]", node.seeks)
	}
}

func TestRemoveFromQueueOutOfRange(t *testing.T) {
	p, _ := newTestPlayer(nil)
	ctx := context.Background()

	p.Play(ctx, []Track{track("t1"), track("t2"), track("t3")}, EnqueueOptions{})
	if _, err := p.RemoveFromQueue(5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("RemoveFromQueue(5) err = %v, want ErrOutOfRange", err)
	}
	if p.QueueLen() != 2 {
		t.Fatalf("failed removal changed queue length to %d", p.QueueLen())
	}
}

func TestEndReasonGating(t *testing.T) {
	p, node := newTestPlayer(nil)
	ctx := context.Background()

	p.Play(ctx, []Track{track("t1"), track("t2")}, EnqueueOptions{})

	// A replaced/stopped end must not advance the queue.
	p.HandleTrackEnd(ctx, EndReplaced)
	p.HandleTrackEnd(ctx, EndStopped)
	if cur := p.Current(); cur.ID != "t1" {
		t.Fatalf("current = %s after non-advancing ends, want t1", cur.ID)
	}
	if node.playCount() != 1 {
		t.Fatalf("play commands = %d, want 1", node.playCount())
	}

	// Load failure advances.
	p.HandleTrackEnd(ctx, EndLoadFailed)
	if cur := p.Current(); cur.ID != "t2" {
		t.Fatalf("current = %s after load failure, want t2", cur.ID)
	}
}

func TestTrackExceptionBypassesTrackLoop(t *testing.T) {
	p, _ := newTestPlayer(nil)
	ctx := context.Background()

	p.Play(ctx, []Track{track("t1"), track("t2")}, EnqueueOptions{})
	p.SetLoop(LoopTrack)

	p.HandleTrackException(ctx, "decode error")

	if cur := p.Current(); cur == nil || cur.ID == "t1" {
		t.Fatalf("current = %v, a failing track must not be replayed", cur)
	}
}

func TestTrackExceptionSkipsQueueLoopRequeue(t *testing.T) {
	p, _ := newTestPlayer(nil)
	ctx := context.Background()

	p.Play(ctx, []Track{track("t1"), track("t2")}, EnqueueOptions{})
	p.SetLoop(LoopQueue)

	p.HandleTrackException(ctx, "decode error")

	if cur := p.Current(); cur == nil || cur.ID != "t2" {
		t.Fatalf("current = %v, want t2", cur)
	}
	// The broken track must not be cycled back to the tail.
	if got := p.QueueSnapshot(); len(got) != 0 {
		t.Fatalf("queue = %v, want empty", got)
	}
}

func TestLoadFailureSkipsQueueLoopRequeue(t *testing.T) {
	p, _ := newTestPlayer(nil)
	ctx := context.Background()

	p.Play(ctx, []Track{track("t1"), track("t2")}, EnqueueOptions{})
	p.SetLoop(LoopQueue)

	p.HandleTrackEnd(ctx, EndLoadFailed)

	if cur := p.Current(); cur == nil || cur.ID != "t2" {
		t.Fatalf("current = %v, want t2", cur)
	}
	if got := p.QueueSnapshot(); len(got) != 0 {
		t.Fatalf("queue = %v, want empty", got)
	}
}

func TestLeaveClearsChannels(t *testing.T) {
	p, _ := newTestPlayer(nil)
	ctx := context.Background()

	p.SetChannels("vc-1", "tc-1")
	p.Play(ctx, []Track{track("t1")}, EnqueueOptions{})

	if err := p.Leave(ctx); err != nil {
		t.Fatalf("Leave err = %v", err)
	}
	if p.VoiceChannelID() != "" || p.TextChannelID() != "" {
		t.Fatal("Leave kept channel IDs")
	}
	if p.IsPlaying() {
		t.Fatal("Leave kept the current track")
	}
}

// One guild's player under a storm of skips and track-end events must stay
// consistent: every issued play is a distinct track from the original set.
func TestConcurrentSkipAndTrackEnd(t *testing.T) {
	p, node := newTestPlayer(nil)
	ctx := context.Background()

	tracks := make([]Track, 0, 201)
	for i := 0; i < 201; i++ {
		tracks = append(tracks, track("c"+strconv.Itoa(i)))
	}
	p.Play(ctx, tracks, EnqueueOptions{})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Skip(ctx)
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.HandleTrackEnd(ctx, EndFinished)
		}()
	}
	wg.Wait()

	node.mu.Lock()
	defer node.mu.Unlock()
	seen := map[string]bool{}
	for _, enc := range node.plays {
		if seen[enc] {
			t.Fatalf("track %s was started twice", enc)
		}
		seen[enc] = true
	}
	// Every advance consumed exactly one queued track.
	consumed := len(node.plays) - 1 // minus the initial start
	if consumed+p.QueueLen() > 200 {
		t.Fatalf("tracks duplicated: %d played + %d queued > 200", consumed, p.QueueLen())
	}
}
