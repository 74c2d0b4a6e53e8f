package storage

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "datastore.json"))
	if err != nil {
		t.Fatalf("New err = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCommandHistoryRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	rec := CommandHistoryRecord{
		ChannelID: "c1",
		UserID:    "u1",
		Username:  "listener",
		Command:   "play",
		Param:     "some song",
		Datetime:  time.Now(),
	}
	if err := s.AppendCommandToHistory("g1", rec); err != nil {
		t.Fatalf("AppendCommandToHistory err = %v", err)
	}

	hist, err := s.FetchCommandHistory("g1")
	if err != nil {
		t.Fatalf("FetchCommandHistory err = %v", err)
	}
	if len(hist) != 1 || hist[0].Command != "play" || hist[0].Param != "some song" {
		t.Fatalf("history = %+v", hist)
	}
}

func TestCommandHistoryTrimsToLimit(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < commandHistoryLimit+5; i++ {
		rec := CommandHistoryRecord{Command: "cmd-" + strconv.Itoa(i), Datetime: time.Now()}
		if err := s.AppendCommandToHistory("g1", rec); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	hist, err := s.FetchCommandHistory("g1")
	if err != nil {
		t.Fatalf("FetchCommandHistory err = %v", err)
	}
	if len(hist) != commandHistoryLimit {
		t.Fatalf("len(hist) = %d, want %d", len(hist), commandHistoryLimit)
	}
	if hist[len(hist)-1].Command != "cmd-"+strconv.Itoa(commandHistoryLimit+4) {
		t.Fatalf("newest entry = %+v", hist[len(hist)-1])
	}
}

func TestTrackHistoryTrimsToLimit(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < tracksHistoryLimit+3; i++ {
		rec := TrackHistoryRecord{TrackID: "t-" + strconv.Itoa(i), Title: "Track", PlayedAt: time.Now()}
		if err := s.AppendTrackToHistory("g1", rec); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	hist, err := s.FetchTrackHistory("g1")
	if err != nil {
		t.Fatalf("FetchTrackHistory err = %v", err)
	}
	if len(hist) != tracksHistoryLimit {
		t.Fatalf("len(hist) = %d, want %d", len(hist), tracksHistoryLimit)
	}
	if hist[0].TrackID != "t-3" {
		t.Fatalf("oldest kept entry = %+v", hist[0])
	}
}

func TestAnnounceMutedDefaultsOff(t *testing.T) {
	s := newTestStorage(t)

	muted, err := s.AnnounceMuted("g1")
	if err != nil {
		t.Fatalf("AnnounceMuted err = %v", err)
	}
	if muted {
		t.Fatal("fresh guild starts muted")
	}

	if err := s.SetAnnounceMuted("g1", true); err != nil {
		t.Fatalf("SetAnnounceMuted err = %v", err)
	}
	muted, err = s.AnnounceMuted("g1")
	if err != nil {
		t.Fatalf("AnnounceMuted err = %v", err)
	}
	if !muted {
		t.Fatal("mute flag did not stick")
	}
}

func TestGuildsAreIsolated(t *testing.T) {
	s := newTestStorage(t)

	if err := s.AppendTrackToHistory("g1", TrackHistoryRecord{TrackID: "t1"}); err != nil {
		t.Fatalf("append err = %v", err)
	}

	hist, err := s.FetchTrackHistory("g2")
	if err != nil {
		t.Fatalf("FetchTrackHistory err = %v", err)
	}
	if len(hist) != 0 {
		t.Fatalf("guild g2 sees g1 history: %+v", hist)
	}
}
