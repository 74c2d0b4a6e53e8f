package player

import (
	"errors"
	"testing"
)

func track(id string) Track {
	return Track{
		ID:       id,
		Title:    "title-" + id,
		Author:   "author",
		Duration: 180_000,
		URI:      "https://www.youtube.com/watch?v=" + id,
		Source:   SourceYouTube,
		Encoded:  "enc-" + id,
	}
}

func queueIDs(q *Queue) []string {
	out := make([]string, 0, q.Len())
	for _, t := range q.Snapshot() {
		out = append(out, t.ID)
	}
	return out
}

func TestQueueEnqueueOrder(t *testing.T) {
	var q Queue

	q.Enqueue(track("a"), PositionTail)
	q.Enqueue(track("b"), PositionTail)
	q.Enqueue(track("c"), PositionHead)

	got := queueIDs(&q)
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("queue order = %v, want %v", got, want)
		}
	}
}

func TestQueueRemoveAt(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		wantID  string
		wantErr bool
	}{
		{name: "first", index: 0, wantID: "a"},
		{name: "middle", index: 1, wantID: "b"},
		{name: "negative", index: -1, wantErr: true},
		{name: "past end", index: 5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Queue
			for _, id := range []string{"a", "b", "c"} {
				q.Enqueue(track(id), PositionTail)
			}

			got, err := q.RemoveAt(tt.index)
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfRange) {
					t.Fatalf("RemoveAt(%d) err = %v, want ErrOutOfRange", tt.index, err)
				}
				if q.Len() != 3 {
					t.Fatalf("failed removal changed queue length to %d", q.Len())
				}
				return
			}
			if err != nil {
				t.Fatalf("RemoveAt(%d) err = %v", tt.index, err)
			}
			if got.ID != tt.wantID {
				t.Fatalf("RemoveAt(%d) = %s, want %s", tt.index, got.ID, tt.wantID)
			}
			if q.Len() != 2 {
				t.Fatalf("queue length after removal = %d, want 2", q.Len())
			}
		})
	}
}

func TestQueuePeekAt(t *testing.T) {
	var q Queue
	q.Enqueue(track("a"), PositionTail)

	got, err := q.PeekAt(0)
	if err != nil || got.ID != "a" {
		t.Fatalf("PeekAt(0) = %v, %v", got.ID, err)
	}
	if q.Len() != 1 {
		t.Fatal("PeekAt removed a track")
	}
	if _, err := q.PeekAt(1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("PeekAt(1) err = %v, want ErrOutOfRange", err)
	}
}

func TestQueueShuffleKeepsLength(t *testing.T) {
	var q Queue
	ids := map[string]bool{}
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		q.Enqueue(track(id), PositionTail)
		ids[id] = true
	}

	q.Shuffle()

	if q.Len() != 6 {
		t.Fatalf("shuffle changed length to %d", q.Len())
	}
	for _, id := range queueIDs(&q) {
		if !ids[id] {
			t.Fatalf("shuffle produced unknown track %s", id)
		}
		delete(ids, id)
	}
	if len(ids) != 0 {
		t.Fatalf("shuffle dropped tracks: %v", ids)
	}
}

func TestQueuePopNext(t *testing.T) {
	var q Queue
	if _, err := q.PopNext(false); !errors.Is(err, ErrEmptyQueue) {
		t.Fatalf("PopNext on empty err = %v, want ErrEmptyQueue", err)
	}

	for _, id := range []string{"a", "b"} {
		q.Enqueue(track(id), PositionTail)
	}
	got, err := q.PopNext(false)
	if err != nil || got.ID != "a" {
		t.Fatalf("PopNext head = %v, %v", got.ID, err)
	}

	// Shuffled pop still drains the queue one element at a time.
	q.Enqueue(track("c"), PositionTail)
	seen := map[string]bool{}
	for q.Len() > 0 {
		tr, err := q.PopNext(true)
		if err != nil {
			t.Fatalf("shuffled PopNext err = %v", err)
		}
		if seen[tr.ID] {
			t.Fatalf("shuffled PopNext returned %s twice", tr.ID)
		}
		seen[tr.ID] = true
	}
}
