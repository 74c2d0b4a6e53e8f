package player

import (
	"math/rand"
	"slices"
)

// Position selects where Enqueue inserts a track.
type Position int

const (
	PositionTail Position = iota // append, plays after everything queued
	PositionHead                 // "play next", index 0
)

// Queue is the ordered list of upcoming tracks for one guild. It holds only
// upcoming tracks; the currently playing track lives on the Player. Queue is
// not safe for concurrent use on its own, the owning Player's mutex guards it.
type Queue struct {
	tracks []Track
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// Enqueue inserts a track at the head or tail.
func (q *Queue) Enqueue(t Track, pos Position) {
	if pos == PositionHead {
		q.tracks = slices.Insert(q.tracks, 0, t)
		return
	}
	q.tracks = append(q.tracks, t)
}

// RemoveAt removes and returns the track at index.
func (q *Queue) RemoveAt(index int) (Track, error) {
	if index < 0 || index >= len(q.tracks) {
		return Track{}, ErrOutOfRange
	}
	t := q.tracks[index]
	q.tracks = slices.Delete(q.tracks, index, index+1)
	return t, nil
}

// PeekAt returns the track at index without removing it. Index 0 is "up next".
func (q *Queue) PeekAt(index int) (Track, error) {
	if index < 0 || index >= len(q.tracks) {
		return Track{}, ErrOutOfRange
	}
	return q.tracks[index], nil
}

// Shuffle permutes the queue in place. The currently playing track is never
// affected because it is not stored here.
func (q *Queue) Shuffle() {
	if len(q.tracks) < 2 {
		return
	}
	shuffleTracks(q.tracks)
}

func shuffleTracks(tracks []Track) {
	rand.Shuffle(len(tracks), func(i, j int) {
		tracks[i], tracks[j] = tracks[j], tracks[i]
	})
}

// PopNext removes and returns the next track to play: the head when shuffle
// is off, a uniformly random element when it is on.
func (q *Queue) PopNext(shuffle bool) (Track, error) {
	if len(q.tracks) == 0 {
		return Track{}, ErrEmptyQueue
	}
	at := 0
	if shuffle {
		at = rand.Intn(len(q.tracks))
	}
	t := q.tracks[at]
	q.tracks = slices.Delete(q.tracks, at, at+1)
	return t, nil
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.tracks = nil
}

// Snapshot returns a copy of the queued tracks in order.
func (q *Queue) Snapshot() []Track {
	return slices.Clone(q.tracks)
}

// ContainsID reports whether a track with the given provider identifier is queued.
func (q *Queue) ContainsID(id string) bool {
	return slices.ContainsFunc(q.tracks, func(t Track) bool { return t.ID == id })
}
