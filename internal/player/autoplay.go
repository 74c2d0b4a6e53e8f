package player

import (
	"math/rand"
	"slices"
)

// recentWindow bounds how many recently played identifiers are remembered
// for autoplay dedupe. Matches the short repeat horizon users expect: old
// tracks eventually become eligible again.
const recentWindow = 20

// AutoplayBuffer is the working set of provider-suggested tracks that keeps
// playback going once the user queue runs dry. Like Queue it relies on the
// owning Player's mutex for synchronization.
type AutoplayBuffer struct {
	tracks []Track
	recent []string // identifiers, oldest first
}

// Len returns the number of buffered candidates.
func (b *AutoplayBuffer) Len() int {
	return len(b.tracks)
}

// Refill appends candidates, skipping anything recently played or already
// buffered. Returns how many tracks were actually added.
func (b *AutoplayBuffer) Refill(candidates []Track) int {
	added := 0
	for _, t := range candidates {
		if slices.Contains(b.recent, t.ID) || b.containsID(t.ID) {
			continue
		}
		b.tracks = append(b.tracks, t)
		added++
	}
	return added
}

// PopRandom removes and returns a uniformly random buffered track.
func (b *AutoplayBuffer) PopRandom() (Track, error) {
	if len(b.tracks) == 0 {
		return Track{}, ErrEmptyBuffer
	}
	at := rand.Intn(len(b.tracks))
	t := b.tracks[at]
	b.tracks = slices.Delete(b.tracks, at, at+1)
	return t, nil
}

// MarkPlayed records an identifier in the recent window so refills skip it.
func (b *AutoplayBuffer) MarkPlayed(id string) {
	if id == "" || slices.Contains(b.recent, id) {
		return
	}
	b.recent = append(b.recent, id)
	if len(b.recent) > recentWindow {
		b.recent = b.recent[len(b.recent)-recentWindow:]
	}
}

// RemoveByID drops a buffered candidate, used to keep a track from living in
// both the queue and the buffer at the same time.
func (b *AutoplayBuffer) RemoveByID(id string) {
	b.tracks = slices.DeleteFunc(b.tracks, func(t Track) bool { return t.ID == id })
}

// Clear empties the buffer but keeps the recent window.
func (b *AutoplayBuffer) Clear() {
	b.tracks = nil
}

// Reset empties the buffer and forgets the recent window.
func (b *AutoplayBuffer) Reset() {
	b.tracks = nil
	b.recent = nil
}

func (b *AutoplayBuffer) containsID(id string) bool {
	return slices.ContainsFunc(b.tracks, func(t Track) bool { return t.ID == id })
}
