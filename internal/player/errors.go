package player

import "errors"

// Sentinel errors surfaced by player operations. The command layer maps these
// to user-facing replies; nothing here carries presentation concerns.
var (
	ErrNothingPlaying  = errors.New("nothing is currently playing")
	ErrNotPlaying      = errors.New("no track is currently playing")
	ErrNotPaused       = errors.New("playback is not paused")
	ErrAlreadyPaused   = errors.New("playback is already paused")
	ErrNotSeekable     = errors.New("current track is not seekable")
	ErrInvalidPosition = errors.New("position is outside the track duration")
	ErrOutOfRange      = errors.New("queue index out of range")
	ErrEmptyQueue      = errors.New("no tracks in queue")
	ErrEmptyBuffer     = errors.New("autoplay buffer is empty")

	ErrVoiceJoinTimeout          = errors.New("timed out waiting for voice channel join")
	ErrProviderUnavailable       = errors.New("track provider unavailable")
	ErrAlreadyInDifferentChannel = errors.New("already playing in a different voice channel")
)
