package player

// Source identifies the provider a track was resolved from.
type Source string

const (
	SourceYouTube      Source = "youtube"
	SourceYouTubeMusic Source = "youtube-music"
	SourceSpotify      Source = "spotify"
	SourceDeezer       Source = "deezer"
	SourceOther        Source = "other"
)

// Track is an immutable description of a playable item. The zero Requester
// means the track was added by autoplay rather than a user.
type Track struct {
	ID       string // provider identifier, opaque
	Title    string
	Author   string
	Duration int64 // milliseconds; 0 for live streams
	URI      string
	Source   Source
	Stream   bool

	// Requester is the Discord user ID that asked for the track.
	// Empty for tracks the bot picked itself (autoplay).
	Requester string

	// Encoded is the opaque playback handle the audio node understands.
	// Providers fill it on resolution; it is never built locally.
	Encoded string

	// Optional provenance when the track came in as part of a playlist.
	PlaylistName string
	PlaylistURI  string
}

// IsAutoplay reports whether the track was queued by the bot itself.
func (t Track) IsAutoplay() bool {
	return t.Requester == ""
}

// Seekable reports whether seek commands make sense for this track.
// Live streams have no bounded duration and cannot be seeked.
func (t Track) Seekable() bool {
	return !t.Stream && t.Duration > 0
}
