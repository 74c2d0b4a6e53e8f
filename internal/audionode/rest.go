package audionode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"tunekeeper/internal/player"
)

// LoadType classifies what the node resolved an identifier into.
type LoadType string

const (
	LoadTrack    LoadType = "track"
	LoadPlaylist LoadType = "playlist"
	LoadSearch   LoadType = "search"
	LoadEmpty    LoadType = "empty"
	LoadError    LoadType = "error"
)

// LoadResult is the decoded outcome of a loadtracks call.
type LoadResult struct {
	Type         LoadType
	Tracks       []player.Track
	PlaylistName string
	PlaylistURI  string
}

type wireTrack struct {
	Encoded string `json:"encoded"`
	Info    struct {
		Identifier string `json:"identifier"`
		IsSeekable bool   `json:"isSeekable"`
		Author     string `json:"author"`
		Length     int64  `json:"length"`
		IsStream   bool   `json:"isStream"`
		Title      string `json:"title"`
		URI        string `json:"uri"`
		SourceName string `json:"sourceName"`
	} `json:"info"`
}

type loadResponse struct {
	LoadType     string `json:"loadType"`
	PlaylistInfo struct {
		Name string `json:"name"`
	} `json:"playlistInfo"`
	Tracks    []wireTrack `json:"tracks"`
	Exception *struct {
		Message  string `json:"message"`
		Severity string `json:"severity"`
	} `json:"exception"`
}

// LoadTracks asks the node to resolve an identifier: a direct URL, or a
// search prefix query such as "ytsearch:...". The returned tracks carry the
// encoded playback handles the node expects back in play ops.
func (c *Client) LoadTracks(ctx context.Context, identifier string) (*LoadResult, error) {
	endpoint := c.restURL("/v4/loadtracks?identifier=" + url.QueryEscape(identifier))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.cfg.Password)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loadtracks request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("loadtracks status %d", resp.StatusCode)
	}

	var body loadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("loadtracks decode: %w", err)
	}

	result := &LoadResult{Type: LoadType(body.LoadType)}
	if result.Type == LoadError {
		cause := "unknown"
		if body.Exception != nil {
			cause = body.Exception.Message
		}
		return nil, fmt.Errorf("loadtracks failed: %s", cause)
	}

	if result.Type == LoadPlaylist {
		result.PlaylistName = body.PlaylistInfo.Name
		result.PlaylistURI = identifier
	}
	for _, wt := range body.Tracks {
		result.Tracks = append(result.Tracks, decodeTrack(wt, result.PlaylistName, result.PlaylistURI))
	}
	return result, nil
}

func decodeTrack(wt wireTrack, playlistName, playlistURI string) player.Track {
	return player.Track{
		ID:           wt.Info.Identifier,
		Title:        wt.Info.Title,
		Author:       wt.Info.Author,
		Duration:     wt.Info.Length,
		URI:          wt.Info.URI,
		Source:       parseSource(wt.Info.SourceName),
		Stream:       wt.Info.IsStream,
		Encoded:      wt.Encoded,
		PlaylistName: playlistName,
		PlaylistURI:  playlistURI,
	}
}

func parseSource(name string) player.Source {
	switch name {
	case "youtube":
		return player.SourceYouTube
	case "youtubemusic", "youtube-music":
		return player.SourceYouTubeMusic
	case "spotify":
		return player.SourceSpotify
	case "deezer":
		return player.SourceDeezer
	default:
		return player.SourceOther
	}
}
