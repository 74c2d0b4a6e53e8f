// Package youtube resolves play queries and autoplay recommendations against
// YouTube. Metadata comes from native search and mix playlists; playback
// handles always come from the audio node's loader.
package youtube

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	kkdai "github.com/kkdai/youtube/v2"
	"github.com/ppalone/ytsearch"

	"tunekeeper/internal/audionode"
	"tunekeeper/internal/player"
	"tunekeeper/pkg/retrylimit"
)

const (
	watchURL = "https://www.youtube.com/watch?v="

	// Mix playlists drag in hour-long compilations; anything over this is
	// not a song and gets skipped during autoplay selection.
	maxRelatedDuration = 10 * time.Minute

	searchChoiceLimit = 25
	loadAttempts      = 3
)

// Loader resolves an identifier into node-playable tracks. Satisfied by
// *audionode.Client.
type Loader interface {
	LoadTracks(ctx context.Context, identifier string) (*audionode.LoadResult, error)
}

// searchHit is one native search result, duration already parsed.
type searchHit struct {
	ID       string
	Title    string
	Channel  string
	Duration time.Duration
}

// mixEntry is one entry of a YouTube mix playlist.
type mixEntry struct {
	ID       string
	Title    string
	Author   string
	Duration time.Duration
}

type searchFunc func(ctx context.Context, query string) ([]searchHit, error)
type mixFunc func(ctx context.Context, videoID string) ([]mixEntry, error)

// Provider is the YouTube resolution service. It implements
// player.Recommender for autoplay.
type Provider struct {
	loader  Loader
	limiter *retrylimit.AdaptiveLimiter

	search searchFunc
	mix    mixFunc
}

// NewProvider builds a provider over the given loader with live YouTube
// clients behind it.
func NewProvider(loader Loader) *Provider {
	searchClient := ytsearch.NewClient(nil)
	mixClient := &kkdai.Client{
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
	return &Provider{
		loader:  loader,
		limiter: retrylimit.NewAdaptiveLimiter(5, 1, 10, 1, 0.5),
		search:  liveSearch(searchClient),
		mix:     liveMix(mixClient),
	}
}

func liveSearch(c *ytsearch.Client) searchFunc {
	return func(ctx context.Context, query string) ([]searchHit, error) {
		res, err := c.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		hits := make([]searchHit, 0, len(res.Results))
		for _, r := range res.Results {
			if r.VideoID == "" {
				continue
			}
			hits = append(hits, searchHit{
				ID:       r.VideoID,
				Title:    r.Title,
				Channel:  r.Channel,
				Duration: parseColonDuration(r.Duration),
			})
		}
		return hits, nil
	}
}

func liveMix(c *kkdai.Client) mixFunc {
	return func(ctx context.Context, videoID string) ([]mixEntry, error) {
		pl, err := c.GetPlaylistContext(ctx, watchURL+videoID+"&list=RD"+videoID)
		if err != nil {
			return nil, err
		}
		entries := make([]mixEntry, 0, len(pl.Videos))
		for _, v := range pl.Videos {
			if v.ID == "" {
				continue
			}
			entries = append(entries, mixEntry{
				ID:       v.ID,
				Title:    v.Title,
				Author:   v.Author,
				Duration: v.Duration,
			})
		}
		return entries, nil
	}
}

// Resolve turns a play query into node-playable tracks. URLs go straight to
// the node loader; free text is searched first and the best hit is loaded.
// Every returned track carries the requester ID.
func (p *Provider) Resolve(ctx context.Context, query, requester string) (*audionode.LoadResult, error) {
	identifier := query
	if !isURL(query) {
		hits, err := p.search(ctx, searchQuery(query))
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", query, err)
		}
		if len(hits) == 0 {
			return &audionode.LoadResult{Type: audionode.LoadEmpty}, nil
		}
		identifier = watchURL + hits[0].ID
	}

	res, err := p.load(ctx, identifier)
	if err != nil {
		return nil, err
	}
	for i := range res.Tracks {
		res.Tracks[i].Requester = requester
	}
	return res, nil
}

// SearchChoices returns up to 25 search hits for pickers and autocomplete.
func (p *Provider) SearchChoices(ctx context.Context, query string) ([]player.Track, error) {
	hits, err := p.search(ctx, searchQuery(query))
	if err != nil {
		return nil, err
	}
	if len(hits) > searchChoiceLimit {
		hits = hits[:searchChoiceLimit]
	}
	out := make([]player.Track, 0, len(hits))
	for _, h := range hits {
		out = append(out, player.Track{
			ID:       h.ID,
			Title:    h.Title,
			Author:   h.Channel,
			Duration: h.Duration.Milliseconds(),
			URI:      watchURL + h.ID,
			Source:   player.SourceYouTube,
		})
	}
	return out, nil
}

// load calls the node loader under the adaptive limiter with a few retries.
func (p *Provider) load(ctx context.Context, identifier string) (*audionode.LoadResult, error) {
	var res *audionode.LoadResult
	err := retrylimit.WithRetryMax(ctx, func() error {
		var err error
		res, err = p.loader.LoadTracks(ctx, identifier)
		return err
	}, p.limiter, loadAttempts)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", identifier, err)
	}
	return res, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// searchQuery biases free-text queries toward studio uploads unless the user
// already asked for something specific.
func searchQuery(q string) string {
	if strings.Contains(strings.ToLower(q), "official") {
		return q
	}
	return q + " Official Audio"
}

// parseColonDuration parses "3:20" or "1:05:20" style durations. Anything
// unparseable, including live badges, comes back as zero.
func parseColonDuration(s string) time.Duration {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second
}
