package youtube

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"tunekeeper/internal/player"
	"tunekeeper/pkg/util"
)

// Related returns up to limit tracks that go well after the seed. The guild
// player calls this to refill its autoplay buffer; returned tracks have no
// requester, marking them as bot-picked.
func (p *Provider) Related(ctx context.Context, seed player.Track, limit int) ([]player.Track, error) {
	if limit <= 0 {
		return nil, nil
	}

	candidates, err := p.relatedCandidates(ctx, seed)
	if err != nil {
		return nil, err
	}
	candidates = pickCandidates(candidates, seed.ID, limit)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no related tracks for %q", seed.Title)
	}

	var mu sync.Mutex
	tracks := make([]player.Track, 0, len(candidates))
	_ = util.Parallel(candidates, 2, func(_ context.Context, c mixEntry) error {
		res, err := p.load(ctx, watchURL+c.ID)
		if err != nil {
			log.Printf("[WARN] Autoplay candidate %s failed to load: %v", c.ID, err)
			return nil
		}
		if len(res.Tracks) == 0 {
			return nil
		}
		t := res.Tracks[0]
		t.Requester = ""
		mu.Lock()
		tracks = append(tracks, t)
		mu.Unlock()
		return nil
	})
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no loadable related tracks for %q", seed.Title)
	}
	return tracks, nil
}

// relatedCandidates prefers the seed's mix playlist and falls back to a
// title search when the mix is unavailable.
func (p *Provider) relatedCandidates(ctx context.Context, seed player.Track) ([]mixEntry, error) {
	if seed.ID != "" && seed.Source == player.SourceYouTube {
		entries, err := p.mix(ctx, seed.ID)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			log.Printf("[WARN] Mix lookup for %s failed, searching instead: %v", seed.ID, err)
		}
	}

	query := seed.Title
	if seed.Author != "" {
		query += " " + seed.Author
	}
	hits, err := p.search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("related search %q: %w", query, err)
	}
	entries := make([]mixEntry, 0, len(hits))
	for _, h := range hits {
		entries = append(entries, mixEntry{
			ID:       h.ID,
			Title:    h.Title,
			Author:   h.Channel,
			Duration: h.Duration,
		})
	}
	return entries, nil
}

// pickCandidates drops the seed itself and over-long entries, shuffles what
// is left, and caps the result.
func pickCandidates(entries []mixEntry, seedID string, limit int) []mixEntry {
	kept := make([]mixEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID == seedID {
			continue
		}
		if e.Duration > maxRelatedDuration {
			continue
		}
		kept = append(kept, e)
	}
	rand.Shuffle(len(kept), func(i, j int) {
		kept[i], kept[j] = kept[j], kept[i]
	})
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}
