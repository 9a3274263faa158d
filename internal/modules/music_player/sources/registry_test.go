package sources

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

type fakePlugin struct {
	name     string
	priority string
	enabled  bool
	tracks   []domain.Track
	searchErr error
	resolveURL string
	resolveErr error
	delay    time.Duration
}

func (p *fakePlugin) Name() string        { return p.name }
func (p *fakePlugin) Enabled() bool       { return p.enabled }
func (p *fakePlugin) PriorityTag() string { return p.priority }

func (p *fakePlugin) Search(ctx context.Context, _ string, limit int) ([]domain.Track, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.searchErr != nil {
		return nil, p.searchErr
	}
	tracks := p.tracks
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

func (p *fakePlugin) Resolve(context.Context, domain.Track) (string, error) {
	return p.resolveURL, p.resolveErr
}

func track(title, artist, source string) domain.Track {
	return *domain.NewMetadataTrack("", title, artist, "", time.Minute, "", "", source)
}

func TestRegistry_Search_DedupAndRank(t *testing.T) {
	r := NewRegistry()
	r.Register("lavalink", &fakePlugin{
		name: "lavalink", priority: "primary", enabled: true,
		tracks: []domain.Track{track("Shape of You", "Ed Sheeran", "youtube")},
	})
	r.Register("spotify", &fakePlugin{
		name: "spotify", priority: "secondary", enabled: true,
		tracks: []domain.Track{
			track("shape of you", "ed sheeran", "spotify"),
			track("Photograph", "Ed Sheeran", "spotify"),
		},
	})

	out, err := r.Search(context.Background(), "shape of you", "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 deduplicated tracks, got %d: %+v", len(out), out)
	}
	if out[0].Title != "Shape of You" {
		t.Errorf("expected exact-title match ranked first, got %q", out[0].Title)
	}
	if out[0].SourceName != "youtube" {
		t.Errorf("expected first occurrence (lavalink) to win dedup, got source %q", out[0].SourceName)
	}
}

func TestRegistry_Search_SourceFilter(t *testing.T) {
	r := NewRegistry()
	r.Register("lavalink", &fakePlugin{name: "lavalink", priority: "primary", enabled: true, tracks: []domain.Track{track("A", "B", "youtube")}})
	r.Register("spotify", &fakePlugin{name: "spotify", priority: "secondary", enabled: true, tracks: []domain.Track{track("C", "D", "spotify")}})

	out, err := r.Search(context.Background(), "a", "spotify", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].Title != "C" {
		t.Errorf("expected only spotify results, got %+v", out)
	}
}

func TestRegistry_Search_OnePluginFailsIsSwallowed(t *testing.T) {
	r := NewRegistry()
	r.Register("lavalink", &fakePlugin{
		name: "lavalink", priority: "primary", enabled: true,
		tracks: []domain.Track{track("A", "B", "youtube")},
	})
	r.Register("spotify", &fakePlugin{
		name: "spotify", priority: "secondary", enabled: true,
		searchErr: errors.New("rate limited"),
	})

	out, err := r.Search(context.Background(), "a", "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("expected the surviving plugin's result, got %+v", out)
	}
}

func TestRegistry_Search_AllPluginsFailedSurfacesError(t *testing.T) {
	r := NewRegistry()
	r.Register("lavalink", &fakePlugin{
		name: "lavalink", priority: "primary", enabled: true,
		searchErr: errors.New("down"),
	})

	_, err := r.Search(context.Background(), "a", "", 10)
	if !errors.Is(err, ErrAllFailed) {
		t.Errorf("expected ErrAllFailed, got %v", err)
	}
}

func TestRegistry_Search_SlowPluginContributesNothing(t *testing.T) {
	r := NewRegistry().WithSearchDeadline(20 * time.Millisecond)
	r.Register("lavalink", &fakePlugin{
		name: "lavalink", priority: "primary", enabled: true,
		tracks: []domain.Track{track("A", "B", "youtube")},
	})
	r.Register("slow", &fakePlugin{
		name: "slow", priority: "secondary", enabled: true,
		tracks: []domain.Track{track("C", "D", "slow")},
		delay:  200 * time.Millisecond,
	})

	out, err := r.Search(context.Background(), "a", "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].Title != "A" {
		t.Errorf("expected only the fast plugin's result, got %+v", out)
	}
}

func TestRegistry_ResolvePlayURL_DelegatesToSpotifyPlaceholder(t *testing.T) {
	r := NewRegistry()
	lavalink := &fakePlugin{name: "lavalink", priority: "primary", enabled: true, resolveURL: "https://resolved"}
	r.Register("lavalink", lavalink)
	r.Register("spotify", &fakePlugin{name: "spotify", priority: "secondary", enabled: true, resolveURL: DelegateSentinel})
	lavalink.tracks = []domain.Track{track("A", "B", "spotify")}

	tr := track("A", "B", "spotify")
	url, err := r.ResolvePlayURL(context.Background(), tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://resolved" {
		t.Errorf("expected delegation to the primary plugin's resolve, got %q", url)
	}
}
