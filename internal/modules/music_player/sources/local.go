package sources

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

// ErrNoLocalPath is returned when a local-sourced track carries no file
// path in its opaque-extras.
var ErrNoLocalPath = errors.New("sources: local track has no file path")

// LocalSource is a plugin for pre-seeded library entries keyed by an
// opaque-extras file path. Resolve returns a file:// URL when the path
// still exists on disk; nothing is ever downloaded or cached for it.
type LocalSource struct {
	mu      sync.RWMutex
	entries map[domain.TrackID]domain.Track
}

// NewLocalSource creates an empty LocalSource.
func NewLocalSource() *LocalSource {
	return &LocalSource{entries: make(map[domain.TrackID]domain.Track)}
}

func (s *LocalSource) Name() string        { return "local" }
func (s *LocalSource) Enabled() bool       { return true }
func (s *LocalSource) PriorityTag() string { return "local" }

// Seed registers a library entry at path under the track's identity.
func (s *LocalSource) Seed(track domain.Track, path string) {
	if track.Extras == nil {
		track.Extras = make(map[string]any)
	}
	track.Extras["path"] = path
	track.SourceName = "local"

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[track.ID] = track
}

// Search returns seeded entries whose title or artist contains query
// (case-insensitive), up to limit.
func (s *LocalSource) Search(_ context.Context, query string, limit int) ([]domain.Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	var out []domain.Track
	for _, t := range s.entries {
		if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Artist), q) {
			out = append(out, t)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// Resolve returns the seeded file path as a file:// URL, provided the file
// still exists.
func (s *LocalSource) Resolve(_ context.Context, track domain.Track) (string, error) {
	path, ok := track.Extras["path"].(string)
	if !ok || path == "" {
		return "", ErrNoLocalPath
	}
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return "file://" + path, nil
}
