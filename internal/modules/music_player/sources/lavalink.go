package sources

import (
	"context"

	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

// LavalinkResolver is the subset of infrastructure.LavalinkAdapter's
// behavior the lavalink source plugin needs, kept as a local interface so
// this package has no dependency on the infrastructure package.
type LavalinkResolver interface {
	ResolveQuery(ctx context.Context, query string) (domain.TrackList, error)
}

// LavalinkSource adapts the existing Lavalink/disgolink client into the
// Plugin contract. It is the registry's primary plugin: it owns
// youtube/soundcloud search and direct-URL resolution.
type LavalinkSource struct {
	client  LavalinkResolver
	enabled bool
}

// NewLavalinkSource creates a LavalinkSource backed by client.
func NewLavalinkSource(client LavalinkResolver) *LavalinkSource {
	return &LavalinkSource{client: client, enabled: true}
}

func (s *LavalinkSource) Name() string        { return "lavalink" }
func (s *LavalinkSource) Enabled() bool       { return s.enabled && s.client != nil }
func (s *LavalinkSource) PriorityTag() string { return "primary" }

// SetEnabled toggles whether the plugin participates in fan-out search.
func (s *LavalinkSource) SetEnabled(enabled bool) {
	s.enabled = enabled
}

// Search resolves query through the Lavalink node and returns up to limit
// results.
func (s *LavalinkSource) Search(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	list, err := s.client.ResolveQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	tracks := list.Tracks
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

// Resolve returns track's own URI when already known, or re-resolves it by
// title+artist search when called for a track that originated elsewhere
// (e.g. a Spotify delegate).
func (s *LavalinkSource) Resolve(ctx context.Context, track domain.Track) (string, error) {
	if track.URI != "" {
		return track.URI, nil
	}

	list, err := s.client.ResolveQuery(ctx, track.Title+" "+track.Artist)
	if err != nil {
		return "", err
	}
	if len(list.Tracks) == 0 {
		return "", ErrAllFailed
	}
	return list.Tracks[0].URI, nil
}
