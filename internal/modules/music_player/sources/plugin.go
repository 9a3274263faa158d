// Package sources implements the pluggable source registry: named plugins
// that search for tracks and resolve them to playable URLs.
package sources

import (
	"context"

	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

// DelegateSentinel is returned by Plugin.Resolve when the plugin cannot
// itself produce a playable URL and wants the registry to re-resolve the
// track through the primary source instead (the Spotify plugin's case).
const DelegateSentinel = "delegate"

// Plugin is a named source of searchable, resolvable tracks.
type Plugin interface {
	// Name returns the plugin's registration name, e.g. "lavalink", "spotify".
	Name() string

	// Enabled reports whether the plugin should participate in fan-out search.
	Enabled() bool

	// PriorityTag classifies the plugin for ranking bonus purposes:
	// "primary", "secondary", "local", or "" for the default bonus.
	PriorityTag() string

	// Search returns up to limit tracks matching query.
	Search(ctx context.Context, query string, limit int) ([]domain.Track, error)

	// Resolve returns a playable URL for track, or DelegateSentinel if the
	// plugin wants the registry to re-resolve through the primary plugin.
	Resolve(ctx context.Context, track domain.Track) (string, error)
}
