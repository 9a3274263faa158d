package usecases

import (
	"context"
	"fmt"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/cache"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/playlist"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/sources"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/store"
)

// ResolveQueryInput contains the input for the ResolveQuery use case.
type ResolveQueryInput struct {
	Query              string
	RequesterID        snowflake.ID
	RequesterName      string
	RequesterAvatarURL string
}

// ResolveQueryOutput contains the result of the ResolveQuery use case.
type ResolveQueryOutput struct {
	Tracks       []*domain.Track
	IsPlaylist   bool
	PlaylistName string
}

// TrackInfo is a display-oriented view of a cached track, used by presentation
// code that only needs title/artist/URI and not the full domain.Track.
type TrackInfo struct {
	ID     string
	Title  string
	Artist string
	URI    string
}

// LoadTrackInput contains the input for looking up a single cached track by ID.
type LoadTrackInput struct {
	TrackID string
}

// LoadTrackOutput contains the result of looking up a single cached track.
type LoadTrackOutput struct {
	Track TrackInfo
}

// LoadTracksInput contains the input for looking up multiple cached tracks by ID.
type LoadTracksInput struct {
	TrackIDs []string
}

// LoadTracksOutput contains the result of looking up multiple cached tracks.
type LoadTracksOutput struct {
	Tracks []TrackInfo
}

// PreviewQueryInput contains the input for previewing a query into track info.
type PreviewQueryInput struct {
	Query string
	Limit int // Max individual tracks to return (default 24)
}

// PreviewQueryOutput contains the result of previewing a query.
type PreviewQueryOutput struct {
	Tracks       []*ports.TrackInfo
	IsPlaylist   bool
	PlaylistName string
	TotalTracks  int
}

// TrackLoaderService handles track loading operations and implements TrackProvider via caching.
// Beyond the Lavalink-backed direct-query path (trackResolver), it
// optionally wires the Source Plugin Registry, Audio Cache Engine,
// Metadata Store, and Playlist Importer — each left nil is simply
// unavailable, reported via the corresponding sentinel error.
type TrackLoaderService struct {
	trackResolver ports.TrackResolver
	mu            sync.RWMutex
	cache         map[domain.TrackID]*domain.Track

	registry         *sources.Registry
	audioCache       *cache.Engine
	metadataStore    *store.Store
	playlistImporter *playlist.Importer
}

// Compile-time check that TrackLoaderService implements TrackProvider.
var _ ports.TrackProvider = (*TrackLoaderService)(nil)

// NewTrackLoaderService creates a new TrackLoaderService.
func NewTrackLoaderService(trackResolver ports.TrackResolver) *TrackLoaderService {
	return &TrackLoaderService{
		trackResolver: trackResolver,
		cache:         make(map[domain.TrackID]*domain.Track),
	}
}

// WithSources wires the Source Plugin Registry, enabling SearchSources and
// ResolvePlaybackURL.
func (s *TrackLoaderService) WithSources(registry *sources.Registry) *TrackLoaderService {
	s.registry = registry
	return s
}

// WithCache wires the Audio Cache Engine, enabling ResolvePlaybackURL to
// fetch and cache the underlying audio file rather than just a play URL.
func (s *TrackLoaderService) WithCache(engine *cache.Engine) *TrackLoaderService {
	s.audioCache = engine
	return s
}

// WithStore wires the Metadata Store, enabling playlist persistence and
// play history.
func (s *TrackLoaderService) WithStore(st *store.Store) *TrackLoaderService {
	s.metadataStore = st
	return s
}

// WithPlaylistImporter wires the Playlist Importer, enabling ImportPlaylist.
func (s *TrackLoaderService) WithPlaylistImporter(importer *playlist.Importer) *TrackLoaderService {
	s.playlistImporter = importer
	return s
}

// LoadTrack returns a Track from the cache by ID.
func (s *TrackLoaderService) LoadTrack(_ context.Context, id domain.TrackID) (domain.Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	track, ok := s.cache[id]
	if !ok {
		return domain.Track{}, fmt.Errorf("track %q not found in cache", id)
	}
	return *track, nil
}

// LoadTracks returns multiple Tracks from the cache by IDs.
func (s *TrackLoaderService) LoadTracks(
	_ context.Context,
	ids ...domain.TrackID,
) ([]domain.Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tracks := make([]domain.Track, 0, len(ids))
	for _, id := range ids {
		track, ok := s.cache[id]
		if !ok {
			return nil, fmt.Errorf("track %q not found in cache", id)
		}
		tracks = append(tracks, *track)
	}
	return tracks, nil
}

// LookupTrack returns display info for a single previously-resolved track by
// ID, for presentation code showing queue/now-playing listings.
func (s *TrackLoaderService) LookupTrack(
	_ context.Context,
	input LoadTrackInput,
) (*LoadTrackOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	track, ok := s.cache[domain.TrackID(input.TrackID)]
	if !ok {
		return nil, fmt.Errorf("track %q not found in cache", input.TrackID)
	}
	return &LoadTrackOutput{Track: toTrackInfo(track)}, nil
}

// LookupTracks returns display info for multiple previously-resolved tracks
// by ID, for presentation code showing queue listings.
func (s *TrackLoaderService) LookupTracks(
	_ context.Context,
	input LoadTracksInput,
) (*LoadTracksOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tracks := make([]TrackInfo, 0, len(input.TrackIDs))
	for _, id := range input.TrackIDs {
		track, ok := s.cache[domain.TrackID(id)]
		if !ok {
			return nil, fmt.Errorf("track %q not found in cache", id)
		}
		tracks = append(tracks, toTrackInfo(track))
	}
	return &LoadTracksOutput{Tracks: tracks}, nil
}

func toTrackInfo(track *domain.Track) TrackInfo {
	return TrackInfo{
		ID:     string(track.ID),
		Title:  track.Title,
		Artist: track.Artist,
		URI:    track.URI,
	}
}

// ResolveQuery searches for tracks using the given raw query string and
// returns them as a domain.TrackList, satisfying ports.TrackProvider for
// event handlers that only need a lightweight lookup (no caching, no
// requester attribution). Use LoadFromQuery for the full play-command flow.
func (s *TrackLoaderService) ResolveQuery(
	ctx context.Context,
	query string,
) (domain.TrackList, error) {
	searchQuery := domain.NewSearchQuery(query)
	result, err := s.trackResolver.LoadTracks(ctx, searchQuery.LavalinkQuery())
	if err != nil {
		return domain.TrackList{}, err
	}

	listType := domain.TrackListTypeTrack
	switch result.Type {
	case ports.LoadTypePlaylist:
		listType = domain.TrackListTypePlaylist
	case ports.LoadTypeSearch:
		listType = domain.TrackListTypeSearch
	}

	tracks := make([]domain.Track, 0, len(result.Tracks))
	for _, info := range result.Tracks {
		tracks = append(tracks, domain.Track{
			ID:         domain.TrackID(info.Identifier),
			Encoded:    info.Encoded,
			Title:      info.Title,
			Artist:     info.Artist,
			Duration:   info.Duration,
			URI:        info.URI,
			ArtworkURL: info.ArtworkURL,
			SourceName: info.SourceName,
			IsStream:   info.IsStream,
		})
	}

	return domain.TrackList{Type: listType, Tracks: tracks}, nil
}

// LoadFromQuery resolves a query into enriched, cached domain tracks for the
// play command. For playlists, returns all tracks. For single tracks/
// searches, returns one track. All resolved tracks are cached for later
// retrieval via LoadTrack/LoadTracks.
func (s *TrackLoaderService) LoadFromQuery(
	ctx context.Context,
	input ResolveQueryInput,
) (*ResolveQueryOutput, error) {
	query := domain.NewSearchQuery(input.Query)
	result, err := s.trackResolver.LoadTracks(ctx, query.LavalinkQuery())
	if err != nil {
		return nil, err
	}

	if result.Type == ports.LoadTypeEmpty || result.Type == ports.LoadTypeError ||
		len(result.Tracks) == 0 {
		return nil, ErrNoResults
	}

	// Determine which tracks to convert
	// For playlists, convert all tracks; otherwise just the first one
	tracksToConvert := result.Tracks
	if result.Type != ports.LoadTypePlaylist {
		tracksToConvert = result.Tracks[:1]
	}

	tracks := make([]*domain.Track, 0, len(tracksToConvert))
	for _, trackInfo := range tracksToConvert {
		track := domain.NewTrack(
			domain.TrackID(trackInfo.Identifier),
			trackInfo.Encoded,
			trackInfo.Title,
			trackInfo.Artist,
			trackInfo.Duration,
			trackInfo.URI,
			trackInfo.ArtworkURL,
			trackInfo.SourceName,
			trackInfo.IsStream,
			input.RequesterID,
			input.RequesterName,
			input.RequesterAvatarURL,
		)
		tracks = append(tracks, track)
	}

	// Cache all resolved tracks
	s.mu.Lock()
	for _, track := range tracks {
		s.cache[track.ID] = track
	}
	s.mu.Unlock()

	return &ResolveQueryOutput{
		Tracks:       tracks,
		IsPlaylist:   result.Type == ports.LoadTypePlaylist,
		PlaylistName: result.PlaylistID,
	}, nil
}

// PreviewQuery resolves a query into track information without creating domain tracks.
// For playlists, returns playlist metadata and a limited list of individual tracks.
// For non-playlists, returns the tracks normally.
func (s *TrackLoaderService) PreviewQuery(
	ctx context.Context,
	input PreviewQueryInput,
) (*PreviewQueryOutput, error) {
	if s.trackResolver == nil {
		return &PreviewQueryOutput{}, nil
	}

	query := domain.NewSearchQuery(input.Query)
	result, err := s.trackResolver.LoadTracks(ctx, query.LavalinkQuery())
	if err != nil {
		return nil, err
	}

	if result.Type == ports.LoadTypeEmpty || result.Type == ports.LoadTypeError ||
		len(result.Tracks) == 0 {
		return &PreviewQueryOutput{}, nil
	}

	// Determine limit (default 24 to leave room for playlist option)
	limit := input.Limit
	if limit <= 0 {
		limit = 24
	}

	// Limit tracks
	tracks := result.Tracks
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}

	return &PreviewQueryOutput{
		IsPlaylist:   result.Type == ports.LoadTypePlaylist,
		PlaylistName: result.PlaylistID,
		TotalTracks:  len(result.Tracks),
		Tracks:       tracks,
	}, nil
}

// SearchSourcesInput contains the input for a multi-source catalog search.
type SearchSourcesInput struct {
	Query        string
	SourceFilter string // empty fans out to every enabled source
	Limit        int
}

// SearchSourcesOutput contains the ranked, deduplicated results of a
// multi-source catalog search.
type SearchSourcesOutput struct {
	Tracks []domain.Track
}

// SearchSources fans a query out across every registered source plugin
// (or a single one, when SourceFilter is set), returning deduplicated,
// ranked results. Requires WithSources to have been called.
func (s *TrackLoaderService) SearchSources(
	ctx context.Context,
	input SearchSourcesInput,
) (*SearchSourcesOutput, error) {
	if s.registry == nil {
		return nil, ErrSourcesUnavailable
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	tracks, err := s.registry.Search(ctx, input.Query, input.SourceFilter, limit)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range tracks {
		t := tracks[i]
		s.cache[t.ID] = &t
	}
	s.mu.Unlock()

	return &SearchSourcesOutput{Tracks: tracks}, nil
}

// ResolvePlaybackURL resolves a track to a locally cached file path
// suitable for playback, going through the Source Plugin Registry to
// obtain a play URL and the Audio Cache Engine to fetch and cache it.
// Requires both WithSources and WithCache to have been called.
func (s *TrackLoaderService) ResolvePlaybackURL(ctx context.Context, track domain.Track) (string, error) {
	if s.registry == nil {
		return "", ErrSourcesUnavailable
	}
	if s.audioCache == nil {
		return "", ErrCacheUnavailable
	}

	playURL, err := s.registry.ResolvePlayURL(ctx, track)
	if err != nil {
		return "", fmt.Errorf("resolve play url: %w", err)
	}

	path, err := s.audioCache.Get(ctx, track, playURL)
	if err != nil {
		return "", fmt.Errorf("fetch audio: %w", err)
	}
	return path, nil
}

// RecordHistory appends a playback event to the metadata store, when one
// is wired. Silently a no-op otherwise, since play history is an optional
// enrichment rather than a required part of playback.
func (s *TrackLoaderService) RecordHistory(ctx context.Context, track domain.Track, guildID string) error {
	if s.metadataStore == nil {
		return nil
	}
	return s.metadataStore.AppendHistory(ctx, track, guildID)
}

// ImportPlaylistInput contains the input for importing a playlist from a
// URL or local file path.
type ImportPlaylistInput struct {
	Source  string
	IsLocal bool
	Persist bool // when true, also saves the imported playlist to the metadata store
}

// ImportPlaylist imports a playlist document from a URL or local file,
// optionally persisting it to the metadata store. Requires
// WithPlaylistImporter; persistence additionally requires WithStore.
func (s *TrackLoaderService) ImportPlaylist(
	ctx context.Context,
	input ImportPlaylistInput,
) (*domain.Playlist, error) {
	if s.playlistImporter == nil {
		return nil, ErrImporterUnavailable
	}

	var pl *domain.Playlist
	var err error
	if input.IsLocal {
		pl, err = s.playlistImporter.ImportFromFile(input.Source)
	} else {
		pl, err = s.playlistImporter.ImportFromURL(ctx, input.Source)
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range pl.Tracks {
		t := pl.Tracks[i]
		s.cache[t.ID] = &t
	}
	s.mu.Unlock()

	if input.Persist {
		if s.metadataStore == nil {
			return nil, ErrStoreUnavailable
		}
		if err := s.metadataStore.UpsertPlaylist(ctx, *pl); err != nil {
			return nil, fmt.Errorf("persist playlist: %w", err)
		}
	}

	return pl, nil
}

// ListPlaylists returns every playlist stored in the metadata store.
// Requires WithStore.
func (s *TrackLoaderService) ListPlaylists(ctx context.Context) ([]store.PlaylistSummary, error) {
	if s.metadataStore == nil {
		return nil, ErrStoreUnavailable
	}
	return s.metadataStore.ListPlaylists(ctx)
}

// LoadStoredPlaylist loads a previously persisted playlist by ID and
// caches its tracks for later LoadTrack/LoadTracks lookups. Requires
// WithStore.
func (s *TrackLoaderService) LoadStoredPlaylist(ctx context.Context, id domain.PlaylistID) (*domain.Playlist, error) {
	if s.metadataStore == nil {
		return nil, ErrStoreUnavailable
	}

	pl, err := s.metadataStore.LoadPlaylist(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range pl.Tracks {
		t := pl.Tracks[i]
		s.cache[t.ID] = &t
	}
	s.mu.Unlock()

	return pl, nil
}

// CacheStats reports Audio Cache Engine usage statistics. Requires WithCache.
func (s *TrackLoaderService) CacheStats(ctx context.Context) (cache.Stats, error) {
	if s.audioCache == nil {
		return cache.Stats{}, ErrCacheUnavailable
	}
	return s.audioCache.Stats(ctx)
}

// ClearCache wipes the Audio Cache Engine's contents. Requires WithCache.
func (s *TrackLoaderService) ClearCache(ctx context.Context) error {
	if s.audioCache == nil {
		return ErrCacheUnavailable
	}
	return s.audioCache.Clear(ctx)
}

// CleanupCache sweeps the Audio Cache Engine for orphaned files and rows.
// Requires WithCache.
func (s *TrackLoaderService) CleanupCache(ctx context.Context) error {
	if s.audioCache == nil {
		return ErrCacheUnavailable
	}
	return s.audioCache.CleanupOrphans(ctx)
}

// EnabledSources returns the names of enabled source plugins. Requires
// WithSources.
func (s *TrackLoaderService) EnabledSources() ([]string, error) {
	if s.registry == nil {
		return nil, ErrSourcesUnavailable
	}
	return s.registry.EnabledSources(), nil
}
