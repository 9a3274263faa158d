package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(Config{DBPath: filepath.Join(t.TempDir(), "store.db")})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTrack(id, title string) domain.Track {
	t := *domain.NewMetadataTrack(domain.TrackID(id), title, "Some Artist", "Some Album",
		3*time.Minute, "https://example.com/"+id, "", "youtube")
	t.Tags = []string{"chill"}
	return t
}

func TestStore_UpsertPlaylist_LoadPlaylist_RoundTrips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pl := domain.Playlist{
		ID:       "pl-1",
		Name:     "Evening Mix",
		Creator:  "alice",
		Tracks:   []domain.Track{sampleTrack("t1", "First"), sampleTrack("t2", "Second")},
	}

	if err := s.UpsertPlaylist(ctx, pl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := s.LoadPlaylist(ctx, "pl-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Name != "Evening Mix" || loaded.Creator != "alice" {
		t.Errorf("unexpected playlist metadata: %+v", loaded)
	}
	if len(loaded.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(loaded.Tracks))
	}
	if loaded.Tracks[0].Title != "First" || loaded.Tracks[1].Title != "Second" {
		t.Errorf("expected position order to be preserved, got %+v", loaded.Tracks)
	}
	if len(loaded.Tracks[0].Tags) != 1 || loaded.Tracks[0].Tags[0] != "chill" {
		t.Errorf("expected tags to round-trip, got %+v", loaded.Tracks[0].Tags)
	}
}

func TestStore_UpsertPlaylist_ReplacesTrackListing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pl := domain.Playlist{ID: "pl-1", Name: "Mix", Tracks: []domain.Track{sampleTrack("t1", "First"), sampleTrack("t2", "Second")}}
	if err := s.UpsertPlaylist(ctx, pl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pl.Tracks = []domain.Track{sampleTrack("t3", "Third")}
	if err := s.UpsertPlaylist(ctx, pl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := s.LoadPlaylist(ctx, "pl-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded.Tracks) != 1 || loaded.Tracks[0].Title != "Third" {
		t.Errorf("expected replaced track listing, got %+v", loaded.Tracks)
	}
}

func TestStore_DeletePlaylist_NotFound(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeletePlaylist(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListPlaylists_ReportsTrackCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.UpsertPlaylist(ctx, domain.Playlist{ID: "pl-1", Name: "A", Tracks: []domain.Track{sampleTrack("t1", "One")}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.UpsertPlaylist(ctx, domain.Playlist{ID: "pl-2", Name: "B"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summaries, err := s.ListPlaylists(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 playlists, got %d", len(summaries))
	}

	counts := map[string]int{}
	for _, summary := range summaries {
		counts[summary.ID] = summary.TrackCount
	}
	if counts["pl-1"] != 1 || counts["pl-2"] != 0 {
		t.Errorf("unexpected track counts: %+v", counts)
	}
}

func TestStore_AppendHistory_TopRecentHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		track := sampleTrack("t1", "Repeated Track")
		if err := s.AppendHistory(ctx, track, "guild-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := s.TopRecentHistory(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries bounded by limit, got %d", len(entries))
	}
	if entries[0].GuildID != "guild-1" {
		t.Errorf("expected guild id to round-trip, got %q", entries[0].GuildID)
	}
}
