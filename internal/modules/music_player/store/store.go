// Package store is the Metadata Store: a SQLite-backed catalog of tracks,
// playlists, and play history, independent of the Audio Cache Engine's
// own database file.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS tracks (
	track_id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	artist TEXT NOT NULL,
	album TEXT,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	uri TEXT,
	artwork_url TEXT,
	source_name TEXT NOT NULL,
	tags TEXT,
	release_date TIMESTAMP,
	extras TEXT
);

CREATE TABLE IF NOT EXISTS playlists (
	playlist_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	creator TEXT,
	cover_url TEXT,
	tags TEXT,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS playlist_tracks (
	playlist_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	track_id TEXT NOT NULL,
	PRIMARY KEY (playlist_id, position),
	FOREIGN KEY (playlist_id) REFERENCES playlists(playlist_id) ON DELETE CASCADE,
	FOREIGN KEY (track_id) REFERENCES tracks(track_id)
);
CREATE INDEX IF NOT EXISTS idx_playlist_tracks_playlist_id ON playlist_tracks(playlist_id);

CREATE TABLE IF NOT EXISTS play_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	track_id TEXT NOT NULL,
	title TEXT NOT NULL,
	artist TEXT NOT NULL,
	source_name TEXT NOT NULL,
	guild_id TEXT NOT NULL,
	played_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_play_history_played_at ON play_history(played_at);
`

// Store is the Metadata Store.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if necessary) the SQLite file at cfg.DBPath.
func NewStore(cfg Config) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertTrack inserts or replaces a track's catalog metadata.
func (s *Store) UpsertTrack(ctx context.Context, track domain.Track) error {
	tags, err := json.Marshal(track.Tags)
	if err != nil {
		return fmt.Errorf("store: marshal tags: %w", err)
	}
	extras, err := json.Marshal(track.Extras)
	if err != nil {
		return fmt.Errorf("store: marshal extras: %w", err)
	}

	var releaseDate any
	if !track.ReleaseDate.IsZero() {
		releaseDate = track.ReleaseDate
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tracks (track_id, title, artist, album, duration_ms, uri, artwork_url, source_name, tags, release_date, extras)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			title = excluded.title, artist = excluded.artist, album = excluded.album,
			duration_ms = excluded.duration_ms, uri = excluded.uri, artwork_url = excluded.artwork_url,
			source_name = excluded.source_name, tags = excluded.tags, release_date = excluded.release_date,
			extras = excluded.extras
	`, string(track.ID), track.Title, track.Artist, track.Album, track.Duration.Milliseconds(),
		track.URI, track.ArtworkURL, track.SourceName, string(tags), releaseDate, string(extras))
	return err
}

// UpsertPlaylist replaces a playlist's metadata and track listing in one
// transaction: old playlist<->track rows are deleted and new ones
// inserted, with referenced tracks upserted along the way.
func (s *Store) UpsertPlaylist(ctx context.Context, pl domain.Playlist) error {
	tags, err := json.Marshal(pl.Tags)
	if err != nil {
		return fmt.Errorf("store: marshal tags: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO playlists (playlist_id, name, description, creator, cover_url, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(playlist_id) DO UPDATE SET
			name = excluded.name, description = excluded.description, creator = excluded.creator,
			cover_url = excluded.cover_url, tags = excluded.tags, updated_at = excluded.updated_at
	`, string(pl.ID), pl.Name, pl.Description, pl.Creator, pl.CoverURL, string(tags), now, now)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_tracks WHERE playlist_id = ?`, string(pl.ID)); err != nil {
		return err
	}

	for i, track := range pl.Tracks {
		if err := upsertTrackTx(ctx, tx, track); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO playlist_tracks (playlist_id, position, track_id) VALUES (?, ?, ?)
		`, string(pl.ID), i, string(track.ID)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func upsertTrackTx(ctx context.Context, tx *sql.Tx, track domain.Track) error {
	tags, err := json.Marshal(track.Tags)
	if err != nil {
		return fmt.Errorf("store: marshal tags: %w", err)
	}
	extras, err := json.Marshal(track.Extras)
	if err != nil {
		return fmt.Errorf("store: marshal extras: %w", err)
	}

	var releaseDate any
	if !track.ReleaseDate.IsZero() {
		releaseDate = track.ReleaseDate
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tracks (track_id, title, artist, album, duration_ms, uri, artwork_url, source_name, tags, release_date, extras)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			title = excluded.title, artist = excluded.artist, album = excluded.album,
			duration_ms = excluded.duration_ms, uri = excluded.uri, artwork_url = excluded.artwork_url,
			source_name = excluded.source_name, tags = excluded.tags, release_date = excluded.release_date,
			extras = excluded.extras
	`, string(track.ID), track.Title, track.Artist, track.Album, track.Duration.Milliseconds(),
		track.URI, track.ArtworkURL, track.SourceName, string(tags), releaseDate, string(extras))
	return err
}

// DeletePlaylist removes a playlist and its track associations. Tracks
// themselves are left in the catalog since other playlists may reference
// them.
func (s *Store) DeletePlaylist(ctx context.Context, id domain.PlaylistID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE playlist_id = ?`, string(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPlaylists returns every stored playlist's summary, including its
// track count, ordered by most recently updated.
func (s *Store) ListPlaylists(ctx context.Context) ([]PlaylistSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.playlist_id, p.name, p.description, p.creator, p.cover_url, p.updated_at,
		       COUNT(pt.track_id)
		FROM playlists p
		LEFT JOIN playlist_tracks pt ON pt.playlist_id = p.playlist_id
		GROUP BY p.playlist_id
		ORDER BY p.updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []PlaylistSummary
	for rows.Next() {
		var summary PlaylistSummary
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Description, &summary.Creator,
			&summary.CoverURL, &summary.UpdatedAt, &summary.TrackCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// LoadPlaylist loads a playlist and its tracks, in stored position order.
func (s *Store) LoadPlaylist(ctx context.Context, id domain.PlaylistID) (*domain.Playlist, error) {
	var pl domain.Playlist
	var tagsJSON string
	pl.ID = id

	err := s.db.QueryRowContext(ctx, `
		SELECT name, description, creator, cover_url, tags, created_at, updated_at
		FROM playlists WHERE playlist_id = ?
	`, string(id)).Scan(&pl.Name, &pl.Description, &pl.Creator, &pl.CoverURL, &tagsJSON, &pl.CreatedAt, &pl.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &pl.Tags); err != nil {
			return nil, fmt.Errorf("store: unmarshal playlist tags: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.track_id, t.title, t.artist, t.album, t.duration_ms, t.uri, t.artwork_url,
		       t.source_name, t.tags, t.extras
		FROM playlist_tracks pt
		JOIN tracks t ON t.track_id = pt.track_id
		WHERE pt.playlist_id = ?
		ORDER BY pt.position ASC
	`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			trackID, title, artist, album, uri, artworkURL, sourceName string
			durationMs                                                 int64
			tagsRaw, extrasRaw                                         sql.NullString
		)
		if err := rows.Scan(&trackID, &title, &artist, &album, &durationMs, &uri, &artworkURL,
			&sourceName, &tagsRaw, &extrasRaw); err != nil {
			return nil, err
		}

		track := *domain.NewMetadataTrack(domain.TrackID(trackID), title, artist, album,
			time.Duration(durationMs)*time.Millisecond, uri, artworkURL, sourceName)
		if tagsRaw.Valid && tagsRaw.String != "" {
			json.Unmarshal([]byte(tagsRaw.String), &track.Tags)
		}
		if extrasRaw.Valid && extrasRaw.String != "" {
			json.Unmarshal([]byte(extrasRaw.String), &track.Extras)
		}

		pl.Tracks = append(pl.Tracks, track)
	}
	return &pl, rows.Err()
}

// AppendHistory records a single playback event.
func (s *Store) AppendHistory(ctx context.Context, track domain.Track, guildID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO play_history (track_id, title, artist, source_name, guild_id, played_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, string(track.ID), track.Title, track.Artist, track.SourceName, guildID, time.Now().UTC())
	return err
}

// TopRecentHistory returns the most recent history entries, newest first.
func (s *Store) TopRecentHistory(ctx context.Context, limit int) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT track_id, title, artist, source_name, guild_id, played_at
		FROM play_history
		ORDER BY played_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.TrackID, &e.Title, &e.Artist, &e.SourceName, &e.GuildID, &e.PlayedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
