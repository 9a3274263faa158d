package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	track_id TEXT PRIMARY KEY,
	file_path TEXT NOT NULL,
	file_size INTEGER NOT NULL,
	content_hash TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	last_accessed TIMESTAMP NOT NULL,
	access_count INTEGER NOT NULL DEFAULT 0,
	reference_count INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_cache_entries_content_hash ON cache_entries(content_hash);
CREATE INDEX IF NOT EXISTS idx_cache_entries_last_accessed ON cache_entries(last_accessed);
`

// Engine is the Audio Cache Engine: a content-addressed on-disk cache with
// refcount + LRU + dedup, backed by SQLite. All mutating operations are
// serialized by mu, matching the teacher's single-writer-lock idiom
// (infrastructure.MemoryRepository's sync.RWMutex-guarded map).
type Engine struct {
	db          *sql.DB
	cfg         Config
	coordinator *Coordinator

	mu sync.Mutex
}

// NewEngine opens (creating if necessary) the cache store under
// cfg.RootDir and ensures the root and tmp directories exist.
func NewEngine(cfg Config, coordinator *Coordinator) (*Engine, error) {
	if err := os.MkdirAll(cfg.RootDir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create root dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(cfg.RootDir, "tmp"), 0o755); err != nil {
		return nil, fmt.Errorf("cache: create tmp dir: %w", err)
	}

	dbPath := filepath.Join(cfg.RootDir, "cache.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("cache: open store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: create schema: %w", err)
	}

	return &Engine{db: db, cfg: cfg, coordinator: coordinator}, nil
}

// Close closes the underlying database handle.
func (e *Engine) Close() error {
	return e.db.Close()
}

// Get returns the on-disk path for track, fetching and caching it first if
// necessary. The "local" source bypasses the cache entirely (§9 design
// note): its opaque-extras path is returned directly when it exists.
func (e *Engine) Get(ctx context.Context, track domain.Track, playURL string) (string, error) {
	if track.SourceName == "local" {
		if path, ok := track.Extras["path"].(string); ok && path != "" {
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	path, ok, err := e.lookup(ctx, track.ID)
	if err != nil {
		return "", err
	}
	if ok {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := e.touch(ctx, track.ID); err != nil {
				slog.Warn("cache: failed to update access metadata", "track_id", track.ID, "error", err)
			}
			return path, nil
		}
	}

	return e.fetchAndStore(ctx, track, playURL)
}

func (e *Engine) lookup(ctx context.Context, id domain.TrackID) (string, bool, error) {
	var path string
	err := e.db.QueryRowContext(ctx, `SELECT file_path FROM cache_entries WHERE track_id = ?`, string(id)).Scan(&path)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

func (e *Engine) touch(ctx context.Context, id domain.TrackID) error {
	_, err := e.db.ExecContext(ctx,
		`UPDATE cache_entries SET last_accessed = ?, access_count = access_count + 1 WHERE track_id = ?`,
		time.Now().UTC(), string(id))
	return err
}

// fetchAndStore implements the four-step protocol from §4.B.
func (e *Engine) fetchAndStore(ctx context.Context, track domain.Track, playURL string) (string, error) {
	tmpPath, err := e.coordinator.Download(ctx, playURL, track.ID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	hash, err := ContentHash(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sharedPath, found, err := e.findSharedPath(ctx, hash, track.ID)
	if err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	if found {
		os.Remove(tmpPath)
		if err := e.insertSharedReference(ctx, track.ID, sharedPath, hash); err != nil {
			return "", err
		}
		return sharedPath, nil
	}

	finalPath, err := e.moveIntoCacheDir(tmpPath, track.ID)
	if err != nil {
		os.Remove(tmpPath)
		return "", err
	}

	info, err := os.Stat(finalPath)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	_, err = e.db.ExecContext(ctx, `
		INSERT INTO cache_entries (track_id, file_path, file_size, content_hash, created_at, last_accessed, access_count, reference_count)
		VALUES (?, ?, ?, ?, ?, ?, 0, 1)
	`, string(track.ID), finalPath, info.Size(), hash, now, now)
	if err != nil {
		return "", err
	}

	if budgetErr := e.ensureBudgetLocked(ctx); budgetErr != nil {
		if !errors.Is(budgetErr, ErrBudgetExceeded) {
			return "", budgetErr
		}
		slog.Warn("cache: over budget but no evictable candidates", "track_id", track.ID)
	}

	return finalPath, nil
}

func (e *Engine) findSharedPath(ctx context.Context, hash string, excludeID domain.TrackID) (string, bool, error) {
	var path string
	err := e.db.QueryRowContext(ctx, `
		SELECT file_path FROM cache_entries
		WHERE content_hash = ? AND reference_count > 0 AND track_id != ?
		LIMIT 1
	`, hash, string(excludeID)).Scan(&path)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return "", false, nil
	}
	return path, true, nil
}

func (e *Engine) insertSharedReference(ctx context.Context, id domain.TrackID, path, hash string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cache_entries (track_id, file_path, file_size, content_hash, created_at, last_accessed, access_count, reference_count)
		VALUES (?, ?, ?, ?, ?, ?, 0, 1)
	`, string(id), path, info.Size(), hash, now, now)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE cache_entries SET reference_count = reference_count + 1 WHERE file_path = ? AND track_id != ?`,
		path, string(id))
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (e *Engine) moveIntoCacheDir(tmpPath string, id domain.TrackID) (string, error) {
	ext := filepath.Ext(tmpPath)
	finalPath := filepath.Join(e.cfg.RootDir, string(id)+ext)

	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", err
	}
	return finalPath, nil
}

// Remove decrements the refcount for track's backing file, deletes its
// row, and unlinks the file once no row references it.
func (e *Engine) Remove(ctx context.Context, id domain.TrackID) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	path, ok, err := e.lookup(ctx, id)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrNotFound
	}

	if _, err := e.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE track_id = ?`, string(id)); err != nil {
		return false, err
	}
	if _, err := e.db.ExecContext(ctx, `UPDATE cache_entries SET reference_count = reference_count - 1 WHERE file_path = ? AND reference_count > 0`, path); err != nil {
		return false, err
	}

	var remaining int
	if err := e.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache_entries WHERE file_path = ?`, path).Scan(&remaining); err != nil {
		return false, err
	}
	if remaining == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return false, err
		}
	}

	return true, nil
}

// Clear wipes all rows and all files under the cache root except the
// database file and the tmp directory.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.db.ExecContext(ctx, `DELETE FROM cache_entries`); err != nil {
		return err
	}

	entries, err := os.ReadDir(e.cfg.RootDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Name() == "cache.db" || entry.Name() == "tmp" {
			continue
		}
		if err := os.RemoveAll(filepath.Join(e.cfg.RootDir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Stats reports aggregate cache statistics.
type Stats struct {
	Files          int
	Bytes          int64
	MaxBytes       int64
	UsagePercent   float64
	AvgAccessCount float64
	Oldest         time.Time
	Newest         time.Time
}

// Stats returns aggregate usage statistics across distinct files.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{MaxBytes: e.cfg.MaxSizeBytes}

	row := e.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT file_path), COALESCE(SUM(file_size), 0)
		FROM (SELECT file_path, MIN(file_size) AS file_size FROM cache_entries GROUP BY file_path)
	`)
	if err := row.Scan(&stats.Files, &stats.Bytes); err != nil {
		return Stats{}, err
	}
	if stats.MaxBytes > 0 {
		stats.UsagePercent = float64(stats.Bytes) / float64(stats.MaxBytes) * 100
	}

	avgRow := e.db.QueryRowContext(ctx, `SELECT COALESCE(AVG(access_count), 0) FROM cache_entries`)
	if err := avgRow.Scan(&stats.AvgAccessCount); err != nil {
		return Stats{}, err
	}

	boundsRow := e.db.QueryRowContext(ctx, `SELECT MIN(created_at), MAX(created_at) FROM cache_entries`)
	var oldest, newest sql.NullTime
	if err := boundsRow.Scan(&oldest, &newest); err != nil {
		return Stats{}, err
	}
	if oldest.Valid {
		stats.Oldest = oldest.Time
	}
	if newest.Valid {
		stats.Newest = newest.Time
	}

	return stats, nil
}

type evictionCandidate struct {
	filePath     string
	fileSize     int64
	lastAccessed time.Time
}

// ensureBudgetLocked runs the LRU eviction sweep. The caller must hold mu.
func (e *Engine) ensureBudgetLocked(ctx context.Context) error {
	total, err := e.totalBytesLocked(ctx)
	if err != nil {
		return err
	}
	if total <= e.cfg.MaxSizeBytes {
		return nil
	}

	candidates, err := e.evictionCandidatesLocked(ctx)
	if err != nil {
		return err
	}

	lowWater := int64(float64(e.cfg.MaxSizeBytes) * lowWaterFraction)
	now := time.Now().UTC()
	evictedAny := false

	for _, c := range candidates {
		if total <= lowWater {
			break
		}
		if now.Sub(c.lastAccessed) < e.cfg.MinAccessInterval {
			continue
		}

		if err := e.evictFileLocked(ctx, c.filePath); err != nil {
			return err
		}
		total -= c.fileSize
		evictedAny = true
	}

	if total > e.cfg.MaxSizeBytes && !evictedAny {
		return ErrBudgetExceeded
	}
	return nil
}

func (e *Engine) totalBytesLocked(ctx context.Context) (int64, error) {
	var total sql.NullInt64
	err := e.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(file_size), 0) FROM (
			SELECT file_path, MIN(file_size) AS file_size FROM cache_entries GROUP BY file_path
		)
	`).Scan(&total)
	return total.Int64, err
}

func (e *Engine) evictionCandidatesLocked(ctx context.Context) ([]evictionCandidate, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT file_path, MIN(file_size), MIN(last_accessed)
		FROM cache_entries
		WHERE reference_count > 0
		GROUP BY file_path
		ORDER BY MIN(last_accessed) ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []evictionCandidate
	for rows.Next() {
		var c evictionCandidate
		if err := rows.Scan(&c.filePath, &c.fileSize, &c.lastAccessed); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (e *Engine) evictFileLocked(ctx context.Context, path string) error {
	if _, err := e.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE file_path = ?`, path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// CleanupOrphans sweeps the cache root for files with no backing row and
// rows whose file no longer exists, per §4.B's integrity sweep.
func (e *Engine) CleanupOrphans(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rows, err := e.db.QueryContext(ctx, `SELECT track_id, file_path FROM cache_entries`)
	if err != nil {
		return err
	}
	knownPaths := make(map[string]struct{})
	var staleIDs []string
	for rows.Next() {
		var trackID, path string
		if err := rows.Scan(&trackID, &path); err != nil {
			rows.Close()
			return err
		}
		if _, err := os.Stat(path); err != nil {
			staleIDs = append(staleIDs, trackID)
			continue
		}
		knownPaths[path] = struct{}{}
	}
	rows.Close()

	for _, id := range staleIDs {
		if _, err := e.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE track_id = ?`, id); err != nil {
			return err
		}
	}

	entries, err := os.ReadDir(e.cfg.RootDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == "cache.db" {
			continue
		}
		path := filepath.Join(e.cfg.RootDir, entry.Name())
		if _, known := knownPaths[path]; !known {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
	}
	return nil
}
