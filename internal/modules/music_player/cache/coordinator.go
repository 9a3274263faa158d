package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

// Extractor is the external audio extractor collaborator (§6): it turns a
// source URL into a downloaded file on disk, and can optionally probe a
// URL's metadata without downloading it.
type Extractor interface {
	// Probe returns best-effort title/duration metadata for url without
	// downloading it. Implementations that cannot probe return an error;
	// the coordinator then skips the duration filter.
	Probe(ctx context.Context, url string) (title string, duration time.Duration, err error)

	// Extract downloads url to a file matching outputTemplate (a yt-dlp
	// style "%(ext)s" template) and returns the produced file's path.
	Extract(ctx context.Context, url, outputTemplate string) (filePath string, err error)
}

// Coordinator bounds concurrent downloads via a buffered-channel semaphore
// and collapses concurrent requests for the same URL via singleflight, per
// §4.C / §5 ordering guarantee (a).
type Coordinator struct {
	sem       chan struct{}
	sf        singleflight.Group
	cfg       Config
	extractor Extractor

	shutdown  chan struct{}
	closeOnce sync.Once
}

// NewCoordinator creates a Coordinator bounded by cfg.MaxConcurrentFetches.
func NewCoordinator(cfg Config, extractor Extractor) *Coordinator {
	max := cfg.MaxConcurrentFetches
	if max <= 0 {
		max = 3
	}
	return &Coordinator{
		sem:       make(chan struct{}, max),
		cfg:       cfg,
		extractor: extractor,
		shutdown:  make(chan struct{}),
	}
}

// Close cancels all in-flight extractions. Pending singleflight waiters
// observe a cancellation error.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() { close(c.shutdown) })
}

// Download produces a temporary local file for url, single-flighted per
// URL and bounded by the download semaphore. The duration filter (§4.C)
// rejects unsuitable tracks before any bytes are downloaded.
func (c *Coordinator) Download(ctx context.Context, url string, trackID domain.TrackID) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-c.shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	v, err, _ := c.sf.Do(url, func() (any, error) {
		select {
		case c.sem <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		defer func() { <-c.sem }()

		return c.download(ctx, url, trackID)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Coordinator) download(ctx context.Context, url string, trackID domain.TrackID) (string, error) {
	if _, duration, err := c.extractor.Probe(ctx, url); err == nil {
		if duration < allowedDurationMin || duration > allowedDurationMax {
			return "", fmt.Errorf("%w: duration %s outside [%s,%s]",
				ErrDownloadFailed, duration, allowedDurationMin, allowedDurationMax)
		}
	}

	tmpDir := filepath.Join(c.cfg.RootDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	outputTemplate := filepath.Join(tmpDir, string(trackID)+".%(ext)s")

	dctx, dcancel := context.WithTimeout(ctx, c.cfg.DownloadTimeout)
	defer dcancel()

	path, err := retryWithBackoff(dctx, 3, func() (string, error) {
		return c.extractor.Extract(dctx, url, outputTemplate)
	})
	if err != nil {
		cleanupTempOutput(outputTemplate)
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	return path, nil
}

func cleanupTempOutput(outputTemplate string) {
	pattern := outputTemplate[:len(outputTemplate)-len("%(ext)s")] + "*"
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return
	}
	for _, m := range matches {
		_ = os.Remove(m)
	}
}

// retryWithBackoff retries fn with exponential backoff (base 1s, factor 2,
// cap 60s), per §7's retry policy, up to maxAttempts total tries.
func retryWithBackoff(ctx context.Context, maxAttempts int, fn func() (string, error)) (string, error) {
	backoff := time.Second
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err

		if attempt == maxAttempts-1 {
			break
		}

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return "", ctx.Err()
		}

		backoff *= 2
		if backoff > 60*time.Second {
			backoff = 60 * time.Second
		}
	}

	return "", lastErr
}
