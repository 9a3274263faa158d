package cache

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"time"

	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

// windowSize is the size of each of the three sampled windows used by the
// content-hash algorithm.
const windowSize = 8 * 1024

// fullHashThreshold is the file size at or below which the whole file is
// hashed instead of the three sampled windows.
const fullHashThreshold = 24 * 1024

// Entry is a row of the cache_entries table: a track-id tied to an on-disk
// audio file with refcount and LRU bookkeeping.
type Entry struct {
	TrackID       domain.TrackID
	FilePath      string
	FileSize      int64
	ContentHash   string
	CreatedAt     time.Time
	LastAccessed  time.Time
	AccessCount   int64
	ReferenceCount int
}

// ContentHash computes the spec's probabilistic dedup hash: MD5 over the
// three 8 KiB windows [0, size/2, size-8KiB), or the whole file when it is
// at or below 24 KiB.
func ContentHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	size := info.Size()

	h := md5.New()

	if size <= fullHashThreshold {
		if _, err := io.Copy(h, f); err != nil {
			return "", err
		}
		return hex.EncodeToString(h.Sum(nil)), nil
	}

	windows := []int64{0, size / 2, size - windowSize}
	buf := make([]byte, windowSize)
	for _, offset := range windows {
		n, err := f.ReadAt(buf, offset)
		if err != nil && err != io.EOF {
			return "", err
		}
		h.Write(buf[:n])
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
