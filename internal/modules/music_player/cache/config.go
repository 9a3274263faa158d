package cache

import "time"

// Config holds the Audio Cache Engine's tunables, loaded from environment
// variables via caarlos0/env in music_player/config.go.
type Config struct {
	RootDir              string        `env:"MUSIC_CACHE_DIR,notEmpty" envDefault:"./data/cache"`
	MaxSizeBytes         int64         `env:"MUSIC_CACHE_MAX_SIZE_BYTES" envDefault:"5368709120"` // 5 GiB
	MaxConcurrentFetches int           `env:"MUSIC_CACHE_MAX_CONCURRENT_DOWNLOADS" envDefault:"3"`
	DownloadTimeout      time.Duration `env:"MUSIC_CACHE_DOWNLOAD_TIMEOUT" envDefault:"2m"`
	MinAccessInterval    time.Duration `env:"MUSIC_CACHE_MIN_ACCESS_INTERVAL" envDefault:"1h"`
	AudioFormat          string        `env:"MUSIC_CACHE_AUDIO_FORMAT" envDefault:"opus"`
}

// lowWaterFraction is the eviction low-water mark: the sweep evicts until
// total usage is at or below this fraction of MaxSizeBytes.
const lowWaterFraction = 0.8

// allowedDurationMin and allowedDurationMax bound the Download
// Coordinator's duration filter.
const (
	allowedDurationMin = 10 * time.Second
	allowedDurationMax = 30 * time.Minute
)
