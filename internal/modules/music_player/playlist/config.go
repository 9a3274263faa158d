package playlist

import "time"

// Config controls the importer's network and safety limits.
type Config struct {
	AllowedHosts []string      `env:"PLAYLIST_IMPORT_ALLOWED_HOSTS" envSeparator:","`
	MaxBodyBytes int64         `env:"PLAYLIST_IMPORT_MAX_BYTES" envDefault:"5242880"`
	FetchTimeout time.Duration `env:"PLAYLIST_IMPORT_TIMEOUT" envDefault:"30s"`
}

// DefaultAllowedHosts mirrors the original importer's domain allow-list.
func DefaultAllowedHosts() []string {
	return []string{
		"github.com",
		"raw.githubusercontent.com",
		"gist.github.com",
		"gist.githubusercontent.com",
		"gitlab.com",
		"cdn.jsdelivr.net",
		"unpkg.com",
	}
}
