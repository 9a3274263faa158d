package music_player

import (
	"github.com/sglre6355/sgrbot/internal/modules/music_player/cache"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/playlist"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/store"
)

// Config holds the music player module configuration. Each subsystem gets
// its own nested Config struct, parsed by caarlos0/env's recursive struct
// support alongside the top-level Lavalink settings.
type Config struct {
	LavalinkAddress  string `env:"LAVALINK_ADDRESS,notEmpty"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD,notEmpty"`

	SpotifyClientID     string `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`

	Cache    cache.Config
	Store    store.Config
	Playlist playlist.Config
	Playback PlaybackConfig
}

// PlaybackConfig holds the playback settings parsed from the environment.
// The module does not read these values; a new PlayerState takes its volume
// from domain.DefaultVolume.
type PlaybackConfig struct {
	DefaultVolume int `env:"MUSIC_PLAYBACK_DEFAULT_VOLUME" envDefault:"100"`
	BufferSize    int `env:"MUSIC_PLAYBACK_BUFFER_SIZE" envDefault:"960"`
	AudioBitrate  int `env:"MUSIC_PLAYBACK_AUDIO_BITRATE" envDefault:"128000"`
}
