// Package playlist imports playlists from JSON documents served over
// HTTPS or read from the local filesystem, auto-detecting one of a
// handful of known shapes (MusicFree backups, Netease, Spotify, and a
// generic simple format).
package playlist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

// Importer fetches and parses playlist documents.
type Importer struct {
	cfg    Config
	client *resty.Client
}

// NewImporter builds an Importer, filling in the default host allow-list
// when cfg.AllowedHosts is empty.
func NewImporter(cfg Config) *Importer {
	if len(cfg.AllowedHosts) == 0 {
		cfg.AllowedHosts = DefaultAllowedHosts()
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 5 * 1024 * 1024
	}

	client := resty.New().
		SetTimeout(cfg.FetchTimeout).
		SetHeader("User-Agent", "sgrbot-playlist-importer/1.0").
		SetHeader("Accept", "application/json, text/plain, */*")

	return &Importer{cfg: cfg, client: client}
}

// ImportFromURL fetches a JSON document over HTTPS, subject to the host
// allow-list and size cap, then parses it into a Playlist.
func (im *Importer) ImportFromURL(ctx context.Context, rawURL string) (*domain.Playlist, error) {
	if !im.isSafeURL(rawURL) {
		return nil, fmt.Errorf("%w: %s", ErrUnsafeURL, rawURL)
	}

	resp, err := im.client.R().
		SetContext(ctx).
		SetHeader("Accept-Encoding", "identity").
		Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("playlist: fetch %s: %w", rawURL, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("playlist: fetch %s: http %d", rawURL, resp.StatusCode())
	}

	body := resp.Body()
	if int64(len(body)) > im.cfg.MaxBodyBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(body))
	}

	limited := io.LimitReader(strings.NewReader(string(body)), im.cfg.MaxBodyBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("playlist: read body: %w", err)
	}
	if int64(len(data)) > im.cfg.MaxBodyBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}

	return im.parse(data, rawURL)
}

// ImportFromFile reads a local JSON document, bypassing the URL safety
// gate and size cap entirely.
func (im *Importer) ImportFromFile(path string) (*domain.Playlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("playlist: read %s: %w", path, err)
	}
	return im.parse(data, path)
}

func (im *Importer) isSafeURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "https" {
		return false
	}
	host := parsed.Hostname()
	if host == "" {
		return false
	}
	for _, allowed := range im.cfg.AllowedHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

func (im *Importer) parse(data []byte, source string) (*domain.Playlist, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("playlist: invalid json from %s: %w", source, err)
	}

	switch detectFormat(doc) {
	case formatMusicFreeBackup:
		return parseMusicFreeBackup(doc, source)
	case formatNetease:
		return parseNeteasePlaylist(doc, source)
	case formatSpotify:
		return parseSpotifyPlaylist(doc, source)
	case formatSimple:
		return parseSimplePlaylist(doc, source)
	default:
		pl, err := parseSimplePlaylist(doc, source)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, source)
		}
		return pl, nil
	}
}

type playlistFormat int

const (
	formatUnknown playlistFormat = iota
	formatMusicFreeBackup
	formatNetease
	formatSpotify
	formatSimple
)

// detectFormat mirrors the original importer's priority order: musicSheets
// first, then Netease's nested playlist.tracks, then Spotify's
// tracks.items, then the generic name+songs shape. Any other document is
// formatUnknown, which parse tries as the simple format and reports as
// ErrUnknownFormat if that fails.
func detectFormat(doc map[string]any) playlistFormat {
	if _, ok := doc["musicSheets"]; ok {
		return formatMusicFreeBackup
	}
	if pl, ok := doc["playlist"].(map[string]any); ok {
		if _, ok := pl["tracks"]; ok {
			return formatNetease
		}
	}
	if tr, ok := doc["tracks"].(map[string]any); ok {
		if _, ok := tr["items"]; ok {
			return formatSpotify
		}
	}
	if _, hasName := doc["name"]; hasName {
		if _, hasSongs := doc["songs"]; hasSongs {
			return formatSimple
		}
	}
	return formatUnknown
}
