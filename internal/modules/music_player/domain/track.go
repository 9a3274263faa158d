package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// TrackID is a unique identifier for a track in a queue.
type TrackID string

// Track represents a playable audio track.
type Track struct {
	ID                 TrackID
	Encoded            string // Lavalink encoded track data
	Title              string
	Artist             string
	Album              string
	Duration           time.Duration
	URI                string
	ArtworkURL         string
	SourceName         string // e.g., "youtube", "spotify", "soundcloud"
	IsStream           bool
	Tags               []string
	ReleaseDate        time.Time
	// Extras carries source-specific opaque data, e.g. the "local" source's
	// pre-seeded library file path.
	Extras             map[string]any
	RequesterID        snowflake.ID // Discord user who added the track
	RequesterName      string       // Display name of the requester
	RequesterAvatarURL string       // Avatar URL of the requester
	EnqueuedAt         time.Time
}

// Source returns the parsed TrackSource for this track.
func (t *Track) Source() TrackSource {
	return ParseTrackSource(t.SourceName)
}

// NewTrack creates a new Track with the given parameters.
func NewTrack(
	id TrackID,
	encoded string,
	title string,
	artist string,
	duration time.Duration,
	uri string,
	artworkURL string,
	sourceName string,
	isStream bool,
	requesterID snowflake.ID,
	requesterName string,
	requesterAvatarURL string,
) *Track {
	return &Track{
		ID:                 id,
		Encoded:            encoded,
		Title:              title,
		Artist:             artist,
		Duration:           duration,
		URI:                uri,
		ArtworkURL:         artworkURL,
		SourceName:         sourceName,
		IsStream:           isStream,
		RequesterID:        requesterID,
		RequesterName:      requesterName,
		RequesterAvatarURL: requesterAvatarURL,
		EnqueuedAt:         time.Now().UTC(),
	}
}

// NewMetadataTrack creates a Track carrying only catalog metadata (title,
// artist, album, duration, source), as produced by a source plugin, the
// playlist importer, or the metadata store — without a queue requester.
// If id is empty, a stable hash of (title, artist, source) is derived so
// the same logical track always resolves to the same TrackID.
func NewMetadataTrack(
	id TrackID,
	title, artist, album string,
	duration time.Duration,
	uri, artworkURL, sourceName string,
) *Track {
	if id == "" {
		id = StableTrackID(title, artist, sourceName)
	}
	return &Track{
		ID:         id,
		Title:      title,
		Artist:     artist,
		Album:      album,
		Duration:   duration,
		URI:        uri,
		ArtworkURL: artworkURL,
		SourceName: sourceName,
		Extras:     make(map[string]any),
	}
}

// StableTrackID derives a deterministic TrackID from title, artist, and
// source, matching identical (title, artist, source) tuples across runs.
func StableTrackID(title, artist, source string) TrackID {
	key := strings.ToLower(title) + "|" + strings.ToLower(artist) + "|" + strings.ToLower(source)
	sum := md5.Sum([]byte(key))
	return TrackID(hex.EncodeToString(sum[:]))
}

// IsValid returns true if the track has the minimum required fields.
func (t *Track) IsValid() bool {
	return t.Encoded != "" && t.Title != ""
}

// FormattedDuration returns the duration as a human-readable string (mm:ss or hh:mm:ss).
func (t *Track) FormattedDuration() string {
	if t.IsStream {
		return "LIVE"
	}

	totalSeconds := int(t.Duration.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return formatTime(hours, minutes, seconds)
	}
	return formatTimeShort(minutes, seconds)
}

func formatTime(hours, minutes, seconds int) string {
	return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
}

func formatTimeShort(minutes, seconds int) string {
	return pad(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
