package domain

import "time"

// PlaylistID is a unique identifier for a playlist.
type PlaylistID string

// Playlist is an ordered collection of Tracks with descriptive metadata.
type Playlist struct {
	ID          PlaylistID
	Name        string
	Description string
	Creator     string
	CoverURL    string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Tracks      []Track
}

// NewPlaylist creates a Playlist with contiguous [0..len-1] track positions.
func NewPlaylist(id PlaylistID, name, description, creator, coverURL string, tracks []Track) *Playlist {
	now := time.Now().UTC()
	return &Playlist{
		ID:          id,
		Name:        name,
		Description: description,
		Creator:     creator,
		CoverURL:    coverURL,
		CreatedAt:   now,
		UpdatedAt:   now,
		Tracks:      tracks,
	}
}
