package store

import "time"

// PlaylistSummary is a lightweight projection of a stored playlist used
// for listing, without loading every track row.
type PlaylistSummary struct {
	ID          string
	Name        string
	Description string
	Creator     string
	CoverURL    string
	TrackCount  int
	UpdatedAt   time.Time
}

// HistoryEntry is one row of the append-only play history log.
type HistoryEntry struct {
	TrackID    string
	Title      string
	Artist     string
	SourceName string
	GuildID    string
	PlayedAt   time.Time
}
