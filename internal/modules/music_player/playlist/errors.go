package playlist

import "errors"

var (
	// ErrUnsafeURL is returned when a URL fails the https+allow-list gate.
	ErrUnsafeURL = errors.New("playlist: unsafe url")
	// ErrTooLarge is returned when a remote document exceeds the size cap.
	ErrTooLarge = errors.New("playlist: document too large")
	// ErrUnknownFormat is returned when none of the known playlist shapes match.
	ErrUnknownFormat = errors.New("playlist: unknown format")
	// ErrEmptyPlaylist is returned when a recognized document has no songs.
	ErrEmptyPlaylist = errors.New("playlist: no tracks found")
)
