package store

import "errors"

// ErrNotFound is returned when a playlist lookup matches no row.
var ErrNotFound = errors.New("store: not found")
