package sources

import "errors"

// ErrAllFailed is returned when every enabled plugin failed and none
// produced a result for a search call.
var ErrAllFailed = errors.New("sources: all plugins failed")

// ErrNoPrimaryPlugin is returned when a plugin delegates resolution but no
// primary plugin is registered to delegate to.
var ErrNoPrimaryPlugin = errors.New("sources: no primary plugin registered to delegate to")

// ErrUnknownSource is returned when a source filter names a plugin that
// isn't registered.
var ErrUnknownSource = errors.New("sources: unknown source")
