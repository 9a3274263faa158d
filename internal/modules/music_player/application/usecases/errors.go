package usecases

import "errors"

// Domain errors for the music player module.
var (
	// ErrNotConnected is returned when an operation requires the bot to be in a voice channel.
	ErrNotConnected = errors.New("not connected to a voice channel")

	// ErrUserNotInVoice is returned when the user is not in a voice channel.
	ErrUserNotInVoice = errors.New("you must be in a voice channel")

	// ErrNotPlaying is returned when no track is currently playing.
	ErrNotPlaying = errors.New("nothing is currently playing")

	// ErrAlreadyPaused is returned when trying to pause while already paused.
	ErrAlreadyPaused = errors.New("playback is already paused")

	// ErrNotPaused is returned when trying to resume while not paused.
	ErrNotPaused = errors.New("playback is not paused")

	// ErrNoResults is returned when a search yields no results.
	ErrNoResults = errors.New("no results found")

	// ErrQueueEmpty is returned when the queue is empty.
	ErrQueueEmpty = errors.New("the queue is empty")

	// ErrInvalidPosition is returned when an invalid queue position is specified.
	ErrInvalidPosition = errors.New("invalid queue position")

	// ErrLoadFailed is returned when loading tracks fails.
	ErrLoadFailed = errors.New("failed to load track")

	// ErrInvalidIndex is returned when a queue index is out of range.
	ErrInvalidIndex = errors.New("invalid queue index")

	// ErrIsCurrentTrack is returned when an operation refuses to target the
	// currently playing track (e.g. removing it via a position-based command).
	ErrIsCurrentTrack = errors.New("cannot target the currently playing track")

	// ErrNothingToClear is returned when a clear operation has no upcoming
	// tracks to remove.
	ErrNothingToClear = errors.New("nothing to clear")

	// ErrSourcesUnavailable is returned when a source-registry-backed
	// operation is invoked on a service built without one.
	ErrSourcesUnavailable = errors.New("source registry unavailable")

	// ErrCacheUnavailable is returned when a cache-backed operation is
	// invoked on a service built without an Audio Cache Engine.
	ErrCacheUnavailable = errors.New("audio cache unavailable")

	// ErrStoreUnavailable is returned when a store-backed operation is
	// invoked on a service built without a metadata store.
	ErrStoreUnavailable = errors.New("metadata store unavailable")

	// ErrImporterUnavailable is returned when a playlist import operation
	// is invoked on a service built without a playlist importer.
	ErrImporterUnavailable = errors.New("playlist importer unavailable")
)
