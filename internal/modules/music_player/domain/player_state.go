package domain

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/disgoorg/snowflake/v2"
)

// Errors returned by PlayerState mutators.
var (
	ErrInvalidIndex    = errors.New("invalid queue index")
	ErrPlayerStateNotFound = errors.New("player state not found")
)

// Status represents the playback state machine's current state, per
// the Idle/Playing/Paused/Buffering/Error transition table.
type Status int

const (
	StatusIdle Status = iota
	StatusPlaying
	StatusPaused
	StatusBuffering
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusBuffering:
		return "buffering"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// PlayerState represents the state of a music player for a guild.
//
// PlayerState carries no lock of its own: callers obtain it from a
// PlayerStateRepository, mutate it, and Save it back.
// infrastructure.MemoryRepository guards each Get, Save and Delete with its
// own mutex; a get-mutate-save cycle as a whole is not serialized per guild.
type PlayerState struct {
	guildID               snowflake.ID       // Guild this player state belongs to
	voiceChannelID        snowflake.ID       // Voice channel the bot is connected to
	notificationChannelID snowflake.ID       // Text channel for notifications
	nowPlayingMessage     *NowPlayingMessage // "Now Playing" message info (for deletion)
	queue                 Queue              // Queue associated with this player state
	currentIndex          int                // Index of the currently playing track in the queue
	isPlaybackActive      bool               // true when playback is active
	isPaused              bool               // true when playback is paused
	loopMode              LoopMode           // play mode for advance()
	status                Status             // playback state machine status
	lastError             error              // last error recorded by the state machine
	shuffleHistory         []int             // indices previously chosen by Shuffle advance, bounded to queue length
	volume                int                // 0-100, applied by the audio player adapter
}

// DefaultVolume is the playback volume assigned to a freshly created PlayerState.
const DefaultVolume = 100

// NewPlayerState creates a new PlayerState for the given guild and channels.
func NewPlayerState(
	guildID snowflake.ID,
	voiceChannelID snowflake.ID,
	notificationChannelID snowflake.ID,
) PlayerState {
	return PlayerState{
		guildID:               guildID,
		voiceChannelID:        voiceChannelID,
		notificationChannelID: notificationChannelID,
		queue:                 NewQueue(),
		status:                StatusIdle,
		volume:                DefaultVolume,
	}
}

// IsPaused returns true if playback is paused.
func (p *PlayerState) IsPaused() bool {
	return p.isPaused
}

// GetGuildID returns the guild ID.
func (p *PlayerState) GetGuildID() snowflake.ID {
	// No read mutex: guildID must not be modified after initialization
	return p.guildID
}

// No SetGuildID method: guildID must not be modified after initialization

// GetVoiceChannelID returns the current voice channel ID.
func (p *PlayerState) GetVoiceChannelID() snowflake.ID {
	return p.voiceChannelID
}

// SetVoiceChannelID updates the voice channel ID.
func (p *PlayerState) SetVoiceChannelID(channelID snowflake.ID) {
	p.voiceChannelID = channelID
}

// GetNotificationChannelID returns the current notification channel ID.
func (p *PlayerState) GetNotificationChannelID() snowflake.ID {
	return p.notificationChannelID
}

// SetNotificationChannelID updates the notification channel ID.
func (p *PlayerState) SetNotificationChannelID(channelID snowflake.ID) {
	p.notificationChannelID = channelID
}

// GetNowPlayingMessage returns a copy of the "Now Playing" message info.
func (p *PlayerState) GetNowPlayingMessage() *NowPlayingMessage {
	if p.nowPlayingMessage == nil {
		return nil
	}
	return &NowPlayingMessage{
		ChannelID: p.nowPlayingMessage.ChannelID,
		MessageID: p.nowPlayingMessage.MessageID,
	}
}

// SetNowPlayingMessage stores the "Now Playing" message info for later deletion.
func (p *PlayerState) SetNowPlayingMessage(nowPlayingMessage *NowPlayingMessage) {
	p.nowPlayingMessage = nowPlayingMessage
}

// ClearNowPlayingMessage discards the stored "Now Playing" message info.
func (p *PlayerState) ClearNowPlayingMessage() {
	p.nowPlayingMessage = nil
}

// CurrentIndex returns the current track index.
func (p *PlayerState) CurrentIndex() int {
	return p.currentIndex
}

func (p *PlayerState) IsPlaybackActive() bool {
	return p.isPlaybackActive
}

func (p *PlayerState) SetPlaybackActive(isPlaybackActive bool) {
	p.isPlaybackActive = isPlaybackActive
	if isPlaybackActive {
		p.status = StatusPlaying
	} else if p.status != StatusError {
		p.status = StatusIdle
	}
}

// Status returns the playback state machine's current status.
func (p *PlayerState) Status() Status {
	return p.status
}

// LastError returns the last error recorded while in StatusError, if any.
func (p *PlayerState) LastError() error {
	return p.lastError
}

// SetErrored transitions the state machine to StatusError, recording err.
// Per the transition table, the state machine attempts advance() once more
// before settling; callers are responsible for invoking Advance afterward.
func (p *PlayerState) SetErrored(err error) {
	p.status = StatusError
	p.lastError = err
}

// Volume returns the playback volume (0-100).
func (p *PlayerState) Volume() int {
	return p.volume
}

// SetVolume sets the playback volume, clamped to [0, 100].
func (p *PlayerState) SetVolume(volume int) {
	switch {
	case volume < 0:
		volume = 0
	case volume > 100:
		volume = 100
	}
	p.volume = volume
}

// IsAtLast returns true if the current track is the last in the queue.
func (p *PlayerState) IsAtLast() bool {
	return p.currentIndex == p.queue.Len()-1
}

// HasNext reports whether Advance would yield a track under the current loop mode.
func (p *PlayerState) HasNext() bool {
	if p.queue.IsEmpty() {
		return false
	}

	switch p.loopMode {
	case LoopModeTrack, LoopModeQueue, LoopModeShuffle:
		return true
	default: // LoopModeNone (Sequential)
		return !p.IsAtLast()
	}
}

// Played returns entries before the current index.
// Returns empty slice if no entries or at the first track.
func (p *PlayerState) Played() []QueueEntry {
	if p.queue.IsEmpty() {
		return []QueueEntry{}
	}

	played := p.queue.entries[:p.currentIndex]
	result := make([]QueueEntry, len(played))
	copy(result, played)
	return result
}

// Current returns the entry at currentIndex, or nil if the queue is empty.
func (p *PlayerState) Current() *QueueEntry {
	if !p.IsPlaybackActive() || p.queue.IsEmpty() {
		return nil
	}
	return &p.queue.entries[p.currentIndex]
}

// Upcoming returns entries after the current index.
// Returns empty slice if no entries or no current entry.
func (p *PlayerState) Upcoming() []QueueEntry {
	if !p.IsPlaybackActive() || p.queue.IsEmpty() {
		return []QueueEntry{}
	}

	upcoming := p.queue.entries[p.currentIndex+1:]
	result := make([]QueueEntry, len(upcoming))
	copy(result, upcoming)
	return result
}

// Seek sets the currentIndex to the specified index.
// Returns the entry at that index, or nil if index is out of bounds.
// Does not change currentIndex if index is invalid.
func (p *PlayerState) Seek(index int) *QueueEntry {
	if !p.queue.isValidIndex(index) {
		return nil
	}

	p.currentIndex = index
	return &p.queue.entries[index]
}

// GetLoopMode returns the current play mode.
func (p *PlayerState) GetLoopMode() LoopMode {
	return p.loopMode
}

// SetLoopMode sets the play mode.
func (p *PlayerState) SetLoopMode(mode LoopMode) {
	p.loopMode = mode
	if mode != LoopModeShuffle {
		p.shuffleHistory = nil
	}
}

// CycleLoopMode cycles through play modes: Sequential -> RepeatOne -> RepeatAll -> Shuffle -> Sequential.
// Returns the new play mode.
func (p *PlayerState) CycleLoopMode() LoopMode {
	switch p.loopMode {
	case LoopModeNone:
		p.SetLoopMode(LoopModeTrack)
	case LoopModeTrack:
		p.SetLoopMode(LoopModeQueue)
	case LoopModeQueue:
		p.SetLoopMode(LoopModeShuffle)
	case LoopModeShuffle:
		p.SetLoopMode(LoopModeNone)
	}
	return p.loopMode
}

// Advance moves to the next track based on the play mode.
// Returns the new current entry, or nil if the queue ended.
//   - Sequential (LoopModeNone): advance index, return nil if past end
//   - RepeatOne (LoopModeTrack): don't advance, return same entry
//   - RepeatAll (LoopModeQueue): advance, wrap to 0 if past end
//   - Shuffle (LoopModeShuffle): choose uniformly among indices other than
//     current, excluding (once history has grown to at least half the
//     queue) the trailing third of shuffle-history, then push the chosen
//     index onto history and trim history to queue length.
func (p *PlayerState) Advance(mode LoopMode) *QueueEntry {
	if p.queue.IsEmpty() {
		return nil
	}

	switch mode {
	case LoopModeTrack:
		// Don't modify currentIndex, return same entry

	case LoopModeQueue:
		if p.IsAtLast() {
			p.currentIndex = 0
		} else {
			p.currentIndex++
		}

	case LoopModeShuffle:
		p.currentIndex = p.nextShuffleIndex()

	default: // LoopModeNone (Sequential)
		if p.IsAtLast() {
			return nil
		}
		p.currentIndex++
	}

	return &p.queue.entries[p.currentIndex]
}

// nextShuffleIndex picks the next shuffle index per the anti-repeat rule and
// records it in history.
func (p *PlayerState) nextShuffleIndex() int {
	n := p.queue.Len()

	excluded := map[int]bool{p.currentIndex: true}
	if len(p.shuffleHistory) >= n/2 {
		windowSize := n / 3
		for i := len(p.shuffleHistory) - windowSize; i < len(p.shuffleHistory); i++ {
			if i >= 0 {
				excluded[p.shuffleHistory[i]] = true
			}
		}
	}

	candidates := make([]int, 0, n)
	for i := range n {
		if !excluded[i] {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		// Every index was excluded (tiny queue): fall back to anything but current.
		for i := range n {
			if i != p.currentIndex {
				candidates = append(candidates, i)
			}
		}
	}
	if len(candidates) == 0 {
		// Single-track queue: nowhere else to go.
		return p.currentIndex
	}

	chosen := candidates[rand.IntN(len(candidates))]

	p.shuffleHistory = append(p.shuffleHistory, chosen)
	if len(p.shuffleHistory) > n {
		p.shuffleHistory = p.shuffleHistory[len(p.shuffleHistory)-n:]
	}

	return chosen
}

// Previous moves to the previous track, symmetric with Advance.
// Sequential refuses to go below index 0 (returns nil). Shuffle pops the
// most recent entry from history and returns to it.
func (p *PlayerState) Previous(mode LoopMode) *QueueEntry {
	if p.queue.IsEmpty() {
		return nil
	}

	switch mode {
	case LoopModeTrack:
		// Same entry.

	case LoopModeQueue:
		if p.currentIndex == 0 {
			p.currentIndex = p.queue.Len() - 1
		} else {
			p.currentIndex--
		}

	case LoopModeShuffle:
		if len(p.shuffleHistory) == 0 {
			return nil
		}
		prev := p.shuffleHistory[len(p.shuffleHistory)-1]
		p.shuffleHistory = p.shuffleHistory[:len(p.shuffleHistory)-1]
		p.currentIndex = prev

	default: // LoopModeNone (Sequential)
		if p.currentIndex == 0 {
			return nil
		}
		p.currentIndex--
	}

	return &p.queue.entries[p.currentIndex]
}

// Len returns the number of entries in the queue.
func (p *PlayerState) Len() int {
	return p.queue.Len()
}

// IsEmpty returns true if the queue has no entries.
func (p *PlayerState) IsEmpty() bool {
	return p.queue.IsEmpty()
}

// List returns a copy of all entries in the queue.
func (p *PlayerState) List() []QueueEntry {
	return p.queue.List()
}

// Get returns the entry at the given index without removing it.
func (p *PlayerState) Get(index int) (*QueueEntry, error) {
	return p.queue.Get(index)
}

// Append adds entries to the end of the queue.
func (p *PlayerState) Append(entries ...QueueEntry) {
	p.queue.Append(entries...)
}

// Prepend adds entries to the front of the queue.
// If playback is active, adjusts currentIndex to keep pointing at the same track.
func (p *PlayerState) Prepend(entries ...QueueEntry) {
	p.queue.Prepend(entries...)
	if p.isPlaybackActive {
		p.currentIndex += len(entries)
	}
}

// Remove removes and returns the entry at the given index.
// If removing the current track, advances to the next track first (respecting loop mode).
// Adjusts currentIndex and playback state to maintain consistency.
func (p *PlayerState) Remove(index int) (*QueueEntry, error) {
	if !p.queue.isValidIndex(index) {
		return nil, ErrInvalidIndex
	}

	// If removing the current track, advance first so we know what to play next.
	// RepeatOne is treated as Sequential here because the track being
	// looped is being removed, so there is nothing to repeat.
	if p.IsPlaybackActive() && index == p.currentIndex {
		loopmode := p.loopMode
		if loopmode == LoopModeTrack {
			loopmode = LoopModeNone
		}
		next := p.Advance(loopmode)
		if next == nil {
			p.isPlaybackActive = false
		}
	}

	entry, err := p.queue.Remove(index)
	if err != nil {
		return nil, err
	}

	if p.queue.IsEmpty() {
		p.currentIndex = 0
		p.isPlaybackActive = false
	} else if index < p.currentIndex {
		p.currentIndex--
	} else if p.currentIndex >= p.queue.Len() {
		p.currentIndex = p.queue.Len() - 1
	}

	return entry, nil
}

// Clear removes all entries from the queue and resets playback state.
func (p *PlayerState) Clear() {
	p.queue.Clear()
	p.currentIndex = 0
	p.isPlaybackActive = false
	p.shuffleHistory = nil
}

// SetPaused sets the paused state to true.
func (p *PlayerState) SetPaused(isPaused bool) {
	p.isPaused = isPaused
	if p.isPlaybackActive {
		if isPaused {
			p.status = StatusPaused
		} else {
			p.status = StatusPlaying
		}
	}
}

func (p *PlayerState) TogglePaused() {
	p.SetPaused(!p.isPaused)
}

// PlayerStateRepository defines the interface for storing and retrieving player states.
type PlayerStateRepository interface {
	// Get returns the PlayerState for the given guild, or error if not exists.
	Get(ctx context.Context, guildID snowflake.ID) (PlayerState, error)

	// Save stores the PlayerState.
	Save(ctx context.Context, state PlayerState) error

	// Delete removes the PlayerState for the given guild.
	Delete(ctx context.Context, guildID snowflake.ID) error
}
