package domain

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
)

const (
	testGuildID        = snowflake.ID(1)
	testVoiceChannelID  = snowflake.ID(100)
	testNotifyChannel   = snowflake.ID(200)
)

func newTestPlayerState() PlayerState {
	return NewPlayerState(testGuildID, testVoiceChannelID, testNotifyChannel)
}

func TestNewPlayerState(t *testing.T) {
	state := newTestPlayerState()

	if state.GetGuildID() != testGuildID {
		t.Errorf("expected GuildID %d, got %d", testGuildID, state.GetGuildID())
	}
	if state.GetVoiceChannelID() != testVoiceChannelID {
		t.Errorf(
			"expected VoiceChannelID %d, got %d",
			testVoiceChannelID,
			state.GetVoiceChannelID(),
		)
	}
	if state.IsPaused() {
		t.Error("expected not to be paused")
	}
	if state.Status() != StatusIdle {
		t.Errorf("expected idle status, got %v", state.Status())
	}
	if state.Volume() != DefaultVolume {
		t.Errorf("expected default volume %d, got %d", DefaultVolume, state.Volume())
	}
}

func TestPlayerState_AppendActivatesQueue(t *testing.T) {
	state := newTestPlayerState()
	state.Append(entry("a"), entry("b"))

	if state.IsPlaybackActive() {
		t.Error("appending alone should not activate playback")
	}

	state.Seek(0)
	state.SetPlaybackActive(true)

	if !state.IsPlaybackActive() {
		t.Error("expected playback active")
	}
	if state.Status() != StatusPlaying {
		t.Errorf("expected StatusPlaying, got %v", state.Status())
	}
	current := state.Current()
	if current == nil || current.TrackID != "a" {
		t.Fatalf("expected current track a, got %+v", current)
	}
}

func TestPlayerState_Advance_Sequential(t *testing.T) {
	state := newTestPlayerState()
	state.Append(entry("a"), entry("b"))
	state.Seek(0)
	state.SetPlaybackActive(true)

	next := state.Advance(LoopModeNone)
	if next == nil || next.TrackID != "b" {
		t.Fatalf("expected b, got %+v", next)
	}

	next = state.Advance(LoopModeNone)
	if next != nil {
		t.Errorf("expected nil at end of queue, got %+v", next)
	}
}

func TestPlayerState_Advance_RepeatOne(t *testing.T) {
	state := newTestPlayerState()
	state.Append(entry("a"), entry("b"))
	state.Seek(0)
	state.SetPlaybackActive(true)

	next := state.Advance(LoopModeTrack)
	if next == nil || next.TrackID != "a" {
		t.Fatalf("expected a (repeat), got %+v", next)
	}
}

func TestPlayerState_Advance_RepeatAll_Wraps(t *testing.T) {
	state := newTestPlayerState()
	state.Append(entry("a"), entry("b"))
	state.Seek(0)
	state.SetPlaybackActive(true)

	state.Advance(LoopModeQueue)
	next := state.Advance(LoopModeQueue)
	if next == nil || next.TrackID != "a" {
		t.Fatalf("expected wrap to a, got %+v", next)
	}
}

func TestPlayerState_Advance_Shuffle_NeverRepeatsCurrent(t *testing.T) {
	state := newTestPlayerState()
	for i := range 9 {
		state.Append(entry(string(rune('a' + i))))
	}
	state.Seek(0)
	state.SetPlaybackActive(true)

	for range 20 {
		beforeIndex := state.CurrentIndex()
		next := state.Advance(LoopModeShuffle)
		if next == nil {
			t.Fatal("expected shuffle to always have a next track in a multi-track queue")
		}
		if state.CurrentIndex() == beforeIndex {
			t.Error("shuffle should never pick the current index")
		}
	}
}

func TestPlayerState_Advance_Shuffle_AvoidsRecentHistoryWindow(t *testing.T) {
	state := newTestPlayerState()
	for i := range 9 {
		state.Append(entry(string(rune('a' + i))))
	}
	state.Seek(0)
	state.SetPlaybackActive(true)

	// Once shuffle history has grown to at least half the queue (>=4 of 9),
	// the trailing third of history (3 entries) must also be excluded from
	// the next pick.
	var history []int
	for range 6 {
		next := state.Advance(LoopModeShuffle)
		chosen := state.CurrentIndex()
		if len(history) >= 4 {
			windowStart := len(history) - 3
			for _, excludedIdx := range history[windowStart:] {
				if chosen == excludedIdx {
					t.Errorf(
						"advance picked %d (%v) which is within the anti-repeat window %v",
						chosen,
						next,
						history[windowStart:],
					)
				}
			}
		}
		history = append(history, chosen)
	}
}

func TestPlayerState_Remove_CurrentTrackAdvancesFirst(t *testing.T) {
	state := newTestPlayerState()
	state.Append(entry("a"), entry("b"))
	state.Seek(0)
	state.SetPlaybackActive(true)

	removed, err := state.Remove(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed.TrackID != "a" {
		t.Errorf("expected to remove a, got %v", removed.TrackID)
	}
	if state.Current() == nil || state.Current().TrackID != "b" {
		t.Errorf("expected b to now be current, got %+v", state.Current())
	}
}

func TestPlayerState_Clear(t *testing.T) {
	state := newTestPlayerState()
	state.Append(entry("a"), entry("b"))
	state.Seek(0)
	state.SetPlaybackActive(true)

	state.Clear()

	if !state.IsEmpty() {
		t.Error("expected queue to be empty")
	}
	if state.IsPlaybackActive() {
		t.Error("expected playback inactive after clear")
	}
}

func TestPlayerState_LoopMode(t *testing.T) {
	state := newTestPlayerState()

	if got := state.GetLoopMode(); got != LoopModeNone {
		t.Errorf("expected LoopModeNone, got %v", got)
	}

	state.SetLoopMode(LoopModeTrack)
	if got := state.GetLoopMode(); got != LoopModeTrack {
		t.Errorf("expected LoopModeTrack, got %v", got)
	}
}

func TestPlayerState_CycleLoopMode(t *testing.T) {
	state := newTestPlayerState()

	order := []LoopMode{LoopModeTrack, LoopModeQueue, LoopModeShuffle, LoopModeNone}
	for _, want := range order {
		if got := state.CycleLoopMode(); got != want {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}

func TestPlayerState_SetVolume_Clamped(t *testing.T) {
	state := newTestPlayerState()

	state.SetVolume(150)
	if state.Volume() != 100 {
		t.Errorf("expected clamp to 100, got %d", state.Volume())
	}

	state.SetVolume(-10)
	if state.Volume() != 0 {
		t.Errorf("expected clamp to 0, got %d", state.Volume())
	}
}

func TestPlayerState_SetErrored(t *testing.T) {
	state := newTestPlayerState()
	state.SetErrored(ErrInvalidIndex)

	if state.Status() != StatusError {
		t.Errorf("expected StatusError, got %v", state.Status())
	}
	if state.LastError() != ErrInvalidIndex {
		t.Errorf("expected recorded error, got %v", state.LastError())
	}
}
