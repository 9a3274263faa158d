package usecases

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

// PauseInput contains the input for the Pause use case.
type PauseInput struct {
	GuildID snowflake.ID
}

// ResumeInput contains the input for the Resume use case.
type ResumeInput struct {
	GuildID snowflake.ID
}

// SkipInput contains the input for the Skip use case.
type SkipInput struct {
	GuildID snowflake.ID
}

// SkipOutput contains the result of the Skip use case.
type SkipOutput struct {
	SkippedTrackID string
	NextTrackID    string // empty if the queue has nothing left to play
}

// SetLoopModeInput contains the input for the SetLoopMode use case.
type SetLoopModeInput struct {
	GuildID snowflake.ID
	Mode    string // "track", "queue", "shuffle", or "off"
}

// CycleLoopModeInput contains the input for the CycleLoopMode use case.
type CycleLoopModeInput struct {
	GuildID snowflake.ID
}

// CycleLoopModeOutput contains the result of the CycleLoopMode use case.
type CycleLoopModeOutput struct {
	NewMode string // "track", "queue", "shuffle", or "off"
}

// PlaybackService handles playback operations: pause/resume/skip and the
// play-mode state machine. It never loads tracks or talks to the audio
// player directly to start a new one — it mutates PlayerState and publishes
// domain.CurrentTrackChangedEvent, and the event handlers (which do hold a
// TrackProvider) react by resolving and playing the new current track.
type PlaybackService struct {
	repo        domain.PlayerStateRepository
	audioPlayer ports.AudioPlayer
	publisher   ports.EventPublisher
	notifier    ports.NotificationSender
	voiceConn   ports.VoiceConnection
	voiceState  ports.VoiceStateProvider
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(
	repo domain.PlayerStateRepository,
	audioPlayer ports.AudioPlayer,
	publisher ports.EventPublisher,
	notifier ports.NotificationSender,
	voiceConn ports.VoiceConnection,
	voiceState ports.VoiceStateProvider,
) *PlaybackService {
	return &PlaybackService{
		repo:        repo,
		audioPlayer: audioPlayer,
		publisher:   publisher,
		notifier:    notifier,
		voiceConn:   voiceConn,
		voiceState:  voiceState,
	}
}

// Pause pauses the current playback.
func (p *PlaybackService) Pause(ctx context.Context, input PauseInput) error {
	state, err := p.repo.Get(ctx, input.GuildID)
	if err != nil {
		return ErrNotConnected
	}

	if !state.IsPlaybackActive() {
		return ErrNotPlaying
	}
	if state.IsPaused() {
		return ErrAlreadyPaused
	}

	if err := p.audioPlayer.Pause(ctx, input.GuildID); err != nil {
		return err
	}

	state.SetPaused(true)

	return p.repo.Save(ctx, state)
}

// Resume resumes the paused playback.
func (p *PlaybackService) Resume(ctx context.Context, input ResumeInput) error {
	state, err := p.repo.Get(ctx, input.GuildID)
	if err != nil {
		return ErrNotConnected
	}

	if !state.IsPlaybackActive() {
		return ErrNotPlaying
	}
	if !state.IsPaused() {
		return ErrNotPaused
	}

	if err := p.audioPlayer.Resume(ctx, input.GuildID); err != nil {
		return err
	}

	state.SetPaused(false)

	return p.repo.Save(ctx, state)
}

// Skip advances past the current track according to the play mode. If a
// track remains, publishes CurrentTrackChangedEvent so the event handlers
// load and play it. If the queue has nothing left, stops the audio player
// and requests deletion of the "Now Playing" message directly (there is no
// new current track to trigger it from an event).
func (p *PlaybackService) Skip(ctx context.Context, input SkipInput) (*SkipOutput, error) {
	state, err := p.repo.Get(ctx, input.GuildID)
	if err != nil {
		return nil, ErrNotConnected
	}

	current := state.Current()
	if current == nil {
		return nil, ErrNotPlaying
	}
	skippedID := current.TrackID

	next := state.Advance(state.GetLoopMode())
	state.SetPaused(false)

	if next == nil {
		state.SetPlaybackActive(false)

		nowPlayingMsg := state.GetNowPlayingMessage()
		state.ClearNowPlayingMessage()

		if err := p.repo.Save(ctx, state); err != nil {
			return nil, err
		}
		if err := p.audioPlayer.Stop(ctx, input.GuildID); err != nil {
			return nil, err
		}
		if nowPlayingMsg != nil {
			if err := p.notifier.DeleteMessage(
				nowPlayingMsg.ChannelID,
				nowPlayingMsg.MessageID,
			); err != nil {
				return nil, err
			}
		}

		return &SkipOutput{SkippedTrackID: string(skippedID)}, nil
	}

	if err := p.repo.Save(ctx, state); err != nil {
		return nil, err
	}

	if err := p.publisher.Publish(domain.NewCurrentTrackChangedEvent(input.GuildID)); err != nil {
		return nil, err
	}

	return &SkipOutput{
		SkippedTrackID: string(skippedID),
		NextTrackID:    string(next.TrackID),
	}, nil
}

// SetLoopMode sets the play mode explicitly.
func (p *PlaybackService) SetLoopMode(ctx context.Context, input SetLoopModeInput) error {
	state, err := p.repo.Get(ctx, input.GuildID)
	if err != nil {
		return ErrNotConnected
	}

	state.SetLoopMode(domain.ParseLoopMode(input.Mode))

	return p.repo.Save(ctx, state)
}

// CycleLoopMode cycles the play mode: track -> queue -> shuffle -> off -> track.
func (p *PlaybackService) CycleLoopMode(
	ctx context.Context,
	input CycleLoopModeInput,
) (*CycleLoopModeOutput, error) {
	state, err := p.repo.Get(ctx, input.GuildID)
	if err != nil {
		return nil, ErrNotConnected
	}

	newMode := state.CycleLoopMode()

	if err := p.repo.Save(ctx, state); err != nil {
		return nil, err
	}

	return &CycleLoopModeOutput{NewMode: loopModeLabel(newMode)}, nil
}

// loopModeLabel maps a domain.LoopMode to the presentation-facing vocabulary
// used by the /loop command and queue list display ("track"/"queue"/
// "shuffle"/"off"), distinct from domain.LoopMode.String()'s internal names.
func loopModeLabel(mode domain.LoopMode) string {
	switch mode {
	case domain.LoopModeTrack:
		return "track"
	case domain.LoopModeQueue:
		return "queue"
	case domain.LoopModeShuffle:
		return "shuffle"
	default:
		return "off"
	}
}
