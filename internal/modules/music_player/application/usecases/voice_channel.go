package usecases

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

// JoinInput contains the input for the Join use case.
type JoinInput struct {
	GuildID               snowflake.ID
	UserID                snowflake.ID
	NotificationChannelID snowflake.ID
	VoiceChannelID        snowflake.ID // Optional: specific channel to join (0 means use user's channel)
}

// JoinOutput contains the result of the Join use case.
type JoinOutput struct {
	VoiceChannelID snowflake.ID
}

// LeaveInput contains the input for the Leave use case.
type LeaveInput struct {
	GuildID snowflake.ID
}

// BotVoiceStateChangeInput contains the input for handling bot voice state changes.
type BotVoiceStateChangeInput struct {
	GuildID      snowflake.ID
	NewChannelID *snowflake.ID // nil means disconnected
}

// VoiceChannelService handles voice channel connect/disconnect operations.
type VoiceChannelService struct {
	repo            domain.PlayerStateRepository
	voiceConnection ports.VoiceConnection
	voiceState      ports.VoiceStateProvider
	publisher       ports.EventPublisher
	notifier        ports.NotificationSender
}

// NewVoiceChannelService creates a new VoiceChannelService.
func NewVoiceChannelService(
	repo domain.PlayerStateRepository,
	voiceConnection ports.VoiceConnection,
	voiceState ports.VoiceStateProvider,
	publisher ports.EventPublisher,
	notifier ports.NotificationSender,
) *VoiceChannelService {
	return &VoiceChannelService{
		repo:            repo,
		voiceConnection: voiceConnection,
		voiceState:      voiceState,
		publisher:       publisher,
		notifier:        notifier,
	}
}

// Join connects the bot to a voice channel, creating a fresh PlayerState if
// none exists for the guild. If the bot is already connected to the target
// channel, only the notification channel is updated. Moving to a different
// channel preserves the existing queue.
func (v *VoiceChannelService) Join(ctx context.Context, input JoinInput) (*JoinOutput, error) {
	existingState, err := v.repo.Get(ctx, input.GuildID)
	hasExisting := err == nil

	voiceChannelID := input.VoiceChannelID
	if voiceChannelID == 0 {
		userChannel, err := v.voiceState.GetUserVoiceChannel(input.GuildID, input.UserID)
		if err != nil {
			return nil, err
		}
		if userChannel == nil {
			return nil, ErrUserNotInVoice
		}
		voiceChannelID = *userChannel
	}

	if hasExisting && existingState.GetVoiceChannelID() == voiceChannelID {
		existingState.SetNotificationChannelID(input.NotificationChannelID)
		if err := v.repo.Save(ctx, existingState); err != nil {
			return nil, err
		}
		return &JoinOutput{VoiceChannelID: voiceChannelID}, nil
	}

	if err := v.voiceConnection.JoinChannel(ctx, input.GuildID, voiceChannelID); err != nil {
		return nil, err
	}

	if hasExisting {
		existingState.SetVoiceChannelID(voiceChannelID)
		existingState.SetNotificationChannelID(input.NotificationChannelID)
		if err := v.repo.Save(ctx, existingState); err != nil {
			return nil, err
		}
	} else {
		state := domain.NewPlayerState(input.GuildID, voiceChannelID, input.NotificationChannelID)
		if err := v.repo.Save(ctx, state); err != nil {
			return nil, err
		}
	}

	return &JoinOutput{VoiceChannelID: voiceChannelID}, nil
}

// HandleBotVoiceStateChange reacts to voice state changes Discord reports for
// the bot itself — being moved to another channel, or disconnected entirely
// (kicked, channel deleted, or the last non-bot member leaving). On
// disconnect, tears down the player state and requests deletion of any
// "Now Playing" message.
func (v *VoiceChannelService) HandleBotVoiceStateChange(
	ctx context.Context,
	input BotVoiceStateChangeInput,
) {
	state, err := v.repo.Get(ctx, input.GuildID)
	if err != nil {
		return
	}

	if input.NewChannelID == nil {
		nowPlayingMsg := state.GetNowPlayingMessage()
		if nowPlayingMsg != nil && v.notifier != nil {
			_ = v.notifier.DeleteMessage(nowPlayingMsg.ChannelID, nowPlayingMsg.MessageID)
		}
		_ = v.repo.Delete(ctx, input.GuildID)
		return
	}

	if *input.NewChannelID != state.GetVoiceChannelID() {
		state.SetVoiceChannelID(*input.NewChannelID)
		_ = v.repo.Save(ctx, state)
	}
}

// Leave disconnects the bot from its voice channel and discards the player
// state, deleting any "Now Playing" message along the way.
func (v *VoiceChannelService) Leave(ctx context.Context, input LeaveInput) error {
	state, err := v.repo.Get(ctx, input.GuildID)
	if err != nil {
		return ErrNotConnected
	}

	nowPlayingMsg := state.GetNowPlayingMessage()
	if nowPlayingMsg != nil {
		if err := v.notifier.DeleteMessage(
			nowPlayingMsg.ChannelID,
			nowPlayingMsg.MessageID,
		); err != nil {
			return err
		}
	}

	if err := v.voiceConnection.LeaveChannel(ctx, input.GuildID); err != nil {
		return err
	}

	return v.repo.Delete(ctx, input.GuildID)
}
