package usecases

import (
	"context"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

var (
	vGuildID  = snowflake.ID(1)
	vUserID   = snowflake.ID(2)
	vVoiceID  = snowflake.ID(10)
	vOtherID  = snowflake.ID(11)
	vNotifyID = snowflake.ID(20)
)

func newVoiceChannelFixture() (*mockRepository, *mockVoiceConnection, *mockVoiceStateProvider, *mockNotificationSender, *VoiceChannelService) {
	repo := newMockRepository()
	conn := &mockVoiceConnection{}
	voiceState := &mockVoiceStateProvider{channels: map[snowflake.ID]snowflake.ID{vUserID: vVoiceID}}
	notifier := &mockNotificationSender{}
	svc := NewVoiceChannelService(repo, conn, voiceState, &mockEventPublisher{}, notifier)
	return repo, conn, voiceState, notifier, svc
}

func TestVoiceChannelService_Join_NewState(t *testing.T) {
	repo, conn, _, _, svc := newVoiceChannelFixture()

	out, err := svc.Join(context.Background(), JoinInput{
		GuildID:               vGuildID,
		UserID:                vUserID,
		NotificationChannelID: vNotifyID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.VoiceChannelID != vVoiceID {
		t.Errorf("expected voice channel %d, got %d", vVoiceID, out.VoiceChannelID)
	}
	if conn.joinErr != nil {
		t.Errorf("unexpected join error: %v", conn.joinErr)
	}

	saved, err := repo.Get(context.Background(), vGuildID)
	if err != nil {
		t.Fatalf("expected player state to be saved: %v", err)
	}
	if saved.GetVoiceChannelID() != vVoiceID {
		t.Errorf("expected saved voice channel %d, got %d", vVoiceID, saved.GetVoiceChannelID())
	}
	if saved.GetNotificationChannelID() != vNotifyID {
		t.Errorf("expected saved notification channel %d, got %d", vNotifyID, saved.GetNotificationChannelID())
	}
}

func TestVoiceChannelService_Join_ExplicitChannel(t *testing.T) {
	repo, _, _, _, svc := newVoiceChannelFixture()

	out, err := svc.Join(context.Background(), JoinInput{
		GuildID:               vGuildID,
		UserID:                vUserID,
		NotificationChannelID: vNotifyID,
		VoiceChannelID:        vOtherID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.VoiceChannelID != vOtherID {
		t.Errorf("expected voice channel %d, got %d", vOtherID, out.VoiceChannelID)
	}

	saved, _ := repo.Get(context.Background(), vGuildID)
	if saved.GetVoiceChannelID() != vOtherID {
		t.Errorf("expected saved voice channel %d, got %d", vOtherID, saved.GetVoiceChannelID())
	}
}

func TestVoiceChannelService_Join_UserNotInVoice(t *testing.T) {
	repo := newMockRepository()
	conn := &mockVoiceConnection{}
	voiceState := &mockVoiceStateProvider{channels: map[snowflake.ID]snowflake.ID{}}
	svc := NewVoiceChannelService(repo, conn, voiceState, &mockEventPublisher{}, &mockNotificationSender{})

	_, err := svc.Join(context.Background(), JoinInput{
		GuildID:               vGuildID,
		UserID:                vUserID,
		NotificationChannelID: vNotifyID,
	})
	if err != ErrUserNotInVoice {
		t.Errorf("expected ErrUserNotInVoice, got %v", err)
	}
}

func TestVoiceChannelService_Join_AlreadyInSameChannel(t *testing.T) {
	repo, _, _, _, svc := newVoiceChannelFixture()
	repo.createConnectedState(vGuildID, vVoiceID, snowflake.ID(99))

	out, err := svc.Join(context.Background(), JoinInput{
		GuildID:               vGuildID,
		UserID:                vUserID,
		NotificationChannelID: vNotifyID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.VoiceChannelID != vVoiceID {
		t.Errorf("expected voice channel %d, got %d", vVoiceID, out.VoiceChannelID)
	}
	if len(repo.states) != 1 {
		t.Errorf("expected exactly one player state, got %d", len(repo.states))
	}

	saved, _ := repo.Get(context.Background(), vGuildID)
	if saved.GetNotificationChannelID() != vNotifyID {
		t.Errorf("expected notification channel updated to %d, got %d", vNotifyID, saved.GetNotificationChannelID())
	}
}

func TestVoiceChannelService_Join_MovesToDifferentChannel(t *testing.T) {
	repo, _, _, _, svc := newVoiceChannelFixture()
	state := repo.createConnectedState(vGuildID, vOtherID, vNotifyID)
	state.Append(domain.NewQueueEntry("a", vUserID))
	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("setup save failed: %v", err)
	}

	out, err := svc.Join(context.Background(), JoinInput{
		GuildID:               vGuildID,
		UserID:                vUserID,
		NotificationChannelID: vNotifyID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.VoiceChannelID != vVoiceID {
		t.Errorf("expected voice channel %d, got %d", vVoiceID, out.VoiceChannelID)
	}

	saved, _ := repo.Get(context.Background(), vGuildID)
	if saved.GetVoiceChannelID() != vVoiceID {
		t.Errorf("expected voice channel moved to %d, got %d", vVoiceID, saved.GetVoiceChannelID())
	}
	if saved.Len() != 1 {
		t.Errorf("expected existing queue preserved, got %d entries", saved.Len())
	}
}

func TestVoiceChannelService_Leave(t *testing.T) {
	repo, conn, _, notifier, svc := newVoiceChannelFixture()
	state := repo.createConnectedState(vGuildID, vVoiceID, vNotifyID)
	state.SetNowPlayingMessage(&domain.NowPlayingMessage{ChannelID: vNotifyID, MessageID: 42})
	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("setup save failed: %v", err)
	}

	if err := svc.Leave(context.Background(), LeaveInput{GuildID: vGuildID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.leaveErr != nil {
		t.Errorf("unexpected leave error: %v", conn.leaveErr)
	}
	if len(notifier.deletedMsgs) != 1 || notifier.deletedMsgs[0] != 42 {
		t.Errorf("expected now-playing message 42 deleted, got %v", notifier.deletedMsgs)
	}
	if _, err := repo.Get(context.Background(), vGuildID); err == nil {
		t.Error("expected player state to be deleted")
	}
}

func TestVoiceChannelService_Leave_NotConnected(t *testing.T) {
	_, _, _, _, svc := newVoiceChannelFixture()

	err := svc.Leave(context.Background(), LeaveInput{GuildID: vGuildID})
	if err != ErrNotConnected {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestVoiceChannelService_HandleBotVoiceStateChange_Disconnected(t *testing.T) {
	repo, _, _, notifier, svc := newVoiceChannelFixture()
	state := repo.createConnectedState(vGuildID, vVoiceID, vNotifyID)
	state.SetNowPlayingMessage(&domain.NowPlayingMessage{ChannelID: vNotifyID, MessageID: 7})
	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("setup save failed: %v", err)
	}

	svc.HandleBotVoiceStateChange(context.Background(), BotVoiceStateChangeInput{
		GuildID:      vGuildID,
		NewChannelID: nil,
	})

	if len(notifier.deletedMsgs) != 1 || notifier.deletedMsgs[0] != 7 {
		t.Errorf("expected now-playing message 7 deleted, got %v", notifier.deletedMsgs)
	}
	if _, err := repo.Get(context.Background(), vGuildID); err == nil {
		t.Error("expected player state to be deleted")
	}
}

func TestVoiceChannelService_HandleBotVoiceStateChange_Moved(t *testing.T) {
	repo, _, _, _, svc := newVoiceChannelFixture()
	repo.createConnectedState(vGuildID, vVoiceID, vNotifyID)

	svc.HandleBotVoiceStateChange(context.Background(), BotVoiceStateChangeInput{
		GuildID:      vGuildID,
		NewChannelID: &vOtherID,
	})

	saved, err := repo.Get(context.Background(), vGuildID)
	if err != nil {
		t.Fatalf("expected player state to still exist: %v", err)
	}
	if saved.GetVoiceChannelID() != vOtherID {
		t.Errorf("expected voice channel updated to %d, got %d", vOtherID, saved.GetVoiceChannelID())
	}
}

func TestVoiceChannelService_HandleBotVoiceStateChange_NoExistingState(t *testing.T) {
	_, _, _, _, svc := newVoiceChannelFixture()

	// Should not panic even though no player state exists for the guild.
	svc.HandleBotVoiceStateChange(context.Background(), BotVoiceStateChangeInput{
		GuildID:      vGuildID,
		NewChannelID: nil,
	})
}
