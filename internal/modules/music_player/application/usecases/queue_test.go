package usecases

import (
	"context"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

const (
	qGuildID   = snowflake.ID(1)
	qVoiceID   = snowflake.ID(10)
	qNotifyID  = snowflake.ID(20)
	qRequester = snowflake.ID(30)
)

func TestQueueService_Add_StartsIdleQueue(t *testing.T) {
	repo := newMockRepository()
	repo.createConnectedState(qGuildID, qVoiceID, qNotifyID)
	publisher := &mockEventPublisher{}
	svc := NewQueueService(repo, publisher)

	out, err := svc.Add(context.Background(), QueueAddInput{
		GuildID:     qGuildID,
		TrackIDs:    []string{"a", "b"},
		RequesterID: qRequester,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.StartIndex != 0 || out.Count != 2 {
		t.Errorf("unexpected output: %+v", out)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(publisher.published))
	}
	if _, ok := publisher.published[0].(domain.CurrentTrackChangedEvent); !ok {
		t.Errorf("expected CurrentTrackChangedEvent, got %T", publisher.published[0])
	}
}

func TestQueueService_Add_ToActiveQueueDoesNotRepublish(t *testing.T) {
	repo := newMockRepository()
	state := repo.createConnectedState(qGuildID, qVoiceID, qNotifyID)
	state.Append(domain.NewQueueEntry("existing", qRequester))
	state.Seek(0)
	state.SetPlaybackActive(true)
	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("setup save failed: %v", err)
	}
	publisher := &mockEventPublisher{}
	svc := NewQueueService(repo, publisher)

	out, err := svc.Add(context.Background(), QueueAddInput{
		GuildID:     qGuildID,
		TrackIDs:    []string{"b"},
		RequesterID: qRequester,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.StartIndex != 1 {
		t.Errorf("expected new track appended at index 1, got %d", out.StartIndex)
	}
	if len(publisher.published) != 0 {
		t.Errorf("expected no event published, got %d", len(publisher.published))
	}
}

func TestQueueService_Remove_RefusesCurrentTrack(t *testing.T) {
	repo := newMockRepository()
	state := repo.createConnectedState(qGuildID, qVoiceID, qNotifyID)
	state.Append(domain.NewQueueEntry("a", qRequester), domain.NewQueueEntry("b", qRequester))
	state.Seek(0)
	state.SetPlaybackActive(true)
	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("setup save failed: %v", err)
	}
	svc := NewQueueService(repo, &mockEventPublisher{})

	_, err := svc.Remove(context.Background(), QueueRemoveInput{GuildID: qGuildID, Index: 0})
	if err != ErrIsCurrentTrack {
		t.Errorf("expected ErrIsCurrentTrack, got %v", err)
	}
}

func TestQueueService_Remove_InvalidIndex(t *testing.T) {
	repo := newMockRepository()
	state := repo.createConnectedState(qGuildID, qVoiceID, qNotifyID)
	state.Append(domain.NewQueueEntry("a", qRequester))
	state.Seek(0)
	state.SetPlaybackActive(true)
	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("setup save failed: %v", err)
	}
	svc := NewQueueService(repo, &mockEventPublisher{})

	_, err := svc.Remove(context.Background(), QueueRemoveInput{GuildID: qGuildID, Index: 5})
	if err != ErrInvalidIndex {
		t.Errorf("expected ErrInvalidIndex, got %v", err)
	}
}

func TestQueueService_Clear_All(t *testing.T) {
	repo := newMockRepository()
	state := repo.createConnectedState(qGuildID, qVoiceID, qNotifyID)
	state.Append(domain.NewQueueEntry("a", qRequester), domain.NewQueueEntry("b", qRequester))
	state.Seek(0)
	state.SetPlaybackActive(true)
	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("setup save failed: %v", err)
	}
	publisher := &mockEventPublisher{}
	svc := NewQueueService(repo, publisher)

	out, err := svc.Clear(context.Background(), QueueClearInput{GuildID: qGuildID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ClearedCount != 2 {
		t.Errorf("expected 2 cleared, got %d", out.ClearedCount)
	}
	if len(publisher.published) != 1 {
		t.Errorf("expected CurrentTrackChangedEvent published, got %d", len(publisher.published))
	}
}

func TestQueueService_Clear_KeepCurrentTrack(t *testing.T) {
	repo := newMockRepository()
	state := repo.createConnectedState(qGuildID, qVoiceID, qNotifyID)
	state.Append(domain.NewQueueEntry("a", qRequester), domain.NewQueueEntry("b", qRequester))
	state.Seek(0)
	state.SetPlaybackActive(true)
	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("setup save failed: %v", err)
	}
	svc := NewQueueService(repo, &mockEventPublisher{})

	out, err := svc.Clear(context.Background(), QueueClearInput{GuildID: qGuildID, KeepCurrentTrack: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ClearedCount != 1 {
		t.Errorf("expected 1 cleared, got %d", out.ClearedCount)
	}

	saved, err := repo.Get(context.Background(), qGuildID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Len() != 1 {
		t.Errorf("expected 1 remaining track, got %d", saved.Len())
	}
}

func TestQueueService_Seek(t *testing.T) {
	repo := newMockRepository()
	state := repo.createConnectedState(qGuildID, qVoiceID, qNotifyID)
	state.Append(domain.NewQueueEntry("a", qRequester), domain.NewQueueEntry("b", qRequester))
	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("setup save failed: %v", err)
	}
	publisher := &mockEventPublisher{}
	svc := NewQueueService(repo, publisher)

	out, err := svc.Seek(context.Background(), QueueSeekInput{GuildID: qGuildID, Index: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.TrackID != "b" {
		t.Errorf("expected to seek to b, got %s", out.TrackID)
	}
	if len(publisher.published) != 1 {
		t.Errorf("expected event published, got %d", len(publisher.published))
	}
}

func TestQueueService_List_Pagination(t *testing.T) {
	repo := newMockRepository()
	state := repo.createConnectedState(qGuildID, qVoiceID, qNotifyID)
	for i := range 15 {
		state.Append(domain.NewQueueEntry(domain.TrackID(string(rune('a'+i))), qRequester))
	}
	state.Seek(0)
	state.SetPlaybackActive(true)
	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("setup save failed: %v", err)
	}
	svc := NewQueueService(repo, &mockEventPublisher{})

	out, err := svc.List(context.Background(), QueueListInput{GuildID: qGuildID, Page: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.TotalTracks != 15 {
		t.Errorf("expected 15 total tracks, got %d", out.TotalTracks)
	}
	if out.TotalPages != 2 {
		t.Errorf("expected 2 pages, got %d", out.TotalPages)
	}
	if out.PageStart != 10 {
		t.Errorf("expected page start 10, got %d", out.PageStart)
	}
}
