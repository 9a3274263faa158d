package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/sgrbot/internal/modules/music_player/domain"
)

func mockTrack(id string) *domain.Track {
	return domain.NewTrack(
		domain.TrackID(id),
		"encoded-"+id,
		"Track "+id,
		"Artist",
		3*time.Minute,
		"https://example.com/"+id,
		"",
		"youtube",
		false,
		snowflake.ID(123),
		"Requester",
		"",
	)
}

type mockRepository struct {
	states map[snowflake.ID]domain.PlayerState
}

func newMockRepository() *mockRepository {
	return &mockRepository{states: make(map[snowflake.ID]domain.PlayerState)}
}

func (m *mockRepository) Get(_ context.Context, guildID snowflake.ID) (domain.PlayerState, error) {
	state, ok := m.states[guildID]
	if !ok {
		return domain.PlayerState{}, domain.ErrPlayerStateNotFound
	}
	return state, nil
}

func (m *mockRepository) Save(_ context.Context, state domain.PlayerState) error {
	m.states[state.GetGuildID()] = state
	return nil
}

func (m *mockRepository) Delete(_ context.Context, guildID snowflake.ID) error {
	delete(m.states, guildID)
	return nil
}

// createConnectedState creates and saves a PlayerState, returning it for further mutation.
func (m *mockRepository) createConnectedState(
	guildID, voiceChannelID, notificationChannelID snowflake.ID,
) domain.PlayerState {
	state := domain.NewPlayerState(guildID, voiceChannelID, notificationChannelID)
	m.states[guildID] = state
	return state
}

type mockAudioPlayer struct {
	playErr   error
	stopErr   error
	pauseErr  error
	resumeErr error
}

func (m *mockAudioPlayer) Play(_ context.Context, _ snowflake.ID, _ *domain.Track) error {
	return m.playErr
}

func (m *mockAudioPlayer) Stop(_ context.Context, _ snowflake.ID) error {
	return m.stopErr
}

func (m *mockAudioPlayer) Pause(_ context.Context, _ snowflake.ID) error {
	return m.pauseErr
}

func (m *mockAudioPlayer) Resume(_ context.Context, _ snowflake.ID) error {
	return m.resumeErr
}

type mockVoiceConnection struct {
	joinErr  error
	leaveErr error
}

func (m *mockVoiceConnection) JoinChannel(_ context.Context, _, _ snowflake.ID) error {
	return m.joinErr
}

func (m *mockVoiceConnection) LeaveChannel(_ context.Context, _ snowflake.ID) error {
	return m.leaveErr
}

type mockNotificationSender struct {
	sentNowPlaying []snowflake.ID // channel IDs SendNowPlaying was called with
	deletedMsgs    []snowflake.ID // message IDs DeleteMessage was called with
	nextMessageID  snowflake.ID
	sendErr        error
	deleteErr      error
}

func (m *mockNotificationSender) SendNowPlaying(
	channelID snowflake.ID,
	_ *ports.NowPlayingInfo,
) (snowflake.ID, error) {
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	m.sentNowPlaying = append(m.sentNowPlaying, channelID)
	return m.nextMessageID, nil
}

func (m *mockNotificationSender) DeleteMessage(_ snowflake.ID, messageID snowflake.ID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedMsgs = append(m.deletedMsgs, messageID)
	return nil
}

func (m *mockNotificationSender) SendError(_ snowflake.ID, _ string) error {
	return nil
}

type mockTrackResolver struct {
	loadErr    error
	loadResult *ports.LoadResult
}

func (m *mockTrackResolver) LoadTracks(_ context.Context, _ string) (*ports.LoadResult, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.loadResult, nil
}

type mockVoiceStateProvider struct {
	channels map[snowflake.ID]snowflake.ID // userID -> channelID
	err      error
}

func (m *mockVoiceStateProvider) GetUserVoiceChannel(
	_, userID snowflake.ID,
) (*snowflake.ID, error) {
	if m.err != nil {
		return nil, m.err
	}
	channelID, ok := m.channels[userID]
	if !ok {
		return nil, nil
	}
	return &channelID, nil
}

type mockEventPublisher struct {
	published []domain.Event
}

func (m *mockEventPublisher) Publish(event domain.Event) error {
	m.published = append(m.published, event)
	return nil
}

type mockTrackProvider struct {
	tracks map[domain.TrackID]*domain.Track
}

func newMockTrackProvider() *mockTrackProvider {
	return &mockTrackProvider{tracks: make(map[domain.TrackID]*domain.Track)}
}

func (m *mockTrackProvider) LoadTrack(_ context.Context, id domain.TrackID) (domain.Track, error) {
	t, ok := m.tracks[id]
	if !ok {
		return domain.Track{}, fmt.Errorf("track %q not found", id)
	}
	return *t, nil
}

func (m *mockTrackProvider) LoadTracks(
	_ context.Context,
	ids ...domain.TrackID,
) ([]domain.Track, error) {
	result := make([]domain.Track, 0, len(ids))
	for _, id := range ids {
		t, ok := m.tracks[id]
		if !ok {
			return nil, fmt.Errorf("track %q not found", id)
		}
		result = append(result, *t)
	}
	return result, nil
}

func (m *mockTrackProvider) ResolveQuery(_ context.Context, query string) (domain.TrackList, error) {
	t, ok := m.tracks[domain.TrackID(query)]
	if !ok {
		return domain.TrackList{}, fmt.Errorf("query %q not found", query)
	}
	return domain.TrackList{Type: domain.TrackListTypeTrack, Tracks: []domain.Track{*t}}, nil
}

func (m *mockTrackProvider) Store(track *domain.Track) {
	m.tracks[track.ID] = track
}

// setupPlaying stores the track, appends it to the queue, and activates playback.
func setupPlaying(state *domain.PlayerState, tp *mockTrackProvider, track *domain.Track) {
	tp.Store(track)
	state.Append(domain.NewQueueEntry(track.ID, track.RequesterID))
	state.Seek(0)
	state.SetPlaybackActive(true)
}
