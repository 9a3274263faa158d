package domain

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// TrackEndReason represents why a track ended.
type TrackEndReason string

const (
	// TrackEndFinished means the track finished normally.
	TrackEndFinished TrackEndReason = "finished"
	// TrackEndLoadFailed means the track failed to load.
	TrackEndLoadFailed TrackEndReason = "load_failed"
	// TrackEndStopped means the track was stopped by the user.
	TrackEndStopped TrackEndReason = "stopped"
	// TrackEndReplaced means the track was replaced by another.
	TrackEndReplaced TrackEndReason = "replaced"
	// TrackEndCleanup means the track was cleaned up.
	TrackEndCleanup TrackEndReason = "cleanup"
)

// ShouldAdvanceQueue returns true if this end reason should advance the queue.
func (r TrackEndReason) ShouldAdvanceQueue() bool {
	return r == TrackEndFinished || r == TrackEndLoadFailed
}

// Event is the marker interface implemented by every domain event published
// on the module's event bus. It carries no behavior; its only purpose is to
// let infrastructure.ChannelEventBus dispatch by reflect.Type.
type Event interface {
	isEvent()
}

// CurrentTrackChangedEvent is published whenever the queue's current index
// moves to a new track (enqueue into an idle queue, skip, seek, advance on
// track end, or clear). The playback event handler reacts by starting
// (or stopping) the audio player; the notification event handler reacts by
// updating the "Now Playing" message.
type CurrentTrackChangedEvent struct {
	GuildID snowflake.ID
}

// NewCurrentTrackChangedEvent creates a CurrentTrackChangedEvent for guildID.
func NewCurrentTrackChangedEvent(guildID snowflake.ID) CurrentTrackChangedEvent {
	return CurrentTrackChangedEvent{GuildID: guildID}
}

func (CurrentTrackChangedEvent) isEvent() {}

// TrackEndedEvent is published by the audio player adapter when a track ends,
// including ends caused by a foreign-thread callback from the audio
// extractor. ShouldAdvanceQueue and TrackFailed are precomputed from Reason
// so handlers never need to inspect the reason string directly.
type TrackEndedEvent struct {
	GuildID            snowflake.ID
	Reason             TrackEndReason
	ShouldAdvanceQueue bool
	TrackFailed        bool
}

// NewTrackEndedEvent creates a TrackEndedEvent for guildID with the given reason.
func NewTrackEndedEvent(guildID snowflake.ID, reason TrackEndReason) TrackEndedEvent {
	return TrackEndedEvent{
		GuildID:            guildID,
		Reason:             reason,
		ShouldAdvanceQueue: reason.ShouldAdvanceQueue(),
		TrackFailed:        reason == TrackEndLoadFailed,
	}
}

func (TrackEndedEvent) isEvent() {}

// QueueClearedEvent is published when the queue is fully cleared (including
// the current track). It triggers playback to stop.
type QueueClearedEvent struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID
}

// NewQueueClearedEvent creates a QueueClearedEvent.
func NewQueueClearedEvent(guildID, notificationChannelID snowflake.ID) QueueClearedEvent {
	return QueueClearedEvent{GuildID: guildID, NotificationChannelID: notificationChannelID}
}

func (QueueClearedEvent) isEvent() {}

// PlaybackFinishedEvent is published when playback stops without a
// replacement track starting (leave, stop, queue exhausted). It signals that
// the "Now Playing" message, if any, should be deleted.
type PlaybackFinishedEvent struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID
	LastMessageID         *snowflake.ID
}

// NewPlaybackFinishedEvent creates a PlaybackFinishedEvent.
func NewPlaybackFinishedEvent(
	guildID, notificationChannelID snowflake.ID,
	lastMessageID *snowflake.ID,
) PlaybackFinishedEvent {
	return PlaybackFinishedEvent{
		GuildID:               guildID,
		NotificationChannelID: notificationChannelID,
		LastMessageID:         lastMessageID,
	}
}

func (PlaybackFinishedEvent) isEvent() {}

// TrackEnqueuedEvent is published when a track is appended to the queue.
type TrackEnqueuedEvent struct {
	GuildID     snowflake.ID
	TrackID     TrackID
	RequesterID snowflake.ID
	WasIdle     bool
	EnqueuedAt  time.Time
}

// NewTrackEnqueuedEvent creates a TrackEnqueuedEvent.
func NewTrackEnqueuedEvent(
	guildID snowflake.ID,
	trackID TrackID,
	requesterID snowflake.ID,
	wasIdle bool,
) TrackEnqueuedEvent {
	return TrackEnqueuedEvent{
		GuildID:     guildID,
		TrackID:     trackID,
		RequesterID: requesterID,
		WasIdle:     wasIdle,
		EnqueuedAt:  time.Now().UTC(),
	}
}

func (TrackEnqueuedEvent) isEvent() {}
