package domain

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
)

func entry(id string) QueueEntry {
	return NewQueueEntry(TrackID(id), snowflake.ID(1))
}

func TestNewQueue(t *testing.T) {
	q := NewQueue()

	if !q.IsEmpty() {
		t.Error("expected new queue to be empty")
	}
	if q.Len() != 0 {
		t.Errorf("expected length 0, got %d", q.Len())
	}
}

func TestQueue_AppendAndList(t *testing.T) {
	q := NewQueue()
	q.Append(entry("a"), entry("b"))

	if q.Len() != 2 {
		t.Fatalf("expected length 2, got %d", q.Len())
	}

	list := q.List()
	if list[0].TrackID != "a" || list[1].TrackID != "b" {
		t.Errorf("unexpected list order: %+v", list)
	}
}

func TestQueue_Prepend(t *testing.T) {
	q := NewQueue()
	q.Append(entry("b"))
	q.Prepend(entry("a"))

	list := q.List()
	if list[0].TrackID != "a" || list[1].TrackID != "b" {
		t.Errorf("expected [a b], got %+v", list)
	}
}

func TestQueue_RemoveAt(t *testing.T) {
	q := NewQueue()
	q.Append(entry("a"), entry("b"), entry("c"))
	q.currentIndex = 1

	removed := q.RemoveAt(0)
	if removed == nil || removed.TrackID != "a" {
		t.Fatalf("expected to remove a, got %+v", removed)
	}
	if q.currentIndex != 0 {
		t.Errorf("expected currentIndex to shift to 0, got %d", q.currentIndex)
	}
}

func TestQueue_Advance_Sequential(t *testing.T) {
	q := NewQueue()
	q.Append(entry("a"), entry("b"))

	next := q.Advance(LoopModeNone)
	if next == nil || next.TrackID != "b" {
		t.Fatalf("expected b, got %+v", next)
	}

	next = q.Advance(LoopModeNone)
	if next != nil {
		t.Errorf("expected nil at end of sequential queue, got %+v", next)
	}
}

func TestQueue_Advance_RepeatAll_Wraps(t *testing.T) {
	q := NewQueue()
	q.Append(entry("a"), entry("b"))
	q.Advance(LoopModeQueue)

	next := q.Advance(LoopModeQueue)
	if next == nil || next.TrackID != "a" {
		t.Fatalf("expected wrap to a, got %+v", next)
	}
}

func TestQueue_Advance_RepeatOne_StaysPut(t *testing.T) {
	q := NewQueue()
	q.Append(entry("a"), entry("b"))

	next := q.Advance(LoopModeTrack)
	if next == nil || next.TrackID != "a" {
		t.Fatalf("expected to stay on a, got %+v", next)
	}
}

func TestQueue_Clear(t *testing.T) {
	q := NewQueue()
	q.Append(entry("a"), entry("b"))
	q.Clear()

	if !q.IsEmpty() {
		t.Error("expected queue to be empty after Clear")
	}
}
