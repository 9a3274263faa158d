package domain

// LoopMode represents the play mode governing how the queue advances.
// The identifier is carried over from the original two-mode "loop" toggle;
// it now covers the full play-mode set.
type LoopMode int

const (
	LoopModeNone  LoopMode = iota // Sequential: advance by one, terminal at the end
	LoopModeTrack                 // RepeatOne: repeat current track indefinitely
	LoopModeQueue                 // RepeatAll: advance with wrap-around
	LoopModeShuffle
)

// String returns a human-readable representation of the loop mode.
func (m LoopMode) String() string {
	switch m {
	case LoopModeTrack:
		return "one"
	case LoopModeQueue:
		return "all"
	case LoopModeShuffle:
		return "shuffle"
	default:
		return "off"
	}
}

// ParseLoopMode converts a string to domain.LoopMode.
func ParseLoopMode(s string) LoopMode {
	switch s {
	case "one", "track":
		return LoopModeTrack
	case "all", "queue":
		return LoopModeQueue
	case "shuffle":
		return LoopModeShuffle
	default:
		return LoopModeNone
	}
}
