package playback

// State describes where a session is in its lifecycle.
type State int

const (
	// StateIdle means the session was created but not started.
	StateIdle State = iota

	// StateInitializing means the engine is being launched.
	StateInitializing

	// StateReady means the engine is up and the start offset is being applied.
	StateReady

	// StatePlaying means media is advancing.
	StatePlaying

	// StatePaused means the viewer suspended playback.
	StatePaused

	// StateEnded means the media reached its natural end.
	StateEnded

	// StateErrored means the session failed and will not recover.
	StateErrored
)

// String implements the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}
