// Package player defines a unified abstraction layer for media playback engines.
// The primary implementation targets 'mpv' via its JSON-IPC interface.
package player

import "fmt"

// Player encapsulates the required capabilities of a transport engine.
// Implementations deliver asynchronous lifecycle events through an
// EventListener; callers are responsible for discarding events that arrive
// after they tear the engine down.
type Player interface {
	// Play opens the given URL with the specified display title and request headers.
	Play(url string, title string, headers map[string]string) error

	// Seek transitions the playback position to an absolute timestamp in seconds.
	Seek(seconds float64) error

	// TogglePause inverts the current playback suspension state.
	TogglePause() error

	// Position retrieves the current absolute playback position in seconds.
	Position() (float64, error)

	// Duration retrieves the total temporal length of the active media in seconds.
	Duration() (float64, error)

	// Paused retrieves the current suspension state of the engine.
	Paused() (bool, error)

	// IsRunning validates the liveness of the underlying playback process.
	IsRunning() bool

	// Socket retrieves the identifier of the engine's IPC channel.
	Socket() string

	// Close terminates the engine and releases all associated system resources.
	Close() error

	// Wait returns a channel that is closed when the engine process exits.
	Wait() <-chan struct{}
}

// New constructs the configured playback engine by name.
func New(name string) (Player, error) {
	switch name {
	case "", "mpv":
		return NewMPV(), nil
	default:
		return nil, fmt.Errorf("unsupported playback engine %q", name)
	}
}
