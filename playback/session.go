// Package playback drives a single episode through an external media engine
// and keeps the watch history in sync with what the viewer actually saw.
package playback

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/dramasan-cli/dramasan/constant"
	"github.com/dramasan-cli/dramasan/history"
	"github.com/dramasan-cli/dramasan/key"
	"github.com/dramasan-cli/dramasan/log"
	"github.com/dramasan-cli/dramasan/player"
	"github.com/dramasan-cli/dramasan/relay"
	"github.com/dramasan-cli/dramasan/source"
	"github.com/dramasan-cli/dramasan/util"
	"github.com/spf13/viper"
)

const (
	// progressSaveInterval throttles periodic history writes while playing.
	progressSaveInterval = 5 * time.Second

	// minTrackedPosition keeps accidental opens out of the history.
	// Positions at or below this many seconds are never persisted.
	minTrackedPosition = 5.0

	// seekTolerance is the drift, in seconds, above which the corrective
	// seek re-applies the start offset.
	seekTolerance = 1.0
)

// correctiveSeekDelay is how long after the initial seek the session checks
// whether the engine actually landed there. Engines occasionally ignore a
// seek issued before the stream is fully open. Swappable in tests.
var correctiveSeekDelay = 800 * time.Millisecond

// now is swappable in tests.
var now = time.Now

// eventTap is the slice of player.EventListener the session depends on.
type eventTap interface {
	Start() error
	Stop()
}

// Options configures a playback session.
type Options struct {
	// Drama the episode belongs to.
	Drama *source.Drama

	// Episode to play.
	Episode *source.Episode

	// StartOffset is the absolute position, in seconds, to begin playback
	// at. Zero starts from the beginning.
	StartOffset float64

	// Engine overrides the playback engine. When nil the configured
	// engine is constructed.
	Engine player.Player

	// RelayURL is the public base URL of the streaming relay. When empty
	// the configured value is used.
	RelayURL string

	// OnEnded is invoked once when the media reaches its natural end.
	OnEnded func()

	// OnError is invoked when the session fails irrecoverably.
	OnError func(error)
}

// Session owns one episode's trip through the engine. It applies the start
// offset, mirrors engine events into the watch history and reports the
// natural end of the media. Sessions are single use: create a new one for
// the next episode.
type Session struct {
	drama       *source.Drama
	episode     *source.Episode
	engine      player.Player
	relayURL    string
	startOffset float64

	onEnded func()
	onError func(error)

	// attach is swappable in tests to drive engine events by hand.
	attach func(socket string, callback player.EventCallback) eventTap

	mu              sync.Mutex
	state           State
	generation      uint64
	listener        eventTap
	correctiveTimer *time.Timer
	position        float64
	lastSave        time.Time
}

// NewSession prepares a session for the given episode. The engine is not
// launched until Start is called.
func NewSession(options *Options) (*Session, error) {
	if options.Drama == nil || options.Episode == nil {
		return nil, fmt.Errorf("playback session requires a drama and an episode")
	}

	engine := options.Engine
	if engine == nil {
		var err error
		engine, err = player.New(viper.GetString(key.Player))
		if err != nil {
			return nil, err
		}
	}

	relayURL := options.RelayURL
	if relayURL == "" {
		relayURL = "http://" + viper.GetString(key.RelayAddress)
		if configured := viper.GetString(key.RelayPublicURL); configured != "" {
			relayURL = configured
		}
	}

	return &Session{
		drama:       options.Drama,
		episode:     options.Episode,
		engine:      engine,
		relayURL:    relayURL,
		startOffset: options.StartOffset,
		onEnded:     options.OnEnded,
		onError:     options.OnError,
		attach: func(socket string, callback player.EventCallback) eventTap {
			return player.NewEventListener(socket, callback)
		},
		state: StateIdle,
	}, nil
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Position returns the last playback position reported by the engine.
func (s *Session) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Done returns a channel that is closed when the engine process exits.
func (s *Session) Done() <-chan struct{} {
	return s.engine.Wait()
}

// Start launches the engine, applies the start offset and begins mirroring
// engine events into the watch history.
func (s *Session) Start() error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return fmt.Errorf("playback session already started")
	}
	s.state = StateInitializing
	s.generation++
	generation := s.generation
	s.mu.Unlock()

	target, err := s.mediaTarget()
	if err != nil {
		s.fail(err)
		return err
	}

	title := fmt.Sprintf("%s: %s", s.drama.Title, s.episode.Name)
	headers := map[string]string{"User-Agent": constant.UserAgent}

	if err = s.engine.Play(target, title, headers); err != nil {
		s.fail(err)
		return err
	}

	tap := s.attach(s.engine.Socket(), func(property string, data interface{}) {
		s.handleEvent(generation, property, data)
	})
	if err = tap.Start(); err != nil {
		util.Ignore(s.engine.Close)
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.listener = tap
	s.state = StateReady
	s.mu.Unlock()

	s.applyStartOffset(generation)

	s.mu.Lock()
	if s.state == StateReady {
		s.state = StatePlaying
	}
	s.mu.Unlock()

	log.Infof("playback started: %s (%s)", title, target)
	return nil
}

// Close tears the session down. The engine is disposed first so no further
// events can fire, then the pending corrective seek is cancelled. The final
// observed position is written to the history on the way out.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == StateIdle {
		s.mu.Unlock()
		return nil
	}
	s.generation++
	listener := s.listener
	s.listener = nil
	timer := s.correctiveTimer
	s.correctiveTimer = nil
	finished := s.state == StateEnded || s.state == StateErrored
	if !finished {
		s.state = StateEnded
	}
	s.mu.Unlock()

	if !finished {
		s.saveCurrentPosition()
	}

	if listener != nil {
		listener.Stop()
	}
	err := s.engine.Close()
	if timer != nil {
		timer.Stop()
	}
	return err
}

// TogglePause forwards a pause toggle to the engine. The resulting state
// change arrives back through the engine's event channel.
func (s *Session) TogglePause() error {
	return s.engine.TogglePause()
}

// mediaTarget picks the episode's best source and routes it. Segmented
// streams are handed to the engine untouched, progressive files go through
// the relay so range requests survive origin quirks.
func (s *Session) mediaTarget() (string, error) {
	src, ok := s.episode.BestSource().Get()
	if !ok {
		return "", fmt.Errorf("episode %q has no playable source", s.episode.Name)
	}

	if src.Transport() == source.TransportSegmented {
		return src.URL, nil
	}
	return relay.ProxyURL(s.relayURL, src.URL), nil
}

// applyStartOffset seeks to the resolved offset and arms a one-shot
// corrective seek in case the engine swallowed the first one.
func (s *Session) applyStartOffset(generation uint64) {
	if s.startOffset <= 0 {
		return
	}

	if err := s.engine.Seek(s.startOffset); err != nil {
		log.Warnf("start offset seek failed: %v", err)
	}

	s.mu.Lock()
	s.correctiveTimer = time.AfterFunc(correctiveSeekDelay, func() {
		s.correctiveSeek(generation)
	})
	s.mu.Unlock()
}

// correctiveSeek re-applies the start offset when the engine is still near
// the beginning after the initial seek should have landed.
func (s *Session) correctiveSeek(generation uint64) {
	s.mu.Lock()
	stale := generation != s.generation
	s.correctiveTimer = nil
	s.mu.Unlock()
	if stale {
		return
	}

	position, err := s.engine.Position()
	if err != nil {
		return
	}
	if math.Abs(position-s.startOffset) <= seekTolerance {
		return
	}

	if err = s.engine.Seek(s.startOffset); err != nil {
		log.Warnf("corrective seek failed: %v", err)
	}
}

// handleEvent dispatches one engine event. Events carrying a generation
// other than the session's current one belong to a torn-down lifecycle and
// are dropped.
func (s *Session) handleEvent(generation uint64, property string, data interface{}) {
	s.mu.Lock()
	if generation != s.generation || s.state == StateEnded || s.state == StateErrored {
		s.mu.Unlock()
		return
	}

	switch property {
	case player.PropTimePos:
		position, ok := asFloat(data)
		if !ok {
			s.mu.Unlock()
			return
		}
		s.position = position
		due := s.state == StatePlaying && now().Sub(s.lastSave) >= progressSaveInterval
		s.mu.Unlock()
		if due {
			s.saveProgress(position)
		}

	case player.PropPause:
		paused, ok := data.(bool)
		if !ok {
			s.mu.Unlock()
			return
		}
		if paused {
			s.state = StatePaused
			position := s.position
			s.mu.Unlock()
			// A pause is a natural resume point, persist it immediately.
			s.saveProgress(position)
		} else {
			s.state = StatePlaying
			s.mu.Unlock()
		}

	case player.PropEOFReached:
		reached, ok := data.(bool)
		if !ok || !reached {
			s.mu.Unlock()
			return
		}
		s.state = StateEnded
		position := s.position
		onEnded := s.onEnded
		s.mu.Unlock()

		s.saveProgress(position)
		if onEnded != nil {
			onEnded()
		}

	default:
		s.mu.Unlock()
	}
}

// saveProgress writes the given position to the history. Writes are skipped
// while the duration is unknown or the position is still within the noise
// floor, so a briefly opened episode leaves no trace.
func (s *Session) saveProgress(position float64) {
	if !viper.GetBool(key.HistorySaveOnWatch) {
		return
	}

	duration, err := s.engine.Duration()
	if err != nil || duration <= 0 {
		return
	}
	if position <= minTrackedPosition {
		return
	}

	history.Put(s.drama.ID, s.episode.ID, position, duration)
	history.Label(s.drama.ID, s.drama.Title)

	s.mu.Lock()
	s.lastSave = now()
	s.mu.Unlock()
}

// saveCurrentPosition asks the engine for its live position and persists it.
func (s *Session) saveCurrentPosition() {
	position, err := s.engine.Position()
	if err != nil {
		s.mu.Lock()
		position = s.position
		s.mu.Unlock()
	}
	s.saveProgress(position)
}

// fail moves the session into the errored state and notifies the caller.
func (s *Session) fail(err error) {
	s.mu.Lock()
	s.state = StateErrored
	onError := s.onError
	s.mu.Unlock()

	log.Errorf("playback session failed: %v", err)
	if onError != nil {
		onError(err)
	}
}

// asFloat extracts a float from loosely typed engine event payloads.
func asFloat(data interface{}) (float64, bool) {
	switch value := data.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	default:
		return 0, false
	}
}
