package playback

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"streamvault/internal/videosource"
)

// State is where a playback session currently stands.
type State string

const (
	// StateIdle means no video is being presented.
	StateIdle State = "idle"
	// StateLoading means playback started and feedback is still pending.
	StateLoading State = "loading"
	// StateReady means the loading indicator has been dismissed after a
	// positive signal from the player surface.
	StateReady State = "ready"
	// StateDegraded means the provider never confirmed the load within
	// the timeout. Loading feedback is dismissed without claiming
	// success; whatever the embed renders is left to the user.
	StateDegraded State = "degraded"
)

// Event is a signal from the player surface driving the state machine.
type Event string

const (
	// EventCanPlay fires when a direct video element can play.
	EventCanPlay Event = "canplay"
	// EventWaiting fires when a direct video stalls and rebuffers.
	EventWaiting Event = "waiting"
	// EventStalled fires when a direct video stops receiving data.
	EventStalled Event = "stalled"
	// EventError fires on a media element error.
	EventError Event = "error"
	// EventFrameLoaded fires when a provider iframe finishes loading.
	EventFrameLoaded Event = "frameloaded"
)

// DefaultProviderTimeout bounds how long a Drive/Archive iframe may stay
// in loading before the session degrades.
const DefaultProviderTimeout = 15 * time.Second

var ErrSessionClosed = errors.New("playback session is closed")

// Session tracks one open player overlay from open to close. Only the
// foreground surface feeds it events, but it is safe for concurrent use
// because the provider timer fires on its own goroutine.
type Session struct {
	mu      sync.Mutex
	title   string
	source  videosource.Source
	state   State
	timeout time.Duration
	timer   *time.Timer
	epoch   uint64
	onState func(State)
}

// NewSession returns an idle session. timeout <= 0 selects the default
// provider timeout. onState, when non-nil, observes every state change.
func NewSession(timeout time.Duration, onState func(State)) *Session {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &Session{
		state:   StateIdle,
		timeout: timeout,
		onState: onState,
	}
}

// Open presents a video URL to the session, resetting it first when it is
// already open on another title. The entry state depends on the resolved
// strategy:
//
//   - YouTube goes straight to ready; the embed owns its own readiness
//     and nothing here can observe it.
//   - Direct video enters loading until the media element reports it can
//     play.
//   - Drive/Archive iframes enter loading and race the provider timeout.
//     A frame load before the timer means ready, unconditionally; no
//     load-timing heuristics are layered on top. The timer firing first
//     means degraded, not an error.
func (s *Session) Open(rawURL, title string) videosource.Source {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	s.title = title
	s.source = videosource.Resolve(rawURL)

	switch s.source.Kind {
	case videosource.KindYouTube:
		s.setStateLocked(StateReady)
	case videosource.KindDirect:
		s.setStateLocked(StateLoading)
	case videosource.KindGoogleDrive, videosource.KindArchive:
		s.setStateLocked(StateLoading)
		s.armTimerLocked()
	}

	return s.source
}

// HandleEvent feeds a player surface signal into the machine. Events
// arriving while idle are dropped.
func (s *Session) HandleEvent(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdle {
		return ErrSessionClosed
	}

	switch ev {
	case EventCanPlay:
		s.setStateLocked(StateReady)
	case EventWaiting, EventStalled:
		// A ready direct video can drop back into loading on a stall.
		s.setStateLocked(StateLoading)
	case EventError:
		// No automatic retry: dismiss the loading indicator and leave
		// the user in control instead of blocking on an error screen.
		slog.Warn("media element reported an error", "title", s.title, "url", s.source.URL)
		s.setStateLocked(StateReady)
	case EventFrameLoaded:
		s.cancelTimerLocked()
		s.setStateLocked(StateReady)
	}
	return nil
}

// Close dismisses the session from any state and cancels a pending
// provider timer so it cannot fire against whatever is opened next.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Source returns the strategy resolved at the last Open.
func (s *Session) Source() videosource.Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Title returns the title presented at the last Open.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

func (s *Session) resetLocked() {
	s.cancelTimerLocked()
	s.title = ""
	s.source = videosource.Source{}
	s.setStateLocked(StateIdle)
}

func (s *Session) setStateLocked(state State) {
	if s.state == state {
		return
	}
	s.state = state
	if s.onState != nil {
		s.onState(state)
	}
}

func (s *Session) armTimerLocked() {
	epoch := s.epoch
	s.timer = time.AfterFunc(s.timeout, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		// The session may have been closed or reopened since the timer
		// was armed; a stale callback must never touch the new state.
		if s.epoch != epoch || s.state != StateLoading {
			return
		}
		slog.Warn("provider embed never reported load, dismissing loading state",
			"title", s.title, "url", s.source.URL)
		s.setStateLocked(StateDegraded)
	})
}

func (s *Session) cancelTimerLocked() {
	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
