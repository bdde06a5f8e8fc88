package playback

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"streamvault/internal/videosource"
)

var ErrSessionNotFound = errors.New("playback session not found")

// Manager owns the live playback sessions so independent viewer surfaces
// each get an isolated state machine.
type Manager struct {
	mu       sync.RWMutex
	timeout  time.Duration
	sessions map[string]*Session
}

// NewManager creates a manager whose sessions use the given provider
// timeout (<= 0 selects the default).
func NewManager(timeout time.Duration) *Manager {
	return &Manager{
		timeout:  timeout,
		sessions: make(map[string]*Session),
	}
}

// Status is a snapshot of one session for the serving surface.
type Status struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	State    State            `json:"state"`
	Kind     videosource.Kind `json:"kind,omitempty"`
	EmbedURL string           `json:"embedUrl,omitempty"`
}

// Open starts playback of a URL. When sessionID names an existing session
// it is reset onto the new URL (closing and reopening with a different
// title resets the machine); otherwise a fresh session is created.
func (m *Manager) Open(sessionID, rawURL, title string) (Status, error) {
	// The session is opened under the manager lock so a concurrent Close
	// on the same id cannot drop it from the map and leave a re-armed
	// session behind with a live timer.
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		sessionID = uuid.NewString()
		sess = NewSession(m.timeout, nil)
		m.sessions[sessionID] = sess
	}

	source := sess.Open(rawURL, title)

	embed, err := source.EmbedURL()
	if err != nil {
		// Present-provider/absent-id: close the session and report
		// instead of serving a broken embed.
		delete(m.sessions, sessionID)
		sess.Close()
		return Status{}, err
	}

	return Status{
		ID:       sessionID,
		Title:    title,
		State:    sess.State(),
		Kind:     source.Kind,
		EmbedURL: embed,
	}, nil
}

// Event feeds a player surface event into the named session.
func (m *Manager) Event(sessionID string, ev Event) (Status, error) {
	sess, ok := m.get(sessionID)
	if !ok {
		return Status{}, ErrSessionNotFound
	}
	if err := sess.HandleEvent(ev); err != nil {
		return Status{}, err
	}
	return m.status(sessionID, sess), nil
}

// Get returns the snapshot of the named session.
func (m *Manager) Get(sessionID string) (Status, error) {
	sess, ok := m.get(sessionID)
	if !ok {
		return Status{}, ErrSessionNotFound
	}
	return m.status(sessionID, sess), nil
}

// Close dismisses the named session. Unknown ids are a no-op.
func (m *Manager) Close(sessionID string) {
	m.mu.Lock()
	sess, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if ok {
		sess.Close()
	}
}

func (m *Manager) get(sessionID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[sessionID]
	return sess, ok
}

func (m *Manager) status(sessionID string, sess *Session) Status {
	source := sess.Source()
	embed, _ := source.EmbedURL()
	return Status{
		ID:       sessionID,
		Title:    sess.Title(),
		State:    sess.State(),
		Kind:     source.Kind,
		EmbedURL: embed,
	}
}
