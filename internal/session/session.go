package session

import (
	"context"
	"sync"
	"time"

	"github.com/lacquerai/weighin/internal/history"
	"github.com/lucsky/cuid"
	"github.com/rs/zerolog/log"
)

// Listener receives history entries as they are recorded. A websocket
// connection satisfies it.
type Listener interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Session owns one visitor's prediction history.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	history  *history.Buffer
	lastSeen time.Time
	mu       sync.Mutex

	listeners   map[Listener]bool
	listenersMu sync.RWMutex
}

func newSession(id string, capacity int, now time.Time) *Session {
	return &Session{
		ID:        id,
		CreatedAt: now,
		history:   history.New(capacity),
		lastSeen:  now,
		listeners: make(map[Listener]bool),
	}
}

// History returns the session's bounded history buffer.
func (s *Session) History() *history.Buffer {
	return s.history
}

// Record adds e to the history and pushes it to every listener. Listeners
// that fail to receive are dropped.
func (s *Session) Record(e history.Entry) {
	s.touch(e.Timestamp)

	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.history.Add(e)
	for l := range s.listeners {
		if err := l.WriteJSON(e); err != nil {
			log.Debug().Err(err).Str("session_id", s.ID).Msg("Dropping history listener")
			l.Close()
			delete(s.listeners, l)
		}
	}
}

// Subscribe registers l for future entries.
func (s *Session) Subscribe(l Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners[l] = true
}

// Replay writes the current entries to l, oldest first, and subscribes it.
// Entries recorded concurrently are either part of the replay or pushed
// afterwards, never both or neither.
func (s *Session) Replay(l Listener) error {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	for _, e := range s.history.Entries() {
		if err := l.WriteJSON(e); err != nil {
			return err
		}
	}
	s.listeners[l] = true
	return nil
}

// Unsubscribe removes l.
func (s *Session) Unsubscribe(l Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	delete(s.listeners, l)
}

// ListenerCount returns the number of subscribed listeners.
func (s *Session) ListenerCount() int {
	s.listenersMu.RLock()
	defer s.listenersMu.RUnlock()
	return len(s.listeners)
}

func (s *Session) closeListeners() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	for l := range s.listeners {
		l.Close()
		delete(s.listeners, l)
	}
}

func (s *Session) touch(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.After(s.lastSeen) {
		s.lastSeen = t
	}
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store keeps one isolated Session per id.
type Store struct {
	sessions        map[string]*Session
	historyCapacity int
	ttl             time.Duration
	now             func() time.Time
	mu              sync.RWMutex
}

// NewStore creates a store whose sessions keep historyCapacity entries and
// expire after ttl without activity. A zero ttl disables expiry.
func NewStore(historyCapacity int, ttl time.Duration) *Store {
	return &Store{
		sessions:        make(map[string]*Session),
		historyCapacity: historyCapacity,
		ttl:             ttl,
		now:             time.Now,
	}
}

// Create starts a new session with a fresh id.
func (st *Store) Create() *Session {
	now := st.now()
	sess := newSession(cuid.New(), st.historyCapacity, now)

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	return sess
}

// Get retrieves a session by id and marks it as active.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	sess, exists := st.sessions[id]
	st.mu.RUnlock()

	if exists {
		sess.touch(st.now())
	}
	return sess, exists
}

// GetOrCreate returns the session for id, creating a new one when id is
// unknown or empty. created reports whether a new session was made.
func (st *Store) GetOrCreate(id string) (sess *Session, created bool) {
	if id != "" {
		if sess, ok := st.Get(id); ok {
			return sess, false
		}
	}
	return st.Create(), true
}

// Delete removes a session and disconnects its listeners.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	sess, exists := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if exists {
		sess.closeListeners()
	}
}

// Count returns the number of live sessions.
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for longer than the ttl and returns how many
// were removed.
func (st *Store) Sweep(now time.Time) int {
	if st.ttl <= 0 {
		return 0
	}

	st.mu.Lock()
	var expired []*Session
	for id, sess := range st.sessions {
		if now.Sub(sess.idleSince()) > st.ttl {
			expired = append(expired, sess)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, sess := range expired {
		sess.closeListeners()
	}
	return len(expired)
}

// Run sweeps expired sessions every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	if st.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(st.now()); n > 0 {
				log.Debug().Int("expired", n).Int("remaining", st.Count()).Msg("Swept idle sessions")
			}
		}
	}
}

// Close disconnects the listeners of every session. Sessions and their
// history are kept.
func (st *Store) Close() {
	st.mu.RLock()
	sessions := make([]*Session, 0, len(st.sessions))
	for _, sess := range st.sessions {
		sessions = append(sessions, sess)
	}
	st.mu.RUnlock()

	for _, sess := range sessions {
		sess.closeListeners()
	}
}
