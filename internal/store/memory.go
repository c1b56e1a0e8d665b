package store

import (
	"errors"
	"sync"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Message is one user turn and the bot's answer to it.
type Message struct {
	Timestamp  time.Time           `json:"timestamp"`
	UserText   string              `json:"user_message"`
	Intent     string              `json:"intent"`
	Confidence float64             `json:"confidence"`
	Entities   map[string][]string `json:"entities"`
	BotReply   string              `json:"bot_response"`
}

// Session is a conversation: its messages in arrival order and the context
// merged from every request.
type Session struct {
	ID        string                  `json:"sessionId"`
	Messages  []Message               `json:"messages"`
	Context   map[string]ContextValue `json:"context"`
	CreatedAt time.Time               `json:"created_at"`
}

type entry struct {
	mu      sync.Mutex
	session Session
	// removed is set by Reset while both locks are held; appenders holding
	// a stale pointer retry against the map.
	removed bool
}

// MemoryStore keeps sessions in process memory. The map is guarded by mu,
// each session by its own mutex, so traffic on different sessions does not
// serialize. Lock order is mu, then entry.mu.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	now      func() time.Time
}

type Option func(*MemoryStore)

// WithClock replaces time.Now for session creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *MemoryStore) { m.now = now }
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	m := &MemoryStore{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Append adds msg to the session, creating it on first use, and merges ctx
// into the session context. Keys absent from ctx are left untouched. It
// returns the session's message count after the append.
func (m *MemoryStore) Append(sessionID string, msg Message, ctx map[string]ContextValue) int {
	msg = cloneMessage(msg)
	for {
		e := m.entryFor(sessionID)
		e.mu.Lock()
		if e.removed {
			e.mu.Unlock()
			continue
		}
		e.session.Messages = append(e.session.Messages, msg)
		for k, v := range ctx {
			e.session.Context[k] = v
		}
		n := len(e.session.Messages)
		e.mu.Unlock()
		return n
	}
}

func (m *MemoryStore) entryFor(sessionID string) *entry {
	m.mu.RLock()
	e, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		return e
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[sessionID]; ok {
		return e
	}
	e = &entry{session: Session{
		ID:        sessionID,
		Messages:  []Message{},
		Context:   make(map[string]ContextValue),
		CreatedAt: m.now(),
	}}
	m.sessions[sessionID] = e
	return e
}

// Get returns a copy of the session.
func (m *MemoryStore) Get(sessionID string) (Session, error) {
	m.mu.RLock()
	e, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return Session{}, ErrSessionNotFound
	}
	return cloneSession(e.session), nil
}

// Reset drops the session. Unknown ids are ignored.
func (m *MemoryStore) Reset(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[sessionID]
	if !ok {
		return
	}
	e.mu.Lock()
	e.removed = true
	e.mu.Unlock()
	delete(m.sessions, sessionID)
}

// Snapshot copies every live session. Order is unspecified.
func (m *MemoryStore) Snapshot() []Session {
	m.mu.RLock()
	entries := make([]*entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	out := make([]Session, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.removed {
			out = append(out, cloneSession(e.session))
		}
		e.mu.Unlock()
	}
	return out
}

func cloneSession(s Session) Session {
	out := Session{
		ID:        s.ID,
		Messages:  make([]Message, len(s.Messages)),
		Context:   make(map[string]ContextValue, len(s.Context)),
		CreatedAt: s.CreatedAt,
	}
	for i, msg := range s.Messages {
		out.Messages[i] = cloneMessage(msg)
	}
	for k, v := range s.Context {
		out.Context[k] = v
	}
	return out
}

func cloneMessage(msg Message) Message {
	ents := make(map[string][]string, len(msg.Entities))
	for k, v := range msg.Entities {
		ents[k] = append([]string(nil), v...)
	}
	msg.Entities = ents
	return msg
}
