package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAppendCreatesAndOrders(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	m := NewMemoryStore(WithClock(fixedClock(created)))

	if n := m.Append("s1", Message{UserText: "first", Intent: "greeting"}, nil); n != 1 {
		t.Errorf("expected count 1, got %d", n)
	}
	if n := m.Append("s1", Message{UserText: "second", Intent: "goodbye"}, nil); n != 2 {
		t.Errorf("expected count 2, got %d", n)
	}

	s, err := m.Get("s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if s.ID != "s1" {
		t.Errorf("expected id 's1', got '%s'", s.ID)
	}
	if !s.CreatedAt.Equal(created) {
		t.Errorf("expected created_at %v, got %v", created, s.CreatedAt)
	}
	if len(s.Messages) != 2 || s.Messages[0].UserText != "first" || s.Messages[1].UserText != "second" {
		t.Errorf("unexpected messages: %+v", s.Messages)
	}
}

func TestContextMergeLastWriteWins(t *testing.T) {
	m := NewMemoryStore()
	m.Append("s", Message{}, map[string]ContextValue{"role": String("guest"), "auth": Bool(false)})
	m.Append("s", Message{}, map[string]ContextValue{"role": String("customer"), "cart": Number(2)})

	s, _ := m.Get("s")
	if v, _ := s.Context["role"].AsString(); v != "customer" {
		t.Errorf("expected role 'customer', got '%s'", v)
	}
	if v, ok := s.Context["auth"].AsBool(); !ok || v {
		t.Errorf("expected auth=false kept, got %v (%v)", v, ok)
	}
	if v, ok := s.Context["cart"].AsNumber(); !ok || v != 2 {
		t.Errorf("expected cart=2, got %v (%v)", v, ok)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	m := NewMemoryStore()
	m.Append("s", Message{Entities: map[string][]string{"email": {"a@b.co"}}}, nil)

	s, _ := m.Get("s")
	s.Messages[0].Entities["email"][0] = "changed"
	s.Messages = append(s.Messages, Message{})
	s.Context["x"] = String("y")

	again, _ := m.Get("s")
	if len(again.Messages) != 1 || again.Messages[0].Entities["email"][0] != "a@b.co" {
		t.Errorf("store was mutated through a returned copy: %+v", again)
	}
	if _, ok := again.Context["x"]; ok {
		t.Error("context was mutated through a returned copy")
	}
}

func TestResetThenGetNotFound(t *testing.T) {
	m := NewMemoryStore()
	m.Append("s", Message{}, nil)
	m.Reset("s")

	if _, err := m.Get("s"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	// idempotent
	m.Reset("s")
	m.Reset("never-existed")

	if n := m.Append("s", Message{}, nil); n != 1 {
		t.Errorf("expected a fresh session after reset, got count %d", n)
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := NewMemoryStore().Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestConcurrentAppends(t *testing.T) {
	m := NewMemoryStore()
	const sessions, perSession = 8, 50

	var wg sync.WaitGroup
	for s := 0; s < sessions; s++ {
		for i := 0; i < perSession; i++ {
			wg.Add(1)
			go func(s, i int) {
				defer wg.Done()
				m.Append(fmt.Sprintf("s%d", s), Message{UserText: fmt.Sprint(i)}, map[string]ContextValue{"last": Number(float64(i))})
			}(s, i)
		}
	}
	wg.Wait()

	if len(m.Snapshot()) != sessions {
		t.Errorf("expected %d sessions, got %d", sessions, len(m.Snapshot()))
	}
	for _, s := range m.Snapshot() {
		if len(s.Messages) != perSession {
			t.Errorf("%s: expected %d messages, got %d", s.ID, perSession, len(s.Messages))
		}
	}
}

func TestConcurrentAppendAndReset(t *testing.T) {
	m := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.Append("shared", Message{}, nil)
		}()
		go func() {
			defer wg.Done()
			m.Reset("shared")
		}()
	}
	wg.Wait()

	// Whatever survived must be internally consistent.
	if s, err := m.Get("shared"); err == nil && len(s.Messages) > 100 {
		t.Errorf("impossible message count %d", len(s.Messages))
	}
}
