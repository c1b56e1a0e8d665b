package analytics

import (
	"testing"
	"time"

	"github.com/AdityaMalani1302/cms/internal/store"
)

func TestCompute(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	clock := start
	st := store.NewMemoryStore(store.WithClock(func() time.Time { return clock }))

	st.Append("old", store.Message{Intent: "greeting"}, nil)
	st.Append("old", store.Message{Intent: "track_package"}, nil)

	clock = start.Add(90 * time.Minute)
	st.Append("new", store.Message{Intent: "greeting"}, nil)
	st.Append("new", store.Message{Intent: "unknown"}, nil)
	st.Append("new", store.Message{Intent: "greeting"}, nil)
	// activity on an old session does not make it active
	st.Append("old", store.Message{Intent: "goodbye"}, nil)

	now := start.Add(100 * time.Minute)
	r := NewAggregator(st, func() time.Time { return now }).Compute()

	if r.TotalSessions != 2 {
		t.Errorf("expected 2 sessions, got %d", r.TotalSessions)
	}
	if r.TotalMessages != 6 {
		t.Errorf("expected 6 messages, got %d", r.TotalMessages)
	}
	if r.ActiveSessions != 1 {
		t.Errorf("expected 1 active session, got %d", r.ActiveSessions)
	}
	want := map[string]int{"greeting": 3, "track_package": 1, "unknown": 1, "goodbye": 1}
	for k, v := range want {
		if r.IntentDistribution[k] != v {
			t.Errorf("intent %s: expected %d, got %d", k, v, r.IntentDistribution[k])
		}
	}

	sum := 0
	for _, v := range r.IntentDistribution {
		sum += v
	}
	if sum != r.TotalMessages {
		t.Errorf("distribution sums to %d, total is %d", sum, r.TotalMessages)
	}
	perSession := 0
	for _, s := range st.Snapshot() {
		perSession += len(s.Messages)
	}
	if perSession != r.TotalMessages {
		t.Errorf("per-session counts sum to %d, total is %d", perSession, r.TotalMessages)
	}
}

func TestComputeEmpty(t *testing.T) {
	r := NewAggregator(store.NewMemoryStore(), nil).Compute()
	if r.TotalSessions != 0 || r.TotalMessages != 0 || r.ActiveSessions != 0 {
		t.Errorf("expected zero report, got %+v", r)
	}
	if r.IntentDistribution == nil {
		t.Error("expected an empty, non-nil distribution")
	}
}
