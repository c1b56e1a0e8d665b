// Package analytics summarizes the conversations held in the session store.
package analytics

import (
	"time"

	"github.com/AdityaMalani1302/cms/internal/store"
)

// ActiveWindow is how recently a session must have been created to count
// as active.
const ActiveWindow = time.Hour

// SessionSource is the read side of the session store.
type SessionSource interface {
	Snapshot() []store.Session
}

type Report struct {
	TotalSessions      int            `json:"total_sessions"`
	TotalMessages      int            `json:"total_messages"`
	IntentDistribution map[string]int `json:"intent_distribution"`
	ActiveSessions     int            `json:"active_sessions"`
}

type Aggregator struct {
	src SessionSource
	now func() time.Time
}

func NewAggregator(src SessionSource, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{src: src, now: now}
}

// Compute scans every session once. A session is active when it was
// created less than ActiveWindow ago; later activity does not count.
func (a *Aggregator) Compute() Report {
	sessions := a.src.Snapshot()
	now := a.now()
	r := Report{
		TotalSessions:      len(sessions),
		IntentDistribution: make(map[string]int),
	}
	for _, s := range sessions {
		r.TotalMessages += len(s.Messages)
		for _, m := range s.Messages {
			r.IntentDistribution[m.Intent]++
		}
		if now.Sub(s.CreatedAt) < ActiveWindow {
			r.ActiveSessions++
		}
	}
	return r
}
