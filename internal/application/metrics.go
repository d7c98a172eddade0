package application

import (
	"sync/atomic"
	"time"
)

// Metrics keeps lightweight process counters for the system endpoints.
// Counters are atomic so the HTTP adapter can bump them on every request
// without coordination.
type Metrics struct {
	startedAt time.Time

	totalRequests atomic.Int64
	loginFailed   atomic.Int64
	lockedOut     atomic.Int64
	notesPosted   atomic.Int64
}

func NewMetrics(startedAt time.Time) *Metrics {
	return &Metrics{startedAt: startedAt}
}

func (m *Metrics) IncTotalRequests() { m.totalRequests.Add(1) }
func (m *Metrics) IncLoginFailed()   { m.loginFailed.Add(1) }
func (m *Metrics) IncLockedOut()     { m.lockedOut.Add(1) }
func (m *Metrics) IncNotesPosted()   { m.notesPosted.Add(1) }

type MetricsSnapshot struct {
	TotalRequests int64   `json:"total_requests"`
	LoginFailed   int64   `json:"login_failed"`
	LockedOut     int64   `json:"locked_out"`
	NotesPosted   int64   `json:"notes_posted"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

func (m *Metrics) Snapshot(now time.Time) MetricsSnapshot {
	return MetricsSnapshot{
		TotalRequests: m.totalRequests.Load(),
		LoginFailed:   m.loginFailed.Load(),
		LockedOut:     m.lockedOut.Load(),
		NotesPosted:   m.notesPosted.Load(),
		UptimeSeconds: now.Sub(m.startedAt).Seconds(),
	}
}

// Uptime reports elapsed time since bootstrap for the health endpoint.
func (m *Metrics) Uptime(now time.Time) time.Duration {
	return now.Sub(m.startedAt)
}
