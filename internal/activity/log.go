package activity

import (
	"sync"
	"time"
)

// Entry is one recorded event.
type Entry struct {
	At      time.Time         `json:"at"`
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

const (
	KindAppointmentCreated = "appointment.created"
	KindAppointmentStatus  = "appointment.status"
	KindAppointmentReject  = "appointment.rejected"
	KindLeadCreated        = "lead.created"
	KindNotificationFailed = "notification.failed"
	KindJobRun             = "job.run"
)

// Log is a bounded, in-memory ring buffer of recent events.
// Entries older than ttl are skipped by Recent; Record only overwrites the oldest slot.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
	ttl     time.Duration
	now     func() time.Time
}

type Option func(*Log)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// New returns a Log keeping at most size entries for at most ttl.
// A non-positive ttl keeps entries until they are overwritten.
func New(size int, ttl time.Duration, opts ...Option) *Log {
	if size < 1 {
		size = 1
	}
	l := &Log{
		entries: make([]Entry, size),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record appends an event, overwriting the oldest one when the buffer is full.
func (l *Log) Record(kind, message string, fields map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[l.next] = Entry{
		At:      l.now(),
		Kind:    kind,
		Message: message,
		Fields:  fields,
	}
	l.next = (l.next + 1) % len(l.entries)
	if l.next == 0 {
		l.full = true
	}
}

// Recent returns up to limit unexpired entries, newest first. limit <= 0 means all.
func (l *Log) Recent(limit int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := l.next
	if l.full {
		count = len(l.entries)
	}
	if limit <= 0 || limit > count {
		limit = count
	}

	var cutoff time.Time
	if l.ttl > 0 {
		cutoff = l.now().Add(-l.ttl)
	}

	out := make([]Entry, 0, limit)
	for i := 0; i < count && len(out) < limit; i++ {
		idx := (l.next - 1 - i + len(l.entries)) % len(l.entries)
		e := l.entries[idx]
		// Walking newest to oldest, so the first expired entry ends the scan.
		if !cutoff.IsZero() && e.At.Before(cutoff) {
			break
		}
		out = append(out, e)
	}
	return out
}

// Len returns the number of unexpired entries.
func (l *Log) Len() int {
	return len(l.Recent(0))
}
