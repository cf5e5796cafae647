package audit

import (
	"fmt"
	"os"
	"os/user"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogSink writes each event as a structured zerolog line.
type LogSink struct {
	Log zerolog.Logger
}

func (s LogSink) Emit(e Event) {
	s.Log.Info().
		Str("run_id", e.RunID.String()).
		Str("action", e.Action).
		Str("entity", e.Entity).
		Time("at", e.Timestamp).
		Str("detail", e.Detail).
		Msg("audit")
}

// FileSink appends events to a plain-text audit log, one line per event:
//
//	<RFC3339 timestamp> | <os user> | <action> | <entity> | <detail>
type FileSink struct {
	mu   sync.Mutex
	f    *os.File
	user string
}

// NewFileSink opens (or creates) the audit log for appending.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &FileSink{f: f, user: currentUser()}, nil
}

func (s *FileSink) Emit(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.f, "%s | %s | %s | %s | %s\n",
		e.Timestamp.Format(time.RFC3339), s.user, e.Action, e.Entity, e.Detail)
}

// Close flushes and closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "unknown"
}

// Collector retains every event in order, for tests and dry runs.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *Collector) Emit(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

// Events returns a copy of the collected events in emission order.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}
