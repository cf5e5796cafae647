package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestFileSink_LineFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	sink, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	at := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	sink.Emit(Event{
		RunID:     uuid.New(),
		Action:    ActionQuarantine,
		Entity:    "patients:4",
		Timestamp: at,
		Detail:    "PATIENT_ID_DUPLICATE",
	})
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	line := strings.TrimSuffix(string(data), "\n")
	fields := strings.Split(line, " | ")
	if len(fields) != 5 {
		t.Fatalf("got %d fields, want 5: %q", len(fields), line)
	}
	if fields[0] != at.Format(time.RFC3339) {
		t.Errorf("timestamp field = %q, want RFC3339 %q", fields[0], at.Format(time.RFC3339))
	}
	if fields[1] == "" {
		t.Error("user field is empty")
	}
	if fields[2] != ActionQuarantine || fields[3] != "patients:4" || fields[4] != "PATIENT_ID_DUPLICATE" {
		t.Errorf("unexpected fields: %v", fields[2:])
	}
}

func TestFileSink_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	for i := 0; i < 2; i++ {
		sink, err := NewFileSink(path)
		if err != nil {
			t.Fatalf("NewFileSink: %v", err)
		}
		sink.Emit(Event{Action: ActionIngest, Entity: "patients", Timestamp: time.Now()})
		sink.Close()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if n := strings.Count(string(data), "\n"); n != 2 {
		t.Errorf("got %d lines, want 2 (reopening must append)", n)
	}
}

func TestCollector_PreservesOrder(t *testing.T) {
	var c Collector
	for _, action := range []string{ActionIngest, ActionValidation, ActionMask, ActionExport} {
		c.Emit(Event{Action: action})
	}
	got := c.Events()
	want := []string{ActionIngest, ActionValidation, ActionMask, ActionExport}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i, e := range got {
		if e.Action != want[i] {
			t.Errorf("event %d action = %s, want %s", i, e.Action, want[i])
		}
	}

	// Events() hands back a copy.
	got[0].Action = "MUTATED"
	if c.Events()[0].Action != ActionIngest {
		t.Error("mutating the returned slice altered the collector")
	}
}

func TestMulti_FansOut(t *testing.T) {
	var a, b Collector
	m := Multi{&a, &b}
	m.Emit(Event{Action: ActionStandardize})
	if len(a.Events()) != 1 || len(b.Events()) != 1 {
		t.Errorf("fan-out missed a sink: a=%d b=%d", len(a.Events()), len(b.Events()))
	}
}
