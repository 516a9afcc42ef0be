package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/mccastellazzob/motoclub/internal/model"
	"github.com/mccastellazzob/motoclub/internal/store"
	"github.com/mccastellazzob/motoclub/internal/testutil"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func listEvents(t *testing.T, q *store.Queries) []store.Event {
	t.Helper()
	events, err := q.ListEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(*slog.Logger)
		level string // empty means not captured
	}{
		{"error", func(l *slog.Logger) { l.Error("database connection failed", "host", "localhost") }, model.EventLevelError},
		{"warn", func(l *slog.Logger) { l.Warn("slow query detected", "duration_ms", 5000) }, model.EventLevelWarning},
		{"info", func(l *slog.Logger) { l.Info("server started", "port", 8080) }, ""},
		{"debug", func(l *slog.Logger) { l.Debug("processing request") }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.TestDB(t)
			tt.log(slog.New(NewEventLogHandler(discardHandler{}, db)))

			events := listEvents(t, store.New(db))
			if tt.level == "" {
				if len(events) != 0 {
					t.Errorf("expected no events, got %d", len(events))
				}
				return
			}
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			if events[0].Level != tt.level {
				t.Errorf("Level = %q, want %q", events[0].Level, tt.level)
			}
		})
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelInfo))

	logger.Info("server started", "port", 8080)

	if events := listEvents(t, store.New(db)); len(events) != 1 {
		t.Errorf("expected 1 event with custom INFO level, got %d", len(events))
	}
}

func TestEventLogHandler_Category(t *testing.T) {
	tests := []struct {
		message string
		attrs   []any
		want    string
	}{
		{"login attempt blocked", nil, model.EventCategoryAuth},
		{"translation call failed", nil, model.EventCategoryTranslation},
		{"honeypot triggered", nil, model.EventCategoryContact},
		{"image upload rejected", nil, model.EventCategoryMedia},
		{"cache unavailable", nil, model.EventCategoryCache},
		{"page not found", nil, model.EventCategoryPage},
		{"disk almost full", nil, model.EventCategorySystem},
		{"anything", []any{"category", "custom"}, "custom"},
	}

	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))
	q := store.New(db)

	for _, tt := range tests {
		_, _ = db.Exec("DELETE FROM events")
		logger.Error(tt.message, tt.attrs...)

		events := listEvents(t, q)
		if len(events) != 1 {
			t.Errorf("%q: expected 1 event, got %d", tt.message, len(events))
			continue
		}
		if events[0].Category != tt.want {
			t.Errorf("%q: Category = %q, want %q", tt.message, events[0].Category, tt.want)
		}
	}
}

func TestEventLogHandler_Metadata(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).With("component", "sync")

	logger.Warn("segment skipped", "locale", "en", "category", model.EventCategoryTranslation, "note", `say "ciao"`)

	events := listEvents(t, store.New(db))
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(events[0].Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v (%s)", err, events[0].Metadata)
	}
	want := map[string]string{"component": "sync", "locale": "en", "note": `say "ciao"`}
	for k, v := range want {
		if meta[k] != v {
			t.Errorf("metadata[%q] = %q, want %q", k, meta[k], v)
		}
	}
	if _, ok := meta["category"]; ok {
		t.Error("category should not be stored in metadata")
	}
}

func TestEventMetadata_Empty(t *testing.T) {
	if got := eventMetadata(nil); got != "{}" {
		t.Errorf("eventMetadata(nil) = %q", got)
	}
}
