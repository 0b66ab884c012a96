package logging

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/vitrine-cms/vitrine/internal/model"
	"github.com/vitrine-cms/vitrine/internal/store"
)

// discardHandler is a slog.Handler that discards all records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

func TestEventLogHandler_WarnWritesEvent(t *testing.T) {
	st := store.NewMemoryStore()
	logger := slog.New(NewEventLogHandler(discardHandler{}, st))

	logger.Warn("cache purge failed", "key", "homepage:en")

	events := st.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Level != model.EventLevelWarning {
		t.Errorf("Level = %q, want %q", ev.Level, model.EventLevelWarning)
	}
	if ev.Category != model.EventCategoryCache {
		t.Errorf("Category = %q, want %q", ev.Category, model.EventCategoryCache)
	}
	if ev.Message != "cache purge failed" {
		t.Errorf("Message = %q", ev.Message)
	}
	if !strings.Contains(ev.Metadata, `"key":"homepage:en"`) {
		t.Errorf("Metadata = %q, missing key attribute", ev.Metadata)
	}
}

func TestEventLogHandler_InfoNotWritten(t *testing.T) {
	st := store.NewMemoryStore()
	logger := slog.New(NewEventLogHandler(discardHandler{}, st))

	logger.Info("server started")
	logger.Debug("verbose detail")

	if got := len(st.Events()); got != 0 {
		t.Fatalf("got %d events, want 0 below WARN", got)
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	st := store.NewMemoryStore()
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, st, slog.LevelInfo))

	logger.Info("schedule sweep complete")

	events := st.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Level != model.EventLevelInfo {
		t.Errorf("Level = %q, want %q", events[0].Level, model.EventLevelInfo)
	}
}

func TestEventLogHandler_ExplicitCategory(t *testing.T) {
	st := store.NewMemoryStore()
	logger := slog.New(NewEventLogHandler(discardHandler{}, st))

	logger.Error("something broke", "category", model.EventCategorySchedule)

	events := st.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Category != model.EventCategorySchedule {
		t.Errorf("Category = %q, want explicit %q", events[0].Category, model.EventCategorySchedule)
	}
	if strings.Contains(events[0].Metadata, "category") {
		t.Errorf("Metadata = %q, category attribute should be stripped", events[0].Metadata)
	}
}

func TestEventLogHandler_CategoryInference(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"section update failed", model.EventCategorySection},
		{"publish conflict detected", model.EventCategorySection},
		{"version rollback rejected", model.EventCategorySection},
		{"scheduled publish failed", model.EventCategorySchedule},
		{"sweep aborted", model.EventCategorySchedule},
		{"cache invalidation failed", model.EventCategoryCache},
		{"purge queue full", model.EventCategoryCache},
		{"disk almost full", model.EventCategorySystem},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			st := store.NewMemoryStore()
			logger := slog.New(NewEventLogHandler(discardHandler{}, st))

			logger.Warn(tt.message)

			events := st.Events()
			if len(events) != 1 {
				t.Fatalf("got %d events, want 1", len(events))
			}
			if events[0].Category != tt.want {
				t.Errorf("Category = %q, want %q", events[0].Category, tt.want)
			}
		})
	}
}

func TestEventLogHandler_ErrorLevel(t *testing.T) {
	st := store.NewMemoryStore()
	logger := slog.New(NewEventLogHandler(discardHandler{}, st))

	logger.Error("store unavailable")

	events := st.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Level != model.EventLevelError {
		t.Errorf("Level = %q, want %q", events[0].Level, model.EventLevelError)
	}
}

func TestEventLogHandler_WithAttrs(t *testing.T) {
	st := store.NewMemoryStore()
	base := slog.New(NewEventLogHandler(discardHandler{}, st))
	logger := base.With("section_id", 42)

	logger.Warn("section archive failed")

	events := st.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Message != "section archive failed" {
		t.Errorf("Message = %q", events[0].Message)
	}
	if events[0].Category != model.EventCategorySection {
		t.Errorf("Category = %q, want %q", events[0].Category, model.EventCategorySection)
	}
}

func TestEventLogHandler_EmptyMetadata(t *testing.T) {
	st := store.NewMemoryStore()
	logger := slog.New(NewEventLogHandler(discardHandler{}, st))

	logger.Warn("schedule claim lost")

	events := st.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Metadata != "{}" {
		t.Errorf("Metadata = %q, want empty object", events[0].Metadata)
	}
}

func TestSlogLevelToEventLevel(t *testing.T) {
	h := NewEventLogHandler(discardHandler{}, store.NewMemoryStore())

	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, model.EventLevelInfo},
		{slog.LevelInfo, model.EventLevelInfo},
		{slog.LevelWarn, model.EventLevelWarning},
		{slog.LevelError, model.EventLevelError},
		{slog.LevelError + 4, model.EventLevelError},
	}

	for _, tt := range tests {
		if got := h.slogLevelToEventLevel(tt.level); got != tt.want {
			t.Errorf("slogLevelToEventLevel(%v) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestEscapeJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `plain`},
		{`has "quotes"`, `has \"quotes\"`},
		{"line\nbreak", `line\nbreak`},
		{`back\slash`, `back\\slash`},
		{"tab\there", `tab\there`},
	}

	for _, tt := range tests {
		if got := escapeJSON(tt.in); got != tt.want {
			t.Errorf("escapeJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEventLogHandler_TimestampPreserved(t *testing.T) {
	st := store.NewMemoryStore()
	h := NewEventLogHandler(discardHandler{}, st)

	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	rec := slog.NewRecord(now, slog.LevelWarn, "cache purge failed", 0)
	if err := h.Handle(context.Background(), rec); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	events := st.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if !events[0].CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", events[0].CreatedAt, now)
	}
}
