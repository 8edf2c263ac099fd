package applications

import (
	"testing"
	"time"

	"github.com/kikuna-park/backend/internal/models"
)

func openEvent() *models.Event {
	return &models.Event{
		Title:    "桜まつり",
		Slug:     "sakura-matsuri",
		IsPublic: true,
		Status:   models.EventStatusOpen,
	}
}

func TestIsAccepting(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	tests := []struct {
		name   string
		modify func(e *models.Event)
		want   bool
	}{
		{"open event with no window", func(e *models.Event) {}, true},
		{"missing event", nil, false},
		{"not public", func(e *models.Event) { e.IsPublic = false }, false},
		{"closed status", func(e *models.Event) { e.Status = models.EventStatusClosed }, false},
		{"archived status", func(e *models.Event) { e.Status = models.EventStatusArchived }, false},
		{"start date in the future", func(e *models.Event) { e.ApplicationStartDate = &future }, false},
		{"start date in the past", func(e *models.Event) { e.ApplicationStartDate = &past }, true},
		{"end date in the past", func(e *models.Event) { e.ApplicationEndDate = &past }, false},
		{"end date in the future", func(e *models.Event) { e.ApplicationEndDate = &future }, true},
		{"inside window", func(e *models.Event) {
			e.ApplicationStartDate = &past
			e.ApplicationEndDate = &future
		}, true},
		{"not public overrides open window", func(e *models.Event) {
			e.IsPublic = false
			e.ApplicationStartDate = &past
			e.ApplicationEndDate = &future
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e *models.Event
			if tt.modify != nil {
				e = openEvent()
				tt.modify(e)
			}
			if got := IsAccepting(e, now); got != tt.want {
				t.Errorf("IsAccepting() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAcceptingCrossesStartDate(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	e := openEvent()
	e.ApplicationStartDate = &start

	if IsAccepting(e, start.Add(-time.Second)) {
		t.Error("accepting one second before the start date")
	}
	if !IsAccepting(e, start) {
		t.Error("not accepting exactly at the start date")
	}
	if !IsAccepting(e, start.Add(time.Second)) {
		t.Error("not accepting after the start date")
	}
}

func TestNotYetOpen(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)

	e := openEvent()
	e.ApplicationStartDate = &future
	if !NotYetOpen(e, now) {
		t.Error("expected not-yet-open for future start date")
	}

	e.IsPublic = false
	if NotYetOpen(e, now) {
		t.Error("unpublished event reported as merely not-yet-open")
	}
	if NotYetOpen(nil, now) {
		t.Error("nil event reported as not-yet-open")
	}
}
