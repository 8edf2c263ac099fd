package applications

import (
	"time"

	"github.com/kikuna-park/backend/internal/models"
)

// IsAccepting reports whether the event is currently taking applications.
// All rules must hold: the event exists, is public, has OPEN status, and now
// falls inside the optional application window. Pure; callers re-evaluate it
// on every request so a held-open form page or replayed POST cannot slip
// past a window that has since closed.
func IsAccepting(e *models.Event, now time.Time) bool {
	if e == nil {
		return false
	}
	if !e.IsPublic || e.Status != models.EventStatusOpen {
		return false
	}
	if e.ApplicationStartDate != nil && now.Before(*e.ApplicationStartDate) {
		return false
	}
	if e.ApplicationEndDate != nil && now.After(*e.ApplicationEndDate) {
		return false
	}
	return true
}

// NotYetOpen reports whether the only thing keeping the event from accepting
// applications is a start date still in the future. Used to show an
// "applications open from ..." hint instead of the plain closed page.
func NotYetOpen(e *models.Event, now time.Time) bool {
	if e == nil || !e.IsPublic || e.Status != models.EventStatusOpen {
		return false
	}
	return e.ApplicationStartDate != nil && now.Before(*e.ApplicationStartDate)
}
