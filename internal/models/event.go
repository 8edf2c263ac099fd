package models

import (
	"time"

	"github.com/google/uuid"
)

// Event lifecycle status values.
const (
	EventStatusOpen     = "OPEN"
	EventStatusClosed   = "CLOSED"
	EventStatusArchived = "ARCHIVED"
)

// Event is a park event that may accept performer and stall applications.
// Slug is the public URL key; it is unique and never changes after creation.
type Event struct {
	ID                   uuid.UUID  `json:"id"`
	Title                string     `json:"title"`
	Slug                 string     `json:"slug"`
	Date                 time.Time  `json:"date"`
	ApplicationStartDate *time.Time `json:"application_start_date,omitempty"`
	ApplicationEndDate   *time.Time `json:"application_end_date,omitempty"`
	IsPublic             bool       `json:"is_public"`
	Status               string     `json:"status"`
	Location             string     `json:"location"`
	Description          string     `json:"description"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// EventWithCount pairs an event with its application count for admin listings.
type EventWithCount struct {
	Event
	ApplicationCount int `json:"application_count"`
}
