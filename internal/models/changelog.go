package models

import (
	"time"

	"github.com/google/uuid"
)

// ChangeLogEntry records one field change made by an administrator.
// Entries are append-only; they are never updated or deleted.
type ChangeLogEntry struct {
	ID         uuid.UUID `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id"`
	Field      string    `json:"field"`
	OldValue   string    `json:"old_value"`
	NewValue   string    `json:"new_value"`
	Reason     string    `json:"reason"`
	Editor     string    `json:"editor"`
	CreatedAt  time.Time `json:"created_at"`
}
