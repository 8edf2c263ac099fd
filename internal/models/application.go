package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Application is a performer or stall application submitted for an event.
// Kind-specific columns are nullable; only the columns for the application's
// kind are populated. EventID is always derived server-side from the slug the
// form was posted to. OriginalPayload and OriginalSubmittedAt hold the exact
// raw field map the submitter sent and are never modified after creation.
type Application struct {
	ID      uuid.UUID `json:"id"`
	EventID uuid.UUID `json:"event_id"`
	Kind    string    `json:"kind"`

	GroupName      string  `json:"group_name"`
	Representative string  `json:"representative"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone,omitempty"`
	Address        *string `json:"address,omitempty"`

	// Performer fields.
	Performance     *string `json:"performance,omitempty"`
	PerformerCount  *int    `json:"performer_count,omitempty"`
	SlotCount       *int    `json:"slot_count,omitempty"`
	AudioSourceOnly *bool   `json:"audio_source_only,omitempty"`
	RentalAmp       *int    `json:"rental_amp,omitempty"`
	RentalMic       *int    `json:"rental_mic,omitempty"`

	// Stall fields.
	BoothType     *string  `json:"booth_type,omitempty"`
	Items         *string  `json:"items,omitempty"`
	PriceRangeMin *int     `json:"price_range_min,omitempty"`
	PriceRangeMax *int     `json:"price_range_max,omitempty"`
	BoothCount    *int     `json:"booth_count,omitempty"`
	TentWidth     *float64 `json:"tent_width,omitempty"`
	TentDepth     *float64 `json:"tent_depth,omitempty"`
	TentHeight    *float64 `json:"tent_height,omitempty"`
	RentalTables  *int     `json:"rental_tables,omitempty"`
	RentalChairs  *int     `json:"rental_chairs,omitempty"`

	// Shared extras.
	VehicleCount   *int    `json:"vehicle_count,omitempty"`
	VehicleType    *string `json:"vehicle_type,omitempty"`
	VehicleNumbers *string `json:"vehicle_numbers,omitempty"`
	Questions      *string `json:"questions,omitempty"`

	PrivacyConsent   bool `json:"privacy_consent"`
	MarketingConsent bool `json:"marketing_consent"`

	OriginalPayload     json.RawMessage `json:"original_payload"`
	OriginalSubmittedAt time.Time       `json:"original_submitted_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
