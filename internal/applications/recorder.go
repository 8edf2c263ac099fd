package applications

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/kikuna-park/backend/internal/models"
)

// ApplicationStore persists applications. Implemented by *Repository; a fake
// stands in during tests.
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
}

// Recorder converts a validated field map into a persisted application.
type Recorder struct {
	store ApplicationStore
	now   func() time.Time
}

// NewRecorder creates a submission recorder.
func NewRecorder(store ApplicationStore) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// Record persists one application. The owning event id always comes from the
// resolved event, never from the field map, so a form carrying a forged
// eventId field cannot redirect the application to another event. Consent
// checkboxes are normalized to booleans, and the raw field map plus the
// server timestamp are stored verbatim as the immutable audit snapshot.
// Storage failures come back as *PersistenceError with the draft untouched;
// the caller must not retry silently.
func (r *Recorder) Record(ctx context.Context, event *models.Event, kind Kind, fields Fields) (*models.Application, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	app := &models.Application{
		EventID:             event.ID,
		Kind:                string(kind),
		GroupName:           strings.TrimSpace(fields["groupName"]),
		Representative:      strings.TrimSpace(fields["representative"]),
		Email:               strings.TrimSpace(fields["email"]),
		Phone:               optionalString(fields["phone"]),
		Address:             optionalString(fields["address"]),
		VehicleCount:        optionalInt(fields["vehicleCount"]),
		VehicleType:         optionalString(fields["vehicleType"]),
		VehicleNumbers:      optionalString(fields["vehicleNumbers"]),
		Questions:           optionalString(fields["questions"]),
		PrivacyConsent:      consentGiven(fields["privacyConsent"]),
		MarketingConsent:    consentGiven(fields["marketingConsent"]),
		OriginalPayload:     payload,
		OriginalSubmittedAt: r.now(),
	}

	switch kind {
	case KindPerformer:
		app.Performance = optionalString(fields["performance"])
		app.PerformerCount = optionalInt(fields["performerCount"])
		app.SlotCount = optionalInt(fields["slotCount"])
		audioOnly := consentGiven(fields["audioSourceOnly"])
		app.AudioSourceOnly = &audioOnly
		app.RentalAmp = optionalInt(fields["rentalAmp"])
		app.RentalMic = optionalInt(fields["rentalMic"])
	case KindStall:
		app.BoothType = optionalString(fields["boothType"])
		app.Items = optionalString(fields["items"])
		app.PriceRangeMin = optionalInt(fields["priceRangeMin"])
		app.PriceRangeMax = optionalInt(fields["priceRangeMax"])
		app.BoothCount = optionalInt(fields["boothCount"])
		app.TentWidth = optionalFloat(fields["tentWidth"])
		app.TentDepth = optionalFloat(fields["tentDepth"])
		app.TentHeight = optionalFloat(fields["tentHeight"])
		app.RentalTables = optionalInt(fields["rentalTables"])
		app.RentalChairs = optionalInt(fields["rentalChairs"])
	}

	if err := r.store.Create(ctx, app); err != nil {
		return nil, &PersistenceError{Err: err}
	}
	return app, nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func optionalInt(v string) *int {
	if n, ok, _ := parseOptionalInt(v); ok {
		return &n
	}
	return nil
}

func optionalFloat(v string) *float64 {
	if f, ok, _ := parseOptionalFloat(v); ok {
		return &f
	}
	return nil
}
