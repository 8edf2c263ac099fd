// Package events handles park event persistence and HTTP endpoints.
package events

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kikuna-park/backend/internal/models"
)

// ErrHasApplications is returned when deleting an event that applications
// still reference. Events are never cascade-deleted from the admin API.
var ErrHasApplications = errors.New("event has applications")

const eventColumns = `id, title, slug, date, application_start_date, application_end_date,
	is_public, status, location, description, created_at, updated_at`

// Repository handles event persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new event. The slug must be unique; a duplicate surfaces
// as the unique-constraint error from Postgres.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	const q = `INSERT INTO events (id, title, slug, date, application_start_date, application_end_date, is_public, status, location, description)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, e.Title, e.Slug, e.Date, e.ApplicationStartDate, e.ApplicationEndDate,
		e.IsPublic, e.Status, e.Location, e.Description).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// FindBySlug returns the event with the given slug, or (nil, nil) when no
// event matches.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE slug = $1`
	e, err := scanEvent(r.pool.QueryRow(ctx, q, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetByID returns an event by ID, or (nil, nil) when missing.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListUpcomingPublic returns public OPEN events with a date not yet passed,
// soonest first. Used by the home page.
func (r *Repository) ListUpcomingPublic(ctx context.Context) ([]models.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events
		WHERE is_public = TRUE AND status = $1 AND date >= NOW() ORDER BY date ASC`
	rows, err := r.pool.Query(ctx, q, models.EventStatusOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// ListWithCounts returns all events with their application counts, newest
// event date first. Used by the admin event listing.
func (r *Repository) ListWithCounts(ctx context.Context) ([]models.EventWithCount, error) {
	q := `SELECT ` + eventColumns + `, (SELECT COUNT(*) FROM applications a WHERE a.event_id = events.id)
		FROM events ORDER BY date DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.EventWithCount
	for rows.Next() {
		var ec models.EventWithCount
		if err := rows.Scan(eventDests(&ec.Event, &ec.ApplicationCount)...); err != nil {
			return nil, err
		}
		list = append(list, ec)
	}
	return list, rows.Err()
}

// Update mutates an event's editable fields. The slug is immutable and is
// deliberately absent from the statement.
func (r *Repository) Update(ctx context.Context, e *models.Event) error {
	const q = `UPDATE events SET title = $1, date = $2, application_start_date = $3, application_end_date = $4,
		is_public = $5, status = $6, location = $7, description = $8, updated_at = NOW()
		WHERE id = $9 RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, e.Title, e.Date, e.ApplicationStartDate, e.ApplicationEndDate,
		e.IsPublic, e.Status, e.Location, e.Description, e.ID).Scan(&e.UpdatedAt)
}

// Delete removes an event, refusing with ErrHasApplications while any
// application still references it.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE event_id = $1`, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrHasApplications
	}
	if _, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	if err := row.Scan(eventDests(&e)...); err != nil {
		return nil, err
	}
	return &e, nil
}

func eventDests(e *models.Event, extra ...interface{}) []interface{} {
	dests := []interface{}{
		&e.ID, &e.Title, &e.Slug, &e.Date, &e.ApplicationStartDate, &e.ApplicationEndDate,
		&e.IsPublic, &e.Status, &e.Location, &e.Description, &e.CreatedAt, &e.UpdatedAt,
	}
	return append(dests, extra...)
}
