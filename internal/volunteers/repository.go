package volunteers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kikuna-park/backend/internal/models"
)

const volunteerColumns = `id, type, name, org_name, email, phone, address,
	skills, interests, notes, created_at, updated_at`

// Repository handles volunteer persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a volunteers repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new volunteer and fills in the generated id and
// timestamps.
func (r *Repository) Create(ctx context.Context, v *models.Volunteer) error {
	const q = `INSERT INTO volunteers (id, type, name, org_name, email, phone, address, skills, interests, notes)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, v.Type, v.Name, v.OrgName, v.Email, v.Phone, v.Address,
		v.Skills, v.Interests, v.Notes).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	// The unique index on (email, name) backs the registrar's duplicate
	// check; two racing registrations surface the same error either way.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyRegistered
	}
	return err
}

// FindByEmailAndName returns the volunteer with the given email and name, or
// (nil, nil) when none matches. Used for the duplicate check at registration.
func (r *Repository) FindByEmailAndName(ctx context.Context, email, name string) (*models.Volunteer, error) {
	q := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE email = $1 AND name = $2`
	v, err := scanVolunteer(r.pool.QueryRow(ctx, q, email, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// List returns volunteers matching a free-text search over name, email, and
// phone, newest first, with the total count for pagination.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]models.Volunteer, int, error) {
	where := ""
	var args []interface{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where = " WHERE (name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1)"
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM volunteers"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	q := fmt.Sprintf("SELECT %s FROM volunteers%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		volunteerColumns, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []models.Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *v)
	}
	return list, total, rows.Err()
}

// ListAll returns every volunteer, newest first. Used by the CSV export.
func (r *Repository) ListAll(ctx context.Context) ([]models.Volunteer, error) {
	q := `SELECT ` + volunteerColumns + ` FROM volunteers ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *v)
	}
	return list, rows.Err()
}

func scanVolunteer(row pgx.Row) (*models.Volunteer, error) {
	var v models.Volunteer
	if err := row.Scan(&v.ID, &v.Type, &v.Name, &v.OrgName, &v.Email, &v.Phone, &v.Address,
		&v.Skills, &v.Interests, &v.Notes, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}
