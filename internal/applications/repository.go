package applications

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kikuna-park/backend/internal/changelog"
	"github.com/kikuna-park/backend/internal/models"
)

const applicationColumns = `id, event_id, kind, group_name, representative, email, phone, address,
	performance, performer_count, slot_count, audio_source_only, rental_amp, rental_mic,
	booth_type, items, price_range_min, price_range_max, booth_count,
	tent_width, tent_depth, tent_height, rental_tables, rental_chairs,
	vehicle_count, vehicle_type, vehicle_numbers, questions,
	privacy_consent, marketing_consent, original_payload, original_submitted_at,
	created_at, updated_at`

// Repository handles application persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an applications repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new application and fills in the generated id and
// timestamps.
func (r *Repository) Create(ctx context.Context, a *models.Application) error {
	const q = `INSERT INTO applications (id, event_id, kind, group_name, representative, email, phone, address,
			performance, performer_count, slot_count, audio_source_only, rental_amp, rental_mic,
			booth_type, items, price_range_min, price_range_max, booth_count,
			tent_width, tent_depth, tent_height, rental_tables, rental_chairs,
			vehicle_count, vehicle_type, vehicle_numbers, questions,
			privacy_consent, marketing_consent, original_payload, original_submitted_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q,
		a.EventID, a.Kind, a.GroupName, a.Representative, a.Email, a.Phone, a.Address,
		a.Performance, a.PerformerCount, a.SlotCount, a.AudioSourceOnly, a.RentalAmp, a.RentalMic,
		a.BoothType, a.Items, a.PriceRangeMin, a.PriceRangeMax, a.BoothCount,
		a.TentWidth, a.TentDepth, a.TentHeight, a.RentalTables, a.RentalChairs,
		a.VehicleCount, a.VehicleType, a.VehicleNumbers, a.Questions,
		a.PrivacyConsent, a.MarketingConsent, a.OriginalPayload, a.OriginalSubmittedAt,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// GetByID returns an application by ID, or (nil, nil) when missing.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	q := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	a, err := scanApplication(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List returns applications filtered by kind and a free-text search over
// group name, representative, and email, newest first, with the total count
// for pagination.
func (r *Repository) List(ctx context.Context, kind, search string, limit, offset int) ([]models.Application, int, error) {
	var conds []string
	var args []interface{}
	if kind != "" {
		args = append(args, kind)
		conds = append(conds, fmt.Sprintf("kind = $%d", len(args)))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(group_name ILIKE $%d OR representative ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM applications"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	q := fmt.Sprintf("SELECT %s FROM applications%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		applicationColumns, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *a)
	}
	return list, total, rows.Err()
}

// ExportRow pairs an application with its event title for CSV export.
type ExportRow struct {
	models.Application
	EventTitle string
}

// ListForExport returns all applications of a kind joined with their event
// title, newest first.
func (r *Repository) ListForExport(ctx context.Context, kind string) ([]ExportRow, error) {
	q := `SELECT ` + prefixColumns("a", applicationColumns) + `, e.title
		FROM applications a JOIN events e ON e.id = a.event_id
		WHERE a.kind = $1 ORDER BY a.created_at DESC`
	rows, err := r.pool.Query(ctx, q, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []ExportRow
	for rows.Next() {
		var row ExportRow
		if err := rows.Scan(applicationDests(&row.Application, &row.EventTitle)...); err != nil {
			return nil, err
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// Editable fields for admin edits, API field name to column. Only contact
// and free-text fields can be edited; the audit snapshot and structural
// columns stay fixed.
var editableColumns = map[string]string{
	"groupName":      "group_name",
	"representative": "representative",
	"email":          "email",
	"phone":          "phone",
	"address":        "address",
	"performance":    "performance",
	"boothType":      "booth_type",
	"items":          "items",
	"vehicleType":    "vehicle_type",
	"vehicleNumbers": "vehicle_numbers",
	"questions":      "questions",
}

// Columns that may not be cleared to NULL.
var requiredColumns = map[string]bool{
	"group_name":     true,
	"representative": true,
	"email":          true,
}

// UpdateFields applies admin edits to an application and appends one change
// log entry per changed field, in a single transaction. Unknown fields are
// rejected. Returns the entries written; an empty slice means every
// requested value already matched.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, changes map[string]string, reason, editor string) ([]models.ChangeLogEntry, error) {
	fields := make([]string, 0, len(changes))
	for f := range changes {
		col, ok := editableColumns[f]
		if !ok {
			return nil, fmt.Errorf("field %q is not editable", f)
		}
		if requiredColumns[col] && strings.TrimSpace(changes[f]) == "" {
			return nil, fmt.Errorf("field %q cannot be empty", f)
		}
		fields = append(fields, f)
	}
	sort.Strings(fields)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	selectCols := make([]string, len(fields))
	for i, f := range fields {
		selectCols[i] = editableColumns[f]
	}
	current := make([]*string, len(fields))
	dests := make([]interface{}, len(fields))
	for i := range current {
		dests[i] = &current[i]
	}
	q := "SELECT " + strings.Join(selectCols, ", ") + " FROM applications WHERE id = $1 FOR UPDATE"
	if err := tx.QueryRow(ctx, q, id).Scan(dests...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("application %s not found", id)
		}
		return nil, err
	}

	var sets []string
	var args []interface{}
	var entries []models.ChangeLogEntry
	for i, f := range fields {
		oldVal := ""
		if current[i] != nil {
			oldVal = *current[i]
		}
		newVal := strings.TrimSpace(changes[f])
		if newVal == oldVal {
			continue
		}
		col := editableColumns[f]
		if newVal == "" {
			args = append(args, nil)
		} else {
			args = append(args, newVal)
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
		entries = append(entries, models.ChangeLogEntry{
			EntityType: "application",
			EntityID:   id,
			Field:      f,
			OldValue:   oldVal,
			NewValue:   newVal,
			Reason:     reason,
			Editor:     editor,
		})
	}
	if len(sets) == 0 {
		return []models.ChangeLogEntry{}, tx.Commit(ctx)
	}

	args = append(args, id)
	update := fmt.Sprintf("UPDATE applications SET %s, updated_at = NOW() WHERE id = $%d",
		strings.Join(sets, ", "), len(args))
	if _, err := tx.Exec(ctx, update, args...); err != nil {
		return nil, err
	}
	for i := range entries {
		if err := changelog.InsertTx(ctx, tx, &entries[i]); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes an application by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	return err
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	var a models.Application
	if err := row.Scan(applicationDests(&a)...); err != nil {
		return nil, err
	}
	return &a, nil
}

func applicationDests(a *models.Application, extra ...interface{}) []interface{} {
	dests := []interface{}{
		&a.ID, &a.EventID, &a.Kind, &a.GroupName, &a.Representative, &a.Email, &a.Phone, &a.Address,
		&a.Performance, &a.PerformerCount, &a.SlotCount, &a.AudioSourceOnly, &a.RentalAmp, &a.RentalMic,
		&a.BoothType, &a.Items, &a.PriceRangeMin, &a.PriceRangeMax, &a.BoothCount,
		&a.TentWidth, &a.TentDepth, &a.TentHeight, &a.RentalTables, &a.RentalChairs,
		&a.VehicleCount, &a.VehicleType, &a.VehicleNumbers, &a.Questions,
		&a.PrivacyConsent, &a.MarketingConsent, &a.OriginalPayload, &a.OriginalSubmittedAt,
		&a.CreatedAt, &a.UpdatedAt,
	}
	return append(dests, extra...)
}

// prefixColumns qualifies each column in a comma-separated list with a table
// alias for joined queries.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
