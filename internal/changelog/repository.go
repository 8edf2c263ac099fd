// Package changelog persists the append-only admin edit history.
package changelog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kikuna-park/backend/internal/models"
)

// InsertTx appends one change log entry inside an existing transaction, so a
// field update and its history row commit or roll back together.
func InsertTx(ctx context.Context, tx pgx.Tx, e *models.ChangeLogEntry) error {
	const q = `INSERT INTO change_log_entries (id, entity_type, entity_id, field, old_value, new_value, reason, editor)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	return tx.QueryRow(ctx, q, e.EntityType, e.EntityID, e.Field, e.OldValue, e.NewValue, e.Reason, e.Editor).
		Scan(&e.ID, &e.CreatedAt)
}

// Repository reads the change history. There is deliberately no update or
// delete: entries are immutable once written.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a change log repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByEntity returns all entries for one entity, oldest first.
func (r *Repository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]models.ChangeLogEntry, error) {
	const q = `SELECT id, entity_type, entity_id, field, old_value, new_value, reason, editor, created_at
		FROM change_log_entries WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, q, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.ChangeLogEntry
	for rows.Next() {
		var e models.ChangeLogEntry
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Field, &e.OldValue, &e.NewValue, &e.Reason, &e.Editor, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
