package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ConflictRepository stores scheduling shortfalls recorded during generation.
type ConflictRepository struct {
	db *sqlx.DB
}

// NewConflictRepository constructs repository.
func NewConflictRepository(db *sqlx.DB) *ConflictRepository {
	return &ConflictRepository{db: db}
}

func (r *ConflictRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// InsertBatch persists the conflicts of a generation run.
func (r *ConflictRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, conflicts []models.Conflict) error {
	if len(conflicts) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO timetable_conflicts (id, generation_id, type, severity, message, affected_slots, resolved, created_at)
VALUES (:id, :generation_id, :type, :severity, :message, :affected_slots, :resolved, :created_at)`

	for i := range conflicts {
		conflict := &conflicts[i]
		if conflict.ID == "" {
			conflict.ID = uuid.NewString()
		}
		if conflict.AffectedSlots == nil {
			conflict.AffectedSlots = pq.StringArray{}
		}
		if conflict.CreatedAt.IsZero() {
			conflict.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, conflict); err != nil {
			return fmt.Errorf("insert timetable conflict: %w", err)
		}
	}
	return nil
}

// ListByGeneration returns conflicts of a generation, errors before warnings.
func (r *ConflictRepository) ListByGeneration(ctx context.Context, generationID string) ([]models.Conflict, error) {
	const query = `SELECT id, generation_id, type, severity, message, affected_slots, resolved, resolved_at, resolved_by, created_at
FROM timetable_conflicts WHERE generation_id = $1 ORDER BY severity ASC, created_at ASC`
	var conflicts []models.Conflict
	if err := r.db.SelectContext(ctx, &conflicts, query, generationID); err != nil {
		return nil, fmt.Errorf("list timetable conflicts: %w", err)
	}
	return conflicts, nil
}

// Resolve marks a conflict as handled by resolvedBy.
func (r *ConflictRepository) Resolve(ctx context.Context, generationID, conflictID string, resolvedBy *string) (*models.Conflict, error) {
	const query = `UPDATE timetable_conflicts SET resolved = TRUE, resolved_at = $1, resolved_by = $2
WHERE id = $3 AND generation_id = $4
RETURNING id, generation_id, type, severity, message, affected_slots, resolved, resolved_at, resolved_by, created_at`
	var conflict models.Conflict
	if err := r.db.GetContext(ctx, &conflict, query, time.Now().UTC(), resolvedBy, conflictID, generationID); err != nil {
		return nil, err
	}
	return &conflict, nil
}
