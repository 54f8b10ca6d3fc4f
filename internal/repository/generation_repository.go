package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/pkg/database"
)

const generationColumns = `id, name, config, status, generation_time, created_by, created_at, updated_at`

// GenerationRepository persists timetable generations.
type GenerationRepository struct {
	db *sqlx.DB
}

// NewGenerationRepository constructs repository.
func NewGenerationRepository(db *sqlx.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

func (r *GenerationRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a generation, assigning id, timestamps and the draft status when unset.
func (r *GenerationRepository) Create(ctx context.Context, exec sqlx.ExtContext, generation *models.Generation) error {
	if generation == nil {
		return fmt.Errorf("generation payload is nil")
	}
	if generation.ID == "" {
		generation.ID = uuid.NewString()
	}
	if generation.Status == "" {
		generation.Status = models.GenerationStatusDraft
	}
	now := time.Now().UTC()
	if generation.CreatedAt.IsZero() {
		generation.CreatedAt = now
	}
	generation.UpdatedAt = now

	const query = `
INSERT INTO generations (id, name, config, status, generation_time, created_by, created_at, updated_at)
VALUES (:id, :name, :config, :status, :generation_time, :created_by, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, generation); err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

// FindByID loads a generation by its identifier.
func (r *GenerationRepository) FindByID(ctx context.Context, id string) (*models.Generation, error) {
	query := `SELECT ` + generationColumns + ` FROM generations WHERE id = $1`
	var generation models.Generation
	if err := r.db.GetContext(ctx, &generation, query, id); err != nil {
		return nil, err
	}
	return &generation, nil
}

// List returns every generation, newest first.
func (r *GenerationRepository) List(ctx context.Context) ([]models.Generation, error) {
	query := `SELECT ` + generationColumns + ` FROM generations ORDER BY created_at DESC`
	var generations []models.Generation
	if err := r.db.SelectContext(ctx, &generations, query); err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	return generations, nil
}

// UpdateMeta overwrites the name and/or status. Nil values keep the stored column.
func (r *GenerationRepository) UpdateMeta(ctx context.Context, id string, name *string, status *models.GenerationStatus) error {
	const query = `UPDATE generations SET name = COALESCE($1, name), status = COALESCE($2, status), updated_at = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, name, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update generation: %w", err)
	}
	return requireAffected(result, "generation")
}

// UpdateGenerationTime stores the wall-clock duration of a run in seconds.
func (r *GenerationRepository) UpdateGenerationTime(ctx context.Context, exec sqlx.ExtContext, id string, seconds float64) error {
	const query = `UPDATE generations SET generation_time = $1, updated_at = $2 WHERE id = $3`
	result, err := r.exec(exec).ExecContext(ctx, query, seconds, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update generation time: %w", err)
	}
	return requireAffected(result, "generation time")
}

// Delete removes a generation together with its conflicts and slots.
func (r *GenerationRepository) Delete(ctx context.Context, id string) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM timetable_conflicts WHERE generation_id = $1`, id); err != nil {
			return fmt.Errorf("delete generation conflicts: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM timetable_slots WHERE generation_id = $1`, id); err != nil {
			return fmt.Errorf("delete generation slots: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM generations WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete generation: %w", err)
		}
		return requireAffected(result, "generation delete")
	})
}

// Activate archives every other active generation and promotes id, holding a row lock on id.
// A missing id rolls back and yields sql.ErrNoRows.
func (r *GenerationRepository) Activate(ctx context.Context, id string) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var locked string
		if err := tx.GetContext(ctx, &locked, `SELECT id FROM generations WHERE id = $1 FOR UPDATE`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return sql.ErrNoRows
			}
			return fmt.Errorf("lock generation: %w", err)
		}
		now := time.Now().UTC()
		const demote = `UPDATE generations SET status = $1, updated_at = $2 WHERE status = $3 AND id <> $4`
		if _, err := tx.ExecContext(ctx, demote, models.GenerationStatusArchived, now, models.GenerationStatusActive, id); err != nil {
			return fmt.Errorf("archive active generations: %w", err)
		}
		const promote = `UPDATE generations SET status = $1, updated_at = $2 WHERE id = $3`
		if _, err := tx.ExecContext(ctx, promote, models.GenerationStatusActive, now, id); err != nil {
			return fmt.Errorf("activate generation: %w", err)
		}
		return nil
	})
}

func requireAffected(result sql.Result, label string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", label, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
