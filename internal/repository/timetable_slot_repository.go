package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

const slotColumns = `id, generation_id, section_id, subject_id, teacher_id, day, period, status, is_locked, lock_reason,
original_teacher_id, substitute_reason, changed_by, created_at, updated_at`

// TimetableSlotRepository manages slots placed inside a generation.
type TimetableSlotRepository struct {
	db *sqlx.DB
}

// NewTimetableSlotRepository builds repository.
func NewTimetableSlotRepository(db *sqlx.DB) *TimetableSlotRepository {
	return &TimetableSlotRepository{db: db}
}

func (r *TimetableSlotRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// InsertBatch inserts generated slots. A duplicate (generation, section, day, period) fails the batch.
func (r *TimetableSlotRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, slots []models.TimetableSlot) error {
	if len(slots) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO timetable_slots (id, generation_id, section_id, subject_id, teacher_id, day, period, status, is_locked,
    lock_reason, original_teacher_id, substitute_reason, changed_by, created_at, updated_at)
VALUES (:id, :generation_id, :section_id, :subject_id, :teacher_id, :day, :period, :status, :is_locked,
    :lock_reason, :original_teacher_id, :substitute_reason, :changed_by, :created_at, :updated_at)`

	for i := range slots {
		slot := &slots[i]
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		if slot.Status == "" {
			slot.Status = models.SlotStatusActive
		}
		if slot.CreatedAt.IsZero() {
			slot.CreatedAt = now
		}
		slot.UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, query, slot); err != nil {
			return fmt.Errorf("insert timetable slot: %w", err)
		}
	}
	return nil
}

// weekdayOrder sorts the day column by weekday position instead of name.
var weekdayOrder = func() string {
	quoted := make([]string, len(models.Weekdays))
	for i, day := range models.Weekdays {
		quoted[i] = "'" + day + "'"
	}
	return "array_position(ARRAY[" + strings.Join(quoted, ",") + "]::text[], day)"
}()

// ListByGeneration returns the slots of a generation ordered by section, weekday and period.
func (r *TimetableSlotRepository) ListByGeneration(ctx context.Context, generationID string) ([]models.TimetableSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM timetable_slots WHERE generation_id = $1 ORDER BY section_id ASC, ` +
		weekdayOrder + ` ASC, day ASC, period ASC`
	var slots []models.TimetableSlot
	if err := r.db.SelectContext(ctx, &slots, query, generationID); err != nil {
		return nil, fmt.Errorf("list timetable slots: %w", err)
	}
	return slots, nil
}

// FindByID loads a slot scoped to its generation.
func (r *TimetableSlotRepository) FindByID(ctx context.Context, generationID, slotID string) (*models.TimetableSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM timetable_slots WHERE id = $1 AND generation_id = $2`
	var slot models.TimetableSlot
	if err := r.db.GetContext(ctx, &slot, query, slotID, generationID); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Update overwrites every mutable column of slot and bumps updated_at.
func (r *TimetableSlotRepository) Update(ctx context.Context, slot *models.TimetableSlot) error {
	if slot == nil {
		return fmt.Errorf("slot payload is nil")
	}
	slot.UpdatedAt = time.Now().UTC()

	const query = `
UPDATE timetable_slots SET day = :day, period = :period, teacher_id = :teacher_id, status = :status,
    is_locked = :is_locked, lock_reason = :lock_reason, original_teacher_id = :original_teacher_id,
    substitute_reason = :substitute_reason, changed_by = :changed_by, updated_at = :updated_at
WHERE id = :id AND generation_id = :generation_id`
	result, err := sqlx.NamedExecContext(ctx, r.db, query, slot)
	if err != nil {
		return fmt.Errorf("update timetable slot: %w", err)
	}
	return requireAffected(result, "timetable slot")
}
