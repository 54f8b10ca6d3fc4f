package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TeacherAvailabilityRepository reads per-cell teacher availability records.
type TeacherAvailabilityRepository struct {
	db *sqlx.DB
}

// NewTeacherAvailabilityRepository constructs the repository.
func NewTeacherAvailabilityRepository(db *sqlx.DB) *TeacherAvailabilityRepository {
	return &TeacherAvailabilityRepository{db: db}
}

// ListAll returns every availability record, both unavailable and preferred.
func (r *TeacherAvailabilityRepository) ListAll(ctx context.Context) ([]models.TeacherAvailability, error) {
	const query = `SELECT id, teacher_id, day, period, type, reason FROM teacher_availability ORDER BY teacher_id, day, period`
	var items []models.TeacherAvailability
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list teacher availability: %w", err)
	}
	return items, nil
}
