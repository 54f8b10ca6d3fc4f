package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// AssignmentRepository reads teaching assignments owned by the curriculum service.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

type assignmentRow struct {
	ID              string                `db:"id"`
	SectionID       string                `db:"section_id"`
	SubjectID       string                `db:"subject_id"`
	TeacherID       string                `db:"teacher_id"`
	SessionsPerWeek int                   `db:"sessions_per_week"`
	SessionLength   int                   `db:"session_length"`
	Constraint      models.ConstraintKind `db:"constraint_kind"`
	Priority        *int                  `db:"priority"`
	SectionCode     *string               `db:"section_code"`
	SubjectName     *string               `db:"subject_name"`
	TeacherName     *string               `db:"teacher_name"`
}

func (r assignmentRow) toModel() models.Assignment {
	return models.Assignment{
		ID:          r.ID,
		SectionID:   r.SectionID,
		SubjectID:   r.SubjectID,
		TeacherID:   r.TeacherID,
		Sessions:    models.Sessions{PerWeek: r.SessionsPerWeek, Length: r.SessionLength},
		Constraint:  r.Constraint,
		Priority:    r.Priority,
		SectionCode: r.SectionCode,
		SubjectName: r.SubjectName,
		TeacherName: r.TeacherName,
	}
}

// FindByIDs loads the requested assignments with display names joined in, in the order the ids
// were given. Unknown ids are skipped.
func (r *AssignmentRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Assignment, error) {
	if len(ids) == 0 {
		return []models.Assignment{}, nil
	}
	const base = `SELECT a.id, a.section_id, a.subject_id, a.teacher_id, a.sessions_per_week, a.session_length,
a.constraint_kind, a.priority, s.code AS section_code, sub.name AS subject_name, t.name AS teacher_name
FROM assignments a
LEFT JOIN sections s ON s.id = a.section_id
LEFT JOIN subjects sub ON sub.id = a.subject_id
LEFT JOIN teachers t ON t.id = a.teacher_id
WHERE a.id IN (?) ORDER BY a.id`
	query, args, err := sqlx.In(base, ids)
	if err != nil {
		return nil, fmt.Errorf("build assignment lookup: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []assignmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("find assignments: %w", err)
	}
	byID := make(map[string]assignmentRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	items := make([]models.Assignment, 0, len(rows))
	for _, id := range ids {
		row, ok := byID[id]
		if !ok {
			continue
		}
		items = append(items, row.toModel())
		delete(byID, id)
	}
	return items, nil
}
