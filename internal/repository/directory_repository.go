package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// DirectoryRepository resolves section, subject and teacher display names.
type DirectoryRepository struct {
	db *sqlx.DB
}

// NewDirectoryRepository constructs the repository.
func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

type directoryRow struct {
	Kind string `db:"kind"`
	ID   string `db:"id"`
	Name string `db:"name"`
}

// Names loads display names for the given ids. Ids without a row are absent from the result.
func (r *DirectoryRepository) Names(ctx context.Context, sectionIDs, subjectIDs, teacherIDs []string) (models.NameDirectory, error) {
	dir := models.NameDirectory{
		Sections: map[string]string{},
		Subjects: map[string]string{},
		Teachers: map[string]string{},
	}
	if len(sectionIDs) == 0 && len(subjectIDs) == 0 && len(teacherIDs) == 0 {
		return dir, nil
	}
	const base = `SELECT 'section' AS kind, id, code AS name FROM sections WHERE id IN (?)
UNION ALL SELECT 'subject' AS kind, id, name FROM subjects WHERE id IN (?)
UNION ALL SELECT 'teacher' AS kind, id, name FROM teachers WHERE id IN (?)`
	query, args, err := sqlx.In(base, orNone(sectionIDs), orNone(subjectIDs), orNone(teacherIDs))
	if err != nil {
		return dir, fmt.Errorf("build directory lookup: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []directoryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return dir, fmt.Errorf("lookup names: %w", err)
	}
	for _, row := range rows {
		switch row.Kind {
		case "section":
			dir.Sections[row.ID] = row.Name
		case "subject":
			dir.Subjects[row.ID] = row.Name
		case "teacher":
			dir.Teachers[row.ID] = row.Name
		}
	}
	return dir, nil
}

// orNone keeps IN clauses valid for empty lists; no row has an empty id.
func orNone(ids []string) []string {
	if len(ids) == 0 {
		return []string{""}
	}
	return ids
}
