package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

var conflictRowColumns = []string{"id", "generation_id", "type", "severity", "message", "affected_slots", "resolved", "resolved_at", "resolved_by", "created_at"}

func TestConflictRepositoryInsertBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConflictRepository(db)

	conflicts := []models.Conflict{
		{GenerationID: "gen-1", Type: models.ConflictTypeInsufficientSlots, Severity: models.ConflictSeverityError, Message: "short", AffectedSlots: pq.StringArray{"slot-1", "slot-2"}},
		{GenerationID: "gen-1", Type: models.ConflictTypeInsufficientSlots, Severity: models.ConflictSeverityWarning, Message: "none placed"},
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_conflicts")).
		WithArgs(sqlmock.AnyArg(), "gen-1", "insufficient_slots", "error", "short", `{"slot-1","slot-2"}`, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_conflicts")).
		WithArgs(sqlmock.AnyArg(), "gen-1", "insufficient_slots", "warning", "none placed", "{}", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.InsertBatch(context.Background(), nil, conflicts))
	assert.NotEmpty(t, conflicts[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConflictRepositoryListByGeneration(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConflictRepository(db)

	rows := sqlmock.NewRows(conflictRowColumns).
		AddRow("c-1", "gen-1", "insufficient_slots", "error", "short", "{slot-1}", false, nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM timetable_conflicts WHERE generation_id = $1")).
		WithArgs("gen-1").
		WillReturnRows(rows)

	conflicts, err := repo.ListByGeneration(context.Background(), "gen-1")
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, pq.StringArray{"slot-1"}, conflicts[0].AffectedSlots)
	assert.Equal(t, models.ConflictSeverityError, conflicts[0].Severity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConflictRepositoryResolve(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConflictRepository(db)

	now := time.Now()
	by := "admin-1"
	rows := sqlmock.NewRows(conflictRowColumns).
		AddRow("c-1", "gen-1", "insufficient_slots", "warning", "short", "{}", true, now, by, now)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE timetable_conflicts SET resolved = TRUE")).
		WithArgs(sqlmock.AnyArg(), by, "c-1", "gen-1").
		WillReturnRows(rows)

	conflict, err := repo.Resolve(context.Background(), "gen-1", "c-1", &by)
	require.NoError(t, err)
	assert.True(t, conflict.Resolved)
	require.NotNil(t, conflict.ResolvedBy)
	assert.Equal(t, by, *conflict.ResolvedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConflictRepositoryResolveMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConflictRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE timetable_conflicts")).
		WillReturnRows(sqlmock.NewRows(conflictRowColumns))

	_, err := repo.Resolve(context.Background(), "gen-1", "missing", nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
