package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func TestTeacherAvailabilityRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherAvailabilityRepository(db)

	rows := sqlmock.NewRows([]string{"id", "teacher_id", "day", "period", "type", "reason"}).
		AddRow("av-1", "t-1", "Monday", 1, "unavailable", "training").
		AddRow("av-2", "t-1", "Tuesday", 3, "preferred", nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, teacher_id, day, period, type, reason FROM teacher_availability")).
		WillReturnRows(rows)

	items, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.AvailabilityUnavailable, items[0].Type)
	require.NotNil(t, items[0].Reason)
	assert.Equal(t, "training", *items[0].Reason)
	assert.Equal(t, models.AvailabilityPreferred, items[1].Type)
	assert.Nil(t, items[1].Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherAvailabilityRepositoryListAllError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM teacher_availability")).WillReturnError(errors.New("boom"))

	_, err := NewTeacherAvailabilityRepository(db).ListAll(context.Background())
	assert.ErrorContains(t, err, "list teacher availability")
}
