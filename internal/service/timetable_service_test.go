package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type assignmentResolverStub struct {
	items []models.Assignment
	err   error
	asked []string
}

func (s *assignmentResolverStub) FindByIDs(ctx context.Context, ids []string) ([]models.Assignment, error) {
	s.asked = ids
	return s.items, s.err
}

type availabilityStub struct {
	items []models.TeacherAvailability
	err   error
}

func (s availabilityStub) ListAll(ctx context.Context) ([]models.TeacherAvailability, error) {
	return s.items, s.err
}

type generationStoreStub struct {
	items        map[string]*models.Generation
	created      []*models.Generation
	deleted      []string
	activated    []string
	genTime      map[string]float64
	createErr    error
	findErr      error
	findCalls    int
	listCalls    int
	updateCalled bool
}

func newGenerationStoreStub() *generationStoreStub {
	return &generationStoreStub{items: map[string]*models.Generation{}, genTime: map[string]float64{}}
}

func (s *generationStoreStub) Create(ctx context.Context, exec sqlx.ExtContext, generation *models.Generation) error {
	if s.createErr != nil {
		return s.createErr
	}
	if generation.ID == "" {
		generation.ID = "gen-new"
	}
	generation.CreatedAt = time.Now()
	s.created = append(s.created, generation)
	copyGen := *generation
	s.items[generation.ID] = &copyGen
	return nil
}

func (s *generationStoreStub) FindByID(ctx context.Context, id string) (*models.Generation, error) {
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	generation, ok := s.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copyGen := *generation
	return &copyGen, nil
}

func (s *generationStoreStub) List(ctx context.Context) ([]models.Generation, error) {
	s.listCalls++
	out := make([]models.Generation, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, *item)
	}
	return out, nil
}

func (s *generationStoreStub) UpdateMeta(ctx context.Context, id string, name *string, status *models.GenerationStatus) error {
	s.updateCalled = true
	generation, ok := s.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	if name != nil {
		generation.Name = *name
	}
	if status != nil {
		generation.Status = *status
	}
	return nil
}

func (s *generationStoreStub) UpdateGenerationTime(ctx context.Context, exec sqlx.ExtContext, id string, seconds float64) error {
	s.genTime[id] = seconds
	return nil
}

func (s *generationStoreStub) Delete(ctx context.Context, id string) error {
	if _, ok := s.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.items, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *generationStoreStub) Activate(ctx context.Context, id string) error {
	if _, ok := s.items[id]; !ok {
		return sql.ErrNoRows
	}
	for key, item := range s.items {
		if item.Status == models.GenerationStatusActive && key != id {
			item.Status = models.GenerationStatusArchived
		}
	}
	s.items[id].Status = models.GenerationStatusActive
	s.activated = append(s.activated, id)
	return nil
}

type slotStoreStub struct {
	inserted  []models.TimetableSlot
	items     map[string]*models.TimetableSlot
	insertErr error
	updateErr error
	updated   []models.TimetableSlot
}

func (s *slotStoreStub) InsertBatch(ctx context.Context, exec sqlx.ExtContext, slots []models.TimetableSlot) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, slots...)
	return nil
}

func (s *slotStoreStub) ListByGeneration(ctx context.Context, generationID string) ([]models.TimetableSlot, error) {
	var out []models.TimetableSlot
	for _, slot := range s.inserted {
		if slot.GenerationID == generationID {
			out = append(out, slot)
		}
	}
	for _, slot := range s.items {
		if slot.GenerationID == generationID {
			out = append(out, *slot)
		}
	}
	return out, nil
}

func (s *slotStoreStub) FindByID(ctx context.Context, generationID, slotID string) (*models.TimetableSlot, error) {
	slot, ok := s.items[slotID]
	if !ok || slot.GenerationID != generationID {
		return nil, sql.ErrNoRows
	}
	copySlot := *slot
	return &copySlot, nil
}

func (s *slotStoreStub) Update(ctx context.Context, slot *models.TimetableSlot) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = append(s.updated, *slot)
	return nil
}

type conflictStoreStub struct {
	inserted []models.Conflict
	resolved []string
}

func (s *conflictStoreStub) InsertBatch(ctx context.Context, exec sqlx.ExtContext, conflicts []models.Conflict) error {
	s.inserted = append(s.inserted, conflicts...)
	return nil
}

func (s *conflictStoreStub) ListByGeneration(ctx context.Context, generationID string) ([]models.Conflict, error) {
	var out []models.Conflict
	for _, conflict := range s.inserted {
		if conflict.GenerationID == generationID {
			out = append(out, conflict)
		}
	}
	return out, nil
}

func (s *conflictStoreStub) Resolve(ctx context.Context, generationID, conflictID string, resolvedBy *string) (*models.Conflict, error) {
	for _, conflict := range s.inserted {
		if conflict.ID == conflictID && conflict.GenerationID == generationID {
			conflict.Resolved = true
			conflict.ResolvedBy = resolvedBy
			s.resolved = append(s.resolved, conflictID)
			return &conflict, nil
		}
	}
	return nil, sql.ErrNoRows
}

type timetableFixture struct {
	svc         *TimetableService
	assignments *assignmentResolverStub
	generations *generationStoreStub
	slots       *slotStoreStub
	conflicts   *conflictStoreStub
	mock        sqlmock.Sqlmock
}

type sqlmockTx struct {
	db *sqlx.DB
}

func (p sqlmockTx) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return p.db.BeginTxx(ctx, opts)
}

func newTimetableFixture(t *testing.T, availability []models.TeacherAvailability, cache *CacheService) *timetableFixture {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &timetableFixture{
		assignments: &assignmentResolverStub{},
		generations: newGenerationStoreStub(),
		slots:       &slotStoreStub{items: map[string]*models.TimetableSlot{}},
		conflicts:   &conflictStoreStub{},
		mock:        mock,
	}
	engine := scheduler.NewEngine(scheduler.NewFirstFit(scheduler.WithRand(rand.New(rand.NewSource(1)))))
	f.svc = NewTimetableService(
		f.assignments,
		availabilityStub{items: availability},
		f.generations,
		f.slots,
		f.conflicts,
		sqlmockTx{db: sqlx.NewDb(db, "sqlmock")},
		cache,
		NewMetricsService(),
		engine,
		nil,
		zap.NewNop(),
		TimetableServiceConfig{Enabled: true, MaxAssignments: 10},
	)
	return f
}

func hardAssignment(id, section, teacher string, perWeek int) models.Assignment {
	return models.Assignment{
		ID:         id,
		SectionID:  section,
		SubjectID:  "subject-" + id,
		TeacherID:  teacher,
		Sessions:   models.Sessions{PerWeek: perWeek, Length: 1},
		Constraint: models.ConstraintHard,
	}
}

func singleDayConfig(periods, maxConsecutive int) models.GenerationConfig {
	return models.GenerationConfig{Days: []string{"Monday"}, PeriodsPerDay: periods, MaxConsecutive: maxConsecutive}
}

func TestTimetableServiceGeneratePersistsDraft(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	f.assignments.items = []models.Assignment{hardAssignment("a1", "s1", "t1", 3)}
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	detail, err := f.svc.Generate(context.Background(), dto.GenerateTimetableRequest{
		Name:          "Semester 1",
		Config:        singleDayConfig(4, 2),
		AssignmentIDs: []string{"a1", "a1"},
	}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"a1"}, f.assignments.asked)
	assert.Equal(t, models.GenerationStatusDraft, detail.Status)
	require.NotNil(t, detail.CreatedBy)
	assert.Equal(t, "admin-1", *detail.CreatedBy)
	assert.Len(t, detail.Slots, 3)
	assert.Empty(t, detail.Conflicts)
	assert.Len(t, f.slots.inserted, 3)
	assert.Contains(t, f.generations.genTime, detail.ID)
	assert.GreaterOrEqual(t, detail.GenerationTime, 0.0)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestTimetableServiceGenerateRecordsShortfall(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	f.assignments.items = []models.Assignment{hardAssignment("a1", "s1", "t1", 3)}
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	detail, err := f.svc.Generate(context.Background(), dto.GenerateTimetableRequest{
		Name:          "Tight",
		Config:        singleDayConfig(4, 1),
		AssignmentIDs: []string{"a1"},
	}, "")
	require.NoError(t, err)

	assert.Len(t, detail.Slots, 2)
	require.Len(t, f.conflicts.inserted, 1)
	assert.Equal(t, models.ConflictSeverityError, f.conflicts.inserted[0].Severity)
	assert.Nil(t, detail.CreatedBy)
}

func TestTimetableServiceGenerateRejectsUnknownAssignments(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)

	_, err := f.svc.Generate(context.Background(), dto.GenerateTimetableRequest{
		Name:          "Empty",
		Config:        singleDayConfig(4, 2),
		AssignmentIDs: []string{"missing"},
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, f.generations.created)
}

func TestTimetableServiceGenerateValidatesPayload(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	cases := map[string]dto.GenerateTimetableRequest{
		"no ids":           {Name: "x", Config: singleDayConfig(4, 2)},
		"bad weekday":      {Name: "x", Config: models.GenerationConfig{Days: []string{"Sunday"}, PeriodsPerDay: 4, MaxConsecutive: 2}, AssignmentIDs: []string{"a"}},
		"duplicate days":   {Name: "x", Config: models.GenerationConfig{Days: []string{"Monday", "Monday"}, PeriodsPerDay: 4, MaxConsecutive: 2}, AssignmentIDs: []string{"a"}},
		"too many periods": {Name: "x", Config: singleDayConfig(13, 2), AssignmentIDs: []string{"a"}},
		"cap too high":     {Name: "x", Config: singleDayConfig(4, 6), AssignmentIDs: []string{"a"}},
		"missing name":     {Config: singleDayConfig(4, 2), AssignmentIDs: []string{"a"}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Generate(context.Background(), req, "")
			assert.ErrorIs(t, err, appErrors.ErrValidation)
		})
	}
}

func TestTimetableServiceGenerateAssignmentLimit(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	ids := make([]string, 11)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	_, err := f.svc.Generate(context.Background(), dto.GenerateTimetableRequest{Name: "big", Config: singleDayConfig(4, 2), AssignmentIDs: ids}, "")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestTimetableServiceGenerateDisabled(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	f.svc.cfg.Enabled = false
	_, err := f.svc.Generate(context.Background(), dto.GenerateTimetableRequest{}, "")
	assert.ErrorIs(t, err, appErrors.ErrUnavailable)
}

func TestTimetableServiceGenerateKeepsDraftOnPersistFailure(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	f.assignments.items = []models.Assignment{hardAssignment("a1", "s1", "t1", 1)}
	f.slots.insertErr = &pq.Error{Code: "23505", Constraint: "timetable_slots_section_cell_key"}
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Generate(context.Background(), dto.GenerateTimetableRequest{Name: "x", Config: singleDayConfig(4, 2), AssignmentIDs: []string{"a1"}}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Contains(t, err.Error(), "draft generation gen-new kept")
	assert.Empty(t, f.generations.deleted)
	require.Contains(t, f.generations.items, "gen-new")
	assert.Equal(t, models.GenerationStatusDraft, f.generations.items["gen-new"].Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestTimetableServiceGenerateKeepsDraftWhenAvailabilityFails(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	f.assignments.items = []models.Assignment{hardAssignment("a1", "s1", "t1", 1)}
	f.svc.availability = availabilityStub{err: errors.New("connection reset")}

	_, err := f.svc.Generate(context.Background(), dto.GenerateTimetableRequest{Name: "x", Config: singleDayConfig(4, 2), AssignmentIDs: []string{"a1"}}, "")
	assert.ErrorIs(t, err, appErrors.ErrInternal)
	assert.Contains(t, err.Error(), "gen-new")
	assert.Empty(t, f.generations.deleted)
	assert.Contains(t, f.generations.items, "gen-new")
}

func TestTimetableServiceGenerateStorageFailure(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	boom := errors.New("connection refused")
	f.assignments.err = boom

	_, err := f.svc.Generate(context.Background(), dto.GenerateTimetableRequest{Name: "x", Config: singleDayConfig(4, 2), AssignmentIDs: []string{"a1"}}, "")
	assert.ErrorIs(t, err, appErrors.ErrInternal)
	assert.ErrorIs(t, err, boom)
}

func TestTimetableServiceGetNotFound(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	_, err := f.svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestTimetableServiceGetMalformedID(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	f.generations.findErr = fmt.Errorf("find generation: %w", &pq.Error{Code: "22P02", Message: "invalid input syntax for type uuid: \"abc\""})

	_, err := f.svc.Get(context.Background(), "abc")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Contains(t, err.Error(), "generation abc not found")

	_, err = f.svc.Validate(context.Background(), "abc")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestTimetableServiceGetUsesCache(t *testing.T) {
	cache := NewCacheService(repository.NewMemoryCacheRepository(time.Minute, time.Minute), nil, time.Minute, nil, true)
	f := newTimetableFixture(t, nil, cache)
	f.generations.items["gen-1"] = &models.Generation{ID: "gen-1", Name: "A", Status: models.GenerationStatusDraft}

	first, err := f.svc.Get(context.Background(), "gen-1")
	require.NoError(t, err)
	second, err := f.svc.Get(context.Background(), "gen-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.generations.findCalls)
	assert.NotNil(t, second.Slots)

	_, err = f.svc.Activate(context.Background(), "gen-1")
	require.NoError(t, err)
	refreshed, err := f.svc.Get(context.Background(), "gen-1")
	require.NoError(t, err)
	assert.Equal(t, models.GenerationStatusActive, refreshed.Status)
}

func TestTimetableServiceActivateKeepsSingleActive(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	f.generations.items["gen-1"] = &models.Generation{ID: "gen-1", Status: models.GenerationStatusActive}
	f.generations.items["gen-2"] = &models.Generation{ID: "gen-2", Status: models.GenerationStatusDraft}
	f.generations.items["gen-3"] = &models.Generation{ID: "gen-3", Status: models.GenerationStatusArchived}

	for _, id := range []string{"gen-2", "gen-3", "gen-2"} {
		generation, err := f.svc.Activate(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, models.GenerationStatusActive, generation.Status)

		active := 0
		for _, item := range f.generations.items {
			if item.Status == models.GenerationStatusActive {
				active++
			}
		}
		assert.Equal(t, 1, active)
	}

	_, err := f.svc.Activate(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestTimetableServiceUpdateMetadataRoutesActivation(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	f.generations.items["gen-1"] = &models.Generation{ID: "gen-1", Name: "Old", Status: models.GenerationStatusActive}
	f.generations.items["gen-2"] = &models.Generation{ID: "gen-2", Name: "Draft", Status: models.GenerationStatusDraft}

	name := "Final"
	active := models.GenerationStatusActive
	generation, err := f.svc.UpdateMetadata(context.Background(), "gen-2", dto.UpdateGenerationRequest{Name: &name, Status: &active})
	require.NoError(t, err)

	assert.Equal(t, "Final", generation.Name)
	assert.Equal(t, models.GenerationStatusActive, generation.Status)
	assert.Equal(t, []string{"gen-2"}, f.generations.activated)
	assert.Equal(t, models.GenerationStatusArchived, f.generations.items["gen-1"].Status)
}

func TestTimetableServiceUpdateMetadataValidation(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	status := models.GenerationStatus("published")
	_, err := f.svc.UpdateMetadata(context.Background(), "gen-1", dto.UpdateGenerationRequest{Status: &status})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	name := "x"
	_, err = f.svc.UpdateMetadata(context.Background(), "missing", dto.UpdateGenerationRequest{Name: &name})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestTimetableServiceDelete(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	f.generations.items["gen-1"] = &models.Generation{ID: "gen-1"}

	require.NoError(t, f.svc.Delete(context.Background(), "gen-1"))
	assert.ErrorIs(t, f.svc.Delete(context.Background(), "gen-1"), appErrors.ErrNotFound)
}

func TestTimetableServiceUpdateSlotSubstitutesTeacher(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	original := "teacher-1"
	f.slots.items["slot-1"] = &models.TimetableSlot{ID: "slot-1", GenerationID: "gen-1", SectionID: "s1", TeacherID: &original, Day: "Monday", Period: 1, Status: models.SlotStatusActive}

	substitute := "teacher-2"
	reason := "sick leave"
	slot, err := f.svc.UpdateSlot(context.Background(), "gen-1", dto.UpdateSlotRequest{SlotID: "slot-1", TeacherID: &substitute, SubstituteReason: &reason}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, models.SlotStatusSubstituted, slot.Status)
	require.NotNil(t, slot.OriginalTeacherID)
	assert.Equal(t, "teacher-1", *slot.OriginalTeacherID)
	assert.Equal(t, "teacher-2", *slot.TeacherID)
	require.NotNil(t, slot.ChangedBy)
	assert.Equal(t, "admin-1", *slot.ChangedBy)
	assert.Len(t, f.slots.updated, 1)
}

func TestTimetableServiceUpdateSlotDirectOverwrite(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	teacher := "teacher-1"
	f.slots.items["slot-1"] = &models.TimetableSlot{ID: "slot-1", GenerationID: "gen-1", SectionID: "s1", TeacherID: &teacher, Day: "Monday", Period: 1, Status: models.SlotStatusActive}

	day, period := "Friday", 6
	locked := true
	status := models.SlotStatusLocked
	by := "teacher-coordinator"
	slot, err := f.svc.UpdateSlot(context.Background(), "gen-1", dto.UpdateSlotRequest{
		SlotID: "slot-1", Day: &day, Period: &period, Status: &status, IsLocked: &locked, ChangedBy: &by,
	}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, "Friday", slot.Day)
	assert.Equal(t, 6, slot.Period)
	assert.True(t, slot.IsLocked)
	assert.Equal(t, models.SlotStatusLocked, slot.Status)
	assert.Nil(t, slot.OriginalTeacherID)
	assert.Equal(t, "teacher-coordinator", *slot.ChangedBy)
}

func TestTimetableServiceUpdateSlotErrors(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	_, err := f.svc.UpdateSlot(context.Background(), "gen-1", dto.UpdateSlotRequest{SlotID: "missing"}, "")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	badDay := "Sunday"
	_, err = f.svc.UpdateSlot(context.Background(), "gen-1", dto.UpdateSlotRequest{SlotID: "slot-1", Day: &badDay}, "")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	f.slots.items["slot-1"] = &models.TimetableSlot{ID: "slot-1", GenerationID: "gen-1", SectionID: "s1", Day: "Monday", Period: 1}
	f.slots.updateErr = &pq.Error{Code: "23505", Constraint: "timetable_slots_section_cell_key"}
	period := 2
	_, err = f.svc.UpdateSlot(context.Background(), "gen-1", dto.UpdateSlotRequest{SlotID: "slot-1", Period: &period}, "")
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestTimetableServiceValidateReportsEditedDoubleBooking(t *testing.T) {
	f := newTimetableFixture(t, []models.TeacherAvailability{
		{TeacherID: "teacher-1", Day: "Monday", Period: 2, Type: models.AvailabilityUnavailable},
	}, nil)
	f.generations.items["gen-1"] = &models.Generation{ID: "gen-1", Config: singleDayConfig(4, 2)}
	teacher := "teacher-1"
	f.slots.items["slot-1"] = &models.TimetableSlot{ID: "slot-1", GenerationID: "gen-1", SectionID: "s1", TeacherID: &teacher, Day: "Monday", Period: 1, Status: models.SlotStatusActive}
	f.slots.items["slot-2"] = &models.TimetableSlot{ID: "slot-2", GenerationID: "gen-1", SectionID: "s2", TeacherID: &teacher, Day: "Monday", Period: 1, Status: models.SlotStatusActive}

	report, err := f.svc.Validate(context.Background(), "gen-1")
	require.NoError(t, err)
	assert.False(t, report.Valid)
	assert.Equal(t, 2, report.SlotCount)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, scheduler.ViolationTeacherDoubleBooked, report.Violations[0].Type)
	assert.ElementsMatch(t, []string{"slot-1", "slot-2"}, report.Violations[0].SlotIDs)
}

func TestTimetableServiceResolveConflict(t *testing.T) {
	f := newTimetableFixture(t, nil, nil)
	f.conflicts.inserted = []models.Conflict{{ID: "c-1", GenerationID: "gen-1", Severity: models.ConflictSeverityWarning}}

	conflict, err := f.svc.ResolveConflict(context.Background(), "gen-1", "c-1", "admin-1")
	require.NoError(t, err)
	assert.True(t, conflict.Resolved)
	assert.Equal(t, "admin-1", *conflict.ResolvedBy)

	_, err = f.svc.ResolveConflict(context.Background(), "gen-2", "c-1", "admin-1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestTimetableServiceListCachesWhenEnabled(t *testing.T) {
	cache := NewCacheService(repository.NewMemoryCacheRepository(time.Minute, time.Minute), nil, time.Minute, nil, true)
	f := newTimetableFixture(t, nil, cache)
	f.generations.items["gen-1"] = &models.Generation{ID: "gen-1"}

	_, err := f.svc.List(context.Background())
	require.NoError(t, err)
	items, err := f.svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, f.generations.listCalls)

	require.NoError(t, f.svc.Delete(context.Background(), "gen-1"))
	items, err = f.svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 2, f.generations.listCalls)
}
