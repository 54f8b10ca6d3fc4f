package service

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type assignmentResolver interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Assignment, error)
}

type availabilityLister interface {
	ListAll(ctx context.Context) ([]models.TeacherAvailability, error)
}

type generationStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, generation *models.Generation) error
	FindByID(ctx context.Context, id string) (*models.Generation, error)
	List(ctx context.Context) ([]models.Generation, error)
	UpdateMeta(ctx context.Context, id string, name *string, status *models.GenerationStatus) error
	UpdateGenerationTime(ctx context.Context, exec sqlx.ExtContext, id string, seconds float64) error
	Delete(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) error
}

type slotStore interface {
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, slots []models.TimetableSlot) error
	ListByGeneration(ctx context.Context, generationID string) ([]models.TimetableSlot, error)
	FindByID(ctx context.Context, generationID, slotID string) (*models.TimetableSlot, error)
	Update(ctx context.Context, slot *models.TimetableSlot) error
}

type conflictStore interface {
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, conflicts []models.Conflict) error
	ListByGeneration(ctx context.Context, generationID string) ([]models.Conflict, error)
	Resolve(ctx context.Context, generationID, conflictID string, resolvedBy *string) (*models.Conflict, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// TimetableServiceConfig governs generation behaviour.
type TimetableServiceConfig struct {
	Enabled        bool
	MaxAssignments int
	// RandomSeed fixes the day shuffle when non-zero.
	RandomSeed int64
	CacheTTL   time.Duration
}

// TimetableService generates timetables and manages their lifecycle.
type TimetableService struct {
	assignments  assignmentResolver
	availability availabilityLister
	generations  generationStore
	slots        slotStore
	conflicts    conflictStore
	tx           txProvider
	cache        *CacheService
	metrics      *MetricsService
	engine       *scheduler.Engine
	validator    *validator.Validate
	logger       *zap.Logger
	cfg          TimetableServiceConfig
}

// NewTimetableService wires generation dependencies. A nil engine is built from cfg.RandomSeed.
func NewTimetableService(
	assignments assignmentResolver,
	availability availabilityLister,
	generations generationStore,
	slots slotStore,
	conflicts conflictStore,
	tx txProvider,
	cache *CacheService,
	metrics *MetricsService,
	engine *scheduler.Engine,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableServiceConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		var opts []scheduler.FirstFitOption
		if cfg.RandomSeed != 0 {
			opts = append(opts, scheduler.WithRand(rand.New(rand.NewSource(cfg.RandomSeed))))
		}
		engine = scheduler.NewEngine(scheduler.NewFirstFit(opts...))
	}
	RegisterTimetableValidations(validate)
	return &TimetableService{
		assignments:  assignments,
		availability: availability,
		generations:  generations,
		slots:        slots,
		conflicts:    conflicts,
		tx:           tx,
		cache:        cache,
		metrics:      metrics,
		engine:       engine,
		validator:    validate,
		logger:       logger,
		cfg:          cfg,
	}
}

// RegisterTimetableValidations installs the custom tags used by timetable payloads.
func RegisterTimetableValidations(v *validator.Validate) {
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, day := range models.Weekdays {
			if day == value {
				return true
			}
		}
		return false
	})
}

// List returns every generation, newest first.
func (s *TimetableService) List(ctx context.Context) ([]models.Generation, error) {
	var cached []models.Generation
	if s.cache.Get(ctx, generationListKey, &cached) {
		return cached, nil
	}
	generations, err := s.generations.List(ctx)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "generation not found", "failed to list generations")
	}
	if generations == nil {
		generations = []models.Generation{}
	}
	s.cache.Set(ctx, generationListKey, generations, s.cfg.CacheTTL)
	return generations, nil
}

// Get returns a generation with its slots and conflicts.
func (s *TimetableService) Get(ctx context.Context, id string) (*models.GenerationDetail, error) {
	var cached models.GenerationDetail
	if s.cache.Get(ctx, GenerationKey(id), &cached) {
		return &cached, nil
	}
	generation, err := s.findGeneration(ctx, id)
	if err != nil {
		return nil, err
	}
	slots, err := s.slots.ListByGeneration(ctx, id)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "generation not found", "failed to load timetable slots")
	}
	conflicts, err := s.conflicts.ListByGeneration(ctx, id)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "generation not found", "failed to load timetable conflicts")
	}
	detail := &models.GenerationDetail{Generation: *generation, Slots: emptySlots(slots), Conflicts: emptyConflicts(conflicts)}
	s.cache.Set(ctx, GenerationKey(id), detail, s.cfg.CacheTTL)
	return detail, nil
}

// UpdateMetadata renames a generation or changes its status. Activation goes through Activate
// so the single active generation rule holds.
func (s *TimetableService) UpdateMetadata(ctx context.Context, id string, req dto.UpdateGenerationRequest) (*models.Generation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation update payload")
	}
	status := req.Status
	if status != nil && *status == models.GenerationStatusActive {
		if _, err := s.Activate(ctx, id); err != nil {
			return nil, err
		}
		status = nil
	}
	if req.Name != nil || status != nil {
		if err := s.generations.UpdateMeta(ctx, id, req.Name, status); err != nil {
			return nil, appErrors.FromDatabase(err, "generation not found", "failed to update generation")
		}
		s.cache.InvalidateGeneration(ctx, id)
	}
	generation, err := s.findGeneration(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("generation updated", zap.String("generation_id", id), zap.String("status", string(generation.Status)))
	return generation, nil
}

// Delete removes a generation with its slots and conflicts. Unknown ids are NotFound.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	if err := s.generations.Delete(ctx, id); err != nil {
		return appErrors.FromDatabase(err, "generation not found", "failed to delete generation")
	}
	s.cache.InvalidateGeneration(ctx, id)
	s.logger.Info("generation deleted", zap.String("generation_id", id))
	return nil
}

// Activate promotes a generation and archives whichever generation was active before.
func (s *TimetableService) Activate(ctx context.Context, id string) (*models.Generation, error) {
	if err := s.generations.Activate(ctx, id); err != nil {
		return nil, appErrors.FromDatabase(err, "generation not found", "failed to activate generation")
	}
	s.cache.InvalidateGeneration(ctx, "")
	generation, err := s.findGeneration(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("generation activated", zap.String("generation_id", id))
	return generation, nil
}

// UpdateSlot overwrites a slot. No placement rule is re-checked; Validate reports what an edit broke.
// Changing the teacher keeps the first teacher in originalTeacherId and marks the slot substituted
// unless a status is given explicitly.
func (s *TimetableService) UpdateSlot(ctx context.Context, generationID string, req dto.UpdateSlotRequest, actor string) (*models.TimetableSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot update payload")
	}
	slot, err := s.slots.FindByID(ctx, generationID, req.SlotID)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "slot not found", "failed to load timetable slot")
	}

	applySlotChanges(slot, models.SlotChanges{
		Day:              req.Day,
		Period:           req.Period,
		TeacherID:        req.TeacherID,
		Status:           req.Status,
		IsLocked:         req.IsLocked,
		LockReason:       req.LockReason,
		SubstituteReason: req.SubstituteReason,
		ChangedBy:        firstNonEmpty(req.ChangedBy, actor),
	})

	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, appErrors.FromDatabase(err, "slot not found", "failed to update timetable slot")
	}
	s.cache.InvalidateGeneration(ctx, generationID)
	s.logger.Info("timetable slot updated",
		zap.String("generation_id", generationID),
		zap.String("slot_id", slot.ID),
		zap.String("status", string(slot.Status)),
	)
	return slot, nil
}

// Validate re-checks a stored generation against its config and current teacher availability.
func (s *TimetableService) Validate(ctx context.Context, id string) (*dto.ValidationReport, error) {
	generation, err := s.findGeneration(ctx, id)
	if err != nil {
		return nil, err
	}
	slots, err := s.slots.ListByGeneration(ctx, id)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "generation not found", "failed to load timetable slots")
	}
	availability, err := s.availability.ListAll(ctx)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "availability not found", "failed to load teacher availability")
	}

	violations := scheduler.Audit(generation.Config, slots, availability)
	report := &dto.ValidationReport{
		GenerationID: id,
		Valid:        len(violations) == 0,
		SlotCount:    len(slots),
		Violations:   make([]dto.ValidationViolation, 0, len(violations)),
	}
	for _, v := range violations {
		report.Violations = append(report.Violations, dto.ValidationViolation{Type: v.Type, Message: v.Message, SlotIDs: v.SlotIDs})
	}
	return report, nil
}

// ResolveConflict marks a recorded shortfall as handled.
func (s *TimetableService) ResolveConflict(ctx context.Context, generationID, conflictID, actor string) (*models.Conflict, error) {
	var resolvedBy *string
	if actor != "" {
		resolvedBy = &actor
	}
	conflict, err := s.conflicts.Resolve(ctx, generationID, conflictID, resolvedBy)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "conflict not found", "failed to resolve conflict")
	}
	s.cache.InvalidateGeneration(ctx, generationID)
	return conflict, nil
}

func (s *TimetableService) findGeneration(ctx context.Context, id string) (*models.Generation, error) {
	generation, err := s.generations.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.FromDatabase(err, fmt.Sprintf("generation %s not found", id), "failed to load generation")
	}
	return generation, nil
}

func applySlotChanges(slot *models.TimetableSlot, changes models.SlotChanges) {
	if changes.Day != nil {
		slot.Day = *changes.Day
	}
	if changes.Period != nil {
		slot.Period = *changes.Period
	}
	if changes.TeacherID != nil && (slot.TeacherID == nil || *slot.TeacherID != *changes.TeacherID) {
		if slot.OriginalTeacherID == nil && slot.TeacherID != nil {
			previous := *slot.TeacherID
			slot.OriginalTeacherID = &previous
		}
		teacher := *changes.TeacherID
		slot.TeacherID = &teacher
		if changes.Status == nil {
			slot.Status = models.SlotStatusSubstituted
		}
	}
	if changes.Status != nil {
		slot.Status = *changes.Status
	}
	if changes.IsLocked != nil {
		slot.IsLocked = *changes.IsLocked
	}
	if changes.LockReason != nil {
		slot.LockReason = changes.LockReason
	}
	if changes.SubstituteReason != nil {
		slot.SubstituteReason = changes.SubstituteReason
	}
	if changes.ChangedBy != nil {
		slot.ChangedBy = changes.ChangedBy
	}
}

func firstNonEmpty(value *string, fallback string) *string {
	if value != nil && *value != "" {
		return value
	}
	if fallback == "" {
		return nil
	}
	return &fallback
}

func emptySlots(items []models.TimetableSlot) []models.TimetableSlot {
	if items == nil {
		return []models.TimetableSlot{}
	}
	return items
}

func emptyConflicts(items []models.Conflict) []models.Conflict {
	if items == nil {
		return []models.Conflict{}
	}
	return items
}
