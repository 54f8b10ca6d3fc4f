package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

// Generate resolves the requested assignments, runs the placement engine and persists the draft
// generation with its slots and conflicts. Unplaceable sessions are reported as conflicts.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest, actor string) (*models.GenerationDetail, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "timetable generation is disabled")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable generation payload")
	}
	ids := uniqueIDs(req.AssignmentIDs)
	if s.cfg.MaxAssignments > 0 && len(ids) > s.cfg.MaxAssignments {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d assignments can be scheduled per generation", s.cfg.MaxAssignments))
	}

	started := time.Now()
	assignments, err := s.assignments.FindByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.FromDatabase(err, "assignments not found", "failed to load assignments")
	}
	if len(assignments) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no assignments found for the provided ids")
	}

	generation := &models.Generation{
		Name:   req.Name,
		Config: req.Config,
		Status: models.GenerationStatusDraft,
	}
	if actor != "" {
		generation.CreatedBy = &actor
	}
	if err := s.generations.Create(ctx, nil, generation); err != nil {
		s.metrics.RecordGenerationFailure()
		return nil, appErrors.FromDatabase(err, "generation not found", "failed to create generation")
	}

	availability, err := s.availability.ListAll(ctx)
	if err != nil {
		return nil, s.failDraft(ctx, generation.ID, appErrors.FromDatabase(err, "availability not found", "failed to load teacher availability"))
	}

	s.logger.Info("timetable generation started",
		zap.String("generation_id", generation.ID),
		zap.Int("assignments", len(assignments)),
		zap.Int("requested", len(ids)),
	)

	outcome := s.engine.Run(scheduler.Input{
		GenerationID: generation.ID,
		Config:       req.Config,
		Assignments:  assignments,
		Availability: availability,
	})

	if err := s.persist(ctx, generation, outcome, started); err != nil {
		return nil, s.failDraft(ctx, generation.ID, appErrors.FromError(err))
	}

	elapsed := time.Since(started)
	s.metrics.ObserveGeneration(elapsed, len(outcome.Slots), outcome.Conflicts)
	s.cache.InvalidateGeneration(ctx, generation.ID)
	s.logger.Info("timetable generation finished",
		zap.String("generation_id", generation.ID),
		zap.Int("slots", len(outcome.Slots)),
		zap.Int("conflicts", len(outcome.Conflicts)),
		zap.Float64("seconds", generation.GenerationTime),
	)

	return &models.GenerationDetail{
		Generation: *generation,
		Slots:      emptySlots(outcome.Slots),
		Conflicts:  emptyConflicts(outcome.Conflicts),
	}, nil
}

func (s *TimetableService) persist(ctx context.Context, generation *models.Generation, outcome scheduler.Outcome, started time.Time) error {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := s.slots.InsertBatch(ctx, tx, outcome.Slots); err != nil {
		return appErrors.FromDatabase(err, "generation not found", "failed to persist timetable slots")
	}
	if err := s.conflicts.InsertBatch(ctx, tx, outcome.Conflicts); err != nil {
		return appErrors.FromDatabase(err, "generation not found", "failed to persist timetable conflicts")
	}
	generation.GenerationTime = time.Since(started).Seconds()
	if err := s.generations.UpdateGenerationTime(ctx, tx, generation.ID, generation.GenerationTime); err != nil {
		return appErrors.FromDatabase(err, "generation not found", "failed to record generation time")
	}
	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit generation")
	}
	committed = true
	return nil
}

// failDraft records a run that stopped after its draft row was written. The draft stays
// stored without slots and the returned error names it.
func (s *TimetableService) failDraft(ctx context.Context, id string, err *appErrors.Error) *appErrors.Error {
	s.metrics.RecordGenerationFailure()
	s.cache.InvalidateGeneration(ctx, id)
	s.logger.Error("timetable generation failed", zap.String("generation_id", id), zap.Error(err))
	return appErrors.Clone(err, fmt.Sprintf("%s (draft generation %s kept)", err.Message, id))
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
