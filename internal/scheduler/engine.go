package scheduler

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// Input is everything a run reads up front.
type Input struct {
	GenerationID string
	Config       models.GenerationConfig
	Assignments  []models.Assignment
	Availability []models.TeacherAvailability
}

// Outcome is everything a run produces. Nothing is persisted by the engine.
type Outcome struct {
	Slots     []models.TimetableSlot
	Conflicts []models.Conflict
	// Placed counts sessions placed per assignment id.
	Placed map[string]int
}

// Engine drives a PlacementStrategy over a sorted set of assignments.
type Engine struct {
	strategy PlacementStrategy
	newID    func() string
}

// NewEngine wires a strategy; nil selects FirstFit.
func NewEngine(strategy PlacementStrategy) *Engine {
	if strategy == nil {
		strategy = NewFirstFit()
	}
	return &Engine{strategy: strategy, newID: uuid.NewString}
}

// Run places every assignment greedily. A shortfall becomes a Conflict, never an error.
func (e *Engine) Run(in Input) Outcome {
	cfg := in.Config
	teacherIDs := make([]string, 0, len(in.Assignments))
	sectionIDs := make([]string, 0, len(in.Assignments))
	for _, a := range in.Assignments {
		teacherIDs = append(teacherIDs, a.TeacherID)
		sectionIDs = append(sectionIDs, a.SectionID)
	}
	teachers := NewGrid(teacherIDs, cfg.Days, cfg.PeriodsPerDay)
	sections := NewGrid(sectionIDs, cfg.Days, cfg.PeriodsPerDay)
	ApplyConstraints(teachers, sections, cfg, in.Availability)

	breaks := cfg.BreakSet()
	preferred := preferredCells(cfg, in.Availability)
	maxAttempts := len(cfg.Days) * cfg.PeriodsPerDay

	out := Outcome{Placed: make(map[string]int, len(in.Assignments))}
	for _, a := range SortAssignments(in.Assignments) {
		req := PlacementRequest{
			SectionID:      a.SectionID,
			TeacherID:      a.TeacherID,
			Days:           cfg.Days,
			PeriodsPerDay:  cfg.PeriodsPerDay,
			MaxConsecutive: cfg.MaxConsecutive,
			SessionLength:  a.Sessions.Length,
			Breaks:         breaks,
			Preferred:      preferred[a.TeacherID],
		}

		placed := 0
		var slotIDs []string
		for attempt := 0; placed < a.Sessions.PerWeek && attempt < maxAttempts; attempt++ {
			cell, ok := e.strategy.FindSlot(req, sections, teachers)
			if !ok {
				break
			}
			for period := cell.Period; period < cell.Period+a.Sessions.Length; period++ {
				teachers.MarkOccupied(a.TeacherID, cell.Day, period)
				sections.MarkOccupied(a.SectionID, cell.Day, period)
				slot := newSlot(e.newID(), in.GenerationID, a, cell.Day, period)
				out.Slots = append(out.Slots, slot)
				slotIDs = append(slotIDs, slot.ID)
			}
			placed++
		}
		out.Placed[a.ID] = placed

		if placed < a.Sessions.PerWeek {
			out.Conflicts = append(out.Conflicts, shortfall(e.newID(), in.GenerationID, a, placed, slotIDs))
		}
	}
	return out
}

// SortAssignments orders hard before soft, then higher priority, then heavier weekly load.
// Ties keep their input order. The input slice is not modified.
func SortAssignments(items []models.Assignment) []models.Assignment {
	sorted := make([]models.Assignment, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		aHard, bHard := a.Constraint == models.ConstraintHard, b.Constraint == models.ConstraintHard
		if aHard != bHard {
			return aHard
		}
		if a.EffectivePriority() != b.EffectivePriority() {
			return a.EffectivePriority() > b.EffectivePriority()
		}
		return a.WeeklyLoad() > b.WeeklyLoad()
	})
	return sorted
}

func newSlot(id, generationID string, a models.Assignment, day string, period int) models.TimetableSlot {
	subjectID := a.SubjectID
	teacherID := a.TeacherID
	return models.TimetableSlot{
		ID:           id,
		GenerationID: generationID,
		SectionID:    a.SectionID,
		SubjectID:    &subjectID,
		TeacherID:    &teacherID,
		Day:          day,
		Period:       period,
		Status:       models.SlotStatusActive,
	}
}

func shortfall(id, generationID string, a models.Assignment, placed int, slotIDs []string) models.Conflict {
	severity := models.ConflictSeverityWarning
	if a.Constraint == models.ConstraintHard {
		severity = models.ConflictSeverityError
	}
	return models.Conflict{
		ID:           id,
		GenerationID: generationID,
		Type:         models.ConflictTypeInsufficientSlots,
		Severity:     severity,
		Message: fmt.Sprintf("Could not place all %d sessions for %s (%s) with %s. Only placed %d/%d sessions.",
			a.Sessions.PerWeek,
			nameOr(a.SubjectName, "Unknown Subject"),
			nameOr(a.SectionCode, "Unknown Section"),
			nameOr(a.TeacherName, "Unknown Teacher"),
			placed,
			a.Sessions.PerWeek,
		),
		AffectedSlots: slotIDs,
	}
}

func preferredCells(cfg models.GenerationConfig, records []models.TeacherAvailability) map[string]map[string]map[int]bool {
	out := make(map[string]map[string]map[int]bool)
	for _, rec := range records {
		if rec.Type != models.AvailabilityPreferred || !cfg.HasDay(rec.Day) {
			continue
		}
		if out[rec.TeacherID] == nil {
			out[rec.TeacherID] = make(map[string]map[int]bool)
		}
		if out[rec.TeacherID][rec.Day] == nil {
			out[rec.TeacherID][rec.Day] = make(map[int]bool)
		}
		out[rec.TeacherID][rec.Day][rec.Period] = true
	}
	return out
}

func nameOr(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}
