package scheduler

import (
	"fmt"
	"sort"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// Violation types reported by Audit.
const (
	ViolationSectionDoubleBooked = "section_double_booked"
	ViolationTeacherDoubleBooked = "teacher_double_booked"
	ViolationBreakPeriod         = "break_period"
	ViolationTeacherUnavailable  = "teacher_unavailable"
	ViolationOutsideGrid         = "outside_grid"
)

// Violation is one broken invariant found in a stored timetable.
type Violation struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	SlotIDs []string `json:"slotIds"`
}

type cellKey struct {
	owner  string
	day    string
	period int
}

// Audit re-checks stored slots against the generation's config and teacher availability.
// Manual slot edits skip these checks, so Audit is how callers find what an edit broke.
// Cancelled and break slots do not occupy a teacher or section.
func Audit(cfg models.GenerationConfig, slots []models.TimetableSlot, availability []models.TeacherAvailability) []Violation {
	var violations []Violation
	breaks := cfg.BreakSet()

	blocked := make(map[cellKey]bool)
	for _, rec := range availability {
		if rec.Type == models.AvailabilityUnavailable {
			blocked[cellKey{owner: rec.TeacherID, day: rec.Day, period: rec.Period}] = true
		}
	}

	bySection := make(map[cellKey][]string)
	byTeacher := make(map[cellKey][]string)
	for _, slot := range slots {
		if slot.Status == models.SlotStatusCancelled || slot.Status == models.SlotStatusBreak {
			continue
		}
		if !cfg.HasDay(slot.Day) || slot.Period < 1 || slot.Period > cfg.PeriodsPerDay {
			violations = append(violations, Violation{
				Type:    ViolationOutsideGrid,
				Message: fmt.Sprintf("slot %s at %s period %d is outside the configured grid", slot.ID, slot.Day, slot.Period),
				SlotIDs: []string{slot.ID},
			})
		}
		if breaks[slot.Period] {
			violations = append(violations, Violation{
				Type:    ViolationBreakPeriod,
				Message: fmt.Sprintf("slot %s uses break period %d on %s", slot.ID, slot.Period, slot.Day),
				SlotIDs: []string{slot.ID},
			})
		}
		sectionKey := cellKey{owner: slot.SectionID, day: slot.Day, period: slot.Period}
		bySection[sectionKey] = append(bySection[sectionKey], slot.ID)

		if slot.TeacherID == nil || *slot.TeacherID == "" {
			continue
		}
		teacherKey := cellKey{owner: *slot.TeacherID, day: slot.Day, period: slot.Period}
		byTeacher[teacherKey] = append(byTeacher[teacherKey], slot.ID)
		if blocked[teacherKey] {
			violations = append(violations, Violation{
				Type:    ViolationTeacherUnavailable,
				Message: fmt.Sprintf("teacher %s is unavailable on %s period %d", teacherKey.owner, slot.Day, slot.Period),
				SlotIDs: []string{slot.ID},
			})
		}
	}

	violations = append(violations, duplicates(bySection, ViolationSectionDoubleBooked, "section")...)
	violations = append(violations, duplicates(byTeacher, ViolationTeacherDoubleBooked, "teacher")...)
	return violations
}

func duplicates(cells map[cellKey][]string, kind, label string) []Violation {
	keys := make([]cellKey, 0, len(cells))
	for key, ids := range cells {
		if len(ids) > 1 {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].owner != keys[j].owner {
			return keys[i].owner < keys[j].owner
		}
		if keys[i].day != keys[j].day {
			return keys[i].day < keys[j].day
		}
		return keys[i].period < keys[j].period
	})
	out := make([]Violation, 0, len(keys))
	for _, key := range keys {
		out = append(out, Violation{
			Type:    kind,
			Message: fmt.Sprintf("%s %s has %d sessions on %s period %d", label, key.owner, len(cells[key]), key.day, key.period),
			SlotIDs: cells[key],
		})
	}
	return out
}
