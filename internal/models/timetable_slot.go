package models

import "time"

// SlotStatus describes the state of a single timetable cell.
type SlotStatus string

const (
	SlotStatusActive      SlotStatus = "active"
	SlotStatusLocked      SlotStatus = "locked"
	SlotStatusSubstituted SlotStatus = "substituted"
	SlotStatusCancelled   SlotStatus = "cancelled"
	SlotStatusBreak       SlotStatus = "break"
)

// TimetableSlot is one (day, period) cell occupied by a section inside a generation.
type TimetableSlot struct {
	ID                string     `db:"id" json:"id"`
	GenerationID      string     `db:"generation_id" json:"generationId"`
	SectionID         string     `db:"section_id" json:"sectionId"`
	SubjectID         *string    `db:"subject_id" json:"subjectId,omitempty"`
	TeacherID         *string    `db:"teacher_id" json:"teacherId,omitempty"`
	Day               string     `db:"day" json:"day"`
	Period            int        `db:"period" json:"period"`
	Status            SlotStatus `db:"status" json:"status"`
	IsLocked          bool       `db:"is_locked" json:"isLocked"`
	LockReason        *string    `db:"lock_reason" json:"lockReason,omitempty"`
	OriginalTeacherID *string    `db:"original_teacher_id" json:"originalTeacherId,omitempty"`
	SubstituteReason  *string    `db:"substitute_reason" json:"substituteReason,omitempty"`
	ChangedBy         *string    `db:"changed_by" json:"changedBy,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`
}

// SlotChanges carries the manual overrides accepted for a slot. Nil fields are left untouched.
type SlotChanges struct {
	Day              *string
	Period           *int
	TeacherID        *string
	Status           *SlotStatus
	IsLocked         *bool
	LockReason       *string
	SubstituteReason *string
	ChangedBy        *string
}
