package models

// ConstraintKind says whether an assignment must be satisfied or may be relaxed.
type ConstraintKind string

const (
	ConstraintHard ConstraintKind = "hard"
	ConstraintSoft ConstraintKind = "soft"
)

// DefaultPriority applies to assignments stored without a priority.
const DefaultPriority = 5

// Sessions is the weekly demand of an assignment.
type Sessions struct {
	PerWeek int `json:"perWeek"`
	Length  int `json:"length"`
}

// Assignment is a demand to teach a subject to a section by a teacher.
type Assignment struct {
	ID         string         `db:"id" json:"id"`
	SectionID  string         `db:"section_id" json:"sectionId"`
	SubjectID  string         `db:"subject_id" json:"subjectId"`
	TeacherID  string         `db:"teacher_id" json:"teacherId"`
	Sessions   Sessions       `db:"-" json:"sessions"`
	Constraint ConstraintKind `db:"constraint_kind" json:"constraint"`
	Priority   *int           `db:"priority" json:"priority,omitempty"`

	SectionCode *string `db:"section_code" json:"sectionCode,omitempty"`
	SubjectName *string `db:"subject_name" json:"subjectName,omitempty"`
	TeacherName *string `db:"teacher_name" json:"teacherName,omitempty"`
}

// EffectivePriority returns the stored priority or DefaultPriority when absent.
func (a Assignment) EffectivePriority() int {
	if a.Priority == nil || *a.Priority == 0 {
		return DefaultPriority
	}
	return *a.Priority
}

// WeeklyLoad is the number of periods the assignment consumes per week.
func (a Assignment) WeeklyLoad() int {
	return a.Sessions.PerWeek * a.Sessions.Length
}
