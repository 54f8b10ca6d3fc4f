package models

// AvailabilityType distinguishes hard blocks from soft preferences.
type AvailabilityType string

const (
	AvailabilityUnavailable AvailabilityType = "unavailable"
	AvailabilityPreferred   AvailabilityType = "preferred"
)

// TeacherAvailability marks one (day, period) cell for a teacher.
type TeacherAvailability struct {
	ID        string           `db:"id" json:"id"`
	TeacherID string           `db:"teacher_id" json:"teacherId"`
	Day       string           `db:"day" json:"day"`
	Period    int              `db:"period" json:"period"`
	Type      AvailabilityType `db:"type" json:"type"`
	Reason    *string          `db:"reason" json:"reason,omitempty"`
}
