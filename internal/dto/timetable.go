package dto

import "github.com/noah-isme/sma-timetable-api/internal/models"

// GenerateTimetableRequest asks the engine to build a new draft generation.
type GenerateTimetableRequest struct {
	Name          string                  `json:"name" validate:"required,max=255"`
	Config        models.GenerationConfig `json:"config"`
	AssignmentIDs []string                `json:"assignmentIds" validate:"required,min=1,dive,required"`
}

// UpdateGenerationRequest patches generation metadata. Status active is applied through activation.
type UpdateGenerationRequest struct {
	Name   *string                  `json:"name" validate:"omitempty,min=1,max=255"`
	Status *models.GenerationStatus `json:"status" validate:"omitempty,oneof=draft active archived"`
}

// UpdateSlotRequest overwrites fields of one slot without re-running placement checks.
type UpdateSlotRequest struct {
	SlotID           string             `json:"slotId" validate:"required"`
	Day              *string            `json:"day" validate:"omitempty,weekday"`
	Period           *int               `json:"period" validate:"omitempty,min=1,max=12"`
	TeacherID        *string            `json:"teacherId" validate:"omitempty,min=1"`
	Status           *models.SlotStatus `json:"status" validate:"omitempty,oneof=active locked substituted cancelled break"`
	IsLocked         *bool              `json:"isLocked"`
	LockReason       *string            `json:"lockReason"`
	SubstituteReason *string            `json:"substituteReason"`
	ChangedBy        *string            `json:"changedBy"`
}

// ValidationViolation is one broken rule found when re-checking a stored generation.
type ValidationViolation struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	SlotIDs []string `json:"slotIds"`
}

// ValidationReport summarises a re-validation pass.
type ValidationReport struct {
	GenerationID string                `json:"generationId"`
	Valid        bool                  `json:"valid"`
	SlotCount    int                   `json:"slotCount"`
	Violations   []ValidationViolation `json:"violations"`
}

// ExportFormat names the supported timetable export encodings.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatICS  ExportFormat = "ics"
)

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
