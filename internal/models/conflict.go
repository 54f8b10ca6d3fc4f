package models

import (
	"time"

	"github.com/lib/pq"
)

// ConflictSeverity grades how serious an unmet demand is.
type ConflictSeverity string

const (
	ConflictSeverityWarning ConflictSeverity = "warning"
	ConflictSeverityError   ConflictSeverity = "error"
)

// ConflictTypeInsufficientSlots marks an assignment whose weekly quota could not be placed.
const ConflictTypeInsufficientSlots = "insufficient_slots"

// Conflict records a scheduling shortfall found while generating.
type Conflict struct {
	ID            string           `db:"id" json:"id"`
	GenerationID  string           `db:"generation_id" json:"generationId"`
	Type          string           `db:"type" json:"type"`
	Severity      ConflictSeverity `db:"severity" json:"severity"`
	Message       string           `db:"message" json:"message"`
	AffectedSlots pq.StringArray   `db:"affected_slots" json:"affectedSlots,omitempty"`
	Resolved      bool             `db:"resolved" json:"resolved"`
	ResolvedAt    *time.Time       `db:"resolved_at" json:"resolvedAt,omitempty"`
	ResolvedBy    *string          `db:"resolved_by" json:"resolvedBy,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"createdAt"`
}
