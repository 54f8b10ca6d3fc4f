package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// GenerationStatus represents lifecycle phases for generated timetables.
type GenerationStatus string

const (
	GenerationStatusDraft    GenerationStatus = "draft"
	GenerationStatusActive   GenerationStatus = "active"
	GenerationStatusArchived GenerationStatus = "archived"
)

// Weekdays lists the school days a generation may be configured with, in calendar order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// GenerationConfig is the grid shape and break layout a generation was built against.
type GenerationConfig struct {
	Days           []string `json:"days" validate:"required,min=1,max=6,unique,dive,weekday"`
	PeriodsPerDay  int      `json:"periodsPerDay" validate:"required,min=1,max=12"`
	MaxConsecutive int      `json:"maxConsecutive" validate:"required,min=1,max=5"`
	BreakPeriods   []int    `json:"breakPeriods,omitempty" validate:"omitempty,dive,min=1"`
	LunchPeriod    *int     `json:"lunchPeriod,omitempty" validate:"omitempty,min=1"`
}

// BreakSet returns breakPeriods plus the lunch period. Non-positive entries are dropped.
func (c GenerationConfig) BreakSet() map[int]bool {
	set := make(map[int]bool, len(c.BreakPeriods)+1)
	for _, p := range c.BreakPeriods {
		if p > 0 {
			set[p] = true
		}
	}
	if c.LunchPeriod != nil && *c.LunchPeriod > 0 {
		set[*c.LunchPeriod] = true
	}
	return set
}

// HasDay reports whether day is part of the configured week.
func (c GenerationConfig) HasDay(day string) bool {
	for _, d := range c.Days {
		if d == day {
			return true
		}
	}
	return false
}

// Value stores the config as JSONB.
func (c GenerationConfig) Value() (driver.Value, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Scan loads the config from a JSONB column.
func (c *GenerationConfig) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*c = GenerationConfig{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported generation config type %T", src)
	}
	return json.Unmarshal(raw, c)
}

// Generation is one run of the timetable engine.
type Generation struct {
	ID             string           `db:"id" json:"id"`
	Name           string           `db:"name" json:"name"`
	Config         GenerationConfig `db:"config" json:"config"`
	Status         GenerationStatus `db:"status" json:"status"`
	GenerationTime float64          `db:"generation_time" json:"generationTime"`
	CreatedBy      *string          `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updatedAt"`
}

// GenerationDetail bundles a generation with the slots and conflicts it owns.
type GenerationDetail struct {
	Generation
	Slots     []TimetableSlot `json:"slots"`
	Conflicts []Conflict      `json:"conflicts"`
}
