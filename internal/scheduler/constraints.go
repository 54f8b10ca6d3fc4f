package scheduler

import "github.com/noah-isme/sma-timetable-api/internal/models"

// ApplyConstraints seeds freshly built grids before any placement.
func ApplyConstraints(teachers, sections *Grid, cfg models.GenerationConfig, records []models.TeacherAvailability) {
	ApplyUnavailability(teachers, cfg, records)
	ApplyBreaks(sections, cfg)
}

// ApplyUnavailability blocks teacher cells for unavailable records on configured days.
// Preferred records, unknown teachers and days outside the configured week are skipped.
func ApplyUnavailability(teachers *Grid, cfg models.GenerationConfig, records []models.TeacherAvailability) {
	for _, rec := range records {
		if rec.Type != models.AvailabilityUnavailable {
			continue
		}
		if !cfg.HasDay(rec.Day) || !teachers.Has(rec.TeacherID) {
			continue
		}
		teachers.MarkUnavailable(rec.TeacherID, rec.Day, rec.Period)
	}
}

// ApplyBreaks blocks every break and lunch period for every section on every configured day.
// Teachers are not blocked: breaks are section-side non-teaching time.
func ApplyBreaks(sections *Grid, cfg models.GenerationConfig) {
	breaks := cfg.BreakSet()
	for _, id := range sections.IDs() {
		for _, day := range cfg.Days {
			for period := range breaks {
				sections.MarkUnavailable(id, day, period)
			}
		}
	}
}
