// Package scheduler holds the timetable placement engine: occupancy grids, constraint seeding,
// the placement strategy and the per-run orchestration that turns assignments into slots.
package scheduler

// Grid is a per-entity day × period occupancy table. A true cell is free.
type Grid struct {
	periods int
	cells   map[string]map[string][]bool
}

// NewGrid registers every id with all cells free. Duplicate ids are collapsed.
func NewGrid(ids []string, days []string, periodsPerDay int) *Grid {
	g := &Grid{periods: periodsPerDay, cells: make(map[string]map[string][]bool, len(ids))}
	for _, id := range ids {
		if _, ok := g.cells[id]; ok {
			continue
		}
		byDay := make(map[string][]bool, len(days))
		for _, day := range days {
			row := make([]bool, periodsPerDay)
			for i := range row {
				row[i] = true
			}
			byDay[day] = row
		}
		g.cells[id] = byDay
	}
	return g
}

// Periods returns the number of periods per day.
func (g *Grid) Periods() int {
	return g.periods
}

// Has reports whether id was registered.
func (g *Grid) Has(id string) bool {
	_, ok := g.cells[id]
	return ok
}

// IDs returns the registered entity ids in no particular order.
func (g *Grid) IDs() []string {
	ids := make([]string, 0, len(g.cells))
	for id := range g.cells {
		ids = append(ids, id)
	}
	return ids
}

// IsFree reports whether the 1-based period is free. Unknown entities, days and periods are busy.
func (g *Grid) IsFree(id, day string, period int) bool {
	row, ok := g.row(id, day)
	if !ok || period < 1 || period > len(row) {
		return false
	}
	return row[period-1]
}

// MarkOccupied records a placed session period.
func (g *Grid) MarkOccupied(id, day string, period int) {
	g.set(id, day, period)
}

// MarkUnavailable records a period the entity can never use.
func (g *Grid) MarkUnavailable(id, day string, period int) {
	g.set(id, day, period)
}

// Snapshot copies the occupancy table.
func (g *Grid) Snapshot() map[string]map[string][]bool {
	out := make(map[string]map[string][]bool, len(g.cells))
	for id, byDay := range g.cells {
		days := make(map[string][]bool, len(byDay))
		for day, row := range byDay {
			days[day] = append([]bool(nil), row...)
		}
		out[id] = days
	}
	return out
}

func (g *Grid) set(id, day string, period int) {
	row, ok := g.row(id, day)
	if !ok || period < 1 || period > len(row) {
		return
	}
	row[period-1] = false
}

func (g *Grid) row(id, day string) ([]bool, bool) {
	byDay, ok := g.cells[id]
	if !ok {
		return nil, false
	}
	row, ok := byDay[day]
	return row, ok
}
