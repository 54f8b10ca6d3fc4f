package export

import "fmt"

// Grid is one weekly timetable rendered as periods (rows) by days (columns).
type Grid struct {
	Title   string
	Days    []string
	Periods int
	Breaks  map[int]bool
	// Cells holds the label shown for a cell keyed by day then period.
	Cells map[string]map[int]string
}

// NewGrid allocates an empty grid.
func NewGrid(title string, days []string, periods int, breaks map[int]bool) Grid {
	return Grid{Title: title, Days: days, Periods: periods, Breaks: breaks, Cells: make(map[string]map[int]string)}
}

// Put sets the label of a cell. Labels for a shared cell are joined.
func (g Grid) Put(day string, period int, label string) {
	if g.Cells[day] == nil {
		g.Cells[day] = make(map[int]string)
	}
	if existing := g.Cells[day][period]; existing != "" {
		label = existing + " | " + label
	}
	g.Cells[day][period] = label
}

// Cell returns the label of a cell, "Break" for empty break periods.
func (g Grid) Cell(day string, period int) string {
	if label := g.Cells[day][period]; label != "" {
		return label
	}
	if g.Breaks[period] {
		return "Break"
	}
	return ""
}

// PeriodLabel names a row.
func PeriodLabel(period int) string {
	return fmt.Sprintf("P%d", period)
}
