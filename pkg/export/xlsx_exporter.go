package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// XLSXExporter renders timetable grids into a workbook, one sheet per grid.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render builds the workbook bytes.
func (e *XLSXExporter) Render(grids []Grid) ([]byte, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one grid")
	}
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	breakStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#EDEDED"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create break style: %w", err)
	}

	used := make(map[string]bool)
	for i, grid := range grids {
		name := sheetName(grid.Title, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
		if err := writeGrid(f, name, grid, headerStyle, breakStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeGrid(f *excelize.File, sheet string, grid Grid, headerStyle, breakStyle int) error {
	set := func(col, row int, value interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, value)
	}

	if err := set(1, 1, "Period"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, day := range grid.Days {
		if err := set(i+2, 1, day); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(grid.Days) + 1)
	if err != nil {
		return fmt.Errorf("resolve column: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", lastCol, 24); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	for period := 1; period <= grid.Periods; period++ {
		row := period + 1
		if err := set(1, row, PeriodLabel(period)); err != nil {
			return fmt.Errorf("write period label: %w", err)
		}
		for i, day := range grid.Days {
			if err := set(i+2, row, grid.Cell(day, period)); err != nil {
				return fmt.Errorf("write cell: %w", err)
			}
		}
		if grid.Breaks[period] {
			if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), breakStyle); err != nil {
				return fmt.Errorf("style break row: %w", err)
			}
		}
	}
	return nil
}

// sheetName strips characters Excel rejects and keeps names unique within a workbook.
func sheetName(title string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = "Timetable"
	}
	base := truncate(name, maxSheetName)
	name = base
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}
