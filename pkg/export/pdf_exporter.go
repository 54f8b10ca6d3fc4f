package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders timetable grids, one landscape page per grid.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document titled title with one page per grid.
func (e *PDFExporter) Render(title string, grids []Grid) ([]byte, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("pdf requires at least one grid")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, grid := range grids {
		if len(grid.Days) == 0 {
			return nil, fmt.Errorf("grid %q has no days", grid.Title)
		}
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 9, tr(strings.ToUpper(title)), "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, tr(grid.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)

		labelWidth := 18.0
		colWidth := (277.0 - labelWidth) / float64(len(grid.Days))

		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(labelWidth, 8, "Period", "1", 0, "C", true, 0, "")
		for _, day := range grid.Days {
			pdf.CellFormat(colWidth, 8, day, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 8)
		for period := 1; period <= grid.Periods; period++ {
			fill := grid.Breaks[period]
			pdf.CellFormat(labelWidth, 9, PeriodLabel(period), "1", 0, "C", fill, 0, "")
			for _, day := range grid.Days {
				pdf.CellFormat(colWidth, 9, tr(grid.Cell(day, period)), "1", 0, "C", fill, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
