package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a timetable grid into a landscape A4 table.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with the grid title and the week table.
func (e *PDFExporter) Render(grid TimetableGrid) ([]byte, error) {
	if len(grid.Days) == 0 {
		return nil, fmt.Errorf("pdf grid requires at least one day column")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if grid.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(grid.Title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	const timeColWidth = 32.0
	dayColWidth := (277.0 - timeColWidth) / float64(len(grid.Days))

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(timeColWidth, 8, "Time", "1", 0, "C", false, 0, "")
	for _, day := range grid.Days {
		pdf.CellFormat(dayColWidth, 8, day, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range grid.Rows {
		pdf.CellFormat(timeColWidth, 7, row.TimeRange, "1", 0, "C", false, 0, "")
		for i := range grid.Days {
			cell := ""
			if i < len(row.Cells) {
				cell = row.Cells[i]
			}
			pdf.CellFormat(dayColWidth, 7, cell, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
