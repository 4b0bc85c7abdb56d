package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders a timetable grid into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes with a leading time column followed by one
// column per day.
func (e *CSVExporter) Render(grid TimetableGrid) ([]byte, error) {
	if len(grid.Days) == 0 {
		return nil, fmt.Errorf("csv grid requires at least one day column")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	header := append([]string{"Time"}, grid.Days...)
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range grid.Rows {
		record := make([]string, 0, len(grid.Days)+1)
		record = append(record, row.TimeRange)
		for i := range grid.Days {
			cell := ""
			if i < len(row.Cells) {
				cell = row.Cells[i]
			}
			record = append(record, cell)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
