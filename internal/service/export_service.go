package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/schoolable/timetable-api/internal/models"
	appErrors "github.com/schoolable/timetable-api/pkg/errors"
	"github.com/schoolable/timetable-api/pkg/export"
	"github.com/schoolable/timetable-api/pkg/timeutil"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportService renders a section's weekly timetable into downloadable
// documents. It reuses the assembler for reads, so exports always reflect the
// same grid the API serves.
type ExportService struct {
	timetables *TimetableService
	subjects   subjectCatalog
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
}

// NewExportService instantiates ExportService.
func NewExportService(timetables *TimetableService, subjects subjectCatalog, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		timetables: timetables,
		subjects:   subjects,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
	}
}

// SectionTimetable renders the section's weekly grid in the requested format
// and returns the bytes with their content type.
func (s *ExportService) SectionTimetable(ctx context.Context, schoolID, termID string, section models.Section, title string, format ExportFormat) ([]byte, string, error) {
	periods, err := s.timetables.SectionTimetable(ctx, termID, section)
	if err != nil {
		return nil, "", err
	}

	names, err := s.subjectNames(ctx, schoolID)
	if err != nil {
		return nil, "", err
	}
	grid := buildGrid(title, periods, names)

	switch format {
	case ExportFormatCSV:
		data, err := s.csv.Render(grid)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, "text/csv", nil
	case ExportFormatPDF:
		data, err := s.pdf.Render(grid)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return data, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func (s *ExportService) subjectNames(ctx context.Context, schoolID string) (map[string]string, error) {
	subjects, err := s.subjects.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject catalog")
	}
	names := make(map[string]string, len(subjects))
	for _, subject := range subjects {
		names[subject.ID] = subject.Name
	}
	return names, nil
}

// buildGrid pivots the flat period list into rows keyed by time range and
// columns per weekday.
func buildGrid(title string, periods []models.Period, subjectNames map[string]string) export.TimetableGrid {
	type timeRange struct{ start, end string }
	rowIndex := make(map[timeRange]int)
	var ranges []timeRange

	for i := range periods {
		key := timeRange{periods[i].StartTime, periods[i].EndTime}
		if _, ok := rowIndex[key]; !ok {
			rowIndex[key] = len(ranges)
			ranges = append(ranges, key)
		}
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })
	for i, key := range ranges {
		rowIndex[key] = i
	}

	grid := export.TimetableGrid{Title: title, Days: timeutil.Weekdays}
	grid.Rows = make([]export.GridRow, len(ranges))
	for i, key := range ranges {
		grid.Rows[i] = export.GridRow{
			TimeRange: fmt.Sprintf("%s - %s", key.start, key.end),
			Cells:     make([]string, len(grid.Days)),
		}
	}

	dayColumn := make(map[string]int, len(grid.Days))
	for i, day := range grid.Days {
		dayColumn[day] = i
	}

	for i := range periods {
		p := &periods[i]
		col, ok := dayColumn[p.DayOfWeek]
		if !ok {
			continue
		}
		row := rowIndex[timeRange{p.StartTime, p.EndTime}]
		grid.Rows[row].Cells[col] = cellText(p, subjectNames)
	}
	return grid
}

func cellText(p *models.Period, subjectNames map[string]string) string {
	if ref := p.TeachingRef(); ref != nil {
		if name, ok := subjectNames[*ref]; ok {
			return name
		}
		return *ref
	}
	if p.Label != nil && *p.Label != "" {
		return *p.Label
	}
	if p.Kind != models.PeriodKindLesson {
		return string(p.Kind)
	}
	return ""
}
