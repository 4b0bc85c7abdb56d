package export

// TimetableGrid is a week laid out for rendering: one row per lesson slot,
// one column per day.
type TimetableGrid struct {
	Title string
	Days  []string
	Rows  []GridRow
}

// GridRow holds a time-range label and one cell per day, aligned with Days.
type GridRow struct {
	TimeRange string
	Cells     []string
}
