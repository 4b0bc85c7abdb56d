package models

// SlotTemplate describes one entry of a school's daily slot grid: a time range
// and the kind of period that occupies it on every weekday. Lesson slots are
// the ones the distributor fills; break, assembly, and lunch slots are seeded
// verbatim.
type SlotTemplate struct {
	StartTime string     `json:"start_time" validate:"required"`
	EndTime   string     `json:"end_time" validate:"required"`
	Kind      PeriodKind `json:"kind" validate:"required,oneof=LESSON BREAK ASSEMBLY LUNCH"`
	Label     string     `json:"label,omitempty"`
}

// PoolItem is a subject or course offered to the distributor as a candidate.
// Core classification happens by name matching on the consumer side, not here.
type PoolItem struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}
