package models

import "time"

// Room is a bookable teaching space.
type Room struct {
	ID        string    `db:"id" json:"id"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	Name      string    `db:"name" json:"name"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
