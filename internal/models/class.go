package models

import "time"

// Class represents a class level (e.g. JSS1, Year 2).
type Class struct {
	ID        string    `db:"id" json:"id"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	Name      string    `db:"name" json:"name"`
	Level     int       `db:"level" json:"level"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassArm is one of several parallel streams within a class level.
type ClassArm struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	Name      string    `db:"name" json:"name"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassArmDetail extends ClassArm with its class name for display.
type ClassArmDetail struct {
	ClassArm
	ClassName string `db:"class_name" json:"class_name"`
}
