package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/schoolable/timetable-api/internal/models"
)

// RoomRepository provides read access to rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// FindByID loads a room by id.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	const query = `SELECT id, school_id, name, capacity, created_at, updated_at FROM rooms WHERE id = $1`
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}
