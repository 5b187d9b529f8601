package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotelhub/internal/model"
)

type RoomRepository struct {
	pool *pgxpool.Pool
}

func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

func (r *RoomRepository) ListByHotel(ctx context.Context, hotelID string) ([]model.Room, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, hotel_id, name, description, capacity, price_cents, created_at
		 FROM rooms WHERE hotel_id = $1 ORDER BY price_cents, name`, hotelID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	rooms := make([]model.Room, 0)
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.Name, &rm.Description,
			&rm.Capacity, &rm.PriceCents, &rm.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, rm)
	}
	return rooms, rows.Err()
}

func (r *RoomRepository) FindByID(ctx context.Context, id string) (model.Room, error) {
	var rm model.Room
	err := r.pool.QueryRow(ctx,
		`SELECT id, hotel_id, name, description, capacity, price_cents, created_at
		 FROM rooms WHERE id = $1`, id).
		Scan(&rm.ID, &rm.HotelID, &rm.Name, &rm.Description,
			&rm.Capacity, &rm.PriceCents, &rm.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Room{}, model.ErrRoomNotFound
	}
	if err != nil {
		return model.Room{}, fmt.Errorf("find room by id: %w", err)
	}
	return rm, nil
}

func (r *RoomRepository) Create(ctx context.Context, rm model.Room) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO rooms (id, hotel_id, name, description, capacity, price_cents, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rm.ID, rm.HotelID, rm.Name, rm.Description, rm.Capacity, rm.PriceCents, rm.CreatedAt)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

func (r *RoomRepository) Update(ctx context.Context, rm model.Room) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE rooms SET name = $2, description = $3, capacity = $4, price_cents = $5
		 WHERE id = $1`,
		rm.ID, rm.Name, rm.Description, rm.Capacity, rm.PriceCents)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRoomNotFound
	}
	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRoomNotFound
	}
	return nil
}
