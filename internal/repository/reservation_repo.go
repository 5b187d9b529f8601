package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotelhub/internal/model"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

// CreateBooked inserts the reservation inside a transaction that locks the
// room row first, so two concurrent bookings for the same room cannot both
// pass the overlap check.
func (r *ReservationRepository) CreateBooked(ctx context.Context, res model.Reservation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reservation tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var roomID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM rooms WHERE id = $1 FOR UPDATE`, res.RoomID).Scan(&roomID)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrRoomNotFound
	}
	if err != nil {
		return fmt.Errorf("lock room: %w", err)
	}

	var overlaps bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM reservations
			WHERE room_id = $1 AND status = 'confirmed'
			  AND check_in < $2 AND check_out > $3)`,
		res.RoomID, res.CheckOut, res.CheckIn).Scan(&overlaps)
	if err != nil {
		return fmt.Errorf("check room availability: %w", err)
	}
	if overlaps {
		return model.ErrRoomUnavailable
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO reservations (id, room_id, user_id, check_in, check_out, status, total_cents, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		res.ID, res.RoomID, res.UserID, res.CheckIn, res.CheckOut,
		res.Status, res.TotalCents, res.CreatedAt)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reservation tx: %w", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id string) (model.Reservation, error) {
	var res model.Reservation
	err := r.pool.QueryRow(ctx,
		`SELECT id, room_id, user_id, check_in, check_out, status, total_cents, created_at
		 FROM reservations WHERE id = $1`, id).
		Scan(&res.ID, &res.RoomID, &res.UserID, &res.CheckIn, &res.CheckOut,
			&res.Status, &res.TotalCents, &res.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Reservation{}, model.ErrReservationNotFound
	}
	if err != nil {
		return model.Reservation{}, fmt.Errorf("find reservation by id: %w", err)
	}
	return res, nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, room_id, user_id, check_in, check_out, status, total_cents, created_at
		 FROM reservations WHERE user_id = $1 ORDER BY check_in DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	reservations := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.RoomID, &res.UserID, &res.CheckIn, &res.CheckOut,
			&res.Status, &res.TotalCents, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

// Cancel flips status to cancelled; rows are kept, mirroring the soft
// revocation used for refresh tokens.
func (r *ReservationRepository) Cancel(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reservations SET status = 'cancelled' WHERE id = $1 AND status = 'confirmed'`, id)
	if err != nil {
		return fmt.Errorf("cancel reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReservationNotFound
	}
	return nil
}
