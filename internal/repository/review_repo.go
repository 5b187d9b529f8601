package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotelhub/internal/model"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func (r *ReviewRepository) ListByHotel(ctx context.Context, hotelID string, page int, limit int) ([]model.Review, model.Meta, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE hotel_id = $1`, hotelID).Scan(&total)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("count reviews: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, hotel_id, user_id, rating, comment, created_at
		 FROM reviews WHERE hotel_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, hotelID, limit, (page-1)*limit)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]model.Review, 0)
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.HotelID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, model.Meta{}, err
	}

	meta := model.Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
	return reviews, meta, nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (model.Review, error) {
	var rv model.Review
	err := r.pool.QueryRow(ctx,
		`SELECT id, hotel_id, user_id, rating, comment, created_at
		 FROM reviews WHERE id = $1`, id).
		Scan(&rv.ID, &rv.HotelID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Review{}, model.ErrReviewNotFound
	}
	if err != nil {
		return model.Review{}, fmt.Errorf("find review by id: %w", err)
	}
	return rv, nil
}

func (r *ReviewRepository) Create(ctx context.Context, rv model.Review) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO reviews (id, hotel_id, user_id, rating, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rv.ID, rv.HotelID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return model.ErrDuplicateReview
	}
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}
