package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotelhub/internal/model"
)

type HotelRepository struct {
	pool *pgxpool.Pool
}

func NewHotelRepository(pool *pgxpool.Pool) *HotelRepository {
	return &HotelRepository{pool: pool}
}

// Search builds the filtered hotel listing. Filters compose with AND; the
// availability window excludes hotels whose every room is booked for the
// requested dates.
func (r *HotelRepository) Search(ctx context.Context, filter model.HotelFilter) ([]model.Hotel, model.Meta, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	where := make([]string, 0)
	args := make([]any, 0)
	argIdx := 1

	if city := strings.TrimSpace(filter.City); city != "" {
		where = append(where, fmt.Sprintf("lower(h.city) = lower($%d)", argIdx))
		args = append(args, city)
		argIdx++
	}
	if country := strings.TrimSpace(filter.Country); country != "" {
		where = append(where, fmt.Sprintf("lower(h.country) = lower($%d)", argIdx))
		args = append(args, country)
		argIdx++
	}
	if filter.Stars > 0 {
		where = append(where, fmt.Sprintf("h.stars >= $%d", argIdx))
		args = append(args, filter.Stars)
		argIdx++
	}
	if filter.MinPriceCents > 0 || filter.MaxPriceCents > 0 {
		priceCond := "TRUE"
		if filter.MinPriceCents > 0 && filter.MaxPriceCents > 0 {
			priceCond = fmt.Sprintf("rm.price_cents BETWEEN $%d AND $%d", argIdx, argIdx+1)
			args = append(args, filter.MinPriceCents, filter.MaxPriceCents)
			argIdx += 2
		} else if filter.MinPriceCents > 0 {
			priceCond = fmt.Sprintf("rm.price_cents >= $%d", argIdx)
			args = append(args, filter.MinPriceCents)
			argIdx++
		} else {
			priceCond = fmt.Sprintf("rm.price_cents <= $%d", argIdx)
			args = append(args, filter.MaxPriceCents)
			argIdx++
		}
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM rooms rm WHERE rm.hotel_id = h.id AND %s)", priceCond))
	}
	if !filter.CheckIn.IsZero() && !filter.CheckOut.IsZero() {
		where = append(where, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM rooms rm
			WHERE rm.hotel_id = h.id
			  AND NOT EXISTS (
				SELECT 1 FROM reservations rs
				WHERE rs.room_id = rm.id
				  AND rs.status = 'confirmed'
				  AND rs.check_in < $%d AND rs.check_out > $%d
			  ))`, argIdx, argIdx+1))
		args = append(args, filter.CheckOut, filter.CheckIn)
		argIdx += 2
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM hotels h` + whereSQL
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count hotels: %w", err)
	}

	listQuery := fmt.Sprintf(
		`SELECT h.id, h.owner_id, h.name, h.description, h.city, h.country, h.address,
		        h.stars, h.photo_url, h.created_at, h.updated_at
		 FROM hotels h%s
		 ORDER BY h.stars DESC, h.name
		 LIMIT $%d OFFSET $%d`, whereSQL, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("search hotels: %w", err)
	}
	defer rows.Close()

	hotels := make([]model.Hotel, 0)
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Description, &h.City, &h.Country,
			&h.Address, &h.Stars, &h.PhotoURL, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan hotel: %w", err)
		}
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, model.Meta{}, err
	}

	meta := model.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}
	return hotels, meta, nil
}

func (r *HotelRepository) FindByID(ctx context.Context, id string) (model.Hotel, error) {
	var h model.Hotel
	err := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, name, description, city, country, address,
		        stars, photo_url, created_at, updated_at
		 FROM hotels WHERE id = $1`, id).
		Scan(&h.ID, &h.OwnerID, &h.Name, &h.Description, &h.City, &h.Country,
			&h.Address, &h.Stars, &h.PhotoURL, &h.CreatedAt, &h.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Hotel{}, model.ErrHotelNotFound
	}
	if err != nil {
		return model.Hotel{}, fmt.Errorf("find hotel by id: %w", err)
	}
	return h, nil
}

func (r *HotelRepository) RatingSummary(ctx context.Context, hotelID string) (float64, int, error) {
	var avg float64
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE hotel_id = $1`,
		hotelID).Scan(&avg, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("hotel rating summary: %w", err)
	}
	return avg, count, nil
}

func (r *HotelRepository) Create(ctx context.Context, h model.Hotel) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO hotels (id, owner_id, name, description, city, country, address,
		                     stars, photo_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		h.ID, h.OwnerID, h.Name, h.Description, h.City, h.Country, h.Address,
		h.Stars, h.PhotoURL, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create hotel: %w", err)
	}
	return nil
}

func (r *HotelRepository) Update(ctx context.Context, h model.Hotel) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE hotels
		 SET name = $2, description = $3, city = $4, country = $5, address = $6,
		     stars = $7, photo_url = $8, updated_at = $9
		 WHERE id = $1`,
		h.ID, h.Name, h.Description, h.City, h.Country, h.Address,
		h.Stars, h.PhotoURL, h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update hotel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrHotelNotFound
	}
	return nil
}

func (r *HotelRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM hotels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete hotel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrHotelNotFound
	}
	return nil
}
