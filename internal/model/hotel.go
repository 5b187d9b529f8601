package model

import "time"

type Hotel struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Address     string    `json:"address"`
	Stars       int       `json:"stars"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Room struct {
	ID          string    `json:"id"`
	HotelID     string    `json:"hotel_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Capacity    int       `json:"capacity"`
	PriceCents  int64     `json:"price_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

// HotelDetail is the GET /api/hotels/{id} projection: the hotel plus its
// rooms and the aggregate review rating.
type HotelDetail struct {
	Hotel
	Rooms         []Room  `json:"rooms"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// HotelFilter drives the search query. Zero values mean "no filter".
type HotelFilter struct {
	City          string
	Country       string
	Stars         int
	MinPriceCents int64
	MaxPriceCents int64
	CheckIn       time.Time
	CheckOut      time.Time
	Page          int
	Limit         int
}
