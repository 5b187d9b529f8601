package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"hotelhub/internal/model"
	"hotelhub/pkg/apierror"
)

type hotelStore interface {
	Search(ctx context.Context, filter model.HotelFilter) ([]model.Hotel, model.Meta, error)
	FindByID(ctx context.Context, id string) (model.Hotel, error)
	RatingSummary(ctx context.Context, hotelID string) (float64, int, error)
	Create(ctx context.Context, h model.Hotel) error
	Update(ctx context.Context, h model.Hotel) error
	Delete(ctx context.Context, id string) error
}

type roomStore interface {
	ListByHotel(ctx context.Context, hotelID string) ([]model.Room, error)
	FindByID(ctx context.Context, id string) (model.Room, error)
	Create(ctx context.Context, rm model.Room) error
	Update(ctx context.Context, rm model.Room) error
	Delete(ctx context.Context, id string) error
}

type HotelService struct {
	hotels hotelStore
	rooms  roomStore
}

func NewHotelService(hotels hotelStore, rooms roomStore) *HotelService {
	return &HotelService{hotels: hotels, rooms: rooms}
}

func (s *HotelService) Search(ctx context.Context, filter model.HotelFilter) ([]model.Hotel, model.Meta, error) {
	return s.hotels.Search(ctx, filter)
}

func (s *HotelService) Get(ctx context.Context, hotelID string) (model.HotelDetail, error) {
	hotel, err := s.hotels.FindByID(ctx, hotelID)
	if err != nil {
		return model.HotelDetail{}, err
	}

	rooms, err := s.rooms.ListByHotel(ctx, hotelID)
	if err != nil {
		return model.HotelDetail{}, err
	}

	avg, count, err := s.hotels.RatingSummary(ctx, hotelID)
	if err != nil {
		return model.HotelDetail{}, err
	}

	return model.HotelDetail{
		Hotel:         hotel,
		Rooms:         rooms,
		AverageRating: avg,
		ReviewCount:   count,
	}, nil
}

func (s *HotelService) Create(ctx context.Context, ownerID string, req model.HotelRequest) (model.Hotel, error) {
	if err := validateHotelRequest(req); err != nil {
		return model.Hotel{}, err
	}

	now := time.Now().UTC()
	hotel := model.Hotel{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		City:        strings.TrimSpace(req.City),
		Country:     strings.TrimSpace(req.Country),
		Address:     strings.TrimSpace(req.Address),
		Stars:       req.Stars,
		PhotoURL:    strings.TrimSpace(req.PhotoURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.hotels.Create(ctx, hotel); err != nil {
		return model.Hotel{}, err
	}
	return hotel, nil
}

func (s *HotelService) Update(ctx context.Context, callerID string, hotelID string, req model.HotelRequest) (model.Hotel, error) {
	if err := validateHotelRequest(req); err != nil {
		return model.Hotel{}, err
	}

	hotel, err := s.ownedHotel(ctx, callerID, hotelID)
	if err != nil {
		return model.Hotel{}, err
	}

	hotel.Name = strings.TrimSpace(req.Name)
	hotel.Description = strings.TrimSpace(req.Description)
	hotel.City = strings.TrimSpace(req.City)
	hotel.Country = strings.TrimSpace(req.Country)
	hotel.Address = strings.TrimSpace(req.Address)
	hotel.Stars = req.Stars
	hotel.PhotoURL = strings.TrimSpace(req.PhotoURL)
	hotel.UpdatedAt = time.Now().UTC()

	if err := s.hotels.Update(ctx, hotel); err != nil {
		return model.Hotel{}, err
	}
	return hotel, nil
}

func (s *HotelService) Delete(ctx context.Context, callerID string, hotelID string) error {
	if _, err := s.ownedHotel(ctx, callerID, hotelID); err != nil {
		return err
	}
	return s.hotels.Delete(ctx, hotelID)
}

func (s *HotelService) ListRooms(ctx context.Context, hotelID string) ([]model.Room, error) {
	if _, err := s.hotels.FindByID(ctx, hotelID); err != nil {
		return nil, err
	}
	return s.rooms.ListByHotel(ctx, hotelID)
}

func (s *HotelService) CreateRoom(ctx context.Context, callerID string, hotelID string, req model.RoomRequest) (model.Room, error) {
	if err := validateRoomRequest(req); err != nil {
		return model.Room{}, err
	}

	if _, err := s.ownedHotel(ctx, callerID, hotelID); err != nil {
		return model.Room{}, err
	}

	room := model.Room{
		ID:          uuid.NewString(),
		HotelID:     hotelID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Capacity:    req.Capacity,
		PriceCents:  req.PriceCents,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		return model.Room{}, err
	}
	return room, nil
}

func (s *HotelService) UpdateRoom(ctx context.Context, callerID string, roomID string, req model.RoomRequest) (model.Room, error) {
	if err := validateRoomRequest(req); err != nil {
		return model.Room{}, err
	}

	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return model.Room{}, err
	}
	if _, err := s.ownedHotel(ctx, callerID, room.HotelID); err != nil {
		return model.Room{}, err
	}

	room.Name = strings.TrimSpace(req.Name)
	room.Description = strings.TrimSpace(req.Description)
	room.Capacity = req.Capacity
	room.PriceCents = req.PriceCents

	if err := s.rooms.Update(ctx, room); err != nil {
		return model.Room{}, err
	}
	return room, nil
}

func (s *HotelService) DeleteRoom(ctx context.Context, callerID string, roomID string) error {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return err
	}
	if _, err := s.ownedHotel(ctx, callerID, room.HotelID); err != nil {
		return err
	}
	return s.rooms.Delete(ctx, roomID)
}

func (s *HotelService) ownedHotel(ctx context.Context, callerID string, hotelID string) (model.Hotel, error) {
	hotel, err := s.hotels.FindByID(ctx, hotelID)
	if err != nil {
		return model.Hotel{}, err
	}
	if hotel.OwnerID != callerID {
		return model.Hotel{}, model.ErrForbidden
	}
	return hotel, nil
}

func validateHotelRequest(req model.HotelRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apierror.BadRequest("hotel name is required", "name")
	}
	if strings.TrimSpace(req.City) == "" || strings.TrimSpace(req.Country) == "" {
		return apierror.BadRequest("city and country are required", "")
	}
	if req.Stars < 0 || req.Stars > 5 {
		return apierror.BadRequest("stars must be between 0 and 5", "stars")
	}
	return nil
}

func validateRoomRequest(req model.RoomRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apierror.BadRequest("room name is required", "name")
	}
	if req.Capacity <= 0 {
		return apierror.BadRequest("capacity must be positive", "capacity")
	}
	if req.PriceCents < 0 {
		return apierror.BadRequest("price cannot be negative", "price_cents")
	}
	return nil
}
