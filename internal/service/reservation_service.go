package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hotelhub/internal/event"
	"hotelhub/internal/model"
	"hotelhub/pkg/apierror"
)

const dateLayout = "2006-01-02"

type reservationStore interface {
	CreateBooked(ctx context.Context, res model.Reservation) error
	FindByID(ctx context.Context, id string) (model.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]model.Reservation, error)
	Cancel(ctx context.Context, id string) error
}

type roomFinder interface {
	FindByID(ctx context.Context, id string) (model.Room, error)
}

type ReservationService struct {
	reservations reservationStore
	rooms        roomFinder
	bus          event.Bus
}

func NewReservationService(reservations reservationStore, rooms roomFinder, bus event.Bus) *ReservationService {
	return &ReservationService{reservations: reservations, rooms: rooms, bus: bus}
}

func (s *ReservationService) Create(ctx context.Context, userID string, req model.ReservationRequest, ip string) (model.Reservation, error) {
	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		return model.Reservation{}, apierror.BadRequest("check_in must be YYYY-MM-DD", "check_in")
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		return model.Reservation{}, apierror.BadRequest("check_out must be YYYY-MM-DD", "check_out")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if checkIn.Before(today) {
		return model.Reservation{}, apierror.BadRequest("check_in cannot be in the past", "check_in")
	}
	if !checkOut.After(checkIn) {
		return model.Reservation{}, apierror.BadRequest("check_out must be after check_in", "")
	}

	room, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return model.Reservation{}, err
	}

	nights := int64(checkOut.Sub(checkIn).Hours() / 24)
	res := model.Reservation{
		ID:         uuid.NewString(),
		RoomID:     room.ID,
		UserID:     userID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     model.ReservationConfirmed,
		TotalCents: nights * room.PriceCents,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.reservations.CreateBooked(ctx, res); err != nil {
		return model.Reservation{}, err
	}

	s.publish(event.TypeReservationCreated, userID, ip, res.ID, map[string]any{
		"room_id":   room.ID,
		"check_in":  req.CheckIn,
		"check_out": req.CheckOut,
	})
	return res, nil
}

func (s *ReservationService) ListForUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	return s.reservations.ListByUser(ctx, userID)
}

func (s *ReservationService) Cancel(ctx context.Context, callerID string, reservationID string, ip string) error {
	res, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if res.UserID != callerID {
		return model.ErrForbidden
	}

	if err := s.reservations.Cancel(ctx, reservationID); err != nil {
		return err
	}

	s.publish(event.TypeReservationCancelled, callerID, ip, reservationID, nil)
	return nil
}

func (s *ReservationService) publish(t event.Type, userID string, ip string, resource string, detail map[string]any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		Type:     t,
		ActorID:  userID,
		ActorIP:  ip,
		Resource: resource,
		Detail:   detail,
	})
}
