package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelhub/internal/event"
	"hotelhub/internal/model"
	"hotelhub/pkg/apierror"
)

type fakeReservationStore struct {
	reservations map[string]model.Reservation
	bookErr      error
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{reservations: map[string]model.Reservation{}}
}

func (f *fakeReservationStore) CreateBooked(_ context.Context, res model.Reservation) error {
	if f.bookErr != nil {
		return f.bookErr
	}
	f.reservations[res.ID] = res
	return nil
}

func (f *fakeReservationStore) FindByID(_ context.Context, id string) (model.Reservation, error) {
	res, ok := f.reservations[id]
	if !ok {
		return model.Reservation{}, model.ErrReservationNotFound
	}
	return res, nil
}

func (f *fakeReservationStore) ListByUser(_ context.Context, userID string) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, res := range f.reservations {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (f *fakeReservationStore) Cancel(_ context.Context, id string) error {
	res, ok := f.reservations[id]
	if !ok || res.Status != model.ReservationConfirmed {
		return model.ErrReservationNotFound
	}
	res.Status = model.ReservationCancelled
	f.reservations[id] = res
	return nil
}

type fakeRoomFinder struct {
	rooms map[string]model.Room
}

func (f *fakeRoomFinder) FindByID(_ context.Context, id string) (model.Room, error) {
	rm, ok := f.rooms[id]
	if !ok {
		return model.Room{}, model.ErrRoomNotFound
	}
	return rm, nil
}

func newTestReservationService() (*ReservationService, *fakeReservationStore, *fakeRoomFinder) {
	store := newFakeReservationStore()
	rooms := &fakeRoomFinder{rooms: map[string]model.Room{
		"room-1": {ID: "room-1", HotelID: "hotel-1", Name: "Double", Capacity: 2, PriceCents: 12000},
	}}
	return NewReservationService(store, rooms, event.NewBus()), store, rooms
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(dateLayout)
}

func TestReservationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("books and prices by night count", func(t *testing.T) {
		svc, store, _ := newTestReservationService()

		res, err := svc.Create(ctx, "user-1", model.ReservationRequest{
			RoomID:   "room-1",
			CheckIn:  futureDate(1),
			CheckOut: futureDate(4),
		}, "")
		require.NoError(t, err)

		assert.Equal(t, model.ReservationConfirmed, res.Status)
		assert.Equal(t, int64(3*12000), res.TotalCents)
		assert.Equal(t, 3, res.Nights())
		assert.Len(t, store.reservations, 1)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name string
			req  model.ReservationRequest
		}{
			{"bad check_in", model.ReservationRequest{RoomID: "room-1", CheckIn: "03-09-2026", CheckOut: futureDate(4)}},
			{"bad check_out", model.ReservationRequest{RoomID: "room-1", CheckIn: futureDate(1), CheckOut: "soon"}},
			{"check_in in the past", model.ReservationRequest{RoomID: "room-1", CheckIn: futureDate(-2), CheckOut: futureDate(4)}},
			{"zero nights", model.ReservationRequest{RoomID: "room-1", CheckIn: futureDate(3), CheckOut: futureDate(3)}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, store, _ := newTestReservationService()
				_, err := svc.Create(ctx, "user-1", tt.req, "")
				var apiErr *apierror.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, 400, apiErr.HTTPStatus)
				assert.Empty(t, store.reservations)
			})
		}
	})

	t.Run("unknown room", func(t *testing.T) {
		svc, _, _ := newTestReservationService()
		_, err := svc.Create(ctx, "user-1", model.ReservationRequest{
			RoomID:   "missing",
			CheckIn:  futureDate(1),
			CheckOut: futureDate(2),
		}, "")
		assert.ErrorIs(t, err, model.ErrRoomNotFound)
	})

	t.Run("room unavailable propagates", func(t *testing.T) {
		svc, store, _ := newTestReservationService()
		store.bookErr = model.ErrRoomUnavailable

		_, err := svc.Create(ctx, "user-1", model.ReservationRequest{
			RoomID:   "room-1",
			CheckIn:  futureDate(1),
			CheckOut: futureDate(2),
		}, "")
		assert.ErrorIs(t, err, model.ErrRoomUnavailable)
	})
}

func TestReservationService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can cancel", func(t *testing.T) {
		svc, store, _ := newTestReservationService()
		res, err := svc.Create(ctx, "user-1", model.ReservationRequest{
			RoomID:   "room-1",
			CheckIn:  futureDate(1),
			CheckOut: futureDate(2),
		}, "")
		require.NoError(t, err)

		require.NoError(t, svc.Cancel(ctx, "user-1", res.ID, ""))
		assert.Equal(t, model.ReservationCancelled, store.reservations[res.ID].Status)
	})

	t.Run("other users cannot cancel", func(t *testing.T) {
		svc, _, _ := newTestReservationService()
		res, err := svc.Create(ctx, "user-1", model.ReservationRequest{
			RoomID:   "room-1",
			CheckIn:  futureDate(1),
			CheckOut: futureDate(2),
		}, "")
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Cancel(ctx, "user-2", res.ID, ""), model.ErrForbidden)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		svc, _, _ := newTestReservationService()
		assert.ErrorIs(t, svc.Cancel(ctx, "user-1", "missing", ""), model.ErrReservationNotFound)
	})
}
