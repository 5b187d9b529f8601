package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelhub/internal/model"
	"hotelhub/pkg/apierror"
)

type fakeHotelStore struct {
	hotels  map[string]model.Hotel
	ratings map[string]struct {
		avg   float64
		count int
	}
}

func newFakeHotelStore() *fakeHotelStore {
	return &fakeHotelStore{
		hotels: map[string]model.Hotel{},
		ratings: map[string]struct {
			avg   float64
			count int
		}{},
	}
}

func (f *fakeHotelStore) Search(_ context.Context, _ model.HotelFilter) ([]model.Hotel, model.Meta, error) {
	out := make([]model.Hotel, 0, len(f.hotels))
	for _, h := range f.hotels {
		out = append(out, h)
	}
	return out, model.Meta{Total: len(out), Page: 1, Limit: 20}, nil
}

func (f *fakeHotelStore) FindByID(_ context.Context, id string) (model.Hotel, error) {
	h, ok := f.hotels[id]
	if !ok {
		return model.Hotel{}, model.ErrHotelNotFound
	}
	return h, nil
}

func (f *fakeHotelStore) RatingSummary(_ context.Context, hotelID string) (float64, int, error) {
	r := f.ratings[hotelID]
	return r.avg, r.count, nil
}

func (f *fakeHotelStore) Create(_ context.Context, h model.Hotel) error {
	f.hotels[h.ID] = h
	return nil
}

func (f *fakeHotelStore) Update(_ context.Context, h model.Hotel) error {
	f.hotels[h.ID] = h
	return nil
}

func (f *fakeHotelStore) Delete(_ context.Context, id string) error {
	delete(f.hotels, id)
	return nil
}

type fakeRoomStore struct {
	rooms map[string]model.Room
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{rooms: map[string]model.Room{}}
}

func (f *fakeRoomStore) ListByHotel(_ context.Context, hotelID string) ([]model.Room, error) {
	var out []model.Room
	for _, rm := range f.rooms {
		if rm.HotelID == hotelID {
			out = append(out, rm)
		}
	}
	return out, nil
}

func (f *fakeRoomStore) FindByID(_ context.Context, id string) (model.Room, error) {
	rm, ok := f.rooms[id]
	if !ok {
		return model.Room{}, model.ErrRoomNotFound
	}
	return rm, nil
}

func (f *fakeRoomStore) Create(_ context.Context, rm model.Room) error {
	f.rooms[rm.ID] = rm
	return nil
}

func (f *fakeRoomStore) Update(_ context.Context, rm model.Room) error {
	f.rooms[rm.ID] = rm
	return nil
}

func (f *fakeRoomStore) Delete(_ context.Context, id string) error {
	delete(f.rooms, id)
	return nil
}

func newTestHotelService() (*HotelService, *fakeHotelStore, *fakeRoomStore) {
	hotels := newFakeHotelStore()
	rooms := newFakeRoomStore()
	return NewHotelService(hotels, rooms), hotels, rooms
}

func validHotelRequest() model.HotelRequest {
	return model.HotelRequest{
		Name:    "Hotel Mirador",
		City:    "Valencia",
		Country: "Spain",
		Stars:   4,
	}
}

func TestHotelService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, hotels, _ := newTestHotelService()

		hotel, err := svc.Create(ctx, "owner-1", validHotelRequest())
		require.NoError(t, err)
		assert.Equal(t, "owner-1", hotel.OwnerID)
		assert.Contains(t, hotels.hotels, hotel.ID)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*model.HotelRequest)
		}{
			{"missing name", func(r *model.HotelRequest) { r.Name = " " }},
			{"missing city", func(r *model.HotelRequest) { r.City = "" }},
			{"missing country", func(r *model.HotelRequest) { r.Country = "" }},
			{"stars out of range", func(r *model.HotelRequest) { r.Stars = 6 }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, _, _ := newTestHotelService()
				req := validHotelRequest()
				tt.mutate(&req)

				_, err := svc.Create(ctx, "owner-1", req)
				var apiErr *apierror.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, 400, apiErr.HTTPStatus)
			})
		}
	})
}

func TestHotelService_Ownership(t *testing.T) {
	ctx := context.Background()

	t.Run("update by non-owner forbidden", func(t *testing.T) {
		svc, _, _ := newTestHotelService()
		hotel, err := svc.Create(ctx, "owner-1", validHotelRequest())
		require.NoError(t, err)

		_, err = svc.Update(ctx, "intruder", hotel.ID, validHotelRequest())
		assert.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("delete by non-owner forbidden", func(t *testing.T) {
		svc, hotels, _ := newTestHotelService()
		hotel, err := svc.Create(ctx, "owner-1", validHotelRequest())
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Delete(ctx, "intruder", hotel.ID), model.ErrForbidden)
		assert.Contains(t, hotels.hotels, hotel.ID)
	})

	t.Run("room create requires hotel ownership", func(t *testing.T) {
		svc, _, _ := newTestHotelService()
		hotel, err := svc.Create(ctx, "owner-1", validHotelRequest())
		require.NoError(t, err)

		req := model.RoomRequest{Name: "Suite", Capacity: 2, PriceCents: 20000}
		_, err = svc.CreateRoom(ctx, "intruder", hotel.ID, req)
		assert.ErrorIs(t, err, model.ErrForbidden)

		room, err := svc.CreateRoom(ctx, "owner-1", hotel.ID, req)
		require.NoError(t, err)
		assert.Equal(t, hotel.ID, room.HotelID)
	})
}

func TestHotelService_Get(t *testing.T) {
	ctx := context.Background()
	svc, hotels, rooms := newTestHotelService()

	hotel, err := svc.Create(ctx, "owner-1", validHotelRequest())
	require.NoError(t, err)
	require.NoError(t, rooms.Create(ctx, model.Room{ID: "room-1", HotelID: hotel.ID, Name: "Double"}))
	hotels.ratings[hotel.ID] = struct {
		avg   float64
		count int
	}{avg: 4.5, count: 12}

	detail, err := svc.Get(ctx, hotel.ID)
	require.NoError(t, err)
	assert.Equal(t, hotel.ID, detail.ID)
	assert.Len(t, detail.Rooms, 1)
	assert.Equal(t, 4.5, detail.AverageRating)
	assert.Equal(t, 12, detail.ReviewCount)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrHotelNotFound)
}
