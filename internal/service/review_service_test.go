package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelhub/internal/model"
	"hotelhub/pkg/apierror"
)

type fakeReviewStore struct {
	reviews   map[string]model.Review
	createErr error
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{reviews: map[string]model.Review{}}
}

func (f *fakeReviewStore) ListByHotel(_ context.Context, hotelID string, page int, limit int) ([]model.Review, model.Meta, error) {
	var out []model.Review
	for _, rv := range f.reviews {
		if rv.HotelID == hotelID {
			out = append(out, rv)
		}
	}
	return out, model.Meta{Total: len(out), Page: page, Limit: limit}, nil
}

func (f *fakeReviewStore) FindByID(_ context.Context, id string) (model.Review, error) {
	rv, ok := f.reviews[id]
	if !ok {
		return model.Review{}, model.ErrReviewNotFound
	}
	return rv, nil
}

func (f *fakeReviewStore) Create(_ context.Context, rv model.Review) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.reviews[rv.ID] = rv
	return nil
}

func (f *fakeReviewStore) Delete(_ context.Context, id string) error {
	delete(f.reviews, id)
	return nil
}

func newTestReviewService() (*ReviewService, *fakeReviewStore, *fakeHotelStore) {
	reviews := newFakeReviewStore()
	hotels := newFakeHotelStore()
	hotels.hotels["hotel-1"] = model.Hotel{ID: "hotel-1", OwnerID: "owner-1", Name: "Hotel Mirador"}
	return NewReviewService(reviews, hotels), reviews, hotels
}

func TestReviewService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, store, _ := newTestReviewService()

		review, err := svc.Create(ctx, "user-1", "hotel-1", model.ReviewRequest{Rating: 5, Comment: "  great stay  "})
		require.NoError(t, err)
		assert.Equal(t, 5, review.Rating)
		assert.Equal(t, "great stay", review.Comment)
		assert.Contains(t, store.reviews, review.ID)
	})

	t.Run("rating out of range", func(t *testing.T) {
		svc, _, _ := newTestReviewService()
		for _, rating := range []int{0, 6, -1} {
			_, err := svc.Create(ctx, "user-1", "hotel-1", model.ReviewRequest{Rating: rating})
			var apiErr *apierror.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, 400, apiErr.HTTPStatus)
		}
	})

	t.Run("unknown hotel", func(t *testing.T) {
		svc, _, _ := newTestReviewService()
		_, err := svc.Create(ctx, "user-1", "missing", model.ReviewRequest{Rating: 4})
		assert.ErrorIs(t, err, model.ErrHotelNotFound)
	})

	t.Run("duplicate review propagates", func(t *testing.T) {
		svc, store, _ := newTestReviewService()
		store.createErr = model.ErrDuplicateReview

		_, err := svc.Create(ctx, "user-1", "hotel-1", model.ReviewRequest{Rating: 4})
		assert.ErrorIs(t, err, model.ErrDuplicateReview)
	})
}

func TestReviewService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestReviewService()

	review, err := svc.Create(ctx, "user-1", "hotel-1", model.ReviewRequest{Rating: 4})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "someone-else", review.ID), model.ErrForbidden)
	assert.Contains(t, store.reviews, review.ID)

	require.NoError(t, svc.Delete(ctx, "user-1", review.ID))
	assert.NotContains(t, store.reviews, review.ID)
}

func TestReviewService_ListForHotel(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestReviewService()

	_, _, err := svc.ListForHotel(ctx, "missing", 1, 20)
	assert.ErrorIs(t, err, model.ErrHotelNotFound)

	_, err = svc.Create(ctx, "user-1", "hotel-1", model.ReviewRequest{Rating: 3})
	require.NoError(t, err)

	reviews, meta, err := svc.ListForHotel(ctx, "hotel-1", 1, 20)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
	assert.Equal(t, 1, meta.Total)
}
