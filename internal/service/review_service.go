package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"hotelhub/internal/model"
	"hotelhub/pkg/apierror"
)

type reviewStore interface {
	ListByHotel(ctx context.Context, hotelID string, page int, limit int) ([]model.Review, model.Meta, error)
	FindByID(ctx context.Context, id string) (model.Review, error)
	Create(ctx context.Context, rv model.Review) error
	Delete(ctx context.Context, id string) error
}

type hotelFinder interface {
	FindByID(ctx context.Context, id string) (model.Hotel, error)
}

type ReviewService struct {
	reviews reviewStore
	hotels  hotelFinder
}

func NewReviewService(reviews reviewStore, hotels hotelFinder) *ReviewService {
	return &ReviewService{reviews: reviews, hotels: hotels}
}

func (s *ReviewService) ListForHotel(ctx context.Context, hotelID string, page int, limit int) ([]model.Review, model.Meta, error) {
	if _, err := s.hotels.FindByID(ctx, hotelID); err != nil {
		return nil, model.Meta{}, err
	}
	return s.reviews.ListByHotel(ctx, hotelID, page, limit)
}

func (s *ReviewService) Create(ctx context.Context, userID string, hotelID string, req model.ReviewRequest) (model.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return model.Review{}, apierror.BadRequest("rating must be between 1 and 5", "rating")
	}

	if _, err := s.hotels.FindByID(ctx, hotelID); err != nil {
		return model.Review{}, err
	}

	review := model.Review{
		ID:        uuid.NewString(),
		HotelID:   hotelID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return model.Review{}, err
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, callerID string, reviewID string) error {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != callerID {
		return model.ErrForbidden
	}
	return s.reviews.Delete(ctx, reviewID)
}
