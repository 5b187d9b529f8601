package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotelhub/internal/middleware"
	"hotelhub/internal/model"
	"hotelhub/internal/service"
	"hotelhub/pkg/apierror"
)

type ReviewHandler struct {
	service *service.ReviewService
}

func NewReviewHandler(service *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	reviews, meta, err := h.service.ListForHotel(r.Context(), chi.URLParam(r, "hotelID"),
		parseIntOrDefault(query.Get("page"), 1),
		parseIntOrDefault(query.Get("limit"), 20))
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, reviews, &meta)
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	review, err := h.service.Create(r.Context(), claims.UserID, chi.URLParam(r, "hotelID"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, review, nil)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(r.Context(), claims.UserID, chi.URLParam(r, "reviewID")); err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}
