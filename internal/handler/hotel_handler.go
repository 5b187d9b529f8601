package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hotelhub/internal/middleware"
	"hotelhub/internal/model"
	"hotelhub/internal/service"
	"hotelhub/pkg/apierror"
)

type HotelHandler struct {
	service *service.HotelService
}

func NewHotelHandler(service *service.HotelService) *HotelHandler {
	return &HotelHandler{service: service}
}

func (h *HotelHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := model.HotelFilter{
		City:          strings.TrimSpace(query.Get("city")),
		Country:       strings.TrimSpace(query.Get("country")),
		Stars:         parseIntOrDefault(query.Get("stars"), 0),
		MinPriceCents: parseInt64OrDefault(query.Get("minPrice"), 0),
		MaxPriceCents: parseInt64OrDefault(query.Get("maxPrice"), 0),
		Page:          parseIntOrDefault(query.Get("page"), 1),
		Limit:         parseIntOrDefault(query.Get("limit"), 20),
	}

	if raw := strings.TrimSpace(query.Get("checkIn")); raw != "" {
		checkIn, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, apierror.BadRequest("checkIn must be YYYY-MM-DD", "checkIn"))
			return
		}
		filter.CheckIn = checkIn
	}
	if raw := strings.TrimSpace(query.Get("checkOut")); raw != "" {
		checkOut, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, apierror.BadRequest("checkOut must be YYYY-MM-DD", "checkOut"))
			return
		}
		filter.CheckOut = checkOut
	}
	if (filter.CheckIn.IsZero()) != (filter.CheckOut.IsZero()) {
		writeError(w, apierror.BadRequest("checkIn and checkOut must be provided together", ""))
		return
	}

	hotels, meta, err := h.service.Search(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, hotels, &meta)
}

func (h *HotelHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(r.Context(), chi.URLParam(r, "hotelID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, detail, nil)
}

func (h *HotelHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.HotelRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	hotel, err := h.service.Create(r.Context(), claims.UserID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, hotel, nil)
}

func (h *HotelHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.HotelRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	hotel, err := h.service.Update(r.Context(), claims.UserID, chi.URLParam(r, "hotelID"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, hotel, nil)
}

func (h *HotelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(r.Context(), claims.UserID, chi.URLParam(r, "hotelID")); err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func parseInt64OrDefault(raw string, fallback int64) int64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback
	}

	v, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
