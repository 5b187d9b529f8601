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

type RoomHandler struct {
	service *service.HotelService
}

func NewRoomHandler(service *service.HotelService) *RoomHandler {
	return &RoomHandler{service: service}
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.ListRooms(r.Context(), chi.URLParam(r, "hotelID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, rooms, nil)
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.RoomRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	room, err := h.service.CreateRoom(r.Context(), claims.UserID, chi.URLParam(r, "hotelID"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, room, nil)
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.RoomRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	room, err := h.service.UpdateRoom(r.Context(), claims.UserID, chi.URLParam(r, "roomID"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, room, nil)
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	if err := h.service.DeleteRoom(r.Context(), claims.UserID, chi.URLParam(r, "roomID")); err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}
