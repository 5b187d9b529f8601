package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"hotelhub/internal/model"
	"hotelhub/pkg/apierror"
)

func writeData(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{Data: data, Meta: meta})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "unexpected server error"

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		message = apiErr.Message
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		message = "user not found"
	} else if errors.Is(err, model.ErrEmailInUse) {
		status = http.StatusBadRequest
		message = "email already in use"
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		status = http.StatusForbidden
		message = "invalid credentials"
	} else if errors.Is(err, model.ErrUnauthorized) {
		status = http.StatusUnauthorized
		message = "authentication required"
	} else if errors.Is(err, model.ErrForbidden) {
		status = http.StatusForbidden
		message = "access denied"
	} else if errors.Is(err, model.ErrTokenNotFound) ||
		errors.Is(err, model.ErrTokenExpired) ||
		errors.Is(err, model.ErrTokenRevoked) {
		status = http.StatusUnauthorized
		message = "invalid or expired token"
	} else if errors.Is(err, model.ErrHotelNotFound) {
		status = http.StatusNotFound
		message = "hotel not found"
	} else if errors.Is(err, model.ErrRoomNotFound) {
		status = http.StatusNotFound
		message = "room not found"
	} else if errors.Is(err, model.ErrReservationNotFound) {
		status = http.StatusNotFound
		message = "reservation not found"
	} else if errors.Is(err, model.ErrReviewNotFound) {
		status = http.StatusNotFound
		message = "review not found"
	} else if errors.Is(err, model.ErrRoomUnavailable) {
		status = http.StatusConflict
		message = "room unavailable for the requested dates"
	} else if errors.Is(err, model.ErrDuplicateReview) {
		status = http.StatusConflict
		message = "review already exists for this hotel"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		message = "invalid input"
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{Error: message})
}

func parseIntOrDefault(raw string, fallback int) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback
	}

	v, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return v
}
