//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hotelhub/internal/config"
	"hotelhub/internal/database"
	"hotelhub/internal/event"
	"hotelhub/internal/handler"
	"hotelhub/internal/middleware"
	"hotelhub/internal/repository"
	"hotelhub/internal/router"
	"hotelhub/internal/service"
	"hotelhub/internal/token"
)

const cookieName = "refresh_token"

// newTestServer wires the full stack against the database named by
// TEST_DATABASE_URL and truncates all tables first. Tests are skipped when
// the variable is unset.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, databaseURL, 5, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))
	_, err = db.Pool.Exec(ctx,
		`TRUNCATE users, passwords, refresh_tokens, hotels, rooms, reservations, reviews, audit_entries CASCADE`)
	require.NoError(t, err)

	cfg := &config.Config{
		ServerPort:       "0",
		RequestTimeout:   30 * time.Second,
		DatabaseURL:      databaseURL,
		AccessSecret:     "Acc3ss-Secret!",
		RefreshSecret:    "R3fresh-Secret!",
		AccessTTL:        15 * time.Minute,
		RefreshTTL:       3 * time.Hour,
		CookieName:       cookieName,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
		Environment:      "development",
	}

	userRepo := repository.NewUserRepository(db.Pool)
	tokenRepo := repository.NewTokenRepository(db.Pool)
	hotelRepo := repository.NewHotelRepository(db.Pool)
	roomRepo := repository.NewRoomRepository(db.Pool)
	reservationRepo := repository.NewReservationRepository(db.Pool)
	reviewRepo := repository.NewReviewRepository(db.Pool)
	auditRepo := repository.NewAuditRepository(db.Pool)

	issuer := token.NewIssuer(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	bus := event.NewBus()

	authService := service.NewAuthService(userRepo, tokenRepo, issuer, bus)
	hotelService := service.NewHotelService(hotelRepo, roomRepo)
	reservationService := service.NewReservationService(reservationRepo, roomRepo, bus)
	reviewService := service.NewReviewService(reviewRepo, hotelRepo)
	auditService := service.NewAuditService(auditRepo, bus)

	auditCtx, cancelAudit := context.WithCancel(context.Background())
	go auditService.Run(auditCtx)
	t.Cleanup(cancelAudit)

	authMiddleware := middleware.NewAuthMiddleware(issuer, tokenRepo, userRepo, bus, cfg.CookieName, cfg.CookieSecure)
	cookieCfg := handler.CookieConfig{Name: cfg.CookieName, Secure: cfg.CookieSecure, MaxAge: cfg.RefreshTTL}

	server := httptest.NewServer(router.New(cfg, authMiddleware, router.Handlers{
		Auth:        handler.NewAuthHandler(authService, cookieCfg),
		Hotel:       handler.NewHotelHandler(hotelService),
		Room:        handler.NewRoomHandler(hotelService),
		Reservation: handler.NewReservationHandler(reservationService),
		Review:      handler.NewReviewHandler(reviewService),
		Audit:       handler.NewAuditHandler(auditService),
	}))
	t.Cleanup(server.Close)

	return server
}

type session struct {
	accessToken   string
	refreshCookie *http.Cookie
}

func registerUser(t *testing.T, server *httptest.Server, email string) session {
	t.Helper()

	payload := map[string]string{
		"email":    email,
		"password": "correct-horse",
		"fname":    "Ana",
		"lname":    "Martinez",
	}
	resp := postJSON(t, server, "/api/users/register", payload, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var parsed struct {
		Data struct {
			AccessToken string `json:"accessToken"`
			FirstName   string `json:"fname"`
			LastName    string `json:"lname"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.NotEmpty(t, parsed.Data.AccessToken)

	refresh := findCookie(resp, cookieName)
	require.NotNil(t, refresh, "register must set the refresh cookie")

	return session{accessToken: parsed.Data.AccessToken, refreshCookie: refresh}
}

func postJSON(t *testing.T, server *httptest.Server, path string, payload any, s *session) *http.Response {
	t.Helper()
	return doJSON(t, server, http.MethodPost, path, payload, s)
}

func doJSON(t *testing.T, server *httptest.Server, method string, path string, payload any, s *session) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s != nil {
		req.Header.Set("Authorization", "Bearer "+s.accessToken)
		req.AddCookie(s.refreshCookie)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeData(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Empty(t, envelope.Error)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
