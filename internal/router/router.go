package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotelhub/internal/config"
	"hotelhub/internal/handler"
	"hotelhub/internal/middleware"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	Hotel       *handler.HotelHandler
	Room        *handler.RoomHandler
	Reservation *handler.ReservationHandler
	Review      *handler.ReviewHandler
	Audit       *handler.AuditHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/users", func(users chi.Router) {
			users.Post("/register", h.Auth.Register)
			users.Post("/login", h.Auth.Login)
			users.Delete("/logout", h.Auth.Logout)
			users.Get("/refresh-token", h.Auth.RefreshToken)
			users.With(authMiddleware.RequireAuth).Get("/name", h.Auth.Name)
			users.With(authMiddleware.RequireAuth).Put("/password", h.Auth.ChangePassword)
			users.With(authMiddleware.RequireAuth).Delete("/", h.Auth.DeleteAccount)
		})

		api.Route("/hotels", func(hotels chi.Router) {
			hotels.Get("/", h.Hotel.Search)
			hotels.Get("/{hotelID}", h.Hotel.Get)
			hotels.Get("/{hotelID}/rooms", h.Room.List)
			hotels.Get("/{hotelID}/reviews", h.Review.List)

			hotels.With(authMiddleware.RequireAuth).Post("/", h.Hotel.Create)
			hotels.With(authMiddleware.RequireAuth).Put("/{hotelID}", h.Hotel.Update)
			hotels.With(authMiddleware.RequireAuth).Delete("/{hotelID}", h.Hotel.Delete)
			hotels.With(authMiddleware.RequireAuth).Post("/{hotelID}/rooms", h.Room.Create)
			hotels.With(authMiddleware.RequireAuth).Post("/{hotelID}/reviews", h.Review.Create)
		})

		api.With(authMiddleware.RequireAuth).Put("/rooms/{roomID}", h.Room.Update)
		api.With(authMiddleware.RequireAuth).Delete("/rooms/{roomID}", h.Room.Delete)

		api.Route("/reservations", func(reservations chi.Router) {
			reservations.Use(authMiddleware.RequireAuth)
			reservations.Post("/", h.Reservation.Create)
			reservations.Get("/", h.Reservation.List)
			reservations.Delete("/{reservationID}", h.Reservation.Cancel)
		})

		api.With(authMiddleware.RequireAuth).Delete("/reviews/{reviewID}", h.Review.Delete)
		api.With(authMiddleware.RequireAuth, authMiddleware.RequireRole("admin")).Get("/audit", h.Audit.List)
	})

	return r
}
