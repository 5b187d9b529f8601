package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	hotelRepo := repository.NewHotelRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	slog.Info("database ready")

	issuer := token.NewIssuer(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)
	bus := event.NewBus()

	authService := service.NewAuthService(userRepo, tokenRepo, issuer, bus)
	hotelService := service.NewHotelService(hotelRepo, roomRepo)
	reservationService := service.NewReservationService(reservationRepo, roomRepo, bus)
	reviewService := service.NewReviewService(reviewRepo, hotelRepo)
	auditService := service.NewAuditService(auditRepo, bus)

	authMiddleware := middleware.NewAuthMiddleware(issuer, tokenRepo, userRepo, bus, cfg.CookieName, cfg.CookieSecure)

	cookieCfg := handler.CookieConfig{
		Name:   cfg.CookieName,
		Secure: cfg.CookieSecure,
		MaxAge: cfg.RefreshTTL,
	}

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:        handler.NewAuthHandler(authService, cookieCfg),
		Hotel:       handler.NewHotelHandler(hotelService),
		Room:        handler.NewRoomHandler(hotelService),
		Reservation: handler.NewReservationHandler(reservationService),
		Review:      handler.NewReviewHandler(reviewService),
		Audit:       handler.NewAuditHandler(auditService),
	})

	backgroundCtx, backgroundCancel := context.WithCancel(context.Background())
	go auditService.Run(backgroundCtx)
	go runTokenCleanup(backgroundCtx, tokenRepo, cfg.TokenCleanupEvery)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			backgroundCancel,
			db.Close,
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		for _, cleanup := range a.cleanupFuncs {
			cleanup()
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}

// runTokenCleanup periodically deletes long-expired refresh rows. The auth
// flow only soft-revokes, so the table grows without this.
func runTokenCleanup(ctx context.Context, tokens *repository.TokenRepository, every time.Duration) {
	if every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := tokens.CleanExpired(ctx)
			if err != nil {
				slog.Warn("refresh token cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("expired refresh tokens removed", "count", removed)
			}
		}
	}
}
