package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotel-ops-backend/config"
	"hotel-ops-backend/controllers"
	"hotel-ops-backend/hyperpay"
	"hotel-ops-backend/metrics"
	"hotel-ops-backend/realtime"
	"hotel-ops-backend/routes"
	"hotel-ops-backend/services"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, using environment")
	}
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	metrics.Register()

	hub := realtime.NewHub(cfg.RedisAddr, log)
	defer hub.Close()

	gateway := hyperpay.New(hyperpay.Config{
		BaseURL:     cfg.HyperPayBaseURL,
		AccessToken: cfg.HyperPayAccessToken,
		EntityIDAED: cfg.HyperPayEntityIDAED,
		EntityIDUSD: cfg.HyperPayEntityIDUSD,
		Mode:        cfg.HyperPayMode,
		Timeout:     cfg.HyperPayTimeout,
	}, log)

	notifications := services.NewNotificationService(db, hub)
	orders := services.NewOrderService(db, hub, notifications)
	payments := services.NewPaymentService(db, gateway, orders, hub)
	guests := services.NewGuestService(db, hub)
	rooms := services.NewRoomService(db, hub, notifications)
	menu := services.NewMenuService(db, hub)
	requests := services.NewServiceRequestService(db, hub)
	feedback := services.NewFeedbackService(db)
	staff := services.NewStaffService(db)

	ctrl := routes.Controllers{
		Auth:            controllers.NewAuthController(staff, cfg.JWTSecret),
		Guests:          controllers.NewGuestController(guests, cfg.JWTSecret),
		Rooms:           controllers.NewRoomController(rooms),
		Menu:            controllers.NewMenuController(menu),
		Orders:          controllers.NewOrderController(orders),
		Payments:        controllers.NewPaymentController(payments, cfg.HyperPayWebhookSecret, cfg.HyperPayBaseURL, log),
		ServiceRequests: controllers.NewServiceRequestController(requests),
		Feedback:        controllers.NewFeedbackController(feedback),
		Staff:           controllers.NewStaffController(staff),
		Notifications:   controllers.NewNotificationController(notifications),
	}

	router := routes.Setup(cfg, db, hub, ctrl, log)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go services.NewCleanupService(db, log).Run(sweepCtx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
