package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medbook/booking-api/internal/config"
	"github.com/medbook/booking-api/internal/handler"
	appointmentHandler "github.com/medbook/booking-api/internal/handler/appointment"
	doctorProfileHandler "github.com/medbook/booking-api/internal/handler/doctorprofile"
	timeSlotHandler "github.com/medbook/booking-api/internal/handler/timeslot"
	userHandler "github.com/medbook/booking-api/internal/handler/user"
	"github.com/medbook/booking-api/internal/middleware"
	"github.com/medbook/booking-api/internal/repository/postgres"
	"github.com/medbook/booking-api/internal/router"
	appointmentService "github.com/medbook/booking-api/internal/service/appointment"
	doctorProfileService "github.com/medbook/booking-api/internal/service/doctorprofile"
	eventService "github.com/medbook/booking-api/internal/service/event"
	timeSlotService "github.com/medbook/booking-api/internal/service/timeslot"
	userService "github.com/medbook/booking-api/internal/service/user"
	"github.com/medbook/booking-api/pkg/auth"
	"github.com/medbook/booking-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewDoctorProfileRepository(db)
	timeSlotRepo := postgres.NewTimeSlotRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	txm := postgres.NewTxManager(db)

	// Shared services
	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:             cfg.JWT.Secret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		ExpiryHours:        cfg.JWT.ExpiryHours,
		RefreshExpiryHours: cfg.JWT.RefreshExpiryHours,
	})
	eventSvc := eventService.NewService(outboxRepo)

	// Domain services
	userSvc := userService.NewService(userRepo, profileRepo, appointmentRepo, hasher, jwtSvc, txm, eventSvc)
	profileSvc := doctorProfileService.NewService(profileRepo, userRepo, timeSlotRepo, appointmentRepo, txm)
	timeSlotSvc := timeSlotService.NewService(timeSlotRepo, profileRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, userRepo, profileRepo, txm, eventSvc)

	// Handlers
	h := handler.NewHandler(db)
	userH := userHandler.NewHandler(userSvc)
	profileH := doctorProfileHandler.NewHandler(profileSvc)
	timeSlotH := timeSlotHandler.NewHandler(timeSlotSvc)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc)

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Security.AllowedOrigins
	}

	routerCfg := router.Config{
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSConfig:     corsCfg,
		MetricsPrefix:  "booking_api",
	}
	if cfg.RateLimit.Enabled {
		routerCfg.RateLimitRPS = cfg.RateLimit.RequestsPerSecond
		routerCfg.RateLimitBurst = cfg.RateLimit.Burst
	}

	r := router.NewRouter(h, userH, profileH, timeSlotH, appointmentH, routerCfg)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
