package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/abdularham/clinic-api/config"
	adminHandler "github.com/abdularham/clinic-api/internal/handler/admin"
	doctorHandler "github.com/abdularham/clinic-api/internal/handler/doctor"
	patientHandler "github.com/abdularham/clinic-api/internal/handler/patient"
	"github.com/abdularham/clinic-api/internal/middleware"
	"github.com/abdularham/clinic-api/internal/repository/postgres"
	"github.com/abdularham/clinic-api/internal/router"
	auditService "github.com/abdularham/clinic-api/internal/service/audit"
	identityService "github.com/abdularham/clinic-api/internal/service/identity"
	schedulingService "github.com/abdularham/clinic-api/internal/service/scheduling"
	"github.com/abdularham/clinic-api/pkg/auditlog"
	"github.com/abdularham/clinic-api/pkg/auth"
	"github.com/abdularham/clinic-api/pkg/logger"
	"github.com/abdularham/clinic-api/pkg/security"
)

func main() {
	log := logger.New(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	if err := postgres.Bootstrap(context.Background(), db, hasher); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap database")
	}

	adminRepo := postgres.NewAdminRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	visitRepo := postgres.NewVisitRepository(db)
	examRepo := postgres.NewExamRepository(db)

	tokens := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	sink, err := auditlog.NewRedisSink(auditlog.Config{URL: cfg.Redis.URL, Key: cfg.Audit.Key})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer sink.Close()

	identitySvc := identityService.NewService(adminRepo, doctorRepo, patientRepo, hasher, tokens, log)
	schedulingSvc := schedulingService.NewService(appointmentRepo, visitRepo, examRepo, doctorRepo, patientRepo, log)
	auditSvc := auditService.NewService(sink, cfg.Audit.Buffer, log)
	defer auditSvc.Close()

	guard := middleware.NewAccessGuard(tokens, log)

	r := router.NewRouter(
		cfg,
		guard,
		adminHandler.NewHandler(identitySvc, schedulingSvc, auditSvc),
		doctorHandler.NewHandler(identitySvc, schedulingSvc, auditSvc),
		patientHandler.NewHandler(identitySvc, schedulingSvc, auditSvc),
		log,
	)

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
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
