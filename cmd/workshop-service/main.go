package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	catalogevents "github.com/fleetworks/fleetworks-backend/internal/catalog/events"
	cataloghandler "github.com/fleetworks/fleetworks-backend/internal/catalog/handler"
	catalogservice "github.com/fleetworks/fleetworks-backend/internal/catalog/service"
	reportevents "github.com/fleetworks/fleetworks-backend/internal/reporting/events"
	reporthandler "github.com/fleetworks/fleetworks-backend/internal/reporting/handler"
	reportservice "github.com/fleetworks/fleetworks-backend/internal/reporting/service"
	"github.com/fleetworks/fleetworks-backend/pkg/config"
	"github.com/fleetworks/fleetworks-backend/pkg/database"
	"github.com/fleetworks/fleetworks-backend/pkg/httputil"
	"github.com/fleetworks/fleetworks-backend/pkg/identity"
	"github.com/fleetworks/fleetworks-backend/pkg/logger"
	"github.com/fleetworks/fleetworks-backend/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("workshop-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("workshop-service", cfg.Server.Environment)
	log.Info().Msg("starting Workshop Service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database and detect schema capabilities once
	db, err := database.New(ctx, &cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ when configured; reporting works without it
	var publisher *messaging.Publisher
	var rmq *messaging.RabbitMQ
	if cfg.RabbitMQ.Enabled() {
		rmq, err = messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		publisher, err = messaging.NewPublisher(rmq, messaging.ExchangeWorkshopEvents, "workshop-service", log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
	} else {
		log.Warn().Msg("no RabbitMQ URL configured; event publishing disabled")
	}

	// Initialize services
	reportSvc := reportservice.NewReportService(db, reportevents.NewReportEventPublisher(publisher), log)
	businessUnitSvc := catalogservice.NewBusinessUnitService(db, catalogevents.NewCatalogEventPublisher(publisher), log)

	// Initialize handlers
	reportHandler := reporthandler.NewReportHandler(reportSvc, log)
	businessUnitHandler := cataloghandler.NewBusinessUnitHandler(businessUnitSvc, log)

	verifier := identity.NewVerifier(&cfg.JWT)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			if origin == "http://localhost:3000" || origin == "http://localhost:5173" {
				return true
			}
			return strings.HasSuffix(origin, ".fleetworks.io")
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(verifier.Middleware)

	// Health check (bypasses auth in the verifier middleware)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := map[string]interface{}{
			"status":   "healthy",
			"service":  "workshop-service",
			"database": db.Health(r.Context()),
		}
		if rmq != nil {
			health["rabbitmq"] = rmq.Health()
		}
		httputil.JSON(w, http.StatusOK, health)
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		reportHandler.RegisterRoutes(r)
		r.Route("/catalog", func(r chi.Router) {
			businessUnitHandler.RegisterRoutes(r)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
