package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-inspection/internal/auth"
	"github.com/ukydev/fleet-inspection/internal/config"
	"github.com/ukydev/fleet-inspection/internal/db"
	"github.com/ukydev/fleet-inspection/internal/handlers"
	"github.com/ukydev/fleet-inspection/internal/metrics"
	"github.com/ukydev/fleet-inspection/internal/middleware"
	"github.com/ukydev/fleet-inspection/internal/models"
	"github.com/ukydev/fleet-inspection/internal/notify"
	"github.com/ukydev/fleet-inspection/internal/validation"
)

// routerDeps are the collaborators the HTTP surface is built from.
type routerDeps struct {
	authService *auth.Service
	users       db.UserCollection
	inspections db.InspectionCollection
	validator   handlers.Validator
	metrics     *metrics.Metrics
	healthCheck func(ctx context.Context) error
	rateLimit   config.RateLimitConfig
}

func newRouter(d routerDeps) http.Handler {
	authMiddleware := middleware.NewAuthMiddleware(d.authService)
	authHandler := handlers.NewAuthHandler(d.authService, d.users)
	inspectionHandler := handlers.NewInspectionHandler(d.inspections, d.validator, d.metrics)

	require := func(action string, h http.HandlerFunc) http.Handler {
		return authMiddleware.RequirePermission(action)(h)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /health", handlers.Health(d.healthCheck))
	mux.Handle("GET /metrics", d.metrics.Handler())

	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("POST /api/auth/register", require(models.PermManageUsers, authHandler.Register))

	mux.Handle("POST /api/inspections", require(models.PermSubmitInspection, inspectionHandler.Submit))
	mux.Handle("GET /api/inspections/{id}", require(models.PermViewInspections, inspectionHandler.Get))
	// The workflow checks the validate capability itself.
	mux.HandleFunc("POST /api/inspections/{id}/validate", inspectionHandler.Validate)
	mux.Handle("GET /api/vehicles/{id}/risk", require(models.PermViewRisk, inspectionHandler.Risk))

	var handler http.Handler = authMiddleware.Authenticate(mux)
	handler = middleware.NewRateLimitMiddleware().RateLimit(d.rateLimit.Requests, d.rateLimit.WindowSeconds)(handler)
	return middleware.RequestLogger(handler)
}

func main() {
	cfg := config.Load()
	cfg.SetupLogging()

	client, err := db.ConnectMongo(cfg.Mongo)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to disconnect from MongoDB")
		}
	}()
	log.WithField("database", cfg.Mongo.Database).Info("Connected to MongoDB")

	database := client.Database(cfg.Mongo.Database)
	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.EnsureIndexes(indexCtx, database); err != nil {
		log.WithError(err).Warn("Failed to ensure indexes")
	}
	cancel()

	authService, err := auth.NewService(cfg.Auth)
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	notifier, closeNotifier, err := notify.New(cfg.Notifier)
	if err != nil {
		log.WithError(err).Fatal("Failed to create notifier")
	}
	defer closeNotifier()

	m := metrics.New()
	inspections := &db.MongoInspectionCollection{Collection: database.Collection(db.InspectionsCollection)}
	interventions := &db.MongoInterventionCollection{Collection: database.Collection(db.InterventionsCollection)}
	users := &db.MongoUserCollection{Collection: database.Collection(db.UsersCollection)}

	router := newRouter(routerDeps{
		authService: authService,
		users:       users,
		inspections: inspections,
		validator:   validation.NewWorkflow(inspections, interventions, notifier, m),
		metrics:     m,
		healthCheck: func(ctx context.Context) error { return client.Ping(ctx, nil) },
		rateLimit:   cfg.RateLimit,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithFields(log.Fields{"port": cfg.Port, "notifier": cfg.Notifier.Backend}).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
