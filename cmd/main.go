// @title Events Management API
// @version 1.0
// @description Events management backend: accounts, events and attendee registration with email notifications
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	_ "ATRAX_BACK-END/docs" // This is required for swagger
	"ATRAX_BACK-END/internal/config"
	"ATRAX_BACK-END/internal/handlers"
	"ATRAX_BACK-END/internal/middleware"
	"ATRAX_BACK-END/internal/notify"
	"ATRAX_BACK-END/internal/routes"
	"ATRAX_BACK-END/internal/services"
	"ATRAX_BACK-END/internal/store"
	"ATRAX_BACK-END/internal/store/memory"
	"ATRAX_BACK-END/internal/store/mongo"
	"ATRAX_BACK-END/internal/store/postgres"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	configureLogger(logger, cfg.Log)

	ctx := context.Background()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to open %s store: %v", cfg.Store.Driver, err)
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			logger.WithError(err).Warn("store close failed")
		}
	}()

	sender, err := notify.NewSender(cfg.Email, logger)
	if err != nil {
		logger.Fatalf("Failed to configure email provider: %v", err)
	}
	dispatcher := notify.NewDispatcher(sender, notify.DispatcherConfig{
		Workers:     cfg.Notify.Workers,
		QueueSize:   cfg.Notify.QueueSize,
		SendTimeout: cfg.Notify.SendTimeout,
	}, logger)

	// --- Services ---
	tokens := middleware.NewJWTService(cfg.JWT)
	creds := services.NewCredentials(st)
	authService := services.NewAuthService(creds, tokens, dispatcher, logger)
	eventService := services.NewEventService(st, st, dispatcher, logger)

	// --- HTTP Handlers ---
	router := routes.SetupRoutes(routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService, logger),
		Events: handlers.NewEventsHandler(eventService, logger),
		Health: handlers.NewHealthHandler(st, cfg.Store.Driver),
	}, tokens, middleware.NewRateLimiter(cfg.Auth.RequestsPerSecond, cfg.Auth.Burst))

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	handler := middleware.RequestLogger(logger)(c.Handler(router))

	// --- HTTP Server + Graceful Shutdown ---
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":     cfg.Server.Port,
			"store":    cfg.Store.Driver,
			"provider": cfg.Email.Provider,
		}).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("ListenAndServe: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown error")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.WithError(err).Warn("notification dispatcher did not drain")
	}
	sent, failed, dropped := dispatcher.Stats()
	logger.WithFields(logrus.Fields{
		"sent":    sent,
		"failed":  failed,
		"dropped": dropped,
	}).Info("Server stopped")
}

func configureLogger(logger *logrus.Logger, cfg config.LogConfig) {
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (store.Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return postgres.New(connectCtx, cfg, logger)
	case config.DriverMongo:
		return mongo.New(connectCtx, cfg.Mongo, logger)
	case config.DriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
