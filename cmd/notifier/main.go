package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	httpAdapter "github.com/avelin/estate-notify/internal/adapters/primary/http"
	mw "github.com/avelin/estate-notify/internal/adapters/primary/http/middleware"
	"github.com/avelin/estate-notify/internal/adapters/primary/stream"
	"github.com/avelin/estate-notify/internal/adapters/secondary/effects"
	"github.com/avelin/estate-notify/internal/adapters/secondary/restapi"
	"github.com/avelin/estate-notify/internal/auth"
	"github.com/avelin/estate-notify/internal/config"
	"github.com/avelin/estate-notify/internal/core/ports"
	"github.com/avelin/estate-notify/internal/core/services"
	"github.com/avelin/estate-notify/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting notification client",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Inspect the session credential
	claims, err := auth.Inspect(cfg.Session.Token)
	if err != nil {
		logger.Error("session credential rejected", "error", err)
		os.Exit(1)
	}
	logger = logger.With("user_id", claims.UserID.String())

	// 4. Delivery pipeline (Core)
	dedup := services.NewDedupFilter(cfg.Notifications.DedupCapacity)
	history := services.NewHistoryBuffer(cfg.Notifications.HistoryCapacity)
	policies := services.NewPolicyResolver()

	// 5. Side-Effect Executors (Secondary Adapters)
	toasts := effects.NewToastPresenter(logger)
	gate := effects.NewPermissionGate(effects.ParsePermissionState(cfg.Notifications.OSPermission), logger)
	osNotifier := effects.NewOSNotifier(gate, cfg.Notifications.IconPath, logger)
	cues := effects.NewCuePlayer(
		[]effects.CueStrategy{
			effects.NewAssetCue(cfg.Notifications.CuePath),
			effects.NewToneCue(),
		},
		cfg.Notifications.SoundEnabled,
		logger,
	)

	dispatcher := services.NewDispatcher(
		dedup,
		policies,
		history,
		[]ports.SideEffectExecutor{toasts, cues, osNotifier},
		logger,
	)

	// 6. Transport Adapter (Primary Adapter)
	var strategy stream.Strategy
	switch cfg.Stream.Transport {
	case "longpoll":
		strategy = stream.NewLongPollStrategy(cfg.Stream.URL, cfg.Stream.HandshakeTimeout, cfg.Stream.PollInterval)
	default:
		strategy = stream.NewWebSocketStrategy(cfg.Stream.URL, cfg.Stream.HandshakeTimeout)
	}

	transport := stream.NewAdapter(
		strategy,
		stream.Credentials{UserID: claims.UserID.String(), Token: cfg.Session.Token},
		cfg.Stream.ReconnectDelay,
		logger,
	)

	// 7. REST side-channel (Secondary Adapter)
	apiClient := restapi.NewClient(cfg.API.BaseURL, cfg.Session.Token, cfg.API.RequestTimeout, logger)

	// 8. Run the pipeline
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Run(ctx, transport.Frames())

	// 9. Control API (UI surface)
	errorHandler := httpAdapter.NewErrorHandler(logger)
	control := httpAdapter.NewControlHandler(transport, history, toasts, apiClient, gate, errorHandler, logger)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Control.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Route("/api/v1/notifier", control.RegisterRoutes)

	srv := &http.Server{
		Addr:         cfg.Control.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Control.ReadTimeout,
		WriteTimeout: cfg.Control.WriteTimeout,
		IdleTimeout:  cfg.Control.IdleTimeout,
	}

	go func() {
		logger.Info("control api starting", "addr", cfg.Control.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("control api error", "error", err)
			os.Exit(1)
		}
	}()

	// 10. Open the push channel
	transport.Connect()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	// Teardown: close the channel first so no straggler events are processed,
	// then stop the pipeline and the control API.
	transport.Disconnect()
	cancel()
	dispatcher.Reset()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Control.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("control api shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
