package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medication-adherence/internal/adapters/auth/keyservice"
	"medication-adherence/internal/adapters/insights/gateway"
	pg "medication-adherence/internal/adapters/storage/postgres"
	"medication-adherence/internal/platform/config"
	"medication-adherence/internal/platform/logger"
	"medication-adherence/internal/ports/auth"
	"medication-adherence/internal/ports/insights"
	"medication-adherence/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).Error("invalid configuration", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	opts := router.Options{
		Logger:            log,
		InsightTimeout:    cfg.InsightsTimeout,
		DefaultWindowDays: cfg.DefaultWindowDays,
		SwaggerEnabled:    cfg.SwaggerEnabled,
	}

	// Sin DSN: storage en memoria (modo dev)
	if cfg.DBDSN != "" {
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = pg.Migrate(ctx, db)
		cancel()
		if err != nil {
			return err
		}
		opts.DB = db
		log.Info("using postgres storage", nil)
	} else {
		log.Warn("ADHERENCE_DB_DSN not set, using in-memory storage", nil)
	}

	gen, err := newGenerator(cfg, log)
	if err != nil {
		return err
	}
	opts.Insights = gen

	verifier, err := newVerifier(cfg)
	if err != nil {
		return err
	}
	opts.AuthVerifier = verifier
	if verifier == nil {
		log.Warn("ADHERENCE_AUTH_BASE_URL not set, accepting X-Debug-User-ID", nil)
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.InsightsTimeout + 10*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Addr()})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", map[string]any{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// newGenerator devuelve nil (sin insights) si el gateway no está configurado.
func newGenerator(cfg config.Config, log logger.Logger) (insights.Generator, error) {
	if !cfg.InsightsEnabled() {
		return nil, nil
	}
	c, err := gateway.NewClient(gateway.Config{
		BaseURL:           cfg.InsightsBaseURL,
		APIKey:            cfg.InsightsAPIKey,
		Model:             cfg.InsightsModel,
		Timeout:           cfg.InsightsTimeout,
		RequestsPerMinute: cfg.InsightsRPM,
		Burst:             cfg.InsightsBurst,
	}, log.With(map[string]any{"component": "insights-gateway"}))
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newVerifier(cfg config.Config) (auth.AuthVerifier, error) {
	if !cfg.AuthEnabled() {
		return nil, nil
	}
	c, err := keyservice.NewClient(keyservice.Config{
		BaseURL: cfg.AuthBaseURL,
		APIKey:  cfg.AuthAPIKey,
	})
	if err != nil {
		return nil, err
	}
	return keyservice.NewVerifier(c), nil
}
