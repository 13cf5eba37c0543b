package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketship-ai/scriptrunner/internal/catalog"
	"github.com/rocketship-ai/scriptrunner/internal/config"
	"github.com/rocketship-ai/scriptrunner/internal/logging"
	"github.com/rocketship-ai/scriptrunner/internal/runner"
	"github.com/rocketship-ai/scriptrunner/internal/server"
	"github.com/rocketship-ai/scriptrunner/internal/version"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logging.New(os.Stderr, "").Error("configuration error", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	lang, err := runner.LookupLanguage(cfg.Language)
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	engineCfg := cfg.EngineConfig()
	engineCfg.Logger = logger

	cat := catalog.New(cfg.ScriptsDir, lang.Extension)
	srv := server.New(cat, runner.NewValidator(cat, lang), runner.NewEngine(cat, lang, engineCfg), server.Options{
		Version:       version.Get(),
		MaxConcurrent: cfg.MaxConcurrent,
		Logger:        logger,
	})

	// An execute request may legitimately run for the whole script timeout.
	drain := cfg.Timeout + cfg.KillGrace
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      drain + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		logger.Info("shutting down, waiting for running scripts", "max_wait", drain)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), drain+5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("scriptrunner server listening",
		"addr", cfg.ListenAddr(),
		"scripts_dir", cfg.ScriptsDir,
		"language", lang.Name,
		"version", version.Get(),
	)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	<-drained
	logger.Info("server stopped")
}
