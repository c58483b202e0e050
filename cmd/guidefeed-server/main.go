package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"guidefeed/internal/adapters/httpapi"
	"guidefeed/internal/adapters/tvlistings"
	"guidefeed/internal/app"
	"guidefeed/internal/buildinfo"
	"guidefeed/internal/config"
)

func main() {
	def := config.Default()
	addr := flag.String("addr", def.Addr, "listen address (e.g. 127.0.0.1:8080)")
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	lineupID := flag.String("lineup", def.LineupID, "lineup identifier")
	flag.Parse()

	cfg := def
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
		}
		cfg = loaded
	}
	if *addr != def.Addr {
		cfg.Addr = *addr
	}
	if *lineupID != "" {
		cfg.LineupID = *lineupID
	}

	logger := zerolog.New(logWriter(cfg.Log)).With().Timestamp().Str("app", "guidefeed").Logger()
	log.Logger = logger

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger.Info().
		Interface("build", buildinfo.Current()).
		Str("lineup", cfg.LineupID).
		Str("timezone", cfg.Timezone).
		Int("days", app.ClampDays(cfg.Days)).
		Str("profile", cfg.Profile.Name).
		Msg("starting")

	listings := tvlistings.New(cfg.BaseURL, logger.With().Str("component", "tvlistings").Logger())
	guide, err := app.NewGuideService(logger.With().Str("component", "guide").Logger(), listings, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build guide service")
	}

	srv := httpapi.NewServer(logger, guide, cfg)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server crashed")
			stop()
		}
	}()

	<-shutdownCtx.Done()
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
	logger.Info().Msg("bye")
}

// logWriter returns stdout, or a rotating file sink when log.file is set.
func logWriter(cfg config.Log) io.Writer {
	if cfg.File == "" {
		return os.Stdout
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
}
