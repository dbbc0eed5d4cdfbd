package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ricardonunez-io/clausecat/internal/analyzer"
	"github.com/ricardonunez-io/clausecat/internal/config"
	"github.com/ricardonunez-io/clausecat/internal/notify"
	"github.com/ricardonunez-io/clausecat/internal/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/joho/godotenv/autoload"
)

const shutdownTimeout = 10 * time.Second

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Info().Msg("Starting ClauseCat")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("value", cfg.LogLevel).Msg("Invalid LOG_LEVEL, defaulting to debug")
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Debug().
		Str("apiKey", config.Mask(cfg.APIKey)).
		Str("endpoint", cfg.Endpoint).
		Str("model", cfg.Model).
		Msg("Configuration loaded")

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.DebugMode)
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.SlackEnabled() {
		notifier = notify.NewSlack(notify.Config{
			BotToken:  cfg.SlackBotToken,
			ChannelID: cfg.SlackChannelID,
		})
		log.Info().Str("channel", cfg.SlackChannelID).Msg("Slack notifications enabled")
	}

	client := analyzer.NewClient(analyzer.FromAppConfig(cfg), nil)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: server.NewRouter(client, notifier),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("ClauseCat stopped")
}
