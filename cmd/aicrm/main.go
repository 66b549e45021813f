package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/aicrm/internal/agent"
	"github.com/gosuda/aicrm/internal/api/ws"
	"github.com/gosuda/aicrm/internal/config"
	"github.com/gosuda/aicrm/internal/dispatch"
	"github.com/gosuda/aicrm/internal/server"
	"github.com/gosuda/aicrm/internal/store"
	redisstore "github.com/gosuda/aicrm/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// A .env file is optional; real environment variables win.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	setupLogging(cfg.Log)
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		log.Warn().Err(envErr).Msg("could not read .env file")
	}

	ctx := context.Background()

	backend, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer backend.Close()
	log.Info().Str("driver", cfg.Database.Driver).Msg("interaction store ready")

	// Redis is optional: without it there are no events and no live feed.
	var feed ws.Subscriber
	if cfg.Redis.Addr != "" {
		pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer pubsub.Close()

		backend = store.WithEvents(backend, pubsub)
		feed = pubsub
		log.Info().Str("addr", cfg.Redis.Addr).Msg("interaction events enabled")
	}

	chatModel, err := agent.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		return err
	}

	planner, err := agent.NewPlanner(chatModel, agent.WithTimeout(cfg.LLM.Timeout))
	if err != nil {
		return err
	}
	extractor, err := agent.NewExtractor(chatModel, agent.WithTimeout(cfg.LLM.Timeout))
	if err != nil {
		return err
	}

	dispatcher := dispatch.New(backend.Interactions(), dispatch.WithLogMode(dispatch.LogMode(cfg.Agent.LogMode)))
	log.Info().Strs("actions", dispatcher.Actions()).Str("log_mode", cfg.Agent.LogMode).Msg("dispatcher ready")

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(ctx, cfg, server.Deps{
		Store:      backend,
		Feed:       feed,
		Planner:    planner,
		Extractor:  extractor,
		Dispatcher: dispatcher,
	})

	go func() {
		if startErr := srv.Start(); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("stopped")
	return nil
}

func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
