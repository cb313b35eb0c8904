package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"folio/internal/app"
	"folio/internal/config"
	"folio/internal/lib/logger/handlers/slogpretty"
	"folio/internal/lib/logger/sl"
	"folio/internal/tui"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	application, err := app.New(log, cfg)
	if err != nil {
		log.Error("failed to start", sl.Err(err))
		os.Exit(1)
	}
	defer application.Close()

	if application.Debug != nil {
		go application.Debug.Run()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = application.Debug.Stop(ctx)
		}()
	}

	if err := tui.Run(application); err != nil {
		log.Error("console exited with error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("console stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stderr)

	return slog.New(handler)
}
