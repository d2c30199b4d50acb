package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/montazhzhilstroy/backoffice/internal/app"
	"github.com/montazhzhilstroy/backoffice/internal/version"
)

// setupLogger настраивает формат и уровень логирования сервиса.
func setupLogger(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}

func main() {
	// .env опционален: в контейнере конфигурация приходит окружением.
	_ = godotenv.Load()

	cfg := app.ConfigFromEnv()
	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"api_addr":     cfg.APIAddr,
		"metrics_addr": cfg.MetricsAddr,
		"storage":      storageKind(cfg),
		"build":        version.String(),
	}).Info("запускаем backoffice")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("backoffice остановлен")
}

func storageKind(cfg app.Config) string {
	if cfg.PostgresDSN == "" {
		return "memory"
	}
	return "postgres"
}
