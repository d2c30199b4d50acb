package app

import (
	"os"
	"strings"
)

// Config описывает настройки запуска приложения.
type Config struct {
	// APIAddr — адрес HTTP/JSON API.
	APIAddr string
	// MetricsAddr — отдельный адрес для /metrics и health-эндпоинтов.
	MetricsAddr string
	// PostgresDSN — строка подключения к хранилищу. Пустая строка
	// переключает сервис на встроенное in-memory хранилище.
	PostgresDSN string
	// LogLevel — уровень логирования logrus (debug, info, warn, error).
	LogLevel string
	// AllowedOrigins ограничивает CORS; пусто — разрешены все.
	AllowedOrigins []string
}

// DefaultConfig возвращает адреса по умолчанию.
func DefaultConfig() Config {
	return Config{
		APIAddr:     ":8080",
		MetricsAddr: ":9090",
		LogLevel:    "info",
	}
}

// ConfigFromEnv накладывает переменные окружения на значения по умолчанию.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("BACKOFFICE_API_ADDR"); v != "" {
		cfg.APIAddr = v
	}
	if v := os.Getenv("BACKOFFICE_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("BACKOFFICE_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("BACKOFFICE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("BACKOFFICE_ALLOWED_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}
	return cfg
}
