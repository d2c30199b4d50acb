// Package app связывает хранилище, движок заказов и HTTP-слои в один процесс.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/montazhzhilstroy/backoffice/internal/health"
	"github.com/montazhzhilstroy/backoffice/internal/metrics"
	"github.com/montazhzhilstroy/backoffice/internal/service/httpapi"
	"github.com/montazhzhilstroy/backoffice/internal/service/orders"
	"github.com/montazhzhilstroy/backoffice/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Run поднимает API-сервер и сервер метрик и блокируется до отмены ctx
// или фатальной ошибки одного из серверов.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := deps.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("storage close with error")
		}
	}()

	engineMetrics := metrics.NewEngineMetrics()
	engine := orders.NewEngine(deps.Orders, engineMetrics, logger.WithField("layer", "engine"))

	server := httpapi.NewServer(
		deps.Products,
		deps.Clients,
		deps.Ledger,
		engine,
		logger.WithField("layer", "http"),
	)

	apiSrv := &http.Server{
		Addr:    cfg.APIAddr,
		Handler: server.Router(cfg.AllowedOrigins),
	}

	healthHandler := health.NewHandler(version.String())
	healthHandler.RegisterChecker("storage", deps.StorageChecker())
	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("API слушает %s", cfg.APIAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP-серверы")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает отдельный HTTP-обработчик для Prometheus
// и health-эндпоинтов.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *health.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", health.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
