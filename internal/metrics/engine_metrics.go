package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics содержит метрики движка заказов и складской книги.
type EngineMetrics struct {
	ordersCreated  prometheus.Counter
	ordersCanceled prometheus.Counter
	ordersDeleted  prometheus.Counter

	// Отказы по нехватке остатка.
	insufficientStock prometheus.Counter

	// Складские корректировки по направлению (consume/restore).
	stockAdjustments *prometheus.CounterVec

	// Время выполнения операций движка по имени операции.
	opDuration *prometheus.HistogramVec
}

// NewEngineMetrics регистрирует метрики в глобальном registry.
func NewEngineMetrics() *EngineMetrics {
	return newEngineMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newEngineMetricsWithRegisterer(registerer prometheus.Registerer) *EngineMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &EngineMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "backoffice_orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersCanceled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "backoffice_orders_canceled_total",
			Help: "Total number of orders canceled",
		}),
		ordersDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "backoffice_orders_deleted_total",
			Help: "Total number of orders deleted",
		}),
		insufficientStock: registerCounter(registerer, prometheus.CounterOpts{
			Name: "backoffice_insufficient_stock_total",
			Help: "Total number of operations rejected due to insufficient stock",
		}),
		stockAdjustments: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "backoffice_stock_adjustments_total",
			Help: "Total number of stock ledger adjustments by direction",
		}, []string{"direction"}),
		opDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "backoffice_engine_op_duration_seconds",
			Help:    "Duration of order engine operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"op"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *EngineMetrics) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// RecordOrderCanceled увеличивает счётчик отменённых заказов.
func (m *EngineMetrics) RecordOrderCanceled() {
	if m == nil {
		return
	}
	m.ordersCanceled.Inc()
}

// RecordOrderDeleted увеличивает счётчик удалённых заказов.
func (m *EngineMetrics) RecordOrderDeleted() {
	if m == nil {
		return
	}
	m.ordersDeleted.Inc()
}

// RecordInsufficientStock увеличивает счётчик отказов по нехватке остатка.
func (m *EngineMetrics) RecordInsufficientStock() {
	if m == nil {
		return
	}
	m.insufficientStock.Inc()
}

// RecordStockAdjustment учитывает корректировку остатка по направлению.
func (m *EngineMetrics) RecordStockAdjustment(delta int64) {
	if m == nil {
		return
	}
	direction := "restore"
	if delta < 0 {
		direction = "consume"
	}
	m.stockAdjustments.WithLabelValues(direction).Inc()
}

// RecordOpDuration записывает время выполнения операции движка.
func (m *EngineMetrics) RecordOpDuration(op string, duration time.Duration) {
	if m == nil {
		return
	}
	m.opDuration.WithLabelValues(op).Observe(duration.Seconds())
}
