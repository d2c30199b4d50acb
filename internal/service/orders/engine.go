// Package orders содержит движок заказов: проверку входа, нормализацию
// черновика и оркестрацию атомарных операций хранилища.
package orders

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/montazhzhilstroy/backoffice/internal/domain"
	"github.com/montazhzhilstroy/backoffice/internal/metrics"
)

// Engine — фасад над транзакционным хранилищем заказов.
//
// Вся атомарность живёт в репозитории; движок отвечает за валидацию,
// слияние повторённых позиций, логирование и метрики.
type Engine struct {
	orders  domain.OrderRepository
	logger  *log.Entry
	metrics *metrics.EngineMetrics
}

// NewEngine создаёт рабочий экземпляр движка.
func NewEngine(orders domain.OrderRepository, engineMetrics *metrics.EngineMetrics, logger *log.Entry) *Engine {
	if logger == nil {
		logger = log.New().WithField("component", "order-engine")
	}
	return &Engine{
		orders:  orders,
		logger:  logger,
		metrics: engineMetrics,
	}
}

// Create проверяет черновик, сливает повторённые позиции и создаёт заказ
// одной атомарной операцией хранилища. Возвращает идентификатор заказа.
func (e *Engine) Create(ctx context.Context, draft domain.OrderDraft) (int64, error) {
	start := time.Now()
	defer func() {
		e.metrics.RecordOpDuration("create", time.Since(start))
	}()

	if err := draft.Validate(); err != nil {
		return 0, err
	}

	orderID, err := e.orders.Create(ctx, draft)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			e.metrics.RecordInsufficientStock()
			e.logger.WithError(err).WithField("client_id", draft.ClientID).Info("order rejected: insufficient stock")
		} else {
			e.logger.WithError(err).WithField("client_id", draft.ClientID).Error("order creation failed")
		}
		return 0, err
	}

	e.metrics.RecordOrderCreated()
	for _, item := range draft.Items {
		e.metrics.RecordStockAdjustment(-item.Quantity)
	}
	e.logger.WithFields(log.Fields{
		"order_id":    orderID,
		"client_id":   draft.ClientID,
		"items":       len(draft.Items),
		"total_minor": draft.TotalMinor(),
	}).Info("order created")
	return orderID, nil
}

// SetStatus переводит заказ в новый статус. Отмена нетерминального заказа
// возвращает остатки на склад в той же атомарной операции.
func (e *Engine) SetStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	start := time.Now()
	defer func() {
		e.metrics.RecordOpDuration("set_status", time.Since(start))
	}()

	if !status.Valid() {
		return domain.ErrInvalidStatus
	}

	if err := e.orders.SetStatus(ctx, orderID, status); err != nil {
		e.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"status":   string(status),
		}).Warn("status update failed")
		return err
	}

	if status == domain.OrderStatusCanceled {
		e.metrics.RecordOrderCanceled()
	}
	e.logger.WithFields(log.Fields{
		"order_id": orderID,
		"status":   string(status),
	}).Info("order status updated")
	return nil
}

// Delete удаляет заказ вместе с позициями, вернув остатки, если заказ
// не был выдан или отменён ранее.
func (e *Engine) Delete(ctx context.Context, orderID int64) error {
	start := time.Now()
	defer func() {
		e.metrics.RecordOpDuration("delete", time.Since(start))
	}()

	if err := e.orders.Delete(ctx, orderID); err != nil {
		e.logger.WithError(err).WithField("order_id", orderID).Warn("order delete failed")
		return err
	}

	e.metrics.RecordOrderDeleted()
	e.logger.WithField("order_id", orderID).Info("order deleted")
	return nil
}

// Get возвращает полную карточку заказа.
func (e *Engine) Get(ctx context.Context, orderID int64) (domain.OrderDetail, error) {
	return e.orders.Get(ctx, orderID)
}

// List возвращает все заказы, новые сверху.
func (e *Engine) List(ctx context.Context) ([]domain.OrderSummary, error) {
	return e.orders.List(ctx)
}
