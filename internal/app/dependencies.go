package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/montazhzhilstroy/backoffice/internal/domain"
	"github.com/montazhzhilstroy/backoffice/internal/health"
	"github.com/montazhzhilstroy/backoffice/internal/storage/memory"
	"github.com/montazhzhilstroy/backoffice/internal/storage/postgres"
)

// Dependencies собирает хранилища приложения за едиными интерфейсами.
type Dependencies struct {
	Products domain.ProductRepository
	Clients  domain.ClientRepository
	Ledger   domain.StockLedger
	Orders   domain.OrderRepository
	Logger   *log.Entry

	// store не nil только при работе поверх Postgres.
	store *postgres.Store
}

// NewDependencies подключает Postgres и накатывает схему, либо, при пустом
// DSN, поднимает in-memory хранилище для локальной разработки и демо.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	if cfg.PostgresDSN == "" {
		logger.Warn("postgres dsn is empty, using in-memory storage")
		store := memory.NewStore()
		return &Dependencies{
			Products: store.Products(),
			Clients:  store.Clients(),
			Ledger:   store.StockLedger(),
			Orders:   store.Orders(),
			Logger:   logger,
		}, nil
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info("connected to postgres, schema is up to date")

	return &Dependencies{
		Products: postgres.NewProductRepository(store),
		Clients:  postgres.NewClientRepository(store),
		Ledger:   postgres.NewStockLedger(store),
		Orders:   postgres.NewOrderRepository(store),
		Logger:   logger,
		store:    store,
	}, nil
}

// StorageChecker возвращает health-проверку хранилища.
// Для in-memory хранилища проверка всегда здорова.
func (d *Dependencies) StorageChecker() health.Checker {
	if d.store == nil {
		return health.CheckerFunc(func(context.Context) health.Check {
			return health.Check{Name: "storage", Status: health.StatusHealthy, Message: "in-memory"}
		})
	}
	return health.NewPingChecker("storage", d.store)
}

// Close освобождает соединения с хранилищем.
func (d *Dependencies) Close() error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}
