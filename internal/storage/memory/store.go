// Package memory содержит in-memory реализацию всех репозиториев для
// локальной разработки и тестов. Один мьютекс на всё хранилище даёт ту же
// атомарность многошаговых операций, что и транзакция PostgreSQL.
package memory

import (
	"sync"
	"time"

	"github.com/montazhzhilstroy/backoffice/internal/domain"
)

// orderRecord — внутреннее представление заказа вместе с позициями.
type orderRecord struct {
	ID         int64
	ClientID   int64
	PlacedAt   time.Time
	Status     domain.OrderStatus
	TotalMinor int64
	Items      []domain.OrderItem
}

// Store хранит каталог, клиентов и заказы под общим мьютексом.
type Store struct {
	mu sync.Mutex

	products map[int64]domain.Product
	clients  map[int64]domain.Client
	orders   map[int64]orderRecord

	nextProductID int64
	nextClientID  int64
	nextOrderID   int64

	// now подменяется в тестах для детерминированных таймстемпов.
	now func() time.Time
}

// NewStore возвращает пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{
		products: make(map[int64]domain.Product),
		clients:  make(map[int64]domain.Client),
		orders:   make(map[int64]orderRecord),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Products возвращает представление хранилища как ProductRepository.
func (s *Store) Products() domain.ProductRepository {
	return &productRepository{store: s}
}

// Clients возвращает представление хранилища как ClientRepository.
func (s *Store) Clients() domain.ClientRepository {
	return &clientRepository{store: s}
}

// Orders возвращает представление хранилища как OrderRepository.
func (s *Store) Orders() domain.OrderRepository {
	return &orderRepository{store: s}
}

// StockLedger возвращает представление хранилища как StockLedger.
func (s *Store) StockLedger() domain.StockLedger {
	return &stockLedger{store: s}
}

// adjustStockLocked повторяет семантику складской корректировки PostgreSQL.
// Вызывающий обязан держать s.mu.
func (s *Store) adjustStockLocked(productID, delta int64) error {
	product, ok := s.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	next := product.StockQuantity + delta
	if next < 0 {
		return &domain.InsufficientStockError{
			ProductID:   productID,
			ProductName: product.Name,
			Available:   product.StockQuantity,
			Requested:   -delta,
		}
	}
	product.StockQuantity = next
	s.products[productID] = product
	return nil
}

// productReferencedLocked сообщает, ссылается ли хоть одна позиция заказа на товар.
func (s *Store) productReferencedLocked(productID int64) bool {
	for _, order := range s.orders {
		for _, item := range order.Items {
			if item.ProductID == productID {
				return true
			}
		}
	}
	return false
}

// clientReferencedLocked сообщает, ссылается ли хоть один заказ на клиента.
func (s *Store) clientReferencedLocked(clientID int64) bool {
	for _, order := range s.orders {
		if order.ClientID == clientID {
			return true
		}
	}
	return false
}
