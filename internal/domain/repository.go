package domain

import "context"

// ProductRepository описывает требования к хранилищу каталога.
type ProductRepository interface {
	// Create сохраняет новый товар и возвращает его идентификатор.
	// Занятый артикул — ErrArticleTaken.
	Create(ctx context.Context, product Product) (int64, error)
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	Get(ctx context.Context, id int64) (Product, error)
	// List возвращает все товары, отсортированные по имени.
	List(ctx context.Context) ([]Product, error)
	// Update применяет частичное обновление карточки.
	Update(ctx context.Context, id int64, update ProductUpdate) error
	// Delete удаляет товар; пока на него ссылаются позиции заказов — ErrProductReferenced.
	Delete(ctx context.Context, id int64) error
}

// StockLedger — единственная точка изменения складского остатка.
//
// Отрицательная delta списывает товар, положительная возвращает его на склад.
// Остаток никогда не уходит ниже нуля: вместо этого возвращается
// InsufficientStockError, и остаток не меняется.
type StockLedger interface {
	Adjust(ctx context.Context, productID int64, delta int64) error
}

// ClientRepository описывает требования к реестру клиентов.
type ClientRepository interface {
	// Create сохраняет клиента; занятый email — ErrEmailTaken.
	Create(ctx context.Context, client Client) (int64, error)
	// Get возвращает клиента по идентификатору или ErrClientNotFound.
	Get(ctx context.Context, id int64) (Client, error)
	// List возвращает всех клиентов, отсортированных по имени.
	List(ctx context.Context) ([]Client, error)
	// Update применяет частичное обновление.
	Update(ctx context.Context, id int64, update ClientUpdate) error
	// Delete удаляет клиента; пока на него ссылаются заказы — ErrClientReferenced.
	Delete(ctx context.Context, id int64) error
}

// OrderRepository — транзакционное хранилище заказов.
//
// Каждый мутирующий метод выполняется как один атомарный блок: либо все его
// эффекты (движение остатков, строки заказа и позиций) видны читателям
// целиком, либо не виден ни один.
type OrderRepository interface {
	// Create списывает остаток по каждой позиции, вставляет заказ и его позиции
	// и возвращает новый идентификатор. Первая же нехватка остатка откатывает
	// всё и возвращает InsufficientStockError с именем товара.
	Create(ctx context.Context, draft OrderDraft) (int64, error)
	// Get возвращает полную карточку заказа или ErrOrderNotFound.
	Get(ctx context.Context, id int64) (OrderDetail, error)
	// List возвращает все заказы, новые сверху.
	List(ctx context.Context) ([]OrderSummary, error)
	// SetStatus меняет статус заказа. Отмена нетерминального заказа возвращает
	// остатки по всем позициям в той же транзакции, что и запись статуса.
	SetStatus(ctx context.Context, id int64, status OrderStatus) error
	// Delete удаляет заказ вместе с позициями, предварительно вернув остатки,
	// если заказ не был выдан или отменён ранее.
	Delete(ctx context.Context, id int64) error
}
