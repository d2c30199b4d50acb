package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound возвращается, если товар отсутствует в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrClientNotFound возвращается, если клиент отсутствует в реестре.
	ErrClientNotFound = errors.New("client not found")
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidStatus — запрошенный статус не входит в перечисление статусов заказа.
	ErrInvalidStatus = errors.New("order status is not valid")
	// ErrInsufficientStock — списание привело бы к отрицательному остатку.
	// Конкретный товар несёт InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOrderCreateFailed — вставка заказа не вернула идентификатор.
	ErrOrderCreateFailed = errors.New("order insert returned no id")
	// ErrArticleTaken — артикул товара уже занят.
	ErrArticleTaken = errors.New("product article already exists")
	// ErrEmailTaken — email клиента уже занят.
	ErrEmailTaken = errors.New("client email already exists")
	// ErrProductReferenced — товар нельзя удалить, пока на него ссылаются позиции заказов.
	ErrProductReferenced = errors.New("product is referenced by order items")
	// ErrClientReferenced — клиента нельзя удалить, пока на него ссылаются заказы.
	ErrClientReferenced = errors.New("client is referenced by orders")

	// Ошибка отсутствующего имени товара или клиента.
	ErrNameRequired = errors.New("name is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка отрицательной цены позиции или товара.
	ErrPriceNegative = errors.New("price must be non-negative")
	// Ошибка отрицательного остатка при прямом редактировании карточки товара.
	ErrStockNegative = errors.New("stock quantity must be non-negative")
	// Ошибка пустого частичного обновления.
	ErrNothingToUpdate = errors.New("no fields to update")
)

// InsufficientStockError уточняет, на каком товаре не хватило остатка.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q (id=%d): available %d, requested %d",
		e.ProductName, e.ProductID, e.Available, e.Requested)
}

// Is позволяет ловить ошибку через errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// IsNotFound проверяет, относится ли ошибка к отсутствующей сущности.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrClientNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}

// IsConflict проверяет, относится ли ошибка к нарушению уникальности или ссылочной целостности.
func IsConflict(err error) bool {
	return errors.Is(err, ErrArticleTaken) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrProductReferenced) ||
		errors.Is(err, ErrClientReferenced)
}

// IsValidation проверяет, относится ли ошибка к некорректным входным данным.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrItemsRequired) ||
		errors.Is(err, ErrItemQtyInvalid) ||
		errors.Is(err, ErrPriceNegative) ||
		errors.Is(err, ErrStockNegative) ||
		errors.Is(err, ErrNothingToUpdate)
}
