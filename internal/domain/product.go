package domain

import (
	"strings"
	"time"
)

// Product — карточка товара каталога.
type Product struct {
	ID int64
	// Name — наименование товара.
	Name string
	// Article — уникальный артикул.
	Article string
	Category    string
	Description string
	// PriceMinor — текущая цена за единицу в минимальных денежных единицах.
	PriceMinor int64
	// StockQuantity — авторитетный складской остаток, всегда >= 0.
	StockQuantity int64
	AddedAt       time.Time
}

// Validate проверяет инварианты карточки перед сохранением.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if p.PriceMinor < 0 {
		return ErrPriceNegative
	}
	if p.StockQuantity < 0 {
		return ErrStockNegative
	}
	return nil
}

// ProductUpdate описывает частичное обновление карточки товара.
// nil-поле означает "не менять".
type ProductUpdate struct {
	Name          *string
	Article       *string
	Category      *string
	Description   *string
	PriceMinor    *int64
	StockQuantity *int64
}

// Validate проверяет, что обновление непустое и не нарушает инварианты.
func (u *ProductUpdate) Validate() error {
	if u.Name == nil && u.Article == nil && u.Category == nil &&
		u.Description == nil && u.PriceMinor == nil && u.StockQuantity == nil {
		return ErrNothingToUpdate
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return ErrNameRequired
	}
	if u.PriceMinor != nil && *u.PriceMinor < 0 {
		return ErrPriceNegative
	}
	if u.StockQuantity != nil && *u.StockQuantity < 0 {
		return ErrStockNegative
	}
	return nil
}
