package domain

import (
	"sort"
	"time"
)

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusNew — заказ только что создан.
	OrderStatusNew OrderStatus = "new"
	// OrderStatusInProgress — заказ взят в обработку.
	OrderStatusInProgress OrderStatus = "in_progress"
	// OrderStatusAssembling — заказ комплектуется на складе.
	OrderStatusAssembling OrderStatus = "assembling"
	// OrderStatusReadyForPickup — заказ готов к выдаче.
	OrderStatusReadyForPickup OrderStatus = "ready_for_pickup"
	// OrderStatusFulfilled — заказ выдан; списанный остаток закреплён окончательно.
	OrderStatusFulfilled OrderStatus = "fulfilled"
	// OrderStatusCanceled — заказ отменён; остаток уже возвращён на склад.
	OrderStatusCanceled OrderStatus = "canceled"
)

// OrderStatuses перечисляет все допустимые статусы в концептуальном порядке.
var OrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusInProgress,
	OrderStatusAssembling,
	OrderStatusReadyForPickup,
	OrderStatusFulfilled,
	OrderStatusCanceled,
}

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusInProgress, OrderStatusAssembling,
		OrderStatusReadyForPickup, OrderStatusFulfilled, OrderStatusCanceled:
		return true
	default:
		return false
	}
}

// Terminal сообщает, что движение остатков по заказу завершено навсегда:
// выданный заказ закрепил списание, отменённый уже вернул товар на склад.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusFulfilled || s == OrderStatusCanceled
}

// OrderItem — одна позиция заказа.
type OrderItem struct {
	ProductID int64
	// Quantity — количество единиц, всегда > 0.
	Quantity int64
	// PriceMinor — цена за единицу, зафиксированная в момент оформления.
	// От текущей цены каталога не зависит.
	PriceMinor int64
}

// OrderDraft — проверенный вход движка для создания заказа.
type OrderDraft struct {
	ClientID int64
	Status   OrderStatus
	Items    []OrderItem
}

// Validate проверяет позиции черновика и нормализует его:
// повторённый товар сливается в одну позицию с суммарным количеством.
func (d *OrderDraft) Validate() error {
	if d.Status == "" {
		d.Status = OrderStatusNew
	}
	if !d.Status.Valid() {
		return ErrInvalidStatus
	}
	if len(d.Items) == 0 {
		return ErrItemsRequired
	}
	for _, item := range d.Items {
		if item.Quantity <= 0 {
			return ErrItemQtyInvalid
		}
		if item.PriceMinor < 0 {
			return ErrPriceNegative
		}
	}
	d.Items = MergeItems(d.Items)
	return nil
}

// TotalMinor считает сумму заказа по позициям: Σ quantity × price.
func (d *OrderDraft) TotalMinor() int64 {
	return ItemsTotalMinor(d.Items)
}

// MergeItems сливает позиции с одинаковым товаром, суммируя количество.
// Цена берётся из первой встреченной позиции товара.
func MergeItems(items []OrderItem) []OrderItem {
	byProduct := make(map[int64]int, len(items))
	merged := make([]OrderItem, 0, len(items))
	for _, item := range items {
		if idx, ok := byProduct[item.ProductID]; ok {
			merged[idx].Quantity += item.Quantity
			continue
		}
		byProduct[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].ProductID < merged[j].ProductID
	})
	return merged
}

// ItemsTotalMinor считает сумму по набору позиций.
func ItemsTotalMinor(items []OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Quantity * item.PriceMinor
	}
	return total
}

// OrderSummary — строка списка заказов для витрины.
type OrderSummary struct {
	ID         int64
	ClientName string
	PlacedAt   time.Time
	Status     OrderStatus
	TotalMinor int64
}

// OrderDetail — полная карточка заказа с контактами клиента и позициями.
type OrderDetail struct {
	ID          int64
	ClientID    int64
	ClientName  string
	ClientPhone string
	ClientEmail string
	PlacedAt    time.Time
	Status      OrderStatus
	TotalMinor  int64
	Items       []OrderDetailItem
}

// OrderDetailItem — позиция заказа, дополненная текущими именем и артикулом товара.
// Цена позиции всегда снапшот на момент оформления.
type OrderDetailItem struct {
	ProductID      int64
	ProductName    string
	ProductArticle string
	Quantity       int64
	PriceMinor     int64
}
