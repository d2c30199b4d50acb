package memory

import (
	"context"
	"sort"

	"github.com/montazhzhilstroy/backoffice/internal/domain"
)

type orderRepository struct {
	store *Store
}

func (r *orderRepository) Create(_ context.Context, draft domain.OrderDraft) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[draft.ClientID]; !ok {
		return 0, domain.ErrClientNotFound
	}

	// Сначала проверяем все списания на копии остатков, чтобы нехватка
	// по любой позиции не оставила частично применённых изменений.
	staged := make(map[int64]int64, len(draft.Items))
	for _, item := range draft.Items {
		product, ok := s.products[item.ProductID]
		if !ok {
			return 0, domain.ErrProductNotFound
		}
		current, ok := staged[item.ProductID]
		if !ok {
			current = product.StockQuantity
		}
		next := current - item.Quantity
		if next < 0 {
			return 0, &domain.InsufficientStockError{
				ProductID:   item.ProductID,
				ProductName: product.Name,
				Available:   current,
				Requested:   item.Quantity,
			}
		}
		staged[item.ProductID] = next
	}

	for productID, next := range staged {
		product := s.products[productID]
		product.StockQuantity = next
		s.products[productID] = product
	}

	s.nextOrderID++
	record := orderRecord{
		ID:         s.nextOrderID,
		ClientID:   draft.ClientID,
		PlacedAt:   s.now(),
		Status:     draft.Status,
		TotalMinor: draft.TotalMinor(),
		Items:      append([]domain.OrderItem(nil), draft.Items...),
	}
	s.orders[record.ID] = record
	return record.ID, nil
}

func (r *orderRepository) Get(_ context.Context, id int64) (domain.OrderDetail, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.orders[id]
	if !ok {
		return domain.OrderDetail{}, domain.ErrOrderNotFound
	}
	client := s.clients[record.ClientID]

	detail := domain.OrderDetail{
		ID:          record.ID,
		ClientID:    record.ClientID,
		ClientName:  client.FullName,
		ClientPhone: client.Phone,
		ClientEmail: client.Email,
		PlacedAt:    record.PlacedAt,
		Status:      record.Status,
		TotalMinor:  record.TotalMinor,
		Items:       make([]domain.OrderDetailItem, 0, len(record.Items)),
	}
	for _, item := range record.Items {
		product := s.products[item.ProductID]
		detail.Items = append(detail.Items, domain.OrderDetailItem{
			ProductID:      item.ProductID,
			ProductName:    product.Name,
			ProductArticle: product.Article,
			Quantity:       item.Quantity,
			PriceMinor:     item.PriceMinor,
		})
	}
	return detail, nil
}

func (r *orderRepository) List(_ context.Context) ([]domain.OrderSummary, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]domain.OrderSummary, 0, len(s.orders))
	for _, record := range s.orders {
		client := s.clients[record.ClientID]
		summaries = append(summaries, domain.OrderSummary{
			ID:         record.ID,
			ClientName: client.FullName,
			PlacedAt:   record.PlacedAt,
			Status:     record.Status,
			TotalMinor: record.TotalMinor,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].PlacedAt.Equal(summaries[j].PlacedAt) {
			return summaries[i].PlacedAt.After(summaries[j].PlacedAt)
		}
		return summaries[i].ID > summaries[j].ID
	})
	return summaries, nil
}

func (r *orderRepository) SetStatus(_ context.Context, id int64, status domain.OrderStatus) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}

	// Возврат остатков не может упасть на середине: товар, на который
	// ссылаются позиции, защищён от удаления (restrict), а delta всегда > 0.
	if status == domain.OrderStatusCanceled && !record.Status.Terminal() {
		for _, item := range record.Items {
			if err := s.adjustStockLocked(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
	}

	record.Status = status
	s.orders[id] = record
	return nil
}

func (r *orderRepository) Delete(_ context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}

	if !record.Status.Terminal() {
		for _, item := range record.Items {
			if err := s.adjustStockLocked(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
	}

	delete(s.orders, id)
	return nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
