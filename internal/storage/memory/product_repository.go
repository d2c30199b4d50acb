package memory

import (
	"context"
	"sort"

	"github.com/montazhzhilstroy/backoffice/internal/domain"
)

type productRepository struct {
	store *Store
}

func (r *productRepository) Create(_ context.Context, product domain.Product) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.Article != "" {
		for _, existing := range s.products {
			if existing.Article == product.Article {
				return 0, domain.ErrArticleTaken
			}
		}
	}

	s.nextProductID++
	product.ID = s.nextProductID
	if product.AddedAt.IsZero() {
		product.AddedAt = s.now()
	}
	s.products[product.ID] = product
	return product.ID, nil
}

func (r *productRepository) Get(_ context.Context, id int64) (domain.Product, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

func (r *productRepository) List(_ context.Context) ([]domain.Product, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, product := range s.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Name != products[j].Name {
			return products[i].Name < products[j].Name
		}
		return products[i].ID < products[j].ID
	})
	return products, nil
}

func (r *productRepository) Update(_ context.Context, id int64, update domain.ProductUpdate) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}

	if update.Article != nil && *update.Article != "" {
		for otherID, existing := range s.products {
			if otherID != id && existing.Article == *update.Article {
				return domain.ErrArticleTaken
			}
		}
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Article != nil {
		product.Article = *update.Article
	}
	if update.Category != nil {
		product.Category = *update.Category
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.PriceMinor != nil {
		product.PriceMinor = *update.PriceMinor
	}
	if update.StockQuantity != nil {
		product.StockQuantity = *update.StockQuantity
	}
	s.products[id] = product
	return nil
}

func (r *productRepository) Delete(_ context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	if s.productReferencedLocked(id) {
		return domain.ErrProductReferenced
	}
	delete(s.products, id)
	return nil
}

type stockLedger struct {
	store *Store
}

func (l *stockLedger) Adjust(_ context.Context, productID, delta int64) error {
	s := l.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adjustStockLocked(productID, delta)
}

var (
	_ domain.ProductRepository = (*productRepository)(nil)
	_ domain.StockLedger       = (*stockLedger)(nil)
)
