package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/montazhzhilstroy/backoffice/internal/domain"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Create(ctx context.Context, product domain.Product) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, article, category, description, price_minor, stock_quantity)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
		RETURNING id
	`,
		product.Name, product.Article, product.Category, product.Description,
		product.PriceMinor, product.StockQuantity,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "products_article_key") {
			return 0, domain.ErrArticleTaken
		}
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

func (r *productRepository) Get(ctx context.Context, id int64) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var (
		p       domain.Product
		article sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, article, category, description, price_minor, stock_quantity, added_at
		FROM products
		WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Name, &article, &p.Category, &p.Description,
		&p.PriceMinor, &p.StockQuantity, &p.AddedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	p.Article = article.String
	return p, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, article, category, description, price_minor, stock_quantity, added_at
		FROM products
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var (
			p       domain.Product
			article sql.NullString
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &article, &p.Category, &p.Description,
			&p.PriceMinor, &p.StockQuantity, &p.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		p.Article = article.String
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, id int64, update domain.ProductUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	set := make([]string, 0, 6)
	args := make([]any, 0, 7)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Article != nil {
		add("article", sql.NullString{String: *update.Article, Valid: *update.Article != ""})
	}
	if update.Category != nil {
		add("category", *update.Category)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.PriceMinor != nil {
		add("price_minor", *update.PriceMinor)
	}
	if update.StockQuantity != nil {
		add("stock_quantity", *update.StockQuantity)
	}
	if len(set) == 0 {
		return domain.ErrNothingToUpdate
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err, "products_article_key") {
			return domain.ErrArticleTaken
		}
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err, "order_items_product_id_fkey") {
			return domain.ErrProductReferenced
		}
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
