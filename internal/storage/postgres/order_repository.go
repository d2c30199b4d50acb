package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/montazhzhilstroy/backoffice/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
//
// Все мутации выполняются в одной транзакции с движением остатков через
// adjustStock, так что читатели видят заказ и списание только целиком.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(ctx context.Context, draft domain.OrderDraft) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Сначала списываем остаток по каждой позиции: первая же нехватка
	// откатывает уже выполненные списания вместе со всей транзакцией.
	for _, item := range draft.Items {
		if err = adjustStock(ctx, tx, item.ProductID, -item.Quantity); err != nil {
			return 0, err
		}
	}

	var orderID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (client_id, status, total_minor)
		VALUES ($1, $2, $3)
		RETURNING id
	`, draft.ClientID, string(draft.Status), draft.TotalMinor()).Scan(&orderID)
	if err != nil {
		if isForeignKeyViolation(err, "orders_client_id_fkey") {
			return 0, domain.ErrClientNotFound
		}
		return 0, fmt.Errorf("insert order: %w", err)
	}
	if orderID == 0 {
		err = domain.ErrOrderCreateFailed
		return 0, err
	}

	for _, item := range draft.Items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price_minor)
			VALUES ($1, $2, $3, $4)
		`, orderID, item.ProductID, item.Quantity, item.PriceMinor); err != nil {
			return 0, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create order: %w", err)
	}
	return orderID, nil
}

func (r *orderRepository) Get(ctx context.Context, id int64) (domain.OrderDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var (
		detail domain.OrderDetail
		status string
		email  sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT o.id, o.client_id, c.full_name, c.phone, c.email, o.placed_at, o.status, o.total_minor
		FROM orders o
		JOIN clients c ON o.client_id = c.id
		WHERE o.id = $1
	`, id).Scan(
		&detail.ID, &detail.ClientID, &detail.ClientName, &detail.ClientPhone,
		&email, &detail.PlacedAt, &status, &detail.TotalMinor,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.OrderDetail{}, domain.ErrOrderNotFound
		}
		return domain.OrderDetail{}, fmt.Errorf("select order: %w", err)
	}
	detail.ClientEmail = email.String
	detail.Status = domain.OrderStatus(status)

	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.product_id, p.name, COALESCE(p.article, ''), oi.quantity, oi.price_minor
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1
		ORDER BY oi.id ASC
	`, id)
	if err != nil {
		return domain.OrderDetail{}, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	detail.Items = make([]domain.OrderDetailItem, 0)
	for rows.Next() {
		var item domain.OrderDetailItem
		if err := rows.Scan(
			&item.ProductID, &item.ProductName, &item.ProductArticle,
			&item.Quantity, &item.PriceMinor,
		); err != nil {
			return domain.OrderDetail{}, fmt.Errorf("scan order item: %w", err)
		}
		detail.Items = append(detail.Items, item)
	}
	if err := rows.Err(); err != nil {
		return domain.OrderDetail{}, fmt.Errorf("iterate order items: %w", err)
	}
	return detail, nil
}

func (r *orderRepository) List(ctx context.Context) ([]domain.OrderSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, c.full_name, o.placed_at, o.status, o.total_minor
		FROM orders o
		JOIN clients c ON o.client_id = c.id
		ORDER BY o.placed_at DESC, o.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.OrderSummary, 0)
	for rows.Next() {
		var (
			summary domain.OrderSummary
			status  string
		)
		if err := rows.Scan(&summary.ID, &summary.ClientName, &summary.PlacedAt, &status, &summary.TotalMinor); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		summary.Status = domain.OrderStatus(status)
		orders = append(orders, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) SetStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Текущий статус читается под блокировкой в той же транзакции,
	// что и запись: решение о возврате остатков не может устареть.
	current, err := lockOrderStatus(ctx, tx, id)
	if err != nil {
		return err
	}

	if status == domain.OrderStatusCanceled && !current.Terminal() {
		if err = restoreOrderStock(ctx, tx, id); err != nil {
			return err
		}
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE orders SET status = $1 WHERE id = $2
	`, string(status), id); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit status update: %w", err)
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	current, err := lockOrderStatus(ctx, tx, id)
	if err != nil {
		return err
	}

	// Выданный заказ закрепил списание, отменённый уже вернул товар:
	// в обоих случаях удаление не трогает остатки.
	if !current.Terminal() {
		if err = restoreOrderStock(ctx, tx, id); err != nil {
			return err
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete order: %w", err)
	}
	return nil
}

// lockOrderStatus читает статус заказа с блокировкой строки заказа.
func lockOrderStatus(ctx context.Context, tx *sql.Tx, orderID int64) (domain.OrderStatus, error) {
	var status string
	err := tx.QueryRowContext(ctx, `
		SELECT status FROM orders WHERE id = $1 FOR UPDATE
	`, orderID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrOrderNotFound
		}
		return "", fmt.Errorf("lock order row: %w", err)
	}
	return domain.OrderStatus(status), nil
}

// restoreOrderStock возвращает остатки по всем позициям заказа внутри tx.
func restoreOrderStock(ctx context.Context, tx *sql.Tx, orderID int64) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, quantity FROM order_items WHERE order_id = $1 ORDER BY product_id ASC
	`, orderID)
	if err != nil {
		return fmt.Errorf("load order items for restore: %w", err)
	}

	type restore struct {
		productID int64
		quantity  int64
	}
	restores := make([]restore, 0)
	for rows.Next() {
		var item restore
		if err := rows.Scan(&item.productID, &item.quantity); err != nil {
			rows.Close()
			return fmt.Errorf("scan order item for restore: %w", err)
		}
		restores = append(restores, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate order items for restore: %w", err)
	}
	rows.Close()

	for _, item := range restores {
		if err := adjustStock(ctx, tx, item.productID, item.quantity); err != nil {
			return err
		}
	}
	return nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
