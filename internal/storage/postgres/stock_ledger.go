package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/montazhzhilstroy/backoffice/internal/domain"
)

// dbtx покрывает и *sql.DB, и *sql.Tx, чтобы корректировка остатка могла
// работать как самостоятельно, так и внутри чужой транзакции.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// adjustStock читает остаток с блокировкой строки и записывает новый.
// Строчная блокировка сериализует конкурирующие read-then-write по одному
// товару, поэтому остаток не может уйти ниже нуля из-за гонки.
func adjustStock(ctx context.Context, q dbtx, productID, delta int64) error {
	var (
		name    string
		current int64
	)
	err := q.QueryRowContext(ctx, `
		SELECT name, stock_quantity
		FROM products
		WHERE id = $1
		FOR UPDATE
	`, productID).Scan(&name, &current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("lock product row: %w", err)
	}

	next := current + delta
	if next < 0 {
		return &domain.InsufficientStockError{
			ProductID:   productID,
			ProductName: name,
			Available:   current,
			Requested:   -delta,
		}
	}

	if _, err := q.ExecContext(ctx, `
		UPDATE products SET stock_quantity = $1 WHERE id = $2
	`, next, productID); err != nil {
		return fmt.Errorf("update stock quantity: %w", err)
	}
	return nil
}

type stockLedger struct {
	db *sql.DB
}

// NewStockLedger создаёт PostgreSQL-реализацию StockLedger для
// самостоятельных корректировок остатка (приёмка, инвентаризация).
func NewStockLedger(store *Store) domain.StockLedger {
	return &stockLedger{db: store.DB()}
}

func (l *stockLedger) Adjust(ctx context.Context, productID, delta int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = adjustStock(ctx, tx, productID, delta); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit stock adjustment: %w", err)
	}
	return nil
}

var _ domain.StockLedger = (*stockLedger)(nil)
