package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/montazhzhilstroy/backoffice/internal/domain"
)

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository создаёт PostgreSQL-реализацию ClientRepository.
func NewClientRepository(store *Store) domain.ClientRepository {
	return &clientRepository{db: store.DB()}
}

func (r *clientRepository) Create(ctx context.Context, client domain.Client) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO clients (full_name, phone, email, address)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		RETURNING id
	`,
		client.FullName, client.Phone, client.Email, client.Address,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "clients_email_key") {
			return 0, domain.ErrEmailTaken
		}
		return 0, fmt.Errorf("insert client: %w", err)
	}
	return id, nil
}

func (r *clientRepository) Get(ctx context.Context, id int64) (domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var (
		c     domain.Client
		email sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, full_name, phone, email, address, registered_at
		FROM clients
		WHERE id = $1
	`, id).Scan(&c.ID, &c.FullName, &c.Phone, &email, &c.Address, &c.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Client{}, domain.ErrClientNotFound
		}
		return domain.Client{}, fmt.Errorf("select client: %w", err)
	}
	c.Email = email.String
	return c, nil
}

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, full_name, phone, email, address, registered_at
		FROM clients
		ORDER BY full_name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]domain.Client, 0)
	for rows.Next() {
		var (
			c     domain.Client
			email sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.FullName, &c.Phone, &email, &c.Address, &c.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan client row: %w", err)
		}
		c.Email = email.String
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate client rows: %w", err)
	}
	return clients, nil
}

func (r *clientRepository) Update(ctx context.Context, id int64, update domain.ClientUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	set := make([]string, 0, 4)
	args := make([]any, 0, 5)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.FullName != nil {
		add("full_name", *update.FullName)
	}
	if update.Phone != nil {
		add("phone", *update.Phone)
	}
	if update.Email != nil {
		add("email", sql.NullString{String: *update.Email, Valid: *update.Email != ""})
	}
	if update.Address != nil {
		add("address", *update.Address)
	}
	if len(set) == 0 {
		return domain.ErrNothingToUpdate
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE clients SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err, "clients_email_key") {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update client: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err, "orders_client_id_fkey") {
			return domain.ErrClientReferenced
		}
		return fmt.Errorf("delete client: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

var _ domain.ClientRepository = (*clientRepository)(nil)
