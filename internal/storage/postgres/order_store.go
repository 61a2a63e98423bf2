package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/orderstatus/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

type orderStore struct {
	db *sql.DB
}

// NewOrderStore создаёт PostgreSQL-реализацию OrderStore поверх таблицы orders.
func NewOrderStore(store *Store) domain.OrderStore {
	return &orderStore{db: store.DB()}
}

func (s *orderStore) Contains(orderID string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE order_id = $1)`, orderID,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("check order exists: %w", err)
	}
	return exists, nil
}

func (s *orderStore) Get(orderID string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		order  domain.Order
		status string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT order_id, description, status
		FROM orders
		WHERE order_id = $1
	`, orderID).Scan(&order.OrderID, &order.Description, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	order.Status, err = domain.ParseOrderStatus(status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("decode order %s: %w", orderID, err)
	}
	return order, nil
}

// Insert выполняет upsert: created_at сохраняется, updated_at обновляется.
func (s *orderStore) Insert(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (order_id, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (order_id) DO UPDATE
		SET description = EXCLUDED.description,
		    status = EXCLUDED.status,
		    updated_at = EXCLUDED.updated_at
	`, order.OrderID, order.Description, string(order.Status), now); err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("insert order: %w", domain.ErrInvalidOrderStatus)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

var _ domain.OrderStore = (*orderStore)(nil)
