package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vladislavdragonenkov/orderstatus/internal/domain"
)

const opTimeout = 5 * time.Second

type orderStore struct {
	store *Store
}

// NewOrderStore создаёт Redis-реализацию OrderStore: один ключ на заказ, значение: JSON.
func NewOrderStore(store *Store) domain.OrderStore {
	return &orderStore{store: store}
}

func (s *orderStore) Contains(orderID string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	n, err := s.store.client.Exists(ctx, s.store.orderKey(orderID)).Result()
	if err != nil {
		return false, fmt.Errorf("check order exists: %w", err)
	}
	return n > 0, nil
}

func (s *orderStore) Get(orderID string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := s.store.client.Get(ctx, s.store.orderKey(orderID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}

	var order domain.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return domain.Order{}, fmt.Errorf("decode order %s: %w", orderID, err)
	}
	if !order.Status.Valid() {
		return domain.Order{}, fmt.Errorf("decode order %s: %w: %q", orderID, domain.ErrInvalidOrderStatus, string(order.Status))
	}
	return order, nil
}

func (s *orderStore) Insert(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	if err := s.store.client.Set(ctx, s.store.orderKey(order.OrderID), payload, 0).Err(); err != nil {
		return fmt.Errorf("set order: %w", err)
	}
	return nil
}

var _ domain.OrderStore = (*orderStore)(nil)
