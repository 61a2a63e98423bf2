package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/orderstatus/internal/domain"
)

// orderStoreInMemory: простая in-memory реализация OrderStore.
type orderStoreInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Order
}

// NewOrderStore возвращает пустое in-memory хранилище для локальной разработки и тестов.
func NewOrderStore() domain.OrderStore {
	return &orderStoreInMemory{
		items: make(map[string]domain.Order),
	}
}

// Contains сообщает, занят ли ID.
func (s *orderStoreInMemory) Contains(orderID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.items[orderID]
	return ok, nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (s *orderStoreInMemory) Get(orderID string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.items[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// Insert перезаписывает значение под order.OrderID.
func (s *orderStoreInMemory) Insert(order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Order не содержит ссылочных полей, поэтому значение в map: уже копия.
	s.items[order.OrderID] = order
	return nil
}

var _ domain.OrderStore = (*orderStoreInMemory)(nil)
