package domain

import "fmt"

// OrderStatus описывает жизненный цикл заказа.
// Значения совпадают с тегами, которые уходят в хранилище и на провод.
type OrderStatus string

const (
	// OrderStatusPending: заказ принят, работа по нему ещё не запланирована.
	OrderStatusPending OrderStatus = "Pending"
	// OrderStatusScheduled: исполнение заказа запланировано.
	OrderStatusScheduled OrderStatus = "Scheduled"
	// OrderStatusInProgress: заказ исполняется.
	OrderStatusInProgress OrderStatus = "InProgress"
	// OrderStatusCompleted: заказ исполнен.
	OrderStatusCompleted OrderStatus = "Completed"
	// OrderStatusCancelled: заказ отменён.
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// OrderStatuses перечисляет все допустимые статусы в порядке жизненного цикла.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusScheduled,
		OrderStatusInProgress,
		OrderStatusCompleted,
		OrderStatusCancelled,
	}
}

// Valid проверяет, что статус относится к закрытому перечислению.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusScheduled, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

func (s OrderStatus) String() string { return string(s) }

// ParseOrderStatus разбирает тег статуса. Регистр имеет значение.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(raw)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidOrderStatus, raw)
	}
	return status, nil
}

// Order: запись, которую хранит OrderStore. OrderID задаётся при создании и больше не меняется.
type Order struct {
	OrderID     string      `json:"order_id"`
	Description string      `json:"description"`
	Status      OrderStatus `json:"status"`
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.OrderID == "" {
		errs = append(errs, ErrOrderIDRequired)
	}
	if !o.Status.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidOrderStatus, string(o.Status)))
	}

	return errs
}
