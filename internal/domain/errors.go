package domain

import "errors"

//nolint:staticcheck // тексты ошибок заказов являются частью публичного контракта API.
var (
	// ErrUnauthorized: вызов пришёл не от собственной учётной записи сервиса.
	ErrUnauthorized = errors.New("caller is not authorized to modify orders")
	// ErrPaymentRequired: к вызову не приложена ровно одна минимальная единица стоимости.
	ErrPaymentRequired = errors.New("exactly one minimal unit of value must be attached")
	// ErrDuplicateOrder возвращается при повторном создании заказа с тем же ID.
	ErrDuplicateOrder = errors.New("Order already exists")
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("Order does not exist")
	// Ошибка отсутствующего идентификатора заказа.
	ErrOrderIDRequired = errors.New("order_id is required")
	// Ошибка статуса вне перечисления OrderStatus.
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// IsGuardRejection сообщает, что вызов отклонён проверкой авторизации или оплаты.
func IsGuardRejection(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrPaymentRequired)
}
