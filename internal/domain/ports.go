package domain

// OrderStore описывает требования к хранилищу заказов.
//
// Хранилище не проверяет уникальность: правила create-once/update-existing
// применяет сервисный слой до вызова Insert.
type OrderStore interface {
	// Contains сообщает, есть ли заказ с таким ID.
	Contains(orderID string) (bool, error)
	// Get возвращает копию заказа или ErrOrderNotFound, если его нет.
	Get(orderID string) (Order, error)
	// Insert безусловно записывает заказ под order.OrderID, перезаписывая прежнее значение.
	Insert(order Order) error
}

// CallContext даёт доступ к проверенным атрибутам текущего вызова.
type CallContext interface {
	// CallerIdentity возвращает проверенный идентификатор вызывающей стороны.
	CallerIdentity() string
	// AttachedValue возвращает количество минимальных единиц стоимости, приложенных к вызову.
	AttachedValue() uint64
}

// StaticCallContext: CallContext с заранее известными значениями.
type StaticCallContext struct {
	Caller  string
	Deposit uint64
}

// CallerIdentity реализует CallContext.
func (c StaticCallContext) CallerIdentity() string { return c.Caller }

// AttachedValue реализует CallContext.
func (c StaticCallContext) AttachedValue() uint64 { return c.Deposit }

var _ CallContext = StaticCallContext{}
