package orders

import (
	"github.com/vladislavdragonenkov/orderstatus/internal/domain"
)

// RequiredDeposit: сколько минимальных единиц стоимости должно быть приложено к изменяющему вызову.
// Это подтверждение намеренной записи, а не цена.
const RequiredDeposit uint64 = 1

// Guard проверяет изменяющие вызовы: сначала личность вызывающего, затем приложенную стоимость.
type Guard struct {
	selfID string
}

// NewGuard создаёт проверку для сервиса с собственным идентификатором selfID.
func NewGuard(selfID string) Guard {
	return Guard{selfID: selfID}
}

// SelfID возвращает идентификатор, от имени которого разрешены изменения.
func (g Guard) SelfID() string {
	return g.selfID
}

// Authorize возвращает ErrUnauthorized или ErrPaymentRequired; хранилище при этом не трогается.
func (g Guard) Authorize(call domain.CallContext) error {
	if call == nil {
		return domain.ErrUnauthorized
	}
	caller := call.CallerIdentity()
	if caller == "" || g.selfID == "" || caller != g.selfID {
		return domain.ErrUnauthorized
	}
	if call.AttachedValue() != RequiredDeposit {
		return domain.ErrPaymentRequired
	}
	return nil
}
