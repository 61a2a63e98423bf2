package orders

import (
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderstatus/internal/domain"
	"github.com/vladislavdragonenkov/orderstatus/internal/metrics"
)

// ResultOK возвращается изменяющими операциями при успехе.
const ResultOK = "OK"

const (
	operationCreateOrder = "create_order"
	operationGetOrder    = "get_order"
	operationUpdateOrder = "update_order"
)

// Service реализует операции над заказами поверх OrderStore.
//
// Вызовы сериализуются: изменяющие операции выполняются эксклюзивно,
// поэтому проверка существования и запись одного вызова не пересекаются с другим.
type Service struct {
	store   domain.OrderStore
	guard   Guard
	logger  *log.Entry
	metrics *metrics.OrderMetrics

	mu sync.RWMutex
}

// NewService конструирует сервис. selfID: собственный идентификатор сервиса,
// только вызовы от его имени могут изменять заказы.
func NewService(store domain.OrderStore, selfID string, logger *log.Entry, orderMetrics *metrics.OrderMetrics) *Service {
	if logger == nil {
		logger = log.WithField("component", "order-service")
	}
	return &Service{
		store:   store,
		guard:   NewGuard(selfID),
		logger:  logger,
		metrics: orderMetrics,
	}
}

// CreateOrder сохраняет новый заказ как есть. Повторный ID даёт ErrDuplicateOrder без записи.
func (s *Service) CreateOrder(call domain.CallContext, order domain.Order) (result string, err error) {
	defer s.observe(operationCreateOrder, order.OrderID, time.Now(), &err)

	if err := s.authorize(call); err != nil {
		return "", err
	}
	if err := validate(order); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.store.Contains(order.OrderID)
	if err != nil {
		return "", fmt.Errorf("check order %s: %w", order.OrderID, err)
	}
	if exists {
		return "", domain.ErrDuplicateOrder
	}

	if err := s.store.Insert(order); err != nil {
		return "", fmt.Errorf("insert order %s: %w", order.OrderID, err)
	}
	return ResultOK, nil
}

// GetOrder возвращает заказ. Проверка авторизации для чтения не нужна.
func (s *Service) GetOrder(orderID string) (order domain.Order, err error) {
	defer s.observe(operationGetOrder, orderID, time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()

	order, err = s.store.Get(orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return order, nil
}

// UpdateOrder перезаписывает описание и статус существующего заказа.
// OrderID из запроса используется только для поиска и никогда не переименовывает запись.
func (s *Service) UpdateOrder(call domain.CallContext, order domain.Order) (result string, err error) {
	defer s.observe(operationUpdateOrder, order.OrderID, time.Now(), &err)

	if err := s.authorize(call); err != nil {
		return "", err
	}
	if err := validate(order); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.store.Get(order.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return "", domain.ErrOrderNotFound
		}
		return "", fmt.Errorf("load order %s: %w", order.OrderID, err)
	}

	stored.Description = order.Description
	stored.Status = order.Status
	if err := s.store.Insert(stored); err != nil {
		return "", fmt.Errorf("save order %s: %w", stored.OrderID, err)
	}
	return ResultOK, nil
}

func (s *Service) authorize(call domain.CallContext) error {
	err := s.guard.Authorize(call)
	if err == nil {
		return nil
	}

	fields := log.Fields{"self_id": s.guard.SelfID()}
	if call != nil {
		fields["caller_id"] = call.CallerIdentity()
		fields["attached_value"] = call.AttachedValue()
	}
	s.logger.WithError(err).WithFields(fields).Warn("mutating call rejected by guard")
	s.metrics.RecordGuardRejection(outcomeOf(err))
	return err
}

// validate выполняется после проверки вызывающего: неавторизованный вызов
// не узнаёт ничего о корректности своего запроса.
func validate(order domain.Order) error {
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return fmt.Errorf("invalid order: %w", errors.Join(errs...))
	}
	return nil
}

func (s *Service) observe(operation, orderID string, started time.Time, errp *error) {
	err := *errp
	outcome := outcomeOf(err)
	s.metrics.RecordOperation(operation, outcome, time.Since(started))

	entry := s.logger.WithFields(log.Fields{
		"operation": operation,
		"order_id":  orderID,
		"outcome":   outcome,
	})
	switch outcome {
	case outcomeOK:
		entry.Debug("order operation completed")
	case outcomeUnauthorized, outcomePaymentRequired:
		// уже залогировано в authorize вместе с атрибутами вызова
	case outcomeError:
		entry.WithError(err).Error("order operation failed")
	default:
		entry.WithError(err).Info("order operation refused")
	}
}

const (
	outcomeOK              = "ok"
	outcomeUnauthorized    = "unauthorized"
	outcomePaymentRequired = "payment_required"
	outcomeDuplicate       = "duplicate"
	outcomeNotFound        = "not_found"
	outcomeInvalid         = "invalid"
	outcomeError           = "error"
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, domain.ErrUnauthorized):
		return outcomeUnauthorized
	case errors.Is(err, domain.ErrPaymentRequired):
		return outcomePaymentRequired
	case errors.Is(err, domain.ErrDuplicateOrder):
		return outcomeDuplicate
	case errors.Is(err, domain.ErrOrderNotFound):
		return outcomeNotFound
	case errors.Is(err, domain.ErrOrderIDRequired), errors.Is(err, domain.ErrInvalidOrderStatus):
		return outcomeInvalid
	default:
		return outcomeError
	}
}
