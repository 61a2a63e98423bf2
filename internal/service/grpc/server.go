package grpcsvc

import (
	"context"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/orderstatus/internal/domain"
	"github.com/vladislavdragonenkov/orderstatus/internal/service/orders"
)

// OrderService реализует gRPC API поверх сервиса заказов.
type OrderService struct {
	orders *orders.Service
	logger *log.Entry
}

var _ OrderServiceServer = (*OrderService)(nil)

// NewOrderService конструирует gRPC-обработчик.
func NewOrderService(service *orders.Service, logger *log.Entry) *OrderService {
	if logger == nil {
		logger = log.WithField("component", "grpc-order-service")
	}
	return &OrderService{orders: service, logger: logger}
}

// CreateOrder создаёт заказ от имени вызывающего из метаданных.
// Форма запроса проверяется сервисом уже после проверки вызывающего.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	order := orderFromWire(req.GetOrder())
	call, malformed := callContextFromIncoming(ctx)

	result, err := s.orders.CreateOrder(call, order)
	if err != nil {
		return nil, s.statusError(ctx, "CreateOrder", order.OrderID, malformedDepositError(err, malformed))
	}
	return &CreateOrderResponse{Result: result}, nil
}

// GetOrder возвращает заказ; метаданные вызывающего не требуются.
// Идентификатор проверяется так же, как при создании, иначе созданный заказ мог бы оказаться нечитаемым.
func (s *OrderService) GetOrder(ctx context.Context, req *GetOrderRequest) (*GetOrderResponse, error) {
	orderID := req.GetOrderID()
	if orderID == "" {
		return nil, s.statusError(ctx, "GetOrder", orderID, domain.ErrOrderIDRequired)
	}

	order, err := s.orders.GetOrder(orderID)
	if err != nil {
		return nil, s.statusError(ctx, "GetOrder", orderID, err)
	}
	return &GetOrderResponse{Order: orderToWire(order)}, nil
}

// UpdateOrder перезаписывает описание и статус существующего заказа.
func (s *OrderService) UpdateOrder(ctx context.Context, req *UpdateOrderRequest) (*UpdateOrderResponse, error) {
	order := orderFromWire(req.GetOrder())
	call, malformed := callContextFromIncoming(ctx)

	result, err := s.orders.UpdateOrder(call, order)
	if err != nil {
		return nil, s.statusError(ctx, "UpdateOrder", order.OrderID, malformedDepositError(err, malformed))
	}
	return &UpdateOrderResponse{Result: result}, nil
}

func (s *OrderService) statusError(ctx context.Context, method, orderID string, err error) error {
	st := toStatusError(err)
	if status.Code(st) == codes.Internal {
		s.logger.WithError(err).WithFields(log.Fields{
			"method":     method,
			"order_id":   orderID,
			"request_id": requestIDFromContext(ctx),
		}).Error("order call failed")
	}
	return st
}

// orderFromWire не валидирует: пустой заказ отклонит сервис после проверки вызывающего.
func orderFromWire(in *Order) domain.Order {
	if in == nil {
		return domain.Order{}
	}
	return domain.Order{
		OrderID:     in.OrderID,
		Description: in.Description,
		Status:      domain.OrderStatus(in.Status),
	}
}

func orderToWire(order domain.Order) *Order {
	return &Order{
		OrderID:     order.OrderID,
		Description: order.Description,
		Status:      order.Status.String(),
	}
}
