package grpcsvc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/vladislavdragonenkov/orderstatus/internal/domain"
)

// Client: типизированный клиент orders.v1.OrderService.
// Ошибки сервера с известным ErrorInfo возвращаются доменными sentinel-ошибками.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient оборачивает готовое соединение.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// CreateOrder создаёт заказ от имени call.
func (c *Client) CreateOrder(ctx context.Context, call domain.CallContext, order domain.Order) (string, error) {
	resp := new(CreateOrderResponse)
	req := &CreateOrderRequest{Order: orderToWire(order)}
	if err := c.invoke(WithCallContext(ctx, call), FullMethodCreateOrder, req, resp); err != nil {
		return "", err
	}
	return resp.Result, nil
}

// GetOrder читает заказ.
func (c *Client) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	resp := new(GetOrderResponse)
	if err := c.invoke(ctx, FullMethodGetOrder, &GetOrderRequest{OrderID: orderID}, resp); err != nil {
		return domain.Order{}, err
	}
	if resp.Order == nil {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	orderStatus, err := domain.ParseOrderStatus(resp.Order.Status)
	if err != nil {
		return domain.Order{}, err
	}
	return domain.Order{
		OrderID:     resp.Order.OrderID,
		Description: resp.Order.Description,
		Status:      orderStatus,
	}, nil
}

// UpdateOrder обновляет описание и статус заказа от имени call.
func (c *Client) UpdateOrder(ctx context.Context, call domain.CallContext, order domain.Order) (string, error) {
	resp := new(UpdateOrderResponse)
	req := &UpdateOrderRequest{Order: orderToWire(order)}
	if err := c.invoke(WithCallContext(ctx, call), FullMethodUpdateOrder, req, resp); err != nil {
		return "", err
	}
	return resp.Result, nil
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	err := c.conn.Invoke(ctx, method, req, resp, grpc.CallContentSubtype(CodecName))
	return FromStatusError(err)
}
