package grpcsvc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName: полное имя gRPC-сервиса заказов.
const ServiceName = "orders.v1.OrderService"

const (
	FullMethodCreateOrder = "/" + ServiceName + "/CreateOrder"
	FullMethodGetOrder    = "/" + ServiceName + "/GetOrder"
	FullMethodUpdateOrder = "/" + ServiceName + "/UpdateOrder"
)

// Order: представление заказа на проводе.
// Status передаётся строкой, чтобы неизвестные значения отклонялись валидацией, а не декодером.
type Order struct {
	OrderID     string `json:"order_id"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type CreateOrderRequest struct {
	Order *Order `json:"order"`
}

type CreateOrderResponse struct {
	Result string `json:"result"`
}

type GetOrderRequest struct {
	OrderID string `json:"order_id"`
}

type GetOrderResponse struct {
	Order *Order `json:"order"`
}

type UpdateOrderRequest struct {
	Order *Order `json:"order"`
}

type UpdateOrderResponse struct {
	Result string `json:"result"`
}

// Геттеры безопасны для nil, как у сгенерированных protobuf-сообщений.

func (r *CreateOrderRequest) GetOrder() *Order {
	if r == nil {
		return nil
	}
	return r.Order
}

func (r *GetOrderRequest) GetOrderID() string {
	if r == nil {
		return ""
	}
	return r.OrderID
}

func (r *UpdateOrderRequest) GetOrder() *Order {
	if r == nil {
		return nil
	}
	return r.Order
}

// OrderServiceServer: серверная сторона orders.v1.OrderService.
type OrderServiceServer interface {
	CreateOrder(context.Context, *CreateOrderRequest) (*CreateOrderResponse, error)
	GetOrder(context.Context, *GetOrderRequest) (*GetOrderResponse, error)
	UpdateOrder(context.Context, *UpdateOrderRequest) (*UpdateOrderResponse, error)
}

// RegisterOrderServiceServer регистрирует реализацию на gRPC-сервере.
func RegisterOrderServiceServer(registrar grpc.ServiceRegistrar, srv OrderServiceServer) {
	registrar.RegisterService(&OrderServiceDesc, srv)
}

// OrderServiceDesc описывает сервис для grpc.Server.
var OrderServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateOrder", Handler: createOrderHandler},
		{MethodName: "GetOrder", Handler: getOrderHandler},
		{MethodName: "UpdateOrder", Handler: updateOrderHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "orders/v1/order_service",
}

func createOrderHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServiceServer).CreateOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethodCreateOrder}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderServiceServer).CreateOrder(ctx, req.(*CreateOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getOrderHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServiceServer).GetOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethodGetOrder}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderServiceServer).GetOrder(ctx, req.(*GetOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func updateOrderHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(UpdateOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderServiceServer).UpdateOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethodUpdateOrder}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderServiceServer).UpdateOrder(ctx, req.(*UpdateOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}
