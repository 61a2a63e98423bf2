package grpcsvc

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/orderstatus/internal/domain"
)

// ErrorDomain заполняет ErrorInfo.Domain в деталях ошибок сервиса.
const ErrorDomain = "orders.v1"

// Причины в ErrorInfo.Reason.
const (
	ReasonUnauthorized    = "UNAUTHORIZED"
	ReasonPaymentRequired = "PAYMENT_REQUIRED"
	ReasonDuplicateOrder  = "DUPLICATE_ORDER"
	ReasonOrderNotFound   = "ORDER_NOT_FOUND"
	ReasonOrderIDRequired = "ORDER_ID_REQUIRED"
	ReasonInvalidStatus   = "INVALID_ORDER_STATUS"
)

type errorMapping struct {
	sentinel error
	code     codes.Code
	reason   string
	// detailed: в сообщение статуса уходит полный текст ошибки, а не только sentinel.
	detailed bool
}

var errorMappings = []errorMapping{
	{sentinel: domain.ErrUnauthorized, code: codes.PermissionDenied, reason: ReasonUnauthorized},
	{sentinel: domain.ErrPaymentRequired, code: codes.FailedPrecondition, reason: ReasonPaymentRequired},
	{sentinel: domain.ErrDuplicateOrder, code: codes.AlreadyExists, reason: ReasonDuplicateOrder},
	{sentinel: domain.ErrOrderNotFound, code: codes.NotFound, reason: ReasonOrderNotFound},
	{sentinel: domain.ErrOrderIDRequired, code: codes.InvalidArgument, reason: ReasonOrderIDRequired, detailed: true},
	{sentinel: domain.ErrInvalidOrderStatus, code: codes.InvalidArgument, reason: ReasonInvalidStatus, detailed: true},
}

// toStatusError переводит доменную ошибку в gRPC-статус с ErrorInfo.
// Инфраструктурные ошибки скрываются за Internal.
func toStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.sentinel) {
			continue
		}
		message := m.sentinel.Error()
		if m.detailed {
			message = err.Error()
		}
		st := status.New(m.code, message)
		detailed, detailErr := st.WithDetails(&errdetails.ErrorInfo{Reason: m.reason, Domain: ErrorDomain})
		if detailErr != nil {
			return st.Err()
		}
		return detailed.Err()
	}

	return status.Error(codes.Internal, "internal error")
}

// FromStatusError восстанавливает доменную ошибку из ответа сервера.
// Ошибки без известного ErrorInfo возвращаются как есть.
func FromStatusError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	for _, detail := range st.Details() {
		info, ok := detail.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != ErrorDomain {
			continue
		}
		for _, m := range errorMappings {
			if info.GetReason() == m.reason {
				return m.sentinel
			}
		}
	}
	return err
}
