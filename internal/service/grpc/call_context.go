package grpcsvc

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/orderstatus/internal/domain"
)

// Ключи метаданных вызова. Значения заполняет доверенный периметр.
const (
	MetadataCallerID        = "x-caller-id"
	MetadataAttachedDeposit = "x-attached-deposit"
	MetadataRequestID       = "x-request-id"
)

// callContextFromIncoming собирает контекст вызова из входящих метаданных.
// Отсутствующий депозит трактуется как ноль. Нечисловой депозит тоже даёт ноль,
// а malformed=true позволяет обработчику сообщить о нём после проверки вызывающего.
func callContextFromIncoming(ctx context.Context) (call domain.StaticCallContext, malformed bool) {
	md, _ := metadata.FromIncomingContext(ctx)

	call = domain.StaticCallContext{Caller: firstValue(md, MetadataCallerID)}

	raw := firstValue(md, MetadataAttachedDeposit)
	if raw == "" {
		return call, false
	}
	deposit, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return call, true
	}
	call.Deposit = deposit
	return call, false
}

// malformedDepositError подменяет отказ в оплате, если депозит не удалось разобрать.
// Отказ в доступе остаётся отказом в доступе.
func malformedDepositError(err error, malformed bool) error {
	if malformed && errors.Is(err, domain.ErrPaymentRequired) {
		return status.Errorf(codes.InvalidArgument, "%s must be a non-negative integer", MetadataAttachedDeposit)
	}
	return err
}

// WithCallContext добавляет к исходящему контексту идентичность вызывающего и приложенный депозит.
func WithCallContext(ctx context.Context, call domain.CallContext) context.Context {
	if call == nil {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx,
		MetadataCallerID, call.CallerIdentity(),
		MetadataAttachedDeposit, strconv.FormatUint(call.AttachedValue(), 10),
	)
}

func firstValue(md metadata.MD, key string) string {
	values := md.Get(key)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
