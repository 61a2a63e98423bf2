package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsGuardRejection(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unauthorized",
			err:  ErrUnauthorized,
			want: true,
		},
		{
			name: "payment required",
			err:  ErrPaymentRequired,
			want: true,
		},
		{
			name: "wrapped payment required",
			err:  fmt.Errorf("create order: %w", ErrPaymentRequired),
			want: true,
		},
		{
			name: "duplicate order",
			err:  ErrDuplicateOrder,
			want: false,
		},
		{
			name: "not found",
			err:  ErrOrderNotFound,
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsGuardRejection(tt.err)
			if got != tt.want {
				t.Errorf("IsGuardRejection() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	if ErrDuplicateOrder.Error() != "Order already exists" {
		t.Errorf("unexpected duplicate message: %q", ErrDuplicateOrder.Error())
	}
	if ErrOrderNotFound.Error() != "Order does not exist" {
		t.Errorf("unexpected not found message: %q", ErrOrderNotFound.Error())
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	all := []error{
		ErrUnauthorized,
		ErrPaymentRequired,
		ErrDuplicateOrder,
		ErrOrderNotFound,
		ErrOrderIDRequired,
		ErrInvalidOrderStatus,
	}

	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			if errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}
