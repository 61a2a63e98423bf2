package domain_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/orderstatus/internal/domain"
)

// helper для создания базового заказа.
func makeOrder() domain.Order {
	return domain.Order{
		OrderID:     "order-1",
		Description: "two bags of rice",
		Status:      domain.OrderStatusPending,
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	for _, status := range domain.OrderStatuses() {
		order := makeOrder()
		order.Status = status
		if errs := order.ValidateInvariants(); len(errs) != 0 {
			t.Fatalf("expected no validation errors for %s, got %v", status, errs)
		}
	}
}

func TestOrderValidateInvariants_EmptyDescriptionAllowed(t *testing.T) {
	order := makeOrder()
	order.Description = ""
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
		want error
	}{
		{
			name: "no order id",
			mut: func(o *domain.Order) {
				o.OrderID = ""
			},
			want: domain.ErrOrderIDRequired,
		},
		{
			name: "unknown status",
			mut: func(o *domain.Order) {
				o.Status = "Shipped"
			},
			want: domain.ErrInvalidOrderStatus,
		},
		{
			name: "lowercase status",
			mut: func(o *domain.Order) {
				o.Status = "pending"
			},
			want: domain.ErrInvalidOrderStatus,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)

			errs := order.ValidateInvariants()
			if len(errs) != 1 {
				t.Fatalf("expected exactly one validation error, got %v", errs)
			}
			if !errors.Is(errs[0], tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, errs[0])
			}
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, status := range domain.OrderStatuses() {
		parsed, err := domain.ParseOrderStatus(string(status))
		if err != nil {
			t.Fatalf("parse %s: %v", status, err)
		}
		if parsed != status {
			t.Fatalf("expected %s, got %s", status, parsed)
		}
	}

	if _, err := domain.ParseOrderStatus("Refunded"); !errors.Is(err, domain.ErrInvalidOrderStatus) {
		t.Fatalf("expected ErrInvalidOrderStatus, got %v", err)
	}
	if _, err := domain.ParseOrderStatus(""); !errors.Is(err, domain.ErrInvalidOrderStatus) {
		t.Fatalf("expected ErrInvalidOrderStatus for empty value, got %v", err)
	}
}

func TestStaticCallContext(t *testing.T) {
	var call domain.CallContext = domain.StaticCallContext{Caller: "orders.near", Deposit: 1}
	if call.CallerIdentity() != "orders.near" {
		t.Fatalf("unexpected caller: %s", call.CallerIdentity())
	}
	if call.AttachedValue() != 1 {
		t.Fatalf("unexpected attached value: %d", call.AttachedValue())
	}
}
