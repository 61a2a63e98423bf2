package memory_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/orderstatus/internal/domain"
	"github.com/vladislavdragonenkov/orderstatus/internal/storage/memory"
)

func newOrder() domain.Order {
	return domain.Order{
		OrderID:     "order-1",
		Description: "desc",
		Status:      domain.OrderStatusPending,
	}
}

func TestOrderStore_EmptyOnStart(t *testing.T) {
	store := memory.NewOrderStore()

	ok, err := store.Contains("order-1")
	if err != nil {
		t.Fatalf("contains failed: %v", err)
	}
	if ok {
		t.Fatal("expected empty store")
	}

	if _, err := store.Get("order-1"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderStore_InsertGet(t *testing.T) {
	store := memory.NewOrderStore()
	order := newOrder()

	if err := store.Insert(order); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	ok, err := store.Contains(order.OrderID)
	if err != nil {
		t.Fatalf("contains failed: %v", err)
	}
	if !ok {
		t.Fatal("expected order to be present")
	}

	stored, err := store.Get(order.OrderID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored != order {
		t.Fatalf("expected %+v, got %+v", order, stored)
	}
}

func TestOrderStore_InsertOverwrites(t *testing.T) {
	store := memory.NewOrderStore()
	order := newOrder()
	if err := store.Insert(order); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	order.Description = "changed"
	order.Status = domain.OrderStatusCompleted
	if err := store.Insert(order); err != nil {
		t.Fatalf("second insert failed: %v", err)
	}

	stored, err := store.Get(order.OrderID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Description != "changed" || stored.Status != domain.OrderStatusCompleted {
		t.Fatalf("expected overwrite, got %+v", stored)
	}
}

func TestOrderStore_GetReturnsCopy(t *testing.T) {
	store := memory.NewOrderStore()
	if err := store.Insert(newOrder()); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	stored, err := store.Get("order-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	stored.Description = "mutated outside"

	again, err := store.Get("order-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if again.Description != "desc" {
		t.Fatalf("store was mutated through returned copy: %+v", again)
	}
}
