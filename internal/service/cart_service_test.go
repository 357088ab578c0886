package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
)

func TestCartService_AddMergesAndCaps(t *testing.T) {
	cartService := NewCartService(newMockCartRepository(), zap.NewNop())
	ctx := context.Background()

	req := &domain.AddToCartRequest{MenuID: 7, Name: "Paneer Tikka", Price: 250, Quantity: 30, RestaurantID: 3}

	cart, err := cartService.AddItem(ctx, 1, req)
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 30 {
		t.Fatalf("unexpected cart: %+v", cart.Items)
	}
	if cart.Total != 7500 {
		t.Errorf("Expected total 7500, got %v", cart.Total)
	}

	cart, err = cartService.AddItem(ctx, 1, req)
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if got := cart.Items[0].Quantity; got != domain.MaxCartQuantity {
		t.Errorf("quantity should be capped at %d, got %d", domain.MaxCartQuantity, got)
	}
}

func TestCartService_GetCartEmpty(t *testing.T) {
	cartService := NewCartService(newMockCartRepository(), zap.NewNop())

	cart, err := cartService.GetCart(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetCart failed: %v", err)
	}
	if cart.Items == nil || len(cart.Items) != 0 || cart.Total != 0 {
		t.Errorf("empty cart should have non-nil empty items, got %+v", cart)
	}
}

func TestCartService_RemoveItem(t *testing.T) {
	cartService := NewCartService(newMockCartRepository(), zap.NewNop())
	ctx := context.Background()

	cartService.AddItem(ctx, 1, &domain.AddToCartRequest{MenuID: 1, Name: "Dosa", Price: 80, Quantity: 2, RestaurantID: 1})
	cartService.AddItem(ctx, 1, &domain.AddToCartRequest{MenuID: 2, Name: "Idli", Price: 40, Quantity: 1, RestaurantID: 1})

	cart, err := cartService.RemoveItem(ctx, 1, 1)
	if err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].MenuID != 2 {
		t.Errorf("unexpected cart after removal: %+v", cart.Items)
	}

	if _, err := cartService.RemoveItem(ctx, 1, 1); !errors.Is(err, ErrCartItemNotFound) {
		t.Errorf("Expected ErrCartItemNotFound, got %v", err)
	}
	// 其他用户的条目不可见
	if _, err := cartService.RemoveItem(ctx, 2, 2); !errors.Is(err, ErrCartItemNotFound) {
		t.Errorf("Expected ErrCartItemNotFound for another user, got %v", err)
	}
}

func TestCartService_RepositoryFailure(t *testing.T) {
	cartRepo := newMockCartRepository()
	cartRepo.err = errMockDB
	cartService := NewCartService(cartRepo, zap.NewNop())

	if _, err := cartService.GetCart(context.Background(), 1); !errors.Is(err, errMockDB) {
		t.Errorf("Expected wrapped repository error, got %v", err)
	}
}
