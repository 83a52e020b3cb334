package repository

import (
	"context"

	"github.com/fjod/partial_cod/internal/domain"
)

// CartRepository defines the interface for cart data operations
// Consumers define this interface, not the MongoDB implementation
type CartRepository interface {
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	UpdateCarts(ctx context.Context, updates []domain.CartUpdate) error
}
