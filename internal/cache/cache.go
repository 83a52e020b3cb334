package cache

import (
	"context"
	"errors"

	"github.com/fjod/partial_cod/internal/domain"
)

type ProjectionCache interface {
	Get(ctx context.Context, cartID string) (*domain.CartProjection, error)
	Set(ctx context.Context, cartID string, totals *domain.CartProjection) error
	Delete(ctx context.Context, cartID string) error
}

var ErrCacheMiss = errors.New("cache miss")
