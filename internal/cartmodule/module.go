package cartmodule

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fjod/partial_cod/internal/cache"
	"github.com/fjod/partial_cod/internal/domain"
	"github.com/fjod/partial_cod/internal/repository"
	"golang.org/x/sync/singleflight"
)

// Module is the cart capability consumed by the reconciliation flow:
// retrieval, batched partial update, and consolidated totals query.
type Module interface {
	RetrieveCart(ctx context.Context, cartID string) (*domain.Cart, error)
	UpdateCarts(ctx context.Context, updates []domain.CartUpdate) error
	QueryTotals(ctx context.Context, cartID string) (*domain.CartProjection, error)
}

var ErrCartNotFound = repository.ErrCartNotFound

type CartModule struct {
	repo  repository.CartRepository
	cache cache.ProjectionCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCartModule(repo repository.CartRepository, cache cache.ProjectionCache) *CartModule {
	return &CartModule{
		repo:  repo,
		cache: cache,
	}
}

func (m *CartModule) RetrieveCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	return m.repo.GetCart(ctx, cartID)
}

// UpdateCarts writes through to the store and invalidates cached totals for
// every touched cart.
func (m *CartModule) UpdateCarts(ctx context.Context, updates []domain.CartUpdate) error {
	if err := m.repo.UpdateCarts(ctx, updates); err != nil {
		log.Printf("repo update carts error: %v \n", err)
		return err
	}

	for _, u := range updates {
		invalidateCache(m, u.ID)
	}
	return nil
}

// QueryTotals returns the consolidated totals projection, serving from the
// cache when possible.
func (m *CartModule) QueryTotals(ctx context.Context, cartID string) (*domain.CartProjection, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := m.sfg.Do(cartID, func() (interface{}, error) {

		totals, err := m.cache.Get(ctx, cartID)
		if err == nil {
			return totals, nil // totals are in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		cart, errGet := m.repo.GetCart(ctx, cartID)
		if errGet != nil {
			return nil, errGet
		}

		projection := cart.Projection()

		// set cache
		go func() {
			errSet := m.cache.Set(context.Background(), cartID, projection)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return projection, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.CartProjection), nil
}

func invalidateCache(m *CartModule, cartID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := m.cache.Delete(ctx, cartID)
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v \n", errInvalidate)
	}
}
