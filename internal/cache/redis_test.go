package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/partial_cod/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	c := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return c, mr, cleanup
}

func testTotals(cartID string) *domain.CartProjection {
	return &domain.CartProjection{
		ID:            cartID,
		Total:         500,
		Subtotal:      450,
		ShippingTotal: 50,
		Items: []domain.LineItem{
			{ProductID: 1, Quantity: 2, UnitPrice: 100},
			{ProductID: 2, Quantity: 1, UnitPrice: 250},
		},
		ShippingMethods: []domain.ShippingMethod{
			{ID: "sm_1", Name: "Standard", Amount: 50},
		},
	}
}

func TestGet_Success(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	cartID := "cart_1"

	totals := testTotals(cartID)
	totalsJSON, _ := json.Marshal(totals)
	mr.Set(cacheKey(cartID), string(totalsJSON))

	result, err := c.Get(ctx, cartID)
	require.NoError(t, err)
	assert.Equal(t, cartID, result.ID)
	assert.Equal(t, 50.0, result.ShippingTotal)
	assert.Len(t, result.Items, 2)
}

func TestGet_CacheMiss(t *testing.T) {
	c, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := c.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cartID := "cart_1"
	totalsJSON, err := json.Marshal(testTotals(cartID))
	require.NoError(t, err)

	truncated := totalsJSON[0:10]
	e2 := mr.Set(cacheKey(cartID), string(truncated))
	require.NoError(t, e2)

	_, cacheError := c.Get(context.Background(), cartID)
	assert.Error(t, cacheError)
	assert.NotErrorIs(t, cacheError, ErrCacheMiss)
}

func TestSet_RoundTrip(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	cartID := "cart_1"

	err := c.Set(ctx, cartID, testTotals(cartID))
	require.NoError(t, err)

	assert.True(t, mr.Exists(cacheKey(cartID)))

	result, err := c.Get(ctx, cartID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, result.Total)

	// TTL is base + jitter, never unbounded
	ttl := mr.TTL(cacheKey(cartID))
	assert.Greater(t, ttl.Minutes(), 14.0)
	assert.LessOrEqual(t, ttl.Minutes(), 20.0)
}

func TestDelete(t *testing.T) {
	c, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	cartID := "cart_1"

	require.NoError(t, c.Set(ctx, cartID, testTotals(cartID)))
	require.True(t, mr.Exists(cacheKey(cartID)))

	require.NoError(t, c.Delete(ctx, cartID))
	assert.False(t, mr.Exists(cacheKey(cartID)))
}

func TestDelete_MissingKeyIsNoError(t *testing.T) {
	c, _, cleanup := setupTestRedis(t)
	defer cleanup()

	assert.NoError(t, c.Delete(context.Background(), "nonexistent"))
}
