package gateway

import "context"

type Order struct {
	ID          string
	AmountMinor int64
	Currency    string
}

type CreateOrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]interface{}
}

// OrderCreator is the upstream payment-gateway capability: given an amount
// and currency it returns an opaque order id that the gateway later signs
// together with its payment id.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
}
