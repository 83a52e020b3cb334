package gateway

import (
	"context"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/sony/gobreaker/v2"
)

// RazorpayGateway creates orders through the Razorpay REST API. Calls run
// behind a circuit breaker; an open breaker fails fast without touching the
// network. No retries, the storefront client re-initiates on failure.
type RazorpayGateway struct {
	client  *razorpay.Client
	breaker *gobreaker.CircuitBreaker[map[string]interface{}]
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	settings := gobreaker.Settings{
		Name:        "razorpay-orders",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
	}
	return &RazorpayGateway{
		client:  razorpay.NewClient(keyID, keySecret),
		breaker: gobreaker.NewCircuitBreaker[map[string]interface{}](settings),
	}
}

func (g *RazorpayGateway) CreateOrder(_ context.Context, req CreateOrderRequest) (*Order, error) {
	data := map[string]interface{}{
		"amount":   req.AmountMinor,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	if req.Notes != nil {
		data["notes"] = req.Notes
	}

	body, err := g.breaker.Execute(func() (map[string]interface{}, error) {
		return g.client.Order.Create(data, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("razorpay order create failed: %w", err)
	}

	order := &Order{AmountMinor: req.AmountMinor, Currency: req.Currency}
	if id, ok := body["id"].(string); ok {
		order.ID = id
	}
	// The SDK decodes JSON numbers as float64.
	if amount, ok := body["amount"].(float64); ok {
		order.AmountMinor = int64(amount)
	}
	if currency, ok := body["currency"].(string); ok {
		order.Currency = currency
	}
	return order, nil
}
