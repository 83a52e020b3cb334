package service

import (
	"context"
	"strings"

	"github.com/fjod/partial_cod/internal/cartmodule"
	"github.com/fjod/partial_cod/internal/domain"
	"github.com/fjod/partial_cod/internal/gateway"
	"github.com/fjod/partial_cod/internal/signature"
)

// Recorder persists an audit row per reconciliation attempt. Failures are
// logged, never surfaced: the cart metadata stays the durable financial
// record.
type Recorder interface {
	Record(ctx context.Context, entry domain.ReconciliationRecord) error
}

// EventPublisher emits the reconciliation outcome, best-effort.
type EventPublisher interface {
	PublishReconciled(ctx context.Context, event domain.ReconciliationEvent) error
}

type PaymentService interface {
	InitiateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResponse, error)
	Reconcile(ctx context.Context, req domain.ReconciliationRequest) (*domain.ReconciliationResult, error)
}

type PaymentServiceImpl struct {
	carts    cartmodule.Module
	gateway  gateway.OrderCreator
	verifier *signature.Verifier
	policy   domain.PaymentPolicy
	audit    Recorder       // optional
	events   EventPublisher // optional
	locks    *keyedMutex
}

func NewPaymentService(
	carts cartmodule.Module,
	gw gateway.OrderCreator,
	verifier *signature.Verifier,
	policy domain.PaymentPolicy,
	audit Recorder,
	events EventPublisher,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		carts:    carts,
		gateway:  gw,
		verifier: verifier,
		policy:   policy,
		audit:    audit,
		events:   events,
		locks:    newKeyedMutex(),
	}
}

// InitiateOrder asks the gateway for an order covering the shipping fee.
// Leaf operation, no cart mutation.
func (s *PaymentServiceImpl) InitiateOrder(
	ctx context.Context,
	req domain.OrderRequest) (*domain.OrderResponse, error) {

	if req.AmountMinor <= 0 || strings.TrimSpace(req.CartID) == "" {
		return nil, validationError("amount and cart_id are required")
	}

	if s.gateway == nil {
		return nil, dependencyError("payment gateway is not configured")
	}

	currency := req.Currency
	if currency == "" {
		currency = s.policy.BaseCurrency
	}

	order, err := s.gateway.CreateOrder(ctx, gateway.CreateOrderRequest{
		AmountMinor: req.AmountMinor,
		Currency:    currency,
		Receipt:     req.CartID,
		Notes: map[string]interface{}{
			"cart_id": req.CartID,
			"purpose": "Shipping Payment (Partial COD)",
		},
	})
	if err != nil {
		return nil, gatewayError("failed to create payment order", err)
	}

	return &domain.OrderResponse{
		OrderID:     order.ID,
		AmountMinor: order.AmountMinor,
		Currency:    order.Currency,
	}, nil
}
