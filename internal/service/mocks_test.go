package service

import (
	"context"
	"sync"

	"github.com/fjod/partial_cod/internal/cartmodule"
	"github.com/fjod/partial_cod/internal/domain"
	"github.com/fjod/partial_cod/internal/gateway"
)

// MockCartModule implements cartmodule.Module against an in-memory cart, so
// updates issued by the flow are observable on the next query.
type MockCartModule struct {
	mu   sync.Mutex
	Cart *domain.Cart

	RetrieveErr error
	QueryErr    error
	RequeryErr  error // fails QueryTotals calls after the first
	RemoveErr   error // fails the shipping_methods update
	MetadataErr error // fails the metadata update

	RetrieveCalls int
	QueryCalls    int
	Updates       [][]domain.CartUpdate
}

func (m *MockCartModule) RetrieveCart(_ context.Context, cartID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RetrieveCalls++
	if m.RetrieveErr != nil {
		return nil, m.RetrieveErr
	}
	if m.Cart == nil || m.Cart.ID != cartID {
		return nil, cartmodule.ErrCartNotFound
	}
	return m.Cart, nil
}

func (m *MockCartModule) QueryTotals(_ context.Context, cartID string) (*domain.CartProjection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryCalls++
	if m.QueryCalls == 1 && m.QueryErr != nil {
		return nil, m.QueryErr
	}
	if m.QueryCalls > 1 && m.RequeryErr != nil {
		return nil, m.RequeryErr
	}
	if m.Cart == nil || m.Cart.ID != cartID {
		return nil, cartmodule.ErrCartNotFound
	}
	return m.Cart.Projection(), nil
}

func (m *MockCartModule) UpdateCarts(_ context.Context, updates []domain.CartUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range updates {
		if u.ShippingMethods != nil && m.RemoveErr != nil {
			return m.RemoveErr
		}
		if u.Metadata != nil && m.MetadataErr != nil {
			return m.MetadataErr
		}
	}
	m.Updates = append(m.Updates, updates)
	for _, u := range updates {
		if m.Cart == nil || m.Cart.ID != u.ID {
			return cartmodule.ErrCartNotFound
		}
		if u.ShippingMethods != nil {
			m.Cart.ShippingMethods = *u.ShippingMethods
		}
		if u.Metadata != nil {
			if m.Cart.Metadata == nil {
				m.Cart.Metadata = map[string]interface{}{}
			}
			for key, value := range u.Metadata {
				m.Cart.Metadata[key] = value
			}
		}
	}
	return nil
}

// MockGateway implements gateway.OrderCreator and captures the last request.
type MockGateway struct {
	Order   *gateway.Order
	Err     error
	LastReq *gateway.CreateOrderRequest
}

func (m *MockGateway) CreateOrder(_ context.Context, req gateway.CreateOrderRequest) (*gateway.Order, error) {
	m.LastReq = &req
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Order, nil
}

// MockRecorder implements Recorder.
type MockRecorder struct {
	Entries []domain.ReconciliationRecord
	Err     error
}

func (m *MockRecorder) Record(_ context.Context, entry domain.ReconciliationRecord) error {
	if m.Err != nil {
		return m.Err
	}
	m.Entries = append(m.Entries, entry)
	return nil
}

// MockPublisher implements EventPublisher.
type MockPublisher struct {
	Events []domain.ReconciliationEvent
	Err    error
}

func (m *MockPublisher) PublishReconciled(_ context.Context, event domain.ReconciliationEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.Events = append(m.Events, event)
	return nil
}
