package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjection_Totals(t *testing.T) {
	cart := &Cart{
		ID: "cart_1",
		Items: []LineItem{
			{ProductID: 1, Quantity: 2, UnitPrice: 100},
			{ProductID: 2, Quantity: 1, UnitPrice: 250},
		},
		ShippingMethods: []ShippingMethod{
			{ID: "sm_1", Name: "Standard", Amount: 50},
		},
	}

	p := cart.Projection()

	assert.Equal(t, "cart_1", p.ID)
	assert.Equal(t, 450.0, p.Subtotal)
	assert.Equal(t, 50.0, p.ShippingTotal)
	assert.Equal(t, 500.0, p.Total)
	assert.Len(t, p.Items, 2)
	assert.Len(t, p.ShippingMethods, 1)
}

func TestProjection_EmptyCart(t *testing.T) {
	cart := &Cart{ID: "cart_empty"}

	p := cart.Projection()

	assert.Zero(t, p.Subtotal)
	assert.Zero(t, p.ShippingTotal)
	assert.Zero(t, p.Total)
	assert.Empty(t, p.ShippingMethods)
}

func TestExpectedMinor_ExactConversion(t *testing.T) {
	policy := DefaultPaymentPolicy()

	assert.Equal(t, int64(5000), policy.ExpectedMinor(50))
	assert.Equal(t, int64(4999), policy.ExpectedMinor(49.99))
	assert.Equal(t, int64(1), policy.ExpectedMinor(0.01))
	assert.Equal(t, int64(0), policy.ExpectedMinor(0))
}

func TestExpectedMinor_CustomFactor(t *testing.T) {
	policy := DefaultPaymentPolicy()
	policy.MinorUnitFactor = 1000 // e.g. Bahraini dinar fils

	assert.Equal(t, int64(50000), policy.ExpectedMinor(50))
}

func TestDefaultPaymentPolicy(t *testing.T) {
	policy := DefaultPaymentPolicy()

	assert.Equal(t, "INR", policy.BaseCurrency)
	assert.Equal(t, int64(100), policy.MinorUnitFactor)
	assert.False(t, policy.EnforceSignature)
	assert.True(t, policy.RemoveShippingOnMismatch)
}
