package domain

// CartProjection is the consolidated totals view used by the reconciliation
// flow: amounts in the store's major currency unit.
type CartProjection struct {
	ID              string           `json:"id"`
	Total           float64          `json:"total"`
	Subtotal        float64          `json:"subtotal"`
	ShippingTotal   float64          `json:"shipping_total"`
	Items           []LineItem       `json:"items"`
	ShippingMethods []ShippingMethod `json:"shipping_methods,omitempty"`
}

// Projection derives the totals view from the stored cart.
func (c *Cart) Projection() *CartProjection {
	p := &CartProjection{
		ID:              c.ID,
		Items:           c.Items,
		ShippingMethods: c.ShippingMethods,
	}
	for _, item := range c.Items {
		p.Subtotal += item.UnitPrice * float64(item.Quantity)
	}
	for _, sm := range c.ShippingMethods {
		p.ShippingTotal += sm.Amount
	}
	p.Total = p.Subtotal + p.ShippingTotal
	return p
}
