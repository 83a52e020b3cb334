package domain

import "time"

// Cart is the checkout aggregate owned by the storefront. This service only
// reads it and patches shipping_methods and metadata.
type Cart struct {
	ID              string                 `bson:"_id" json:"id"`
	Email           string                 `bson:"email,omitempty" json:"email,omitempty"`
	Items           []LineItem             `bson:"items" json:"items"`
	ShippingMethods []ShippingMethod       `bson:"shipping_methods" json:"shipping_methods"`
	Metadata        map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt       time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time              `bson:"updated_at" json:"updated_at"`
}

type LineItem struct {
	ProductID int64   `bson:"product_id" json:"product_id"`
	Title     string  `bson:"title" json:"title"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	UnitPrice float64 `bson:"unit_price" json:"unit_price"`
}

type ShippingMethod struct {
	ID     string  `bson:"id" json:"id"`
	Name   string  `bson:"name" json:"name"`
	Amount float64 `bson:"amount" json:"amount"`
}

// CartUpdate is one entry of an updateCarts batch. Nil fields are left
// untouched; a non-nil ShippingMethods pointer replaces the whole set, so an
// empty slice clears it.
type CartUpdate struct {
	ID              string
	ShippingMethods *[]ShippingMethod
	Metadata        map[string]interface{}
}

// Metadata keys stamped by a reconciliation.
const (
	MetaShippingPaid       = "shipping_paid"
	MetaShippingPaidAmount = "shipping_paid_amount"
	MetaShippingPaymentID  = "shipping_payment_id"
)
