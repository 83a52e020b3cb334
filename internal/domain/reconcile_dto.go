package domain

// OrderRequest asks the payment gateway for an order covering the shipping
// fee. AmountMinor is in the smallest currency subunit (paise for INR).
type OrderRequest struct {
	AmountMinor int64
	Currency    string
	CartID      string
}

type OrderResponse struct {
	OrderID     string
	AmountMinor int64
	Currency    string
}

// ReconciliationRequest carries the gateway callback payload plus the cart
// being settled.
type ReconciliationRequest struct {
	CartID          string
	PaymentID       string
	OrderID         string
	Signature       string
	PaidAmountMinor int64
}

// ReconciliationResult is the consolidated outcome returned to the caller.
// Signature and amount mismatches are flags, not failures; UpdatedTotals is
// nil when the post-mutation re-query failed.
type ReconciliationResult struct {
	SignatureValid      bool
	AmountMatches       bool
	ExpectedAmountMinor int64
	ReceivedAmountMinor int64
	ShippingBefore      float64
	UpdatedTotals       *CartProjection
}

// ReconciliationRecord is the audit ledger row for one attempt.
type ReconciliationRecord struct {
	CartID         string
	PaymentID      string
	OrderID        string
	SignatureValid bool
	AmountMatches  bool
	ExpectedMinor  int64
	ReceivedMinor  int64
	ShippingBefore float64
}

// ReconciliationEvent is published to Kafka after a successful call.
type ReconciliationEvent struct {
	Type           string `json:"type"`
	CartID         string `json:"cart_id"`
	PaymentID      string `json:"payment_id"`
	OrderID        string `json:"order_id"`
	SignatureValid bool   `json:"signature_valid"`
	AmountMatches  bool   `json:"amount_matches"`
	AmountMinor    int64  `json:"amount_minor"`
	OccurredAt     string `json:"occurred_at"`
}

const EventTypeReconciled = "shipping_payment.reconciled"
