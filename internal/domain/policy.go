package domain

import "math"

// PaymentPolicy holds the deployment-level decisions of the reconciliation
// flow. The defaults reproduce the storefront's original behavior: mismatches
// are advisory and the prepaid shipping method is always removed.
type PaymentPolicy struct {
	BaseCurrency    string
	MinorUnitFactor int64

	// EnforceSignature rejects the callback outright on a bad signature
	// instead of flagging it in the response.
	EnforceSignature bool

	// RemoveShippingOnMismatch keeps the shipping method removal
	// unconditional even when the paid amount is wrong, so a stale fee is
	// never charged again at fulfillment.
	RemoveShippingOnMismatch bool
}

func DefaultPaymentPolicy() PaymentPolicy {
	return PaymentPolicy{
		BaseCurrency:             "INR",
		MinorUnitFactor:          100,
		EnforceSignature:         false,
		RemoveShippingOnMismatch: true,
	}
}

// ExpectedMinor converts a major-unit shipping total to the minor unit.
// Rounding guards against float noise; any total representable in the minor
// unit converts exactly.
func (p PaymentPolicy) ExpectedMinor(shippingTotal float64) int64 {
	return int64(math.Round(shippingTotal * float64(p.MinorUnitFactor)))
}
