package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/fjod/partial_cod/internal/cartmodule"
	"github.com/fjod/partial_cod/internal/domain"
)

// Reconcile settles a shipping prepayment against its cart. The steps run in
// order, each a distinct failure domain; a failure aborts the remaining steps
// without rolling back the ones already committed. Signature and amount
// mismatches are flags in the result, not errors, unless the policy enforces
// signatures.
func (s *PaymentServiceImpl) Reconcile(
	ctx context.Context,
	req domain.ReconciliationRequest) (*domain.ReconciliationResult, error) {

	// Step 1: all five callback fields must be present.
	if req.CartID == "" || req.PaymentID == "" || req.OrderID == "" ||
		req.Signature == "" || req.PaidAmountMinor == 0 {
		return nil, validationError("Missing required fields")
	}

	// Step 2: recompute the signature. Never fails, only flags.
	signatureValid := s.verifier.Verify(req.OrderID, req.PaymentID, req.Signature)
	if s.policy.EnforceSignature && !signatureValid {
		return nil, validationError("invalid payment signature")
	}

	// Step 3: the cart capability must be wired.
	if s.carts == nil {
		return nil, dependencyError("cart module is not available")
	}

	// Hold the per-cart lock across every read and mutation so duplicate
	// callbacks for the same cart serialize instead of racing on metadata.
	unlock := s.locks.Lock(req.CartID)
	defer unlock()

	// Step 4: the cart must exist.
	if _, err := s.carts.RetrieveCart(ctx, req.CartID); err != nil {
		if errors.Is(err, cartmodule.ErrCartNotFound) {
			return nil, notFoundError("Cart not found")
		}
		return nil, queryError("failed to retrieve cart", err)
	}

	// Step 5: consolidated totals.
	totals, err := s.carts.QueryTotals(ctx, req.CartID)
	if err != nil {
		return nil, queryError("Failed to load cart totals", err)
	}

	// Step 6: paid amount against the shipping charge, exact match in the
	// minor unit.
	expectedMinor := s.policy.ExpectedMinor(totals.ShippingTotal)
	amountMatches := req.PaidAmountMinor == expectedMinor

	// Step 7: remove the prepaid shipping method so it is not charged again
	// at fulfillment. A second call finds the set already empty and skips.
	if len(totals.ShippingMethods) > 0 && (amountMatches || s.policy.RemoveShippingOnMismatch) {
		empty := []domain.ShippingMethod{}
		update := []domain.CartUpdate{{ID: req.CartID, ShippingMethods: &empty}}
		if errUpdate := s.carts.UpdateCarts(ctx, update); errUpdate != nil {
			return nil, mutationError("Failed to remove shipping method", errUpdate)
		}
	}

	// Step 8: stamp the verification outcome on the cart. Overwrite, not
	// append, so a retry leaves one record.
	metadata := map[string]interface{}{
		domain.MetaShippingPaid:       amountMatches,
		domain.MetaShippingPaidAmount: totals.ShippingTotal,
		domain.MetaShippingPaymentID:  req.PaymentID,
	}
	if errMeta := s.carts.UpdateCarts(ctx, []domain.CartUpdate{{ID: req.CartID, Metadata: metadata}}); errMeta != nil {
		return nil, mutationError("Failed to update cart metadata", errMeta)
	}

	// Step 9: re-query totals. Soft failure: the mutations are committed, so
	// a broken re-read degrades to nil instead of failing the call.
	updatedTotals, errRequery := s.carts.QueryTotals(ctx, req.CartID)
	if errRequery != nil {
		log.Printf("post-mutation totals re-query failed for cart %s: %v", req.CartID, errRequery)
		updatedTotals = nil
	}

	result := &domain.ReconciliationResult{
		SignatureValid:      signatureValid,
		AmountMatches:       amountMatches,
		ExpectedAmountMinor: expectedMinor,
		ReceivedAmountMinor: req.PaidAmountMinor,
		ShippingBefore:      totals.ShippingTotal,
		UpdatedTotals:       updatedTotals,
	}

	s.recordOutcome(ctx, req, result)
	s.publishOutcome(ctx, req, result)

	return result, nil
}

func (s *PaymentServiceImpl) recordOutcome(ctx context.Context, req domain.ReconciliationRequest, res *domain.ReconciliationResult) {
	if s.audit == nil {
		return
	}
	entry := domain.ReconciliationRecord{
		CartID:         req.CartID,
		PaymentID:      req.PaymentID,
		OrderID:        req.OrderID,
		SignatureValid: res.SignatureValid,
		AmountMatches:  res.AmountMatches,
		ExpectedMinor:  res.ExpectedAmountMinor,
		ReceivedMinor:  res.ReceivedAmountMinor,
		ShippingBefore: res.ShippingBefore,
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		log.Printf("failed to record reconciliation for cart %s: %v", req.CartID, err)
	}
}

func (s *PaymentServiceImpl) publishOutcome(ctx context.Context, req domain.ReconciliationRequest, res *domain.ReconciliationResult) {
	if s.events == nil {
		return
	}
	event := domain.ReconciliationEvent{
		Type:           domain.EventTypeReconciled,
		CartID:         req.CartID,
		PaymentID:      req.PaymentID,
		OrderID:        req.OrderID,
		SignatureValid: res.SignatureValid,
		AmountMatches:  res.AmountMatches,
		AmountMinor:    res.ReceivedAmountMinor,
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.events.PublishReconciled(ctx, event); err != nil {
		log.Printf("failed to publish reconciliation event for cart %s: %v", req.CartID, err)
	}
}
