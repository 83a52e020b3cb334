package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/fjod/partial_cod/internal/domain"
	"github.com/fjod/partial_cod/internal/service"
)

type PaymentHandler struct {
	payments service.PaymentService
	timeout  time.Duration
}

func NewPaymentHandler(payments service.PaymentService, timeout time.Duration) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		timeout:  timeout,
	}
}

type CreateOrderRequestDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	CartID   string `json:"cart_id"`
}

type CreateOrderResponseDTO struct {
	OK       bool   `json:"ok"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// ReconcileRequestDTO mirrors the gateway callback payload the storefront
// relays, so the razorpay_* field names follow the gateway's wire format.
type ReconcileRequestDTO struct {
	CartID     string `json:"cart_id"`
	PaymentID  string `json:"razorpay_payment_id"`
	OrderID    string `json:"razorpay_order_id"`
	Signature  string `json:"razorpay_signature"`
	PaidAmount int64  `json:"paid_amount"`
}

type ReconcileResponseDTO struct {
	OK                  bool                   `json:"ok"`
	Message             string                 `json:"message"`
	SignatureValid      bool                   `json:"signature_valid"`
	AmountMatches       bool                   `json:"amount_matches"`
	ExpectedAmountPaise int64                  `json:"expected_amount_paise"`
	ReceivedAmountPaise int64                  `json:"received_amount_paise"`
	ShippingBefore      float64                `json:"shipping_before"`
	UpdatedTotals       *domain.CartProjection `json:"updated_totals"`
}

type ErrorResponseDTO struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	CartID  string `json:"cart_id,omitempty"`
}

func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body", "", "")
		return
	}

	resp, err := h.payments.InitiateOrder(ctx, domain.OrderRequest{
		AmountMinor: req.Amount,
		Currency:    req.Currency,
		CartID:      req.CartID,
	})
	if err != nil {
		handleFlowError(w, err, req.CartID)
		return
	}

	respondJSON(w, http.StatusOK, CreateOrderResponseDTO{
		OK:       true,
		OrderID:  resp.OrderID,
		Amount:   resp.AmountMinor,
		Currency: resp.Currency,
	})
}

func (h *PaymentHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ReconcileRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body", "", "")
		return
	}

	result, err := h.payments.Reconcile(ctx, domain.ReconciliationRequest{
		CartID:          req.CartID,
		PaymentID:       req.PaymentID,
		OrderID:         req.OrderID,
		Signature:       req.Signature,
		PaidAmountMinor: req.PaidAmount,
	})
	if err != nil {
		handleFlowError(w, err, req.CartID)
		return
	}

	respondJSON(w, http.StatusOK, ReconcileResponseDTO{
		OK:                  true,
		Message:             "SUCCESS: Shipping verified, removed + cart updated",
		SignatureValid:      result.SignatureValid,
		AmountMatches:       result.AmountMatches,
		ExpectedAmountPaise: result.ExpectedAmountMinor,
		ReceivedAmountPaise: result.ReceivedAmountMinor,
		ShippingBefore:      result.ShippingBefore,
		UpdatedTotals:       result.UpdatedTotals,
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message, detail, cartID string) {
	respondJSON(w, status, ErrorResponseDTO{
		OK:      false,
		Message: message,
		Error:   detail,
		CartID:  cartID,
	})
}

func handleFlowError(w http.ResponseWriter, err error, cartID string) {
	var flowErr *service.FlowError
	if !errors.As(err, &flowErr) {
		respondError(w, http.StatusInternalServerError, "internal server error", err.Error(), "")
		return
	}

	detail := ""
	if unwrapped := flowErr.Unwrap(); unwrapped != nil {
		detail = unwrapped.Error()
	}

	switch flowErr.Kind {
	case service.KindValidation:
		respondError(w, http.StatusBadRequest, flowErr.Message, "", "")
	case service.KindNotFound:
		respondError(w, http.StatusNotFound, flowErr.Message, "", cartID)
	default:
		respondError(w, http.StatusInternalServerError, flowErr.Message, detail, "")
	}
}
