package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/craftkart/order-service-go/internal/order"
	"github.com/craftkart/order-service-go/internal/payment"
)

type PaymentHandler struct {
	svc      *payment.VerifyService
	validate *validator.Validate
	logger   *log.Logger
}

func NewPaymentHandler(svc *payment.VerifyService, logger *log.Logger) *PaymentHandler {
	return &PaymentHandler{
		svc:      svc,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "missing payment details")
		return
	}

	var callerID string
	if claims := ClaimsFrom(r.Context()); claims != nil {
		callerID = claims.UserID()
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := h.svc.Verify(ctx, payment.VerifyRequest{
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		RazorpaySignature: req.RazorpaySignature,
	}, callerID)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, "missing payment details")
		case errors.Is(err, payment.ErrVerificationFailed):
			writeError(w, http.StatusBadRequest, "payment verification failed")
		case errors.Is(err, order.ErrNotFound):
			writeError(w, http.StatusNotFound, "no order for payment")
		case errors.Is(err, payment.ErrSecretNotConfigured):
			h.logger.Printf("configuration error: %v", err)
			writeError(w, http.StatusInternalServerError, "payment verification configuration missing")
		default:
			h.logger.Printf("verify payment: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to update order status")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
