package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/craftkart/order-service-go/internal/order"
)

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrSecretNotConfigured = errors.New("payment verification secret not configured")
	ErrVerificationFailed  = errors.New("payment verification failed")
)

// OrderStore is the slice of the order repository that verification mutates.
type OrderStore interface {
	MarkPaid(ctx context.Context, razorpayOrderID, paymentID string, paidAt time.Time) (*order.Order, error)
}

type CartStore interface {
	Clear(ctx context.Context, userID string) error
}

type Publisher interface {
	PublishOrderPaid(ctx context.Context, o *order.Order) error
}

type VerifyRequest struct {
	RazorpayOrderID   string
	RazorpayPaymentID string
	RazorpaySignature string
}

// VerifyService validates gateway checkout callbacks and settles the order.
type VerifyService struct {
	secret string
	orders OrderStore
	carts  CartStore
	events Publisher
	logger *log.Logger
	now    func() time.Time
}

func NewVerifyService(secret string, orders OrderStore, carts CartStore, events Publisher, logger *log.Logger) *VerifyService {
	return &VerifyService{
		secret: secret,
		orders: orders,
		carts:  carts,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// Verify recomputes the callback signature before touching any state. On a
// match the order is marked paid and, when the caller is known, their cart is
// cleared; a cart-clear failure never reverts a confirmed payment. callerID
// is empty when no bearer token accompanied the callback.
func (s *VerifyService) Verify(ctx context.Context, req VerifyRequest, callerID string) error {
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		return fmt.Errorf("%w: missing payment details", ErrInvalidRequest)
	}
	if s.secret == "" {
		return ErrSecretNotConfigured
	}

	if !VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, s.secret, req.RazorpaySignature) {
		// Possible tampering; keep enough context to investigate.
		s.logger.Printf("signature mismatch for gateway order %s (payment %s)",
			req.RazorpayOrderID, req.RazorpayPaymentID)
		return ErrVerificationFailed
	}

	o, err := s.orders.MarkPaid(ctx, req.RazorpayOrderID, req.RazorpayPaymentID, s.now().UTC())
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			s.logger.Printf("verified payment %s for unknown gateway order %s",
				req.RazorpayPaymentID, req.RazorpayOrderID)
		}
		return err
	}

	if callerID != "" {
		if err := s.carts.Clear(ctx, callerID); err != nil {
			s.logger.Printf("clear cart for user %s after payment: %v", callerID, err)
		}
	}

	if s.events != nil {
		if err := s.events.PublishOrderPaid(ctx, o); err != nil {
			s.logger.Printf("publish OrderPaid for order %s: %v", o.ID, err)
		}
	}

	s.logger.Printf("order %s marked paid (payment %s)", o.ID, req.RazorpayPaymentID)
	return nil
}
