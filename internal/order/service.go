package order

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"
)

// Gateway creates orders on the remote payment gateway. Implemented by
// payment.Client; nil when gateway credentials are not configured, in which
// case only COD checkouts can succeed.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (string, error)
}

// CartStore is the slice of the cart collaborator this service owns: clearing
// a user's cart once their order no longer needs it.
type CartStore interface {
	Clear(ctx context.Context, userID string) error
}

// Publisher emits order lifecycle events. Publish failures are logged and
// never fail the request.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, o *Order) error
	PublishOrderStatusChanged(ctx context.Context, orderID, userID string, status Status) error
}

type CreateRequest struct {
	Items           []Item
	ShippingAddress ShippingAddress
	TotalAmount     float64
	PaymentMethod   PaymentMethod
	IdempotencyKey  string
}

type Confirmation struct {
	OrderID         string  `json:"order_id"`
	RazorpayOrderID *string `json:"razorpay_order_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	IsCOD           bool    `json:"is_cod"`
}

type Service struct {
	repo     Repository
	carts    CartStore
	gateway  Gateway
	events   Publisher
	logger   *log.Logger
	currency string
	now      func() time.Time
}

func NewService(repo Repository, carts CartStore, gateway Gateway, events Publisher, currency string, logger *log.Logger) *Service {
	return &Service{
		repo:     repo,
		carts:    carts,
		gateway:  gateway,
		events:   events,
		logger:   logger,
		currency: currency,
		now:      time.Now,
	}
}

// Create runs the checkout saga: gateway order (prepaid only), order row,
// line items, cart clear (COD only). Each step has an explicit compensation:
// a gateway order with no local order simply expires unused on the gateway
// side, and a local order whose items failed to insert is deleted before the
// error is surfaced.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Confirmation, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" {
		existing, err := s.repo.GetByIdempotencyKey(ctx, userID, req.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("%w: idempotency lookup: %v", ErrPersistence, err)
		}
		if existing != nil {
			s.logger.Printf("order %s replayed via idempotency key", existing.ID)
			return confirmationFor(existing, s.currency), nil
		}
	}

	isCOD := req.PaymentMethod == PaymentCOD

	var razorpayOrderID *string
	if !isCOD {
		if s.gateway == nil {
			return nil, ErrGatewayNotConfigured
		}
		amountMinor := int64(math.Round(req.TotalAmount * 100))
		receipt := fmt.Sprintf("order_%d", s.now().UnixMilli())
		notes := map[string]string{
			"user_id":     userID,
			"items_count": strconv.Itoa(len(req.Items)),
		}
		id, err := s.gateway.CreateOrder(ctx, amountMinor, s.currency, receipt, notes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGateway, err)
		}
		razorpayOrderID = &id
	}

	o := &Order{
		UserID:          userID,
		Items:           req.Items,
		TotalAmount:     req.TotalAmount,
		Status:          StatusOrderPlaced,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   PaymentPrepaid,
		RazorpayOrderID: razorpayOrderID,
		IdempotencyKey:  req.IdempotencyKey,
		CreatedAt:       s.now().UTC(),
	}
	if isCOD {
		o.PaymentMethod = PaymentCOD
	}

	if err := s.repo.Insert(ctx, o); err != nil {
		return nil, fmt.Errorf("%w: insert order: %v", ErrPersistence, err)
	}

	if err := s.repo.InsertItems(ctx, o.ID, o.Items); err != nil {
		// Compensate: the order row must not outlive its items.
		if delErr := s.repo.Delete(ctx, o.ID); delErr != nil {
			s.logger.Printf("compensating delete of order %s failed: %v", o.ID, delErr)
		}
		return nil, fmt.Errorf("%w: insert items: %v", ErrPersistence, err)
	}

	if isCOD {
		if err := s.carts.Clear(ctx, userID); err != nil {
			s.logger.Printf("clear cart for user %s: %v", userID, err)
		}
	}

	if s.events != nil {
		if err := s.events.PublishOrderCreated(ctx, o); err != nil {
			s.logger.Printf("publish OrderCreated for order %s: %v", o.ID, err)
		}
	}

	s.logger.Printf("created order %s for user %s (method=%s)", o.ID, userID, o.PaymentMethod)
	return confirmationFor(o, s.currency), nil
}

// Get returns the order if the caller owns it or is an admin.
func (s *Service) Get(ctx context.Context, orderID, callerID string, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: load order: %v", ErrPersistence, err)
	}
	if o == nil || (o.UserID != callerID && !isAdmin) {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", ErrPersistence, err)
	}
	return orders, nil
}

// Timeline returns the customer-facing progress view for an order.
func (s *Service) Timeline(ctx context.Context, orderID, callerID string, isAdmin bool) (*Timeline, error) {
	o, err := s.Get(ctx, orderID, callerID, isAdmin)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.History(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: load history: %v", ErrPersistence, err)
	}
	return BuildTimeline(o, history), nil
}

// UpdateStatus applies an administrative status change, rejecting transitions
// the state machine does not allow.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, next Status) error {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("%w: load order: %v", ErrPersistence, err)
	}
	if o == nil {
		return ErrNotFound
	}
	if !CanTransition(o, next) {
		return fmt.Errorf("%w: %s -> %s (%s)", ErrInvalidTransition, o.Status, next, o.PaymentMethod)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, next, s.now().UTC()); err != nil {
		return fmt.Errorf("%w: update status: %v", ErrPersistence, err)
	}

	if s.events != nil {
		if err := s.events.PublishOrderStatusChanged(ctx, o.ID, o.UserID, next); err != nil {
			s.logger.Printf("publish OrderStatusChanged for order %s: %v", o.ID, err)
		}
	}
	return nil
}

func validateCreate(req CreateRequest) error {
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: items are required", ErrInvalidRequest)
	}
	for _, it := range req.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return fmt.Errorf("%w: item needs product_id and positive quantity", ErrInvalidRequest)
		}
	}
	if req.TotalAmount <= 0 {
		return fmt.Errorf("%w: total_amount must be positive", ErrInvalidRequest)
	}
	a := req.ShippingAddress
	if a.Name == "" || a.Phone == "" || a.Address == "" || a.City == "" || a.State == "" || a.Pincode == "" {
		return fmt.Errorf("%w: shipping_address is incomplete", ErrInvalidRequest)
	}
	if req.PaymentMethod != "" && req.PaymentMethod != PaymentCOD && req.PaymentMethod != PaymentPrepaid {
		return fmt.Errorf("%w: unknown payment_method %q", ErrInvalidRequest, req.PaymentMethod)
	}
	return nil
}

func confirmationFor(o *Order, currency string) *Confirmation {
	return &Confirmation{
		OrderID:         o.ID,
		RazorpayOrderID: o.RazorpayOrderID,
		Amount:          o.TotalAmount,
		Currency:        currency,
		IsCOD:           o.IsCOD(),
	}
}
