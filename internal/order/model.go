package order

import "time"

type Item struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type ShippingAddress struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

type PaymentMethod string

const (
	PaymentPrepaid PaymentMethod = "prepaid"
	PaymentCOD     PaymentMethod = "cod"
)

type Order struct {
	ID                string          `json:"order_id"`
	UserID            string          `json:"user_id"`
	Items             []Item          `json:"items,omitempty"`
	TotalAmount       float64         `json:"total_amount"`
	Status            Status          `json:"status"`
	ShippingAddress   ShippingAddress `json:"shipping_address"`
	PaymentMethod     PaymentMethod   `json:"payment_method"`
	RazorpayOrderID   *string         `json:"razorpay_order_id"`
	RazorpayPaymentID *string         `json:"razorpay_payment_id,omitempty"`
	IdempotencyKey    string          `json:"-"`
	CreatedAt         time.Time       `json:"created_at"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
}

// StatusChange is one row of the append-only order_status_history table.
type StatusChange struct {
	Status    Status    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

func (o *Order) IsCOD() bool {
	return o.PaymentMethod == PaymentCOD
}
