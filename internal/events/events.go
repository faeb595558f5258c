package events

import "time"

type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderCreated struct {
	EventType     string      `json:"eventType"`
	OrderID       string      `json:"orderId"`
	UserID        string      `json:"userId"`
	Items         []OrderItem `json:"items"`
	TotalAmount   float64     `json:"totalAmount"`
	PaymentMethod string      `json:"paymentMethod"`
	Timestamp     time.Time   `json:"timestamp"`
}

type OrderPaid struct {
	EventType         string    `json:"eventType"`
	OrderID           string    `json:"orderId"`
	UserID            string    `json:"userId"`
	RazorpayPaymentID string    `json:"razorpayPaymentId"`
	Timestamp         time.Time `json:"timestamp"`
}

type OrderStatusChanged struct {
	EventType string    `json:"eventType"`
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
