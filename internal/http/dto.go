package http

import "github.com/craftkart/order-service-go/internal/order"

type itemRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Price     float64 `json:"price" validate:"gte=0"`
}

type shippingAddressRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Pincode string `json:"pincode" validate:"required"`
}

type createOrderRequest struct {
	Items           []itemRequest          `json:"items" validate:"required,min=1,dive"`
	ShippingAddress shippingAddressRequest `json:"shipping_address" validate:"required"`
	TotalAmount     float64                `json:"total_amount" validate:"required,gt=0"`
	PaymentMethod   string                 `json:"payment_method" validate:"omitempty,oneof=cod prepaid"`
}

func (r createOrderRequest) toCreateRequest(idempotencyKey string) order.CreateRequest {
	req := order.CreateRequest{
		TotalAmount: r.TotalAmount,
		ShippingAddress: order.ShippingAddress{
			Name:    r.ShippingAddress.Name,
			Phone:   r.ShippingAddress.Phone,
			Address: r.ShippingAddress.Address,
			City:    r.ShippingAddress.City,
			State:   r.ShippingAddress.State,
			Pincode: r.ShippingAddress.Pincode,
		},
		PaymentMethod:  order.PaymentMethod(r.PaymentMethod),
		IdempotencyKey: idempotencyKey,
	}
	for _, it := range r.Items {
		req.Items = append(req.Items, order.Item{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return req
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
