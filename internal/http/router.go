package http

import (
	"log"
	"net/http"

	"github.com/craftkart/order-service-go/internal/order"
	"github.com/craftkart/order-service-go/internal/payment"
)

func NewRouter(orders *order.Service, verify *payment.VerifyService, jwtSecret string, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", healthHandler)

	oh := NewOrderHandler(orders, logger)
	ph := NewPaymentHandler(verify, logger)

	mux.HandleFunc("POST /api/orders", RequireAuth(jwtSecret, oh.CreateOrder))
	mux.HandleFunc("GET /api/me/orders", RequireAuth(jwtSecret, oh.ListMyOrders))
	mux.HandleFunc("GET /api/orders/{orderId}", RequireAuth(jwtSecret, oh.GetOrder))
	mux.HandleFunc("GET /api/orders/{orderId}/timeline", RequireAuth(jwtSecret, oh.GetTimeline))

	mux.HandleFunc("POST /api/payments/verify", OptionalAuth(jwtSecret, ph.VerifyPayment))

	mux.HandleFunc("PATCH /api/admin/orders/{orderId}/status", RequireAdmin(jwtSecret, oh.UpdateStatus))

	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "order-service",
	})
}
