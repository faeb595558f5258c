package order

import "errors"

// Failure taxonomy for the checkout flow. None of these are retried
// internally; handlers map them onto HTTP status codes.
var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrNotFound             = errors.New("order not found")
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")
	ErrGateway              = errors.New("payment gateway request failed")
	ErrPersistence          = errors.New("order persistence failed")
	ErrInvalidTransition    = errors.New("invalid status transition")
)
