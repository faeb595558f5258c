package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks a Razorpay checkout callback signature: the expected
// value is the hex HMAC-SHA256 of "<order_id>|<payment_id>" keyed by the key
// secret. Comparison is constant time; a mismatch is an expected outcome, not
// an error.
func VerifySignature(razorpayOrderID, razorpayPaymentID, secret, signature string) bool {
	return hmac.Equal([]byte(ExpectedSignature(razorpayOrderID, razorpayPaymentID, secret)), []byte(signature))
}

// ExpectedSignature computes the signature the gateway would have produced.
func ExpectedSignature(razorpayOrderID, razorpayPaymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(razorpayOrderID + "|" + razorpayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
