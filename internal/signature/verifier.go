package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier checks that a payment callback was signed by the gateway. The
// signed message is "<order_id>|<payment_id>" and the signature is the hex
// HMAC-SHA256 digest under the shared key secret.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Expected(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares in constant time.
func (v *Verifier) Verify(orderID, paymentID, provided string) bool {
	return hmac.Equal([]byte(v.Expected(orderID, paymentID)), []byte(provided))
}
