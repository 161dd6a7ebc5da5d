package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Headers set on every delivery.
const (
	HeaderSignature = "X-Citytour-Signature"
	HeaderEventType = "X-Citytour-Event"
	HeaderEventID   = "X-Citytour-Event-Id"
)

// Sign returns lowercase hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether provided is the hex signature of body under secret.
// Receivers use it to authenticate deliveries.
func Verify(secret string, body []byte, provided string) bool {
	got, err := hex.DecodeString(provided)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), got)
}
