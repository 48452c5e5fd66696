// Package signature verifies the HMAC-SHA256 signatures Trillion attaches to
// webhook deliveries.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier checks webhook payloads against a shared secret. A Verifier built
// with an empty secret treats every payload as valid, which is how local
// environments run without credentials.
type Verifier struct {
	secret []byte
}

// New creates a Verifier for the given shared secret.
func New(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Enabled reports whether a secret is configured.
func (v *Verifier) Enabled() bool {
	return len(v.secret) > 0
}

// Verify reports whether signature is the hex-encoded HMAC-SHA256 digest of
// payload under the configured secret. The comparison is constant time.
func (v *Verifier) Verify(payload []byte, signature string) bool {
	if !v.Enabled() {
		return true
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), provided)
}

// Sign returns the hex-encoded HMAC-SHA256 digest of payload. It exists for
// callers that need to produce valid signatures, such as the test webhook
// endpoint and the test suite.
func (v *Verifier) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
