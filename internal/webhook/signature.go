// Package webhook provides the Meta Lead Ads webhook bounded context:
// subscription verification, signed event intake, Graph API lead fetch,
// free-text intent classification, and idempotent persistence.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"estateleads_backend/platform/apperr"
)

const signaturePrefix = "sha256="

// VerifySignature checks the X-Hub-Signature-256 header against an
// HMAC-SHA256 digest of the exact raw request body. The header must carry
// the "sha256=" prefix; comparison is constant-time.
func VerifySignature(appSecret string, body []byte, header string) error {
	if !strings.HasPrefix(header, signaturePrefix) {
		return apperr.Unauthorized("missing or malformed signature header")
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	provided := strings.TrimPrefix(header, signaturePrefix)
	if !hmac.Equal([]byte(provided), []byte(expected)) {
		return apperr.Unauthorized("invalid signature")
	}
	return nil
}
