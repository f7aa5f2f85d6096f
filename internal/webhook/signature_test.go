package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"estateleads_backend/platform/apperr"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureValid(t *testing.T) {
	body := []byte(`{"object":"page","entry":[]}`)
	if err := VerifySignature("topsecret", body, signBody("topsecret", body)); err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
}

func TestVerifySignatureTamperedBody(t *testing.T) {
	body := []byte(`{"object":"page","entry":[]}`)
	header := signBody("topsecret", body)

	tampered := []byte(`{"object":"page","entry":[{}]}`)
	err := VerifySignature("topsecret", tampered, header)
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	body := []byte(`{"object":"page"}`)
	err := VerifySignature("topsecret", body, signBody("othersecret", body))
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestVerifySignatureMissingPrefix(t *testing.T) {
	body := []byte(`{}`)
	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write(body)
	bare := hex.EncodeToString(mac.Sum(nil))

	for _, header := range []string{"", bare, "sha1=" + bare} {
		if err := VerifySignature("topsecret", body, header); !apperr.Is(err, apperr.KindUnauthorized) {
			t.Fatalf("header %q: expected unauthorized, got %v", header, err)
		}
	}
}
