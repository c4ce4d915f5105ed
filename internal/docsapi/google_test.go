package docsapi

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"strings"
	"testing"
)

func serviceAccountJSON(t *testing.T, tokenURI string) []byte {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	data, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"client_email":   "engine@example.iam.gserviceaccount.com",
		"private_key_id": "k1",
		"private_key":    string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})),
		"token_uri":      tokenURI,
	})
	if err != nil {
		t.Fatalf("marshal credentials: %v", err)
	}
	return data
}

func TestValidateCredentials(t *testing.T) {
	if err := ValidateCredentials(serviceAccountJSON(t, "https://oauth2.googleapis.com/token")); err != nil {
		t.Fatalf("expected service account key to validate, got %v", err)
	}
	for _, bad := range []string{`{"type":"authorized_user"}`, `not json`} {
		if err := ValidateCredentials([]byte(bad)); err == nil {
			t.Fatalf("expected %s to be rejected", bad)
		}
	}
}

func TestGoogleTokenExchangeIsAllowlisted(t *testing.T) {
	g, err := NewGoogle(context.Background(), Options{
		CredentialsJSON: serviceAccountJSON(t, "https://tokens.example.com/token"),
	})
	if err != nil {
		t.Fatalf("new google: %v", err)
	}
	_, err = g.Fetch(context.Background(), FetchRequest{DocumentID: "doc-1"})
	if err == nil {
		t.Fatalf("expected fetch to fail")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	// The token source flattens the cause into its message.
	if !strings.Contains(err.Error(), "egress blocked") || !strings.Contains(err.Error(), "tokens.example.com") {
		t.Fatalf("expected the token host to be blocked, got %v", err)
	}
}
