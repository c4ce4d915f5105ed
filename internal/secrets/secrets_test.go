package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	return NewStore(filepath.Join(root, "secrets.enc"), filepath.Join(root, "master.key")), root
}

func TestCredentialsRoundTrip(t *testing.T) {
	store, root := newTestStore(t)
	got, err := store.GetCredentials()
	if err != nil || got != nil {
		t.Fatalf("expected no credentials, got %+v, %v", got, err)
	}

	storedAt := time.Date(2026, 2, 17, 15, 4, 5, 0, time.UTC)
	input := &Credentials{
		ServiceAccountJSON: `{"type":"service_account","private_key":"secret-material"}`,
		Subject:            "editor@example.com",
		StoredAt:           storedAt,
	}
	if err := store.SetCredentials(input); err != nil {
		t.Fatalf("set credentials: %v", err)
	}
	got, err = store.GetCredentials()
	if err != nil {
		t.Fatalf("get credentials: %v", err)
	}
	if got == nil || got.ServiceAccountJSON != input.ServiceAccountJSON || got.Subject != input.Subject {
		t.Fatalf("unexpected credentials %+v", got)
	}
	if !got.StoredAt.Equal(storedAt) {
		t.Fatalf("expected stored_at %s, got %s", storedAt.Format(time.RFC3339), got.StoredAt.Format(time.RFC3339))
	}

	raw, err := os.ReadFile(filepath.Join(root, "secrets.enc"))
	if err != nil {
		t.Fatalf("read secrets file: %v", err)
	}
	if strings.Contains(string(raw), "secret-material") {
		t.Fatalf("secrets file must be encrypted")
	}
}

func TestClearCredentials(t *testing.T) {
	store, _ := newTestStore(t)
	if err := store.SetCredentials(&Credentials{ServiceAccountJSON: "{}"}); err != nil {
		t.Fatalf("set credentials: %v", err)
	}
	if err := store.ClearCredentials(); err != nil {
		t.Fatalf("clear credentials: %v", err)
	}
	got, err := store.GetCredentials()
	if err != nil || got != nil {
		t.Fatalf("expected credentials to be cleared, got %+v, %v", got, err)
	}
	if err := store.SetCredentials(&Credentials{}); err == nil {
		t.Fatalf("expected empty credentials to be rejected")
	}
}

func TestRejectsWrongKeyLength(t *testing.T) {
	store, root := newTestStore(t)
	if err := store.SetCredentials(&Credentials{ServiceAccountJSON: "{}"}); err != nil {
		t.Fatalf("set credentials: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "master.key"), []byte("short"), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	if _, err := store.GetCredentials(); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestTamperedFileFailsToDecrypt(t *testing.T) {
	store, root := newTestStore(t)
	if err := store.SetCredentials(&Credentials{ServiceAccountJSON: "{}"}); err != nil {
		t.Fatalf("set credentials: %v", err)
	}
	other := NewStore(filepath.Join(root, "secrets.enc"), filepath.Join(t.TempDir(), "other.key"))
	if _, err := other.GetCredentials(); err == nil {
		t.Fatalf("expected decryption with a different key to fail")
	}
}
