package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSettingsDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "settings.json"))
	settings, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := &Settings{SchemaVersion: schemaVersion}
	if diff := cmp.Diff(want, settings); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "settings.json"))
	updated, err := store.Update(func(s *Settings) {
		s.CredentialsFile = " /etc/docsengine/key.json "
		s.RequireRevision = true
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CredentialsFile != "/etc/docsengine/key.json" {
		t.Fatalf("expected trimmed credentials path, got %q", updated.CredentialsFile)
	}
	reloaded, err := store.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff(updated, reloaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsAcceptsComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{
  // service account used by the engine
  "credentials_file": "key.json",
  "require_revision": true, /* guard against concurrent edits */
  "default_tab_id": "t.0",
}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	settings, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := &Settings{
		SchemaVersion:   schemaVersion,
		CredentialsFile: "key.json",
		RequireRevision: true,
		DefaultTabID:    "t.0",
	}
	if diff := cmp.Diff(want, settings); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"require_revision": "maybe"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewStore(path).Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}
