package engine

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"testing"

	"docsengine/internal/docsapi"
	"docsengine/internal/errinfo"
	"docsengine/internal/settings"
)

func serviceAccountKey(t *testing.T) string {
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
		"token_uri":      "https://oauth2.googleapis.com/token",
	})
	if err != nil {
		t.Fatalf("marshal credentials: %v", err)
	}
	return string(data)
}

func credentialStatus(t *testing.T, eng *Engine) string {
	t.Helper()
	out, errInfo := eng.CredentialsGetStatus(context.Background(), nil)
	if errInfo != nil {
		t.Fatalf("status: %+v", errInfo)
	}
	return out.(map[string]any)["source"].(string)
}

func TestCredentialsPrecedence(t *testing.T) {
	t.Setenv(envCredentialsFile, "")
	t.Setenv(envFakeDocs, "")
	eng, err := New(WithDataDir(t.TempDir()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := credentialStatus(t, eng); got != credentialsFromDefault {
		t.Fatalf("expected default credentials, got %s", got)
	}

	params := mustParams(t, map[string]any{"credentials_json": serviceAccountKey(t), "subject": "editor@example.com"})
	if _, errInfo := eng.CredentialsSet(context.Background(), params); errInfo != nil {
		t.Fatalf("set: %+v", errInfo)
	}
	if got := credentialStatus(t, eng); got != credentialsFromStore {
		t.Fatalf("expected stored credentials, got %s", got)
	}
	source, err := eng.credentialSource(&settings.Settings{})
	if err != nil || source.Subject != "editor@example.com" || len(source.JSON) == 0 {
		t.Fatalf("unexpected stored source %+v, %v", source, err)
	}

	if _, err := eng.settings.Update(func(s *settings.Settings) { s.CredentialsFile = "/etc/key.json" }); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if got := credentialStatus(t, eng); got != credentialsFromSettings {
		t.Fatalf("expected settings credentials, got %s", got)
	}
	t.Setenv(envCredentialsFile, "/run/key.json")
	if got := credentialStatus(t, eng); got != credentialsFromEnv {
		t.Fatalf("expected env credentials, got %s", got)
	}
}

func TestCredentialsSetRejectsInvalidKey(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	cases := []json.RawMessage{
		json.RawMessage(`{}`),
		json.RawMessage(`{"credentials_json":""}`),
		json.RawMessage(`{"credentials_json":{"type":"authorized_user"}}`),
	}
	for _, params := range cases {
		_, errInfo := eng.CredentialsSet(context.Background(), params)
		if errInfo == nil || errInfo.ErrorCode != errinfo.CodeValidationFailed {
			t.Fatalf("%s: expected validation failure, got %+v", params, errInfo)
		}
	}
}

func TestServiceIsRebuiltAfterCredentialChange(t *testing.T) {
	t.Setenv(envCredentialsFile, "")
	t.Setenv(envFakeDocs, "")
	eng, err := New(WithDataDir(t.TempDir()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	builds := 0
	fake := docsapi.NewFake(helloDoc())
	eng.newService = func(context.Context, *settings.Settings) (docsapi.Service, error) {
		builds++
		return fake, nil
	}
	getText := json.RawMessage(`{"document_id":"doc-1"}`)
	for i := 0; i < 2; i++ {
		if _, errInfo := eng.DocsGetText(context.Background(), getText); errInfo != nil {
			t.Fatalf("get text: %+v", errInfo)
		}
	}
	if builds != 1 {
		t.Fatalf("expected the client to be built once, got %d", builds)
	}
	if _, errInfo := eng.CredentialsClear(context.Background(), nil); errInfo != nil {
		t.Fatalf("clear: %+v", errInfo)
	}
	if _, errInfo := eng.DocsGetText(context.Background(), getText); errInfo != nil {
		t.Fatalf("get text: %+v", errInfo)
	}
	if builds != 2 {
		t.Fatalf("expected a rebuild after clearing credentials, got %d builds", builds)
	}
}
