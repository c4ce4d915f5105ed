package engine

import (
	"context"
	"encoding/json"
	"strings"

	"docsengine/internal/docsapi"
	"docsengine/internal/envutil"
	"docsengine/internal/errinfo"
	"docsengine/internal/secrets"
	"docsengine/internal/settings"
)

const (
	credentialsFromEnv      = "env"
	credentialsFromSettings = "settings"
	credentialsFromStore    = "stored"
	credentialsFromDefault  = "application_default"
)

type credentialSource struct {
	Name    string
	File    string
	JSON    []byte
	Subject string
}

// credentialSource applies the precedence DOCSENGINE_CREDENTIALS_FILE, then
// the settings file, then the encrypted store, then application default
// credentials.
func (e *Engine) credentialSource(cfg *settings.Settings) (credentialSource, error) {
	if file := envutil.String(envCredentialsFile, ""); file != "" {
		return credentialSource{Name: credentialsFromEnv, File: file}, nil
	}
	if cfg != nil && cfg.CredentialsFile != "" {
		return credentialSource{Name: credentialsFromSettings, File: cfg.CredentialsFile}, nil
	}
	stored, err := e.secrets.GetCredentials()
	if err != nil {
		return credentialSource{}, err
	}
	if stored != nil {
		return credentialSource{Name: credentialsFromStore, JSON: []byte(stored.ServiceAccountJSON), Subject: stored.Subject}, nil
	}
	return credentialSource{Name: credentialsFromDefault}, nil
}

func (e *Engine) CredentialsGetStatus(ctx context.Context, _ json.RawMessage) (any, *errinfo.ErrorInfo) {
	cfg, errInfo := e.loadSettings()
	if errInfo != nil {
		return nil, errInfo
	}
	source, err := e.credentialSource(cfg)
	if err != nil {
		e.logger.Warn("secrets.load_failed", "error", err.Error())
		return nil, errinfo.ConfigInvalid(err.Error())
	}
	return map[string]any{
		"source":     source.Name,
		"configured": source.Name != credentialsFromDefault,
	}, nil
}

// CredentialsSet stores a service-account key encrypted in the data dir. The
// key may be sent as a JSON object or as a string holding one.
func (e *Engine) CredentialsSet(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		CredentialsJSON json.RawMessage `json:"credentials_json"`
		Subject         string          `json:"subject"`
	}
	if errInfo := decodeParams(errinfo.PhaseConfig, params, &req); errInfo != nil {
		return nil, errInfo
	}
	key := []byte(req.CredentialsJSON)
	var asString string
	if err := json.Unmarshal(req.CredentialsJSON, &asString); err == nil {
		key = []byte(asString)
	}
	if len(strings.TrimSpace(string(key))) == 0 {
		return nil, errinfo.ValidationFailed(errinfo.PhaseConfig, "credentials_json is required")
	}
	if err := docsapi.ValidateCredentials(key); err != nil {
		return nil, errinfo.ValidationFailed(errinfo.PhaseConfig, err.Error())
	}
	if err := e.secrets.SetCredentials(&secrets.Credentials{
		ServiceAccountJSON: string(key),
		Subject:            strings.TrimSpace(req.Subject),
	}); err != nil {
		e.logger.Error("secrets.save_failed", "error", err.Error())
		return nil, errinfo.ConfigInvalid(err.Error())
	}
	e.resetService()
	e.logger.Info("secrets.credentials_stored")
	return map[string]any{}, nil
}

func (e *Engine) CredentialsClear(ctx context.Context, _ json.RawMessage) (any, *errinfo.ErrorInfo) {
	if err := e.secrets.ClearCredentials(); err != nil {
		e.logger.Error("secrets.save_failed", "error", err.Error())
		return nil, errinfo.ConfigInvalid(err.Error())
	}
	e.resetService()
	e.logger.Info("secrets.credentials_cleared")
	return map[string]any{}, nil
}
