package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"docsengine/internal/appdirs"
	"docsengine/internal/docsapi"
	"docsengine/internal/envutil"
	"docsengine/internal/errinfo"
	"docsengine/internal/logging"
	"docsengine/internal/secrets"
	"docsengine/internal/settings"
)

const (
	EngineVersion = "0.1.0"
	APIVersion    = "1"
)

const (
	envFakeDocs        = "DOCSENGINE_FAKE_DOCS"
	envCredentialsFile = "DOCSENGINE_CREDENTIALS_FILE"
	envEndpoint        = "DOCSENGINE_DOCS_ENDPOINT"
)

// Engine resolves logical targets against freshly fetched snapshots and
// submits the resulting batches. It holds no document state between calls.
type Engine struct {
	dataDir  string
	settings *settings.Store
	secrets  *secrets.Store
	logger   *slog.Logger

	serviceMu  sync.Mutex
	service    docsapi.Service
	injected   bool
	newService func(ctx context.Context, cfg *settings.Settings) (docsapi.Service, error)
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithService injects the document service. Without it the engine builds a
// Google client on first use.
func WithService(service docsapi.Service) Option {
	return func(e *Engine) {
		if service != nil {
			e.service = service
			e.injected = true
		}
	}
}

func WithDataDir(dir string) Option {
	return func(e *Engine) {
		if dir != "" {
			e.dataDir = dir
		}
	}
}

func New(opts ...Option) (*Engine, error) {
	engine := &Engine{logger: logging.Nop()}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.dataDir == "" {
		dataDir, err := appdirs.DataDir()
		if err != nil {
			return nil, err
		}
		engine.dataDir = dataDir
	}
	if err := os.MkdirAll(engine.dataDir, 0o755); err != nil {
		return nil, err
	}
	engine.settings = settings.NewStore(appdirs.SettingsPath(engine.dataDir))
	engine.secrets = secrets.NewStore(filepath.Join(engine.dataDir, "secrets.enc"), filepath.Join(engine.dataDir, "master.key"))
	if engine.service == nil && envutil.Bool(envFakeDocs) {
		engine.service = newFakeDocs()
		engine.injected = true
		engine.logger.Info("engine.fake_docs_enabled")
	}
	engine.newService = engine.googleService
	return engine, nil
}

func (e *Engine) EngineGetInfo(ctx context.Context, _ json.RawMessage) (any, *errinfo.ErrorInfo) {
	return map[string]any{
		"engine_version": EngineVersion,
		"api_version":    APIVersion,
		"data_dir":       e.dataDir,
	}, nil
}

func (e *Engine) loadSettings() (*settings.Settings, *errinfo.ErrorInfo) {
	cfg, err := e.settings.Load()
	if err != nil {
		e.logger.Warn("settings.load_failed", "path", e.settings.Path(), "error", err.Error())
		return nil, errinfo.ConfigInvalid(err.Error())
	}
	return cfg, nil
}

// docsService returns the injected service or builds the Google client once.
func (e *Engine) docsService(ctx context.Context, cfg *settings.Settings) (docsapi.Service, *errinfo.ErrorInfo) {
	e.serviceMu.Lock()
	defer e.serviceMu.Unlock()
	if e.service != nil {
		return e.service, nil
	}
	// The client outlives this request, so it must not inherit its cancellation.
	service, err := e.newService(context.WithoutCancel(ctx), cfg)
	if err != nil {
		e.logger.Error("docs.client_init_failed", "error", err.Error())
		return nil, errinfo.ConfigInvalid(err.Error())
	}
	e.service = service
	return service, nil
}

// resetService drops a built client so the next call picks up new
// credentials. An injected service is kept.
func (e *Engine) resetService() {
	e.serviceMu.Lock()
	defer e.serviceMu.Unlock()
	if !e.injected {
		e.service = nil
	}
}

// googleService builds the client from the source credentialSource picks.
func (e *Engine) googleService(ctx context.Context, cfg *settings.Settings) (docsapi.Service, error) {
	source, err := e.credentialSource(cfg)
	if err != nil {
		return nil, err
	}
	e.logger.Info("docs.client_init", "credentials_source", source.Name)
	return docsapi.NewGoogle(ctx, docsapi.Options{
		CredentialsFile: source.File,
		CredentialsJSON: source.JSON,
		Subject:         source.Subject,
		Endpoint:        envutil.String(envEndpoint, ""),
		Logger:          e.logger,
	})
}
