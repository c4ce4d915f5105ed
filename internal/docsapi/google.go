package docsapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"

	"docsengine/internal/egress"
	"docsengine/internal/logging"
)

const (
	bodyFields = "documentId,title,revisionId,body(content)"
	tabFields  = "documentId,title,revisionId,tabs"
)

// Options selects how the Google client authenticates. The first non-empty of
// HTTPClient, CredentialsJSON and CredentialsFile wins; otherwise application
// default credentials are used. Unless HTTPClient is given, every request and
// token exchange goes through an egress allowlist of AllowedHosts (default
// egress.DocsHosts) plus the Endpoint host.
type Options struct {
	HTTPClient      *http.Client
	CredentialsJSON []byte
	CredentialsFile string
	Subject         string
	Endpoint        string
	AllowedHosts    []string
	Logger          *slog.Logger
}

type Google struct {
	svc    *docs.Service
	logger *slog.Logger
}

func NewGoogle(ctx context.Context, opts Options) (*Google, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	clientOpts, err := clientOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	svc, err := docs.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create docs service: %w", err)
	}
	return &Google{svc: svc, logger: logger}, nil
}

// ValidateCredentials reports whether data is a usable service-account key.
func ValidateCredentials(data []byte) error {
	if _, err := google.JWTConfigFromJSON(data, docs.DocumentsScope); err != nil {
		return fmt.Errorf("parse credentials: %w", err)
	}
	return nil
}

func clientOptions(ctx context.Context, opts Options) ([]option.ClientOption, error) {
	var out []option.ClientOption
	if opts.Endpoint != "" {
		out = append(out, option.WithEndpoint(opts.Endpoint))
	}
	if opts.HTTPClient != nil {
		return append(out, option.WithHTTPClient(opts.HTTPClient)), nil
	}
	hosts := opts.AllowedHosts
	if len(hosts) == 0 {
		hosts = egress.DocsHosts
	}
	if opts.Endpoint != "" {
		if u, err := url.Parse(opts.Endpoint); err == nil && u.Hostname() != "" {
			hosts = append(append([]string{}, hosts...), u.Hostname())
		}
	}
	// oauth2 builds its transports on top of the client stored in ctx.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, egress.Client(hosts...))

	creds := opts.CredentialsJSON
	if len(creds) == 0 && strings.TrimSpace(opts.CredentialsFile) != "" {
		data, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		creds = data
	}
	if len(creds) > 0 {
		config, err := google.JWTConfigFromJSON(creds, docs.DocumentsScope)
		if err != nil {
			return nil, fmt.Errorf("parse credentials: %w", err)
		}
		if opts.Subject != "" {
			config.Subject = opts.Subject
		}
		return append(out, option.WithHTTPClient(config.Client(ctx))), nil
	}
	defaults, err := google.FindDefaultCredentials(ctx, docs.DocumentsScope)
	if err != nil {
		return nil, fmt.Errorf("find default credentials: %w", err)
	}
	return append(out, option.WithHTTPClient(oauth2.NewClient(ctx, defaults.TokenSource))), nil
}

func (g *Google) Fetch(ctx context.Context, req FetchRequest) (*Snapshot, error) {
	call := g.svc.Documents.Get(req.DocumentID).Context(ctx)
	if req.TabID != "" {
		call = call.IncludeTabsContent(true).Fields(tabFields)
	} else {
		call = call.Fields(bodyFields)
	}
	doc, err := call.Do()
	if err != nil {
		g.logger.Warn("docs.fetch_failed", "document_id", req.DocumentID, "error", err.Error())
		return nil, translateError("fetch", req.DocumentID, err)
	}
	g.logger.Debug("docs.fetch", "document_id", req.DocumentID, "revision_id", doc.RevisionId, "tab_id", req.TabID)
	return SnapshotFromDocument(doc, req.TabID)
}

func (g *Google) Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error) {
	body := &docs.BatchUpdateDocumentRequest{Requests: req.Requests}
	if req.RequiredRevisionID != "" {
		body.WriteControl = &docs.WriteControl{RequiredRevisionId: req.RequiredRevisionID}
	}
	resp, err := g.svc.Documents.BatchUpdate(req.DocumentID, body).Context(ctx).Do()
	if err != nil {
		g.logger.Warn("docs.submit_failed", "document_id", req.DocumentID, "requests", len(req.Requests), "error", err.Error())
		return SubmitResult{}, translateError("submit", req.DocumentID, err)
	}
	result := SubmitResult{DocumentID: resp.DocumentId, Replies: len(resp.Replies)}
	if resp.WriteControl != nil {
		result.RevisionID = resp.WriteControl.RequiredRevisionId
	}
	g.logger.Debug("docs.submit", "document_id", req.DocumentID, "requests", len(req.Requests), "revision_id", result.RevisionID)
	return result, nil
}
