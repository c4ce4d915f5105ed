package engine

import (
	"context"
	"encoding/json"
	"strings"

	"google.golang.org/api/docs/v1"

	"docsengine/internal/batch"
	"docsengine/internal/diff"
	"docsengine/internal/doctree"
	"docsengine/internal/errinfo"
	"docsengine/internal/locate"
)

// ResolveResult is the DocsResolveTarget reply: where a target sits in the
// fetched revision and the visible text of its content range.
type ResolveResult struct {
	DocumentID string            `json:"document_id"`
	RevisionID string            `json:"revision_id,omitempty"`
	TabID      string            `json:"tab_id,omitempty"`
	Resolution locate.Resolution `json:"resolution"`
	Content    string            `json:"content"`
}

type TextResult struct {
	DocumentID   string            `json:"document_id"`
	RevisionID   string            `json:"revision_id,omitempty"`
	Title        string            `json:"title"`
	TabID        string            `json:"tab_id,omitempty"`
	Text         string            `json:"text"`
	SegmentCount int               `json:"segment_count"`
	Segments     []doctree.Segment `json:"segments,omitempty"`
}

type applyResult struct {
	DocumentID     string          `json:"document_id"`
	BaseRevisionID string          `json:"base_revision_id,omitempty"`
	RevisionID     string          `json:"revision_id,omitempty"`
	Requests       []batch.Request `json:"requests"`
	Replies        int             `json:"replies"`
}

type previewResult struct {
	DocumentID string          `json:"document_id"`
	RevisionID string          `json:"revision_id,omitempty"`
	Requests   []batch.Request `json:"requests"`
	Preview    diff.Result     `json:"preview"`
}

func decodeParams(phase string, params json.RawMessage, out any) *errinfo.ErrorInfo {
	if err := json.Unmarshal(params, out); err != nil {
		return errinfo.ValidationFailed(phase, "invalid params")
	}
	return nil
}

func (e *Engine) DocsResolveTarget(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		documentParams
		Target json.RawMessage `json:"target"`
	}
	if errInfo := decodeParams(errinfo.PhaseResolve, params, &req); errInfo != nil {
		return nil, errInfo
	}
	target, err := decodeTarget(req.Target)
	if err != nil {
		return nil, mapDocsError(errinfo.PhaseResolve, err)
	}
	s, errInfo := e.open(ctx, req.documentParams)
	if errInfo != nil {
		return nil, errInfo
	}
	res, err := locate.ResolveDetail(s.snapshot.Blocks, target)
	if err != nil {
		return nil, mapDocsError(errinfo.PhaseResolve, err).WithDocument(s.snapshot.DocumentID)
	}
	return ResolveResult{
		DocumentID: s.snapshot.DocumentID,
		RevisionID: s.snapshot.RevisionID,
		TabID:      s.snapshot.TabID,
		Resolution: res,
		Content:    doctree.TextAt(doctree.Flatten(s.snapshot.Blocks), res.Range.Content()),
	}, nil
}

func (e *Engine) DocsInsertText(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		documentParams
		Target   json.RawMessage `json:"target"`
		Position string          `json:"position"`
		Text     string          `json:"text"`
	}
	if errInfo := decodeParams(errinfo.PhaseBuild, params, &req); errInfo != nil {
		return nil, errInfo
	}
	var kind locate.EditKind
	switch strings.ToLower(strings.TrimSpace(req.Position)) {
	case "", "before":
		kind = locate.EditInsertBefore
	case "after":
		kind = locate.EditInsertAfter
	default:
		return nil, errinfo.ValidationFailed(errinfo.PhaseBuild, "position must be before or after")
	}
	return e.applyEdits(ctx, req.documentParams, []editParams{{Target: req.Target, Kind: kind.String(), Text: req.Text}})
}

func (e *Engine) DocsDeleteText(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		documentParams
		Target json.RawMessage `json:"target"`
		// Block removes the trailing paragraph separator of a block target too.
		Block bool `json:"block"`
	}
	if errInfo := decodeParams(errinfo.PhaseBuild, params, &req); errInfo != nil {
		return nil, errInfo
	}
	kind := locate.EditDeleteText
	if req.Block {
		kind = locate.EditDeleteBlock
	}
	return e.applyEdits(ctx, req.documentParams, []editParams{{Target: req.Target, Kind: kind.String()}})
}

func (e *Engine) DocsReplaceText(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		documentParams
		Target json.RawMessage `json:"target"`
		Text   string          `json:"text"`
	}
	if errInfo := decodeParams(errinfo.PhaseBuild, params, &req); errInfo != nil {
		return nil, errInfo
	}
	return e.applyEdits(ctx, req.documentParams, []editParams{{
		Target: req.Target,
		Kind:   locate.EditReplaceText.String(),
		Text:   req.Text,
	}})
}

func (e *Engine) DocsStyleText(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		documentParams
		Target    json.RawMessage `json:"target"`
		TextStyle *docs.TextStyle `json:"text_style"`
		Fields    string          `json:"fields"`
	}
	if errInfo := decodeParams(errinfo.PhaseBuild, params, &req); errInfo != nil {
		return nil, errInfo
	}
	return e.applyEdits(ctx, req.documentParams, []editParams{{
		Target:    req.Target,
		Kind:      locate.EditStyleText.String(),
		TextStyle: req.TextStyle,
		Fields:    req.Fields,
	}})
}

func (e *Engine) DocsStyleParagraph(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		documentParams
		Target         json.RawMessage      `json:"target"`
		ParagraphStyle *docs.ParagraphStyle `json:"paragraph_style"`
		Fields         string               `json:"fields"`
	}
	if errInfo := decodeParams(errinfo.PhaseBuild, params, &req); errInfo != nil {
		return nil, errInfo
	}
	return e.applyEdits(ctx, req.documentParams, []editParams{{
		Target:         req.Target,
		Kind:           locate.EditStyleParagraph.String(),
		ParagraphStyle: req.ParagraphStyle,
		Fields:         req.Fields,
	}})
}

// DocsApplyEdits resolves every edit against one snapshot and submits them
// as a single batch, highest start first.
func (e *Engine) DocsApplyEdits(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		documentParams
		Edits []editParams `json:"edits"`
	}
	if errInfo := decodeParams(errinfo.PhaseBuild, params, &req); errInfo != nil {
		return nil, errInfo
	}
	return e.applyEdits(ctx, req.documentParams, req.Edits)
}

func (e *Engine) DocsPreviewEdits(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		documentParams
		Edits []editParams `json:"edits"`
	}
	if errInfo := decodeParams(errinfo.PhaseBuild, params, &req); errInfo != nil {
		return nil, errInfo
	}
	if len(req.Edits) == 0 {
		return nil, errinfo.ValidationFailed(errinfo.PhaseBuild, "edits are required")
	}
	s, errInfo := e.open(ctx, req.documentParams)
	if errInfo != nil {
		return nil, errInfo
	}
	requests, errInfo := s.prepare(req.Edits)
	if errInfo != nil {
		return nil, errInfo
	}
	preview, err := diff.Preview(doctree.Flatten(s.snapshot.Blocks), requests)
	if err != nil {
		return nil, mapDocsError(errinfo.PhaseBuild, err).WithDocument(s.snapshot.DocumentID)
	}
	return previewResult{
		DocumentID: s.snapshot.DocumentID,
		RevisionID: s.snapshot.RevisionID,
		Requests:   requests,
		Preview:    preview,
	}, nil
}

func (e *Engine) DocsGetText(ctx context.Context, params json.RawMessage) (any, *errinfo.ErrorInfo) {
	var req struct {
		documentParams
		IncludeSegments bool `json:"include_segments"`
	}
	if errInfo := decodeParams(errinfo.PhaseFetch, params, &req); errInfo != nil {
		return nil, errInfo
	}
	s, errInfo := e.open(ctx, req.documentParams)
	if errInfo != nil {
		return nil, errInfo
	}
	segments := doctree.Flatten(s.snapshot.Blocks)
	result := TextResult{
		DocumentID:   s.snapshot.DocumentID,
		RevisionID:   s.snapshot.RevisionID,
		Title:        s.snapshot.Title,
		TabID:        s.snapshot.TabID,
		Text:         doctree.Join(segments),
		SegmentCount: len(segments),
	}
	if req.IncludeSegments {
		result.Segments = segments
	}
	return result, nil
}

func (e *Engine) applyEdits(ctx context.Context, p documentParams, edits []editParams) (any, *errinfo.ErrorInfo) {
	if len(edits) == 0 {
		return nil, errinfo.ValidationFailed(errinfo.PhaseBuild, "edits are required")
	}
	s, errInfo := e.open(ctx, p)
	if errInfo != nil {
		return nil, errInfo
	}
	requests, errInfo := s.prepare(edits)
	if errInfo != nil {
		return nil, errInfo
	}
	result, errInfo := e.submit(ctx, s, requests)
	if errInfo != nil {
		return nil, errInfo
	}
	return applyResult{
		DocumentID:     result.DocumentID,
		BaseRevisionID: s.snapshot.RevisionID,
		RevisionID:     result.RevisionID,
		Requests:       requests,
		Replies:        result.Replies,
	}, nil
}

func (s *session) prepare(edits []editParams) ([]batch.Request, *errinfo.ErrorInfo) {
	planned, errInfo := s.plan(edits)
	if errInfo != nil {
		return nil, errInfo
	}
	return s.build(planned)
}
