package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/docs/v1"

	"docsengine/internal/batch"
	"docsengine/internal/docsapi"
	"docsengine/internal/doctree"
	"docsengine/internal/errinfo"
	"docsengine/internal/locate"
	"docsengine/internal/settings"
)

type documentParams struct {
	DocumentID string `json:"document_id"`
	TabID      string `json:"tab_id,omitempty"`
}

type editParams struct {
	Target         json.RawMessage      `json:"target"`
	Kind           string               `json:"kind"`
	Text           string               `json:"text,omitempty"`
	TextStyle      *docs.TextStyle      `json:"text_style,omitempty"`
	ParagraphStyle *docs.ParagraphStyle `json:"paragraph_style,omitempty"`
	Fields         string               `json:"fields,omitempty"`
}

// session is one handler call's view of a document: the settings in force and
// the snapshot every target of the call is resolved against.
type session struct {
	cfg      *settings.Settings
	service  docsapi.Service
	snapshot *docsapi.Snapshot
}

func (e *Engine) open(ctx context.Context, p documentParams) (*session, *errinfo.ErrorInfo) {
	documentID := strings.TrimSpace(p.DocumentID)
	if documentID == "" {
		return nil, errinfo.ValidationFailed(errinfo.PhaseFetch, "document_id is required")
	}
	cfg, errInfo := e.loadSettings()
	if errInfo != nil {
		return nil, errInfo
	}
	service, errInfo := e.docsService(ctx, cfg)
	if errInfo != nil {
		return nil, errInfo
	}
	tabID := strings.TrimSpace(p.TabID)
	if tabID == "" {
		tabID = cfg.DefaultTabID
	}
	snapshot, err := service.Fetch(ctx, docsapi.FetchRequest{DocumentID: documentID, TabID: tabID})
	if err != nil {
		e.logger.Warn("docs.fetch_failed", "document_id", documentID, "tab_id", tabID, "error", err.Error())
		return nil, mapDocsError(errinfo.PhaseFetch, err).WithDocument(documentID)
	}
	e.logger.Debug("docs.fetched", "document_id", documentID, "revision_id", snapshot.RevisionID, "blocks", len(snapshot.Blocks))
	return &session{cfg: cfg, service: service, snapshot: snapshot}, nil
}

// plannedEdits are elementary edits in caller order. origin[i] is the index
// of the caller edit that produced edits[i]; a replace yields two.
type plannedEdits struct {
	edits  []batch.Edit
	origin []int
}

// plan resolves every edit against the session snapshot.
func (s *session) plan(edits []editParams) (plannedEdits, *errinfo.ErrorInfo) {
	documentID := s.snapshot.DocumentID
	var planned plannedEdits
	for i, ep := range edits {
		label := func(err error) error {
			if len(edits) == 1 {
				return err
			}
			return fmt.Errorf("edit %d: %w", i, err)
		}
		target, err := decodeTarget(ep.Target)
		if err != nil {
			return plannedEdits{}, mapDocsError(errinfo.PhaseResolve, label(err)).WithDocument(documentID)
		}
		kind, err := locate.ParseEditKind(strings.TrimSpace(ep.Kind))
		if err != nil {
			return plannedEdits{}, errinfo.ValidationFailed(errinfo.PhaseResolve, label(err).Error()).WithDocument(documentID)
		}
		resolved, err := locate.Resolve(s.snapshot.Blocks, target)
		if err != nil {
			return plannedEdits{}, mapDocsError(errinfo.PhaseResolve, label(err)).WithDocument(documentID)
		}
		span, err := locate.Classify(resolved, kind)
		if err != nil {
			return plannedEdits{}, mapDocsError(errinfo.PhaseResolve, label(err)).WithDocument(documentID)
		}
		for _, edit := range elementaryEdits(kind, span, ep) {
			planned.edits = append(planned.edits, edit)
			planned.origin = append(planned.origin, i)
		}
	}
	if len(planned.edits) == 0 {
		return plannedEdits{}, errinfo.ValidationFailed(errinfo.PhaseBuild, "no edits to apply").WithDocument(documentID)
	}
	return planned, nil
}

func elementaryEdits(kind locate.EditKind, span doctree.Span, ep editParams) []batch.Edit {
	switch kind {
	case locate.EditInsertBefore, locate.EditInsertAfter:
		return []batch.Edit{insertAt(span.Start, ep.Text)}
	case locate.EditDeleteText, locate.EditDeleteBlock:
		return []batch.Edit{{Kind: batch.KindDelete, Range: span}}
	case locate.EditReplaceText:
		// An empty range (an empty table cell) only receives the insert.
		var out []batch.Edit
		if !span.IsEmpty() {
			out = append(out, batch.Edit{Kind: batch.KindDelete, Range: span})
		}
		if ep.Text != "" {
			out = append(out, insertAt(span.Start, ep.Text))
		}
		return out
	case locate.EditStyleText:
		return []batch.Edit{{
			Kind:    batch.KindStyleText,
			Range:   span,
			Payload: batch.Payload{TextStyle: ep.TextStyle, Fields: ep.Fields},
		}}
	case locate.EditStyleParagraph:
		return []batch.Edit{{
			Kind:    batch.KindStyleParagraph,
			Range:   span,
			Payload: batch.Payload{ParagraphStyle: ep.ParagraphStyle, Fields: ep.Fields},
		}}
	}
	return nil
}

func insertAt(index int64, text string) batch.Edit {
	return batch.Edit{
		Kind:    batch.KindInsert,
		Range:   doctree.Span{Start: index, End: index},
		Payload: batch.Payload{Text: text},
	}
}

// build checks the planned edits in caller order, reporting conflicts by the
// caller's edit numbers, then orders them for submission against the
// snapshot.
func (s *session) build(planned plannedEdits) ([]batch.Request, *errinfo.ErrorInfo) {
	documentID := s.snapshot.DocumentID
	if _, err := batch.Build(planned.edits); err != nil {
		var conflict *batch.ConflictError
		if errors.As(err, &conflict) {
			err = &batch.ConflictError{
				First:       planned.origin[conflict.First],
				Second:      planned.origin[conflict.Second],
				FirstRange:  conflict.FirstRange,
				SecondRange: conflict.SecondRange,
			}
		}
		return nil, mapDocsError(errinfo.PhaseBuild, err).WithDocument(documentID)
	}
	requests, err := batch.Build(batch.OrderForSnapshot(planned.edits))
	if err != nil {
		return nil, mapDocsError(errinfo.PhaseBuild, err).WithDocument(documentID)
	}
	return requests, nil
}

func (e *Engine) submit(ctx context.Context, s *session, requests []batch.Request) (docsapi.SubmitResult, *errinfo.ErrorInfo) {
	snapshot := s.snapshot
	req := docsapi.SubmitRequest{
		DocumentID: snapshot.DocumentID,
		Requests:   batch.ToDocsRequests(requests, snapshot.TabID),
	}
	if s.cfg.RequireRevision {
		req.RequiredRevisionID = snapshot.RevisionID
	}
	result, err := s.service.Submit(ctx, req)
	if err != nil {
		e.logger.Warn("docs.submit_failed", "document_id", snapshot.DocumentID, "requests", len(requests), "error", err.Error())
		return docsapi.SubmitResult{}, mapDocsError(errinfo.PhaseSubmit, err).WithDocument(snapshot.DocumentID)
	}
	e.logger.Info("docs.submitted",
		"document_id", snapshot.DocumentID,
		"requests", len(requests),
		"base_revision_id", snapshot.RevisionID,
		"revision_id", result.RevisionID,
	)
	return result, nil
}
