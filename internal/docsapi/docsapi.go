// Package docsapi is the engine's only view of the remote document service:
// one read that yields a snapshot and one write that applies a batch.
package docsapi

import (
	"context"
	"strings"

	"google.golang.org/api/docs/v1"

	"docsengine/internal/doctree"
)

type FetchRequest struct {
	DocumentID string
	TabID      string
}

// Snapshot is the document tree as the service returned it at fetch time.
// Nothing keeps it current; a concurrent external edit makes it stale.
type Snapshot struct {
	DocumentID string
	Title      string
	RevisionID string
	TabID      string
	Blocks     []doctree.Block
}

// SubmitRequest is one batchUpdate call. RequiredRevisionID, when set, asks
// the service to reject the batch if the document changed since the fetch.
type SubmitRequest struct {
	DocumentID         string
	Requests           []*docs.Request
	RequiredRevisionID string
}

type SubmitResult struct {
	DocumentID string `json:"document_id"`
	RevisionID string `json:"revision_id,omitempty"`
	Replies    int    `json:"replies"`
}

type Service interface {
	Fetch(ctx context.Context, req FetchRequest) (*Snapshot, error)
	Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error)
}

// SnapshotFromDocument selects the body addressed by tabID (by id, or by
// case-insensitive title) and converts it. Without a tab the legacy body is
// used, falling back to the first tab when only tabs were returned.
func SnapshotFromDocument(doc *docs.Document, tabID string) (*Snapshot, error) {
	if doc == nil {
		return nil, ErrNotFound
	}
	snap := &Snapshot{
		DocumentID: doc.DocumentId,
		Title:      doc.Title,
		RevisionID: doc.RevisionId,
	}
	tabID = strings.TrimSpace(tabID)
	if tabID == "" {
		body := doc.Body
		if body == nil {
			if tabs := flattenTabs(doc.Tabs); len(tabs) > 0 && tabs[0].DocumentTab != nil {
				body = tabs[0].DocumentTab.Body
			}
		}
		snap.Blocks = doctree.FromBody(body)
		return snap, nil
	}
	tab := findTab(flattenTabs(doc.Tabs), tabID)
	if tab == nil || tab.DocumentTab == nil {
		return nil, &TabNotFoundError{DocumentID: doc.DocumentId, Tab: tabID}
	}
	if tab.TabProperties != nil {
		snap.TabID = tab.TabProperties.TabId
	}
	snap.Blocks = doctree.FromBody(tab.DocumentTab.Body)
	return snap, nil
}

func flattenTabs(tabs []*docs.Tab) []*docs.Tab {
	var out []*docs.Tab
	for _, tab := range tabs {
		if tab == nil {
			continue
		}
		out = append(out, tab)
		out = append(out, flattenTabs(tab.ChildTabs)...)
	}
	return out
}

func findTab(tabs []*docs.Tab, query string) *docs.Tab {
	for _, tab := range tabs {
		if tab.TabProperties != nil && tab.TabProperties.TabId == query {
			return tab
		}
	}
	for _, tab := range tabs {
		if tab.TabProperties != nil && strings.EqualFold(tab.TabProperties.Title, query) {
			return tab
		}
	}
	return nil
}
