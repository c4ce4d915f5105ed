package docsapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"google.golang.org/api/docs/v1"
)

// Fake is an in-memory Service. It serves stored documents and records every
// submitted batch without applying it; each accepted batch bumps the
// document's revision.
type Fake struct {
	mu        sync.Mutex
	documents map[string]*docs.Document
	fetches   int
	submitted []SubmitRequest

	FetchErr  error
	SubmitErr error
}

func NewFake(documents ...*docs.Document) *Fake {
	f := &Fake{documents: make(map[string]*docs.Document)}
	for _, doc := range documents {
		f.Put(doc)
	}
	return f
}

func (f *Fake) Put(doc *docs.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.documents[doc.DocumentId] = doc
}

func (f *Fake) Fetch(_ context.Context, req FetchRequest) (*Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	doc, ok := f.documents[req.DocumentID]
	if !ok {
		return nil, fmt.Errorf("%w (id=%s)", ErrNotFound, req.DocumentID)
	}
	return SnapshotFromDocument(doc, req.TabID)
}

func (f *Fake) Submit(_ context.Context, req SubmitRequest) (SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SubmitErr != nil {
		return SubmitResult{}, f.SubmitErr
	}
	doc, ok := f.documents[req.DocumentID]
	if !ok {
		return SubmitResult{}, fmt.Errorf("%w (id=%s)", ErrNotFound, req.DocumentID)
	}
	if req.RequiredRevisionID != "" && req.RequiredRevisionID != doc.RevisionId {
		return SubmitResult{}, &RemoteError{
			Op:      "submit",
			Status:  http.StatusBadRequest,
			Message: "the required revision id does not match the latest revision",
		}
	}
	f.submitted = append(f.submitted, req)
	doc.RevisionId = "rev-" + strconv.Itoa(len(f.submitted)+1)
	return SubmitResult{DocumentID: req.DocumentID, RevisionID: doc.RevisionId, Replies: len(req.Requests)}, nil
}

func (f *Fake) Fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func (f *Fake) Submitted() []SubmitRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SubmitRequest, len(f.submitted))
	copy(out, f.submitted)
	return out
}
