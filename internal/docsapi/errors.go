package docsapi

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrUnavailable = errors.New("document service unavailable")
)

// RemoteError is an opaque failure of the document service or the transport
// in front of it. It matches ErrUnavailable and whatever error caused it.
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, msg)
	}
	return e.Op + ": " + msg
}

func (e *RemoteError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUnavailable}
	}
	return []error{ErrUnavailable, e.Err}
}

// TabNotFoundError reports a tab id or title absent from the document.
type TabNotFoundError struct {
	DocumentID string
	Tab        string
}

func (e *TabNotFoundError) Error() string {
	return fmt.Sprintf("tab %q not found in document %s", e.Tab, e.DocumentID)
}

func (e *TabNotFoundError) Unwrap() error {
	return ErrNotFound
}

func translateError(op, documentID string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusNotFound {
			return fmt.Errorf("%w (id=%s)", ErrNotFound, documentID)
		}
		return &RemoteError{Op: op, Status: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	return &RemoteError{Op: op, Err: err}
}
