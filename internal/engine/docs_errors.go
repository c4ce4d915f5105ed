package engine

import (
	"context"
	"errors"
	"net"
	"net/http"

	"docsengine/internal/batch"
	"docsengine/internal/diff"
	"docsengine/internal/docsapi"
	"docsengine/internal/egress"
	"docsengine/internal/errinfo"
	"docsengine/internal/locate"
)

// mapDocsError keeps each failure's own category: a missing document, a
// missing occurrence and an unreachable service all map differently.
func mapDocsError(phase string, err error) *errinfo.ErrorInfo {
	var notFound *locate.NotFoundError
	if errors.As(err, &notFound) {
		return errinfo.NotFound(phase, err.Error(), notFound.Requested, notFound.Found)
	}
	if errors.Is(err, locate.ErrNotFound) || errors.Is(err, docsapi.ErrNotFound) {
		return errinfo.NotFound(phase, err.Error(), 0, 0)
	}
	if errors.Is(err, locate.ErrOutOfBounds) {
		return errinfo.OutOfBounds(phase, err.Error())
	}
	if errors.Is(err, locate.ErrStructuralMismatch) {
		return errinfo.StructuralMismatch(phase, err.Error())
	}
	if errors.Is(err, batch.ErrConflictingRanges) {
		return errinfo.ConflictingRanges(phase, err.Error())
	}
	if errors.Is(err, locate.ErrInvalidTarget) || errors.Is(err, batch.ErrInvalidEdit) || errors.Is(err, diff.ErrOutOfRange) {
		return errinfo.ValidationFailed(phase, err.Error())
	}
	if errors.Is(err, egress.ErrBlocked) {
		return errinfo.ConfigInvalid(err.Error())
	}
	var remote *docsapi.RemoteError
	if errors.As(err, &remote) && remote.Status == http.StatusBadRequest && phase == errinfo.PhaseSubmit {
		// The service rejects a batch with 400 when a required revision is
		// stale or the request no longer fits the document.
		return errinfo.RemoteUnavailable(phase, err.Error(), errinfo.ActionRefetch)
	}
	if errors.Is(err, docsapi.ErrUnavailable) {
		return errinfo.RemoteUnavailable(phase, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errinfo.RemoteUnavailable(phase, err.Error())
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return errinfo.RemoteUnavailable(phase, err.Error())
	}
	return errinfo.ValidationFailed(phase, err.Error())
}
