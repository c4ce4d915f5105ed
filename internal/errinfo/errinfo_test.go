package errinfo

import "testing"

func TestNotFoundCarriesCounts(t *testing.T) {
	err := NotFound(PhaseResolve, "text \"Test\"", 3, 2)
	if err.ErrorCode != CodeNotFound {
		t.Fatalf("expected not found")
	}
	if err.Requested != 3 || err.Found != 2 {
		t.Fatalf("expected requested/found to be set, got %d/%d", err.Requested, err.Found)
	}
	if err.Retryable {
		t.Fatalf("not found must not be retryable")
	}
}

func TestRemoteUnavailableIsRetryable(t *testing.T) {
	err := RemoteUnavailable(PhaseSubmit, "503")
	if err.ErrorCode != CodeRemoteUnavailable || !err.Retryable {
		t.Fatalf("expected retryable remote error, got %+v", err)
	}
	if len(err.Actions) != 1 || err.Actions[0] != ActionRetry {
		t.Fatalf("expected retry action, got %v", err.Actions)
	}
	stale := RemoteUnavailable(PhaseSubmit, "stale", ActionRefetch)
	if stale.Actions[0] != ActionRefetch {
		t.Fatalf("expected refetch action, got %v", stale.Actions)
	}
}

func TestValidationHelpers(t *testing.T) {
	if got := OutOfBounds(PhaseResolve, "row").ErrorCode; got != CodeOutOfBounds {
		t.Fatalf("expected out of bounds, got %s", got)
	}
	if got := StructuralMismatch(PhaseResolve, "table").ErrorCode; got != CodeStructuralMismatch {
		t.Fatalf("expected structural mismatch, got %s", got)
	}
	if got := ConflictingRanges(PhaseBuild, "overlap").ErrorCode; got != CodeConflictingRanges {
		t.Fatalf("expected conflicting ranges, got %s", got)
	}
	cfg := ConfigInvalid("bad settings")
	if cfg.ErrorCode != CodeValidationFailed || cfg.Phase != PhaseConfig {
		t.Fatalf("expected config validation failure, got %+v", cfg)
	}
	if ValidationFailed(PhaseBuild, "bad").WithDocument("doc-1").DocumentID != "doc-1" {
		t.Fatalf("expected document id to be set")
	}
}
