package errinfo

// ErrorInfo is the structured error payload returned to RPC clients.
type ErrorInfo struct {
	ErrorCode  string   `json:"error_code"`
	Phase      string   `json:"phase,omitempty"`
	Retryable  bool     `json:"retryable"`
	Actions    []string `json:"actions,omitempty"`
	DocumentID string   `json:"document_id,omitempty"`
	Detail     string   `json:"detail,omitempty"`
	// Requested and Found are set for NOT_FOUND when an occurrence count
	// could not be met.
	Requested int `json:"requested,omitempty"`
	Found     int `json:"found,omitempty"`
}

const (
	CodeNotFound           = "NOT_FOUND"
	CodeOutOfBounds        = "OUT_OF_BOUNDS"
	CodeStructuralMismatch = "STRUCTURAL_MISMATCH"
	CodeConflictingRanges  = "CONFLICTING_RANGES"
	CodeRemoteUnavailable  = "REMOTE_UNAVAILABLE"
	CodeValidationFailed   = "VALIDATION_FAILED"
)

const (
	ActionRetry         = "retry"
	ActionRefetch       = "refetch"
	ActionCheckSettings = "check_settings"
	ActionAdjustTarget  = "adjust_target"
	ActionSplitBatch    = "split_batch"
)

const (
	PhaseResolve = "resolve"
	PhaseBuild   = "build"
	PhaseFetch   = "fetch"
	PhaseSubmit  = "submit"
	PhaseConfig  = "config"
)

func NotFound(phase, detail string, requested, found int) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeNotFound,
		Phase:     phase,
		Retryable: false,
		Actions:   []string{ActionAdjustTarget},
		Detail:    detail,
		Requested: requested,
		Found:     found,
	}
}

func OutOfBounds(phase, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeOutOfBounds,
		Phase:     phase,
		Retryable: false,
		Actions:   []string{ActionAdjustTarget},
		Detail:    detail,
	}
}

func StructuralMismatch(phase, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeStructuralMismatch,
		Phase:     phase,
		Retryable: false,
		Actions:   []string{ActionAdjustTarget},
		Detail:    detail,
	}
}

func ConflictingRanges(phase, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeConflictingRanges,
		Phase:     phase,
		Retryable: false,
		Actions:   []string{ActionSplitBatch},
		Detail:    detail,
	}
}

// RemoteUnavailable covers transport and service failures. A stale revision
// is reported the same way with a refetch action.
func RemoteUnavailable(phase, detail string, actions ...string) *ErrorInfo {
	if len(actions) == 0 {
		actions = []string{ActionRetry}
	}
	return &ErrorInfo{
		ErrorCode: CodeRemoteUnavailable,
		Phase:     phase,
		Retryable: true,
		Actions:   actions,
		Detail:    detail,
	}
}

func ValidationFailed(phase, detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeValidationFailed,
		Phase:     phase,
		Retryable: false,
		Detail:    detail,
	}
}

func ConfigInvalid(detail string) *ErrorInfo {
	return &ErrorInfo{
		ErrorCode: CodeValidationFailed,
		Phase:     PhaseConfig,
		Retryable: false,
		Actions:   []string{ActionCheckSettings},
		Detail:    detail,
	}
}

func (e *ErrorInfo) WithDocument(documentID string) *ErrorInfo {
	if e == nil {
		return nil
	}
	e.DocumentID = documentID
	return e
}
