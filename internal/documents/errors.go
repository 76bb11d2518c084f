package documents

import "errors"

// The store distinguishes absence from backend failure: not-found conditions
// use these sentinels, storage failures propagate wrapped so callers can
// still reach the cause with errors.Is/As.
var (
	ErrPaperNotFound    = errors.New("paper document not found")
	ErrQuestionNotFound = errors.New("question not found in paper")

	// ErrVersionConflict is returned when a write carries a stale version
	// token; the caller must re-read the document and retry.
	ErrVersionConflict = errors.New("paper document version conflict")
)
