package service

import "errors"

// Sentinel errors forming the service-level taxonomy. Handlers translate
// these to HTTP statuses; anything else is an internal storage failure.
var (
	// ErrTitleRequired rejects uploads without a non-empty title.
	ErrTitleRequired = errors.New("title is required")
	// ErrReaderNil rejects uploads without file content.
	ErrReaderNil = errors.New("reader is nil")
	// ErrNotFound means the document id is unknown.
	ErrNotFound = errors.New("document not found")
	// ErrForbidden means the principal is not authorized for the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrFileMissing means metadata exists but the blob does not. This is a
	// data-integrity symptom, kept distinct from ErrNotFound so operators
	// can detect storage drift.
	ErrFileMissing = errors.New("file missing from storage")
	// ErrHistoryNotFound means the search-history entry is unknown or owned
	// by someone else; the two cases are deliberately indistinguishable.
	ErrHistoryNotFound = errors.New("search history entry not found")
	// ErrEmptyCriteria rejects criteria-based history deletion when neither
	// keyword nor tags is given.
	ErrEmptyCriteria = errors.New("keyword or tags required")
)
