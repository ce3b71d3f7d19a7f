package repository

import (
	"context"

	"docvault/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row
	// (including values assigned by the database: id, created_at).
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// List returns a page of documents matching the filter, joined with the
	// uploader's display name, plus the total count of matching rows before
	// pagination. The filter's visibility scope is always applied; there is
	// no unscoped variant.
	List(ctx context.Context, f DocumentFilter, pq PageQuery) (*PageResult[model.Document], error)

	// IncrementDownloadCount adds one to the document's download counter.
	// The counter is best-effort: callers log failures and carry on.
	IncrementDownloadCount(ctx context.Context, id int64) error

	// Delete removes a document by ID. It returns nil if the row was deleted
	// or did not exist.
	Delete(ctx context.Context, id int64) error

	// PublicTags returns the raw tags values of all public documents with a
	// non-empty tags field, for in-memory frequency aggregation.
	PublicTags(ctx context.Context) ([]string, error)
}

// DocumentFilter holds the optional predicates a listing or search applies,
// always together with the viewer's visibility scope.
type DocumentFilter struct {
	// Viewer scopes results: non-admins see public rows plus their own.
	Viewer model.Principal

	// Keyword is matched case-insensitively as a substring of the title;
	// with MatchDescription set it also matches the description (search).
	Keyword          string
	MatchDescription bool

	// Tags are matched as substrings of the raw tags field, OR-combined
	// across entries. Entries are expected pre-trimmed and non-empty.
	Tags []string
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
