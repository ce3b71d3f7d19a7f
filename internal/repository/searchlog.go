package repository

import (
	"context"

	"docvault/internal/model"
)

// SearchLogRepository defines data access for the append-only search log.
// All reads and deletes are scoped to a single user; there is no cross-user
// access path.
type SearchLogRepository interface {
	// Insert appends one executed search.
	Insert(ctx context.Context, e *model.SearchLogEntry) error

	// RecentDistinct returns the user's distinct (keyword, tags) pairs,
	// most recently searched first, excluding entries where both keyword
	// and tags are empty.
	RecentDistinct(ctx context.Context, userID int64, limit int) ([]model.SearchHistoryItem, error)

	// DeleteByID removes one entry owned by the user and reports how many
	// rows went away (0 or 1).
	DeleteByID(ctx context.Context, userID, id int64) (int64, error)

	// DeleteMatching removes the user's entries matching the given keyword
	// and/or tags exactly. Empty criteria match on the other field alone;
	// the caller guarantees at least one is set.
	DeleteMatching(ctx context.Context, userID int64, keyword, tags string) (int64, error)

	// DeleteAll clears the user's entire history.
	DeleteAll(ctx context.Context, userID int64) (int64, error)
}
