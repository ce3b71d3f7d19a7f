package service

import (
	"context"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// DefaultHistoryLimit caps the recent-searches panel when no limit is given.
const DefaultHistoryLimit = 10

// SearchHistoryService exposes a principal's own search history. Every
// operation is scoped to the requesting principal; other principals'
// entries are indistinguishable from nonexistent ones.
type SearchHistoryService interface {
	// Recent returns distinct (keyword, tags) pairs, most recent first.
	Recent(ctx context.Context, p model.Principal, limit int) ([]model.SearchHistoryItem, error)

	// DeleteEntry removes one entry by id. Unknown or foreign ids yield
	// ErrHistoryNotFound.
	DeleteEntry(ctx context.Context, p model.Principal, id int64) (int64, error)

	// DeleteMatching removes entries matching keyword and/or tags exactly;
	// at least one criterion is required.
	DeleteMatching(ctx context.Context, p model.Principal, keyword, tags string) (int64, error)

	// Clear removes the principal's entire history.
	Clear(ctx context.Context, p model.Principal) (int64, error)
}

type searchHistoryService struct {
	repo repository.SearchLogRepository
}

// NewSearchHistoryService constructs a new SearchHistoryService.
func NewSearchHistoryService(repo repository.SearchLogRepository) SearchHistoryService {
	return &searchHistoryService{repo: repo}
}

func (s *searchHistoryService) Recent(ctx context.Context, p model.Principal, limit int) ([]model.SearchHistoryItem, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.repo.RecentDistinct(ctx, p.ID, limit)
}

func (s *searchHistoryService) DeleteEntry(ctx context.Context, p model.Principal, id int64) (int64, error) {
	n, err := s.repo.DeleteByID(ctx, p.ID, id)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		// Covers both "no such entry" and "not yours": existence of other
		// principals' history never leaks.
		return 0, ErrHistoryNotFound
	}
	return n, nil
}

func (s *searchHistoryService) DeleteMatching(ctx context.Context, p model.Principal, keyword, tags string) (int64, error) {
	if keyword == "" && tags == "" {
		return 0, ErrEmptyCriteria
	}
	return s.repo.DeleteMatching(ctx, p.ID, keyword, tags)
}

func (s *searchHistoryService) Clear(ctx context.Context, p model.Principal) (int64, error) {
	return s.repo.DeleteAll(ctx, p.ID)
}

// insertTimeout bounds each background history insert.
const insertTimeout = 5 * time.Second

// AsyncRecorder is the fire-and-forget half of the search history log: a
// bounded channel drained by a single background goroutine. Record never
// blocks; when the queue is full the entry is dropped with a log line, and
// insert failures are logged and swallowed. The primary search response is
// never failed or delayed by this path.
type AsyncRecorder struct {
	repo    repository.SearchLogRepository
	entries chan model.SearchLogEntry
	done    chan struct{}
}

var _ SearchRecorder = (*AsyncRecorder)(nil)

// NewAsyncRecorder starts the drain goroutine. queueSize bounds the number
// of pending writes; non-positive values fall back to 64.
func NewAsyncRecorder(repo repository.SearchLogRepository, queueSize int) *AsyncRecorder {
	if queueSize <= 0 {
		queueSize = 64
	}
	r := &AsyncRecorder{
		repo:    repo,
		entries: make(chan model.SearchLogEntry, queueSize),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// Record hands the entry to the background writer without blocking.
func (r *AsyncRecorder) Record(e model.SearchLogEntry) {
	select {
	case r.entries <- e:
	default:
		logJSON(map[string]any{
			"level":     "warn",
			"component": "search_recorder",
			"event":     "history_entry_dropped",
			"user_id":   e.UserID,
		})
	}
}

func (r *AsyncRecorder) run() {
	defer close(r.done)
	for e := range r.entries {
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		if err := r.repo.Insert(ctx, &e); err != nil {
			logJSON(map[string]any{
				"level":     "error",
				"component": "search_recorder",
				"event":     "history_insert_failed",
				"user_id":   e.UserID,
				"error":     err.Error(),
			})
		}
		cancel()
	}
}

// Close stops accepting entries and waits for the queue to drain, or for
// the context to expire.
func (r *AsyncRecorder) Close(ctx context.Context) error {
	close(r.entries)
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
