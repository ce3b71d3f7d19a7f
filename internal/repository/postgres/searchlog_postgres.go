package postgres

import (
	"context"
	"database/sql"
	"strconv"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// SearchLogPostgres is a PostgreSQL implementation of repository.SearchLogRepository.
type SearchLogPostgres struct {
	db *sql.DB
}

// NewSearchLogPostgres creates a new SearchLogPostgres repository.
func NewSearchLogPostgres(db *sql.DB) *SearchLogPostgres {
	return &SearchLogPostgres{db: db}
}

var _ repository.SearchLogRepository = (*SearchLogPostgres)(nil)

// Insert appends one executed search.
func (r *SearchLogPostgres) Insert(ctx context.Context, e *model.SearchLogEntry) error {
	const q = `
		INSERT INTO search_logs (user_id, keyword, tags, result_count)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, q, e.UserID, e.Keyword, e.Tags, e.ResultCount)
	return err
}

// RecentDistinct collapses duplicate queries to one row per (keyword, tags)
// pair, ordered by when the pair was last searched. Searches where both
// fields are empty are noise for a history panel and are excluded.
func (r *SearchLogPostgres) RecentDistinct(ctx context.Context, userID int64, limit int) ([]model.SearchHistoryItem, error) {
	const q = `
		SELECT keyword, tags, MAX(searched_at) AS last_searched
		FROM search_logs
		WHERE user_id = $1 AND (keyword <> '' OR tags <> '')
		GROUP BY keyword, tags
		ORDER BY last_searched DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.SearchHistoryItem, 0)
	for rows.Next() {
		var it model.SearchHistoryItem
		if err := rows.Scan(&it.Keyword, &it.Tags, &it.SearchedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteByID removes one entry, but only if it belongs to the user. A zero
// row count covers both "no such entry" and "someone else's entry"; the
// service reports both as not found so existence never leaks.
func (r *SearchLogPostgres) DeleteByID(ctx context.Context, userID, id int64) (int64, error) {
	const q = `DELETE FROM search_logs WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteMatching removes entries matching keyword and/or tags exactly,
// scoped to the user. At least one criterion is expected to be set.
func (r *SearchLogPostgres) DeleteMatching(ctx context.Context, userID int64, keyword, tags string) (int64, error) {
	q := `DELETE FROM search_logs WHERE user_id = $1`
	args := []any{userID}

	if keyword != "" {
		args = append(args, keyword)
		q += ` AND keyword = $` + strconv.Itoa(len(args))
	}
	if tags != "" {
		args = append(args, tags)
		q += ` AND tags = $` + strconv.Itoa(len(args))
	}

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteAll clears the user's history.
func (r *SearchLogPostgres) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	const q = `DELETE FROM search_logs WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
