package model

import "time"

// SearchLogEntry is one executed search, recorded per principal.
// Entries are append-only; ResultCount is a snapshot taken at search time.
type SearchLogEntry struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Keyword     string    `json:"keyword"`
	Tags        string    `json:"tags"`
	ResultCount int       `json:"result_count"`
	SearchedAt  time.Time `json:"searched_at"`
}

// SearchHistoryItem is one distinct (keyword, tags) pair from a principal's
// history, with the time it was last searched.
type SearchHistoryItem struct {
	Keyword    string    `json:"keyword"`
	Tags       string    `json:"tags"`
	SearchedAt time.Time `json:"searched_at"`
}

// TagCount is one entry of the hot-tag ranking.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
