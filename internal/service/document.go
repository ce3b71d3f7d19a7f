package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"docvault/internal/model"
	"docvault/internal/policy"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

const (
	// DefaultPageSize is used when a caller supplies a non-positive limit.
	DefaultPageSize = 10
	// DefaultHotTagLimit caps the hot-tag ranking when no limit is given.
	DefaultHotTagLimit = 20
)

// UploadInput carries the user-supplied metadata of an upload.
type UploadInput struct {
	Title       string
	Description string
	Tags        string
	IsPublic    bool
	FileName    string
	ContentType string
	Size        int64
}

// ListQuery filters the plain listing: keyword against title only.
type ListQuery struct {
	Page  int
	Limit int
	Title string
	Tags  string
}

// SearchQuery filters the search path: keyword against title and description.
type SearchQuery struct {
	Page    int
	Limit   int
	Keyword string
	Tags    string
}

// ListResult is the service-level DTO for paginated documents.
type ListResult struct {
	Items []model.Document `json:"documents"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// SearchResult echoes the query alongside the page.
type SearchResult struct {
	ListResult
	Keyword string `json:"keyword"`
	Tags    string `json:"tags"`
}

// Download is a streaming download: content plus the user-facing filename
// to suggest, never the internal storage key.
type Download struct {
	Content  io.ReadCloser
	FileName string
	MimeType string
	Size     int64
}

// SearchRecorder accepts best-effort search-history writes. Record must
// never block and its failure must never surface to the search caller.
type SearchRecorder interface {
	Record(e model.SearchLogEntry)
}

// DocumentService defines the use cases for handling documents. Every
// operation takes the requesting principal; there is no unauthenticated
// path and no query that bypasses the principal's visibility scope.
type DocumentService interface {
	// Upload stores the content in object storage, saves metadata to the DB,
	// and rolls back the blob if the DB save fails.
	Upload(ctx context.Context, p model.Principal, in UploadInput, r io.Reader) (*model.Document, error)

	// List returns a visibility-scoped, filtered page of documents.
	List(ctx context.Context, p model.Principal, q ListQuery) (*ListResult, error)

	// Search is List with description matching, and it records the query in
	// the principal's search history (best-effort, asynchronous).
	Search(ctx context.Context, p model.Principal, q SearchQuery) (*SearchResult, error)

	// Download authorizes, verifies the blob exists, bumps the download
	// counter and returns the content stream.
	Download(ctx context.Context, p model.Principal, id int64) (*Download, error)

	// Delete removes both the metadata record and the blob.
	Delete(ctx context.Context, p model.Principal, id int64) error

	// HotTags ranks tags across public documents by frequency.
	HotTags(ctx context.Context, limit int) ([]model.TagCount, error)
}

type documentService struct {
	store    storage.Storage
	repo     repository.DocumentRepository
	recorder SearchRecorder
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, recorder SearchRecorder) DocumentService {
	return &documentService{store: store, repo: repo, recorder: recorder}
}

func (s *documentService) Upload(ctx context.Context, p model.Principal, in UploadInput, r io.Reader) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	// Validate before touching storage so a rejected upload leaves no blob.
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	// Storage key is UUID + original extension; the user-facing name stays
	// in file_name.
	ext := filepath.Ext(in.FileName)
	key := filepath.ToSlash(filepath.Join("documents", uuid.New().String()+ext))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.FileName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		Title:        title,
		Description:  in.Description,
		FileName:     in.FileName,
		FilePath:     objInfo.Key,
		FileSize:     objInfo.Size,
		MimeType:     in.ContentType,
		UploadUserID: p.ID,
		IsPublic:     in.IsPublic,
		Tags:         in.Tags,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage so no orphan blob remains.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// clampPage normalizes pagination: non-positive values fall back to
// defaults instead of failing the request.
func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return page, limit
}

func (s *documentService) List(ctx context.Context, p model.Principal, q ListQuery) (*ListResult, error) {
	page, limit := clampPage(q.Page, q.Limit)

	res, err := s.repo.List(ctx,
		repository.DocumentFilter{
			Viewer:  p,
			Keyword: q.Title,
			Tags:    model.ParseTags(q.Tags),
		},
		repository.PageQuery{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: res.Items, Total: res.Total, Page: page, Limit: limit}, nil
}

func (s *documentService) Search(ctx context.Context, p model.Principal, q SearchQuery) (*SearchResult, error) {
	page, limit := clampPage(q.Page, q.Limit)

	res, err := s.repo.List(ctx,
		repository.DocumentFilter{
			Viewer:           p,
			Keyword:          q.Keyword,
			MatchDescription: true,
			Tags:             model.ParseTags(q.Tags),
		},
		repository.PageQuery{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}

	// Every executed search is recorded, zero-result and tag-only included.
	// The write is handed off; it cannot fail or delay this response.
	s.recorder.Record(model.SearchLogEntry{
		UserID:      p.ID,
		Keyword:     q.Keyword,
		Tags:        q.Tags,
		ResultCount: res.Total,
	})

	return &SearchResult{
		ListResult: ListResult{Items: res.Items, Total: res.Total, Page: page, Limit: limit},
		Keyword:    q.Keyword,
		Tags:       q.Tags,
	}, nil
}

func (s *documentService) Download(ctx context.Context, p model.Principal, id int64) (*Download, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !policy.CanDownload(p, doc) {
		return nil, ErrForbidden
	}

	exists, err := s.store.Exists(ctx, doc.FilePath)
	if err != nil {
		return nil, fmt.Errorf("check blob existence: %w", err)
	}
	if !exists {
		return nil, ErrFileMissing
	}

	// The counter is best-effort; a failed increment is logged and the
	// download proceeds.
	if err := s.repo.IncrementDownloadCount(ctx, id); err != nil {
		logJSON(map[string]any{
			"level":       "warn",
			"component":   "document_service",
			"event":       "download_count_increment_failed",
			"document_id": id,
			"error":       err.Error(),
		})
	}

	rc, info, err := s.store.Get(ctx, doc.FilePath)
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return &Download{
		Content:  rc,
		FileName: doc.FileName,
		MimeType: doc.MimeType,
		Size:     info.Size,
	}, nil
}

// Delete removes the metadata record, then the blob. Blob removal of an
// already-absent object succeeds, so delete is idempotent on the blob side;
// a real blob failure after the row is gone is surfaced, not swallowed.
func (s *documentService) Delete(ctx context.Context, p model.Principal, id int64) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if !policy.Mutable(p, doc) {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, doc.FilePath); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// HotTags is recomputed on every call over public documents only. The
// corpus is small; this is the first place to add a materialized index if
// that changes, keeping the public-only scope.
func (s *documentService) HotTags(ctx context.Context, limit int) ([]model.TagCount, error) {
	if limit <= 0 {
		limit = DefaultHotTagLimit
	}

	rawTags, err := s.repo.PublicTags(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, raw := range rawTags {
		for _, tag := range model.ParseTags(raw) {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	ranked := make([]model.TagCount, 0, len(order))
	for _, tag := range order {
		ranked = append(ranked, model.TagCount{Tag: tag, Count: counts[tag]})
	}
	// Stable sort keeps first-seen order as the tie-break.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
