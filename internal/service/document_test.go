package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"docvault/internal/model"
	"docvault/internal/repository"
	repomocks "docvault/internal/repository/mocks"
	"docvault/internal/storage"
	storagemocks "docvault/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recorderSpy captures handed-off history entries synchronously.
type recorderSpy struct {
	entries []model.SearchLogEntry
}

func (r *recorderSpy) Record(e model.SearchLogEntry) {
	r.entries = append(r.entries, e)
}

func newDocumentFixture() (*storagemocks.MockStorage, *repomocks.MockDocumentRepository, *recorderSpy, DocumentService) {
	store := new(storagemocks.MockStorage)
	repo := new(repomocks.MockDocumentRepository)
	rec := &recorderSpy{}
	return store, repo, rec, NewDocumentService(store, repo, rec)
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()
	owner := model.Principal{ID: 7, Role: model.RoleUser}

	in := UploadInput{
		Title:       "Q3 Report",
		Description: "quarterly figures",
		Tags:        "finance,reports",
		IsPublic:    true,
		FileName:    "report.pdf",
		ContentType: "application/pdf",
		Size:        2048,
	}

	t.Run("success", func(t *testing.T) {
		store, repo, _, svc := newDocumentFixture()

		// The storage key is generated, so echo it back from the mock.
		store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(func(_ context.Context, key string, _ io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
				return storage.ObjectInfo{Key: key, Size: opt.Size}
			}, nil)

		repo.On("Create", ctx, mock.MatchedBy(func(d *model.Document) bool {
			return d.Title == "Q3 Report" &&
				d.UploadUserID == int64(7) &&
				d.IsPublic &&
				d.FileSize == int64(2048) &&
				strings.HasPrefix(d.FilePath, "documents/") &&
				strings.HasSuffix(d.FilePath, ".pdf")
		})).Return(&model.Document{ID: 1, Title: "Q3 Report"}, nil)

		doc, err := svc.Upload(ctx, owner, in, strings.NewReader("content"))

		require.NoError(t, err)
		assert.Equal(t, int64(1), doc.ID)
		store.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("nil reader", func(t *testing.T) {
		store, repo, _, svc := newDocumentFixture()

		doc, err := svc.Upload(ctx, owner, in, nil)

		assert.ErrorIs(t, err, ErrReaderNil)
		assert.Nil(t, doc)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("blank title never reaches storage", func(t *testing.T) {
		store, repo, _, svc := newDocumentFixture()

		blank := in
		blank.Title = "   "

		doc, err := svc.Upload(ctx, owner, blank, strings.NewReader("content"))

		assert.ErrorIs(t, err, ErrTitleRequired)
		assert.Nil(t, doc)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("storage failure", func(t *testing.T) {
		store, repo, _, svc := newDocumentFixture()

		store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("bucket unavailable"))

		doc, err := svc.Upload(ctx, owner, in, strings.NewReader("content"))

		assert.ErrorContains(t, err, "upload to storage")
		assert.Nil(t, doc)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("db failure rolls back the blob", func(t *testing.T) {
		store, repo, _, svc := newDocumentFixture()

		var storedKey string
		store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(func(_ context.Context, key string, _ io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
				storedKey = key
				return storage.ObjectInfo{Key: key, Size: opt.Size}
			}, nil)
		repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("constraint violation"))
		store.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
			return key == storedKey
		})).Return(nil)

		doc, err := svc.Upload(ctx, owner, in, strings.NewReader("content"))

		assert.ErrorContains(t, err, "db save failed")
		assert.Nil(t, doc)
		store.AssertExpectations(t)
	})

	t.Run("rollback failure is reported alongside the save failure", func(t *testing.T) {
		store, repo, _, svc := newDocumentFixture()

		store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "documents/x.pdf", Size: 2048}, nil)
		repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("constraint violation"))
		store.On("Delete", ctx, mock.Anything).Return(errors.New("bucket unavailable"))

		_, err := svc.Upload(ctx, owner, in, strings.NewReader("content"))

		assert.ErrorContains(t, err, "db save failed")
		assert.ErrorContains(t, err, "rollback delete failed")
	})
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()
	viewer := model.Principal{ID: 7, Role: model.RoleUser}

	t.Run("passes scope and filters through", func(t *testing.T) {
		_, repo, _, svc := newDocumentFixture()

		repo.On("List", ctx,
			repository.DocumentFilter{Viewer: viewer, Keyword: "report", Tags: []string{"finance"}},
			repository.PageQuery{Limit: 5, Offset: 5},
		).Return(&repository.PageResult[model.Document]{
			Items: []model.Document{{ID: 1}},
			Total: 11,
		}, nil)

		res, err := svc.List(ctx, viewer, ListQuery{Page: 2, Limit: 5, Title: "report", Tags: "finance"})

		require.NoError(t, err)
		assert.Equal(t, 11, res.Total)
		assert.Equal(t, 2, res.Page)
		assert.Equal(t, 5, res.Limit)
		assert.Len(t, res.Items, 1)
		repo.AssertExpectations(t)
	})

	t.Run("non-positive pagination falls back to defaults", func(t *testing.T) {
		_, repo, _, svc := newDocumentFixture()

		repo.On("List", ctx,
			repository.DocumentFilter{Viewer: viewer},
			repository.PageQuery{Limit: DefaultPageSize, Offset: 0},
		).Return(&repository.PageResult[model.Document]{Items: []model.Document{}, Total: 0}, nil)

		res, err := svc.List(ctx, viewer, ListQuery{Page: -3, Limit: 0})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, DefaultPageSize, res.Limit)
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		_, repo, _, svc := newDocumentFixture()

		repo.On("List", ctx, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		res, err := svc.List(ctx, viewer, ListQuery{})

		assert.Error(t, err)
		assert.Nil(t, res)
	})
}

func TestDocumentService_Search(t *testing.T) {
	ctx := context.Background()
	viewer := model.Principal{ID: 7, Role: model.RoleUser}

	t.Run("matches descriptions and records history", func(t *testing.T) {
		_, repo, rec, svc := newDocumentFixture()

		repo.On("List", ctx,
			repository.DocumentFilter{Viewer: viewer, Keyword: "minutes", MatchDescription: true, Tags: []string{"meetings"}},
			repository.PageQuery{Limit: DefaultPageSize, Offset: 0},
		).Return(&repository.PageResult[model.Document]{
			Items: []model.Document{{ID: 3}},
			Total: 1,
		}, nil)

		res, err := svc.Search(ctx, viewer, SearchQuery{Keyword: "minutes", Tags: "meetings"})

		require.NoError(t, err)
		assert.Equal(t, "minutes", res.Keyword)
		assert.Equal(t, "meetings", res.Tags)
		require.Len(t, rec.entries, 1)
		assert.Equal(t, model.SearchLogEntry{
			UserID:      7,
			Keyword:     "minutes",
			Tags:        "meetings",
			ResultCount: 1,
		}, rec.entries[0])
	})

	t.Run("zero-result searches are recorded too", func(t *testing.T) {
		_, repo, rec, svc := newDocumentFixture()

		repo.On("List", ctx, mock.Anything, mock.Anything).
			Return(&repository.PageResult[model.Document]{Items: []model.Document{}, Total: 0}, nil)

		_, err := svc.Search(ctx, viewer, SearchQuery{Keyword: "nothing"})

		require.NoError(t, err)
		require.Len(t, rec.entries, 1)
		assert.Equal(t, 0, rec.entries[0].ResultCount)
	})

	t.Run("failed searches are not recorded", func(t *testing.T) {
		_, repo, rec, svc := newDocumentFixture()

		repo.On("List", ctx, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		_, err := svc.Search(ctx, viewer, SearchQuery{Keyword: "x"})

		assert.Error(t, err)
		assert.Empty(t, rec.entries)
	})
}

func TestDocumentService_Download(t *testing.T) {
	ctx := context.Background()
	owner := model.Principal{ID: 7, Role: model.RoleUser}
	stranger := model.Principal{ID: 8, Role: model.RoleUser}

	private := &model.Document{
		ID:           5,
		Title:        "private notes",
		FileName:     "notes.txt",
		FilePath:     "documents/abc.txt",
		MimeType:     "text/plain",
		UploadUserID: 7,
		IsPublic:     false,
	}

	t.Run("success", func(t *testing.T) {
		store, repo, _, svc := newDocumentFixture()

		repo.On("FindByID", ctx, int64(5)).Return(private, nil)
		store.On("Exists", ctx, "documents/abc.txt").Return(true, nil)
		repo.On("IncrementDownloadCount", ctx, int64(5)).Return(nil)
		store.On("Get", ctx, "documents/abc.txt").
			Return(io.NopCloser(strings.NewReader("hello")), storage.ObjectInfo{Key: "documents/abc.txt", Size: 5}, nil)

		dl, err := svc.Download(ctx, owner, 5)

		require.NoError(t, err)
		assert.Equal(t, "notes.txt", dl.FileName)
		assert.Equal(t, "text/plain", dl.MimeType)
		assert.Equal(t, int64(5), dl.Size)
		body, _ := io.ReadAll(dl.Content)
		assert.Equal(t, "hello", string(body))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, repo, _, svc := newDocumentFixture()

		repo.On("FindByID", ctx, int64(99)).Return(nil, sql.ErrNoRows)

		dl, err := svc.Download(ctx, owner, 99)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, dl)
	})

	t.Run("private document hidden from others", func(t *testing.T) {
		store, repo, _, svc := newDocumentFixture()

		repo.On("FindByID", ctx, int64(5)).Return(private, nil)

		dl, err := svc.Download(ctx, stranger, 5)

		assert.ErrorIs(t, err, ErrForbidden)
		assert.Nil(t, dl)
		store.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	})

	t.Run("record without blob", func(t *testing.T) {
		store, repo, _, svc := newDocumentFixture()

		repo.On("FindByID", ctx, int64(5)).Return(private, nil)
		store.On("Exists", ctx, "documents/abc.txt").Return(false, nil)

		dl, err := svc.Download(ctx, owner, 5)

		assert.ErrorIs(t, err, ErrFileMissing)
		assert.Nil(t, dl)
		repo.AssertNotCalled(t, "IncrementDownloadCount", mock.Anything, mock.Anything)
	})

	t.Run("counter failure does not fail the download", func(t *testing.T) {
		store, repo, _, svc := newDocumentFixture()

		repo.On("FindByID", ctx, int64(5)).Return(private, nil)
		store.On("Exists", ctx, "documents/abc.txt").Return(true, nil)
		repo.On("IncrementDownloadCount", ctx, int64(5)).Return(errors.New("db down"))
		store.On("Get", ctx, "documents/abc.txt").
			Return(io.NopCloser(strings.NewReader("hello")), storage.ObjectInfo{Size: 5}, nil)

		dl, err := svc.Download(ctx, owner, 5)

		require.NoError(t, err)
		assert.NotNil(t, dl.Content)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()
	owner := model.Principal{ID: 7, Role: model.RoleUser}
	stranger := model.Principal{ID: 8, Role: model.RoleUser}
	admin := model.Principal{ID: 1, Role: model.RoleAdmin}

	doc := &model.Document{
		ID:           5,
		FilePath:     "documents/abc.txt",
		UploadUserID: 7,
		IsPublic:     true,
	}

	t.Run("owner deletes record then blob", func(t *testing.T) {
		store, repo, _, svc := newDocumentFixture()

		repo.On("FindByID", ctx, int64(5)).Return(doc, nil)
		repo.On("Delete", ctx, int64(5)).Return(nil)
		store.On("Delete", ctx, "documents/abc.txt").Return(nil)

		err := svc.Delete(ctx, owner, 5)

		assert.NoError(t, err)
		store.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("admin may delete anyone's document", func(t *testing.T) {
		store, repo, _, svc := newDocumentFixture()

		repo.On("FindByID", ctx, int64(5)).Return(doc, nil)
		repo.On("Delete", ctx, int64(5)).Return(nil)
		store.On("Delete", ctx, "documents/abc.txt").Return(nil)

		assert.NoError(t, svc.Delete(ctx, admin, 5))
	})

	t.Run("public visibility does not grant delete", func(t *testing.T) {
		store, repo, _, svc := newDocumentFixture()

		repo.On("FindByID", ctx, int64(5)).Return(doc, nil)

		err := svc.Delete(ctx, stranger, 5)

		assert.ErrorIs(t, err, ErrForbidden)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, repo, _, svc := newDocumentFixture()

		repo.On("FindByID", ctx, int64(99)).Return(nil, sql.ErrNoRows)

		assert.ErrorIs(t, svc.Delete(ctx, owner, 99), ErrNotFound)
	})

	t.Run("record delete failure keeps the blob", func(t *testing.T) {
		store, repo, _, svc := newDocumentFixture()

		repo.On("FindByID", ctx, int64(5)).Return(doc, nil)
		repo.On("Delete", ctx, int64(5)).Return(errors.New("db down"))

		err := svc.Delete(ctx, owner, 5)

		assert.Error(t, err)
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("blob delete failure is surfaced", func(t *testing.T) {
		store, repo, _, svc := newDocumentFixture()

		repo.On("FindByID", ctx, int64(5)).Return(doc, nil)
		repo.On("Delete", ctx, int64(5)).Return(nil)
		store.On("Delete", ctx, "documents/abc.txt").Return(errors.New("bucket unavailable"))

		assert.ErrorContains(t, svc.Delete(ctx, owner, 5), "delete blob")
	})
}

func TestDocumentService_HotTags(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks by frequency with first-seen tie-break", func(t *testing.T) {
		_, repo, _, svc := newDocumentFixture()

		repo.On("PublicTags", ctx).Return([]string{
			"go, systems",
			"go,databases",
			"systems",
			"go",
			"databases",
		}, nil)

		tags, err := svc.HotTags(ctx, 0)

		require.NoError(t, err)
		assert.Equal(t, []model.TagCount{
			{Tag: "go", Count: 3},
			{Tag: "systems", Count: 2},
			{Tag: "databases", Count: 2},
		}, tags)
	})

	t.Run("limit truncates the ranking", func(t *testing.T) {
		_, repo, _, svc := newDocumentFixture()

		repo.On("PublicTags", ctx).Return([]string{"a,b,c", "a,b", "a"}, nil)

		tags, err := svc.HotTags(ctx, 2)

		require.NoError(t, err)
		assert.Equal(t, []model.TagCount{
			{Tag: "a", Count: 3},
			{Tag: "b", Count: 2},
		}, tags)
	})

	t.Run("no public tags yields empty ranking", func(t *testing.T) {
		_, repo, _, svc := newDocumentFixture()

		repo.On("PublicTags", ctx).Return([]string{}, nil)

		tags, err := svc.HotTags(ctx, 0)

		require.NoError(t, err)
		assert.Empty(t, tags)
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		_, repo, _, svc := newDocumentFixture()

		repo.On("PublicTags", ctx).Return(nil, errors.New("db down"))

		tags, err := svc.HotTags(ctx, 0)

		assert.Error(t, err)
		assert.Nil(t, tags)
	})
}
