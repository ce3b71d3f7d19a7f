package postgres

import (
	"context"
	"database/sql"
	"strconv"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const docColumns = `d.id, d.title, COALESCE(d.description, ''), d.file_name, d.file_path, d.file_size, d.mime_type, d.upload_user_id, d.is_public, COALESCE(d.tags, ''), d.download_count, d.created_at`

func scanDocument(row interface{ Scan(...any) error }, d *model.Document, extra ...any) error {
	dest := []any{
		&d.ID,
		&d.Title,
		&d.Description,
		&d.FileName,
		&d.FilePath,
		&d.FileSize,
		&d.MimeType,
		&d.UploadUserID,
		&d.IsPublic,
		&d.Tags,
		&d.DownloadCount,
		&d.CreatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (title, description, file_name, file_path, file_size, mime_type, upload_user_id, is_public, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, title, COALESCE(description, ''), file_name, file_path, file_size, mime_type, upload_user_id, is_public, COALESCE(tags, ''), download_count, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		doc.Title,
		doc.Description,
		doc.FileName,
		doc.FilePath,
		doc.FileSize,
		doc.MimeType,
		doc.UploadUserID,
		doc.IsPublic,
		doc.Tags,
	)
	var out model.Document
	if err := scanDocument(row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single document by its ID. sql.ErrNoRows passes
// through untranslated; the service layer owns the not-found mapping.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `SELECT ` + docColumns + ` FROM documents d WHERE d.id = $1`
	row := r.db.QueryRowContext(ctx, q, id)
	var d model.Document
	if err := scanDocument(row, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns the filtered count plus one page of matching documents,
// newest first with id as the deterministic tie-break. Both queries share
// the same WHERE clause so total always reflects the filtered set.
func (r *DocumentPostgres) List(ctx context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	wb := buildDocumentWhere(f)
	where := wb.clause()

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents d"+where, wb.args...).Scan(&total); err != nil {
		return nil, err
	}

	limitPos := "$" + strconv.Itoa(len(wb.args)+1)
	offsetPos := "$" + strconv.Itoa(len(wb.args)+2)
	q := "SELECT " + docColumns + ", COALESCE(u.username, '')" +
		" FROM documents d LEFT JOIN users u ON d.upload_user_id = u.id" +
		where +
		" ORDER BY d.created_at DESC, d.id DESC LIMIT " + limitPos + " OFFSET " + offsetPos

	args := append(wb.args, pq.Limit, pq.Offset)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		if err := scanDocument(rows, &d, &d.Uploader); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// IncrementDownloadCount bumps the counter by one. The counter never
// decreases; lost increments under contention are tolerated by callers.
func (r *DocumentPostgres) IncrementDownloadCount(ctx context.Context, id int64) error {
	const q = `UPDATE documents SET download_count = download_count + 1 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// Delete removes a document by ID. It does not return an error if the row
// does not exist; existence checks belong to the service.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// PublicTags feeds the hot-tag aggregation: raw tags values of public
// documents only. Private tag content never leaves the store through this
// path, regardless of who asks.
func (r *DocumentPostgres) PublicTags(ctx context.Context) ([]string, error) {
	const q = `SELECT tags FROM documents WHERE is_public AND tags IS NOT NULL AND tags <> ''`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		out = append(out, tags)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
