package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lawdocs/internal/model"
	"lawdocs/internal/repository"
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

// docColumns is the canonical select list shared by every document query.
const docColumns = `id, lawyer_id, client_id, title, description, category, status, priority, tags,
	file_name, original_file_name, storage_path, file_size, mime_type,
	uploaded_by, reviewed_by, reviewed_at, review_notes,
	is_public, is_deleted, download_count, last_downloaded_at, last_downloaded_by,
	created_at, updated_at`

// sortColumns whitelists the sortable fields; anything else falls back to created_at.
var sortColumns = map[string]string{
	"created_at":     "created_at",
	"title":          "title",
	"status":         "status",
	"priority":       "priority",
	"file_size":      "file_size",
	"download_count": "download_count",
}

// scanDocument reads one row in docColumns order.
func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var (
		d            model.Document
		tags         []byte
		reviewedAt   sql.NullTime
		downloadedAt sql.NullTime
	)
	if err := row.Scan(
		&d.ID, &d.LawyerID, &d.ClientID, &d.Title, &d.Description, &d.Category, &d.Status, &d.Priority, &tags,
		&d.FileName, &d.OriginalFileName, &d.StoragePath, &d.FileSize, &d.MimeType,
		&d.UploadedBy, &d.ReviewedBy, &reviewedAt, &d.ReviewNotes,
		&d.IsPublic, &d.IsDeleted, &d.DownloadCount, &downloadedAt, &d.LastDownloadedBy,
		&d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		d.ReviewedAt = &t
	}
	if downloadedAt.Valid {
		t := downloadedAt.Time
		d.LastDownloadedAt = &t
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &d.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return &d, nil
}

func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (
			id, lawyer_id, client_id, title, description, category, status, priority, tags,
			file_name, original_file_name, storage_path, file_size, mime_type,
			uploaded_by, is_public, is_deleted, download_count, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING ` + docColumns
	tags, err := marshalTags(doc.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	row := r.db.QueryRowContext(ctx, q,
		doc.ID, doc.LawyerID, doc.ClientID, doc.Title, doc.Description, doc.Category, doc.Status, doc.Priority, tags,
		doc.FileName, doc.OriginalFileName, doc.StoragePath, doc.FileSize, doc.MimeType,
		doc.UploadedBy, doc.IsPublic, doc.IsDeleted, doc.DownloadCount, doc.CreatedAt, doc.UpdatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single non-deleted document owned by the lawyer, with
// client identity joined from the user store for display.
func (r *DocumentPostgres) FindByID(ctx context.Context, lawyerID, id string) (*model.Document, error) {
	q := `
		SELECT ` + prefixColumns("d") + `, COALESCE(u.name, ''), COALESCE(u.email, '')
		FROM documents d
		LEFT JOIN users u ON u.id = d.client_id
		WHERE d.id = $1 AND d.lawyer_id = $2 AND NOT d.is_deleted
	`
	row := r.db.QueryRowContext(ctx, q, id, lawyerID)
	return scanDocumentWithClient(row)
}

// prefixColumns qualifies docColumns with a table alias.
func prefixColumns(alias string) string {
	cols := strings.Split(docColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

// scanDocumentWithClient reads docColumns plus the joined client name/email.
func scanDocumentWithClient(row interface{ Scan(...any) error }) (*model.Document, error) {
	var (
		d            model.Document
		tags         []byte
		reviewedAt   sql.NullTime
		downloadedAt sql.NullTime
	)
	if err := row.Scan(
		&d.ID, &d.LawyerID, &d.ClientID, &d.Title, &d.Description, &d.Category, &d.Status, &d.Priority, &tags,
		&d.FileName, &d.OriginalFileName, &d.StoragePath, &d.FileSize, &d.MimeType,
		&d.UploadedBy, &d.ReviewedBy, &reviewedAt, &d.ReviewNotes,
		&d.IsPublic, &d.IsDeleted, &d.DownloadCount, &downloadedAt, &d.LastDownloadedBy,
		&d.CreatedAt, &d.UpdatedAt,
		&d.ClientName, &d.ClientEmail,
	); err != nil {
		return nil, err
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		d.ReviewedAt = &t
	}
	if downloadedAt.Valid {
		t := downloadedAt.Time
		d.LastDownloadedAt = &t
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &d.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return &d, nil
}

// buildListFilter assembles the shared WHERE clause for List's count and page queries.
func buildListFilter(lawyerID string, q repository.ListQuery) (string, []any) {
	conds := []string{"d.lawyer_id = $1", "NOT d.is_deleted"}
	args := []any{lawyerID}

	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if q.ClientID != "" {
		add("d.client_id = $%d", q.ClientID)
	}
	if q.Category != "" {
		add("d.category = $%d", string(q.Category))
	}
	if q.Status != "" {
		add("d.status = $%d", string(q.Status))
	}
	if q.Priority != "" {
		add("d.priority = $%d", string(q.Priority))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(d.title ILIKE $%d OR d.description ILIKE $%d OR d.original_file_name ILIKE $%d OR d.tags::text ILIKE $%d)",
			n, n, n, n))
	}

	return strings.Join(conds, " AND "), args
}

// List returns a filtered page of the lawyer's documents plus the total count
// for the same filter.
func (r *DocumentPostgres) List(ctx context.Context, lawyerID string, q repository.ListQuery) (*repository.PageResult[model.Document], error) {
	where, args := buildListFilter(lawyerID, q)

	qCount := `SELECT COUNT(*) FROM documents d WHERE ` + where
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}

	pageArgs := append(args, q.Limit, q.Offset)
	qList := `
		SELECT ` + prefixColumns("d") + `, COALESCE(u.name, ''), COALESCE(u.email, '')
		FROM documents d
		LEFT JOIN users u ON u.id = d.client_id
		WHERE ` + where + `
		ORDER BY d.` + col + ` ` + dir + `, d.id DESC
		LIMIT $` + fmt.Sprint(len(args)+1) + ` OFFSET $` + fmt.Sprint(len(args)+2)

	rows, err := r.db.QueryContext(ctx, qList, pageArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocumentWithClient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// Update persists the mutable metadata fields and returns the stored row.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		UPDATE documents
		SET title = $3, description = $4, category = $5, status = $6, priority = $7, tags = $8,
		    reviewed_by = $9, reviewed_at = $10, review_notes = $11, updated_at = $12
		WHERE id = $1 AND lawyer_id = $2 AND NOT is_deleted
		RETURNING ` + docColumns
	tags, err := marshalTags(doc.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	row := r.db.QueryRowContext(ctx, q,
		doc.ID, doc.LawyerID,
		doc.Title, doc.Description, doc.Category, doc.Status, doc.Priority, tags,
		doc.ReviewedBy, nullTime(doc.ReviewedAt), doc.ReviewNotes, doc.UpdatedAt,
	)
	return scanDocument(row)
}

// SoftDelete flags a document as deleted. The row and the stored object are
// retained for audit; physical cleanup is an external reaper's job.
func (r *DocumentPostgres) SoftDelete(ctx context.Context, lawyerID, id string) error {
	const q = `
		UPDATE documents
		SET is_deleted = TRUE, updated_at = $3
		WHERE id = $1 AND lawyer_id = $2 AND NOT is_deleted
	`
	res, err := r.db.ExecContext(ctx, q, id, lawyerID, time.Now().UTC())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RecordDownload bumps the counter and audit fields in one atomic UPDATE so
// concurrent downloads never lose increments.
func (r *DocumentPostgres) RecordDownload(ctx context.Context, lawyerID, id, byUserID string, at time.Time) error {
	const q = `
		UPDATE documents
		SET download_count = download_count + 1, last_downloaded_at = $3, last_downloaded_by = $4
		WHERE id = $1 AND lawyer_id = $2 AND NOT is_deleted
	`
	res, err := r.db.ExecContext(ctx, q, id, lawyerID, at, byUserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Stats aggregates totals and per-status/per-category frequencies for the
// lawyer's non-deleted documents, optionally restricted to one client.
func (r *DocumentPostgres) Stats(ctx context.Context, lawyerID, clientID string) (*model.DocumentStats, error) {
	where := "lawyer_id = $1 AND NOT is_deleted"
	args := []any{lawyerID}
	if clientID != "" {
		where += " AND client_id = $2"
		args = append(args, clientID)
	}

	stats := &model.DocumentStats{
		ByStatus:   make(map[model.Status]int64),
		ByCategory: make(map[model.Category]int64),
	}

	qTotals := `SELECT COUNT(*), COALESCE(SUM(file_size), 0) FROM documents WHERE ` + where
	if err := r.db.QueryRowContext(ctx, qTotals, args...).Scan(&stats.TotalDocuments, &stats.TotalBytes); err != nil {
		return nil, err
	}

	qStatus := `SELECT status, COUNT(*) FROM documents WHERE ` + where + ` GROUP BY status`
	rows, err := r.db.QueryContext(ctx, qStatus, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var s model.Status
		var n int64
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		stats.ByStatus[s] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	qCategory := `SELECT category, COUNT(*) FROM documents WHERE ` + where + ` GROUP BY category`
	catRows, err := r.db.QueryContext(ctx, qCategory, args...)
	if err != nil {
		return nil, err
	}
	defer catRows.Close()
	for catRows.Next() {
		var c model.Category
		var n int64
		if err := catRows.Scan(&c, &n); err != nil {
			return nil, err
		}
		stats.ByCategory[c] = n
	}
	if err := catRows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
