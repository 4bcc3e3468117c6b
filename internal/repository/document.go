package repository

import (
	"context"
	"time"

	"lawdocs/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations. Every read and
// mutation is scoped by lawyer ID so rows of other lawyers are unreachable by
// query predicate, and soft-deleted rows are excluded everywhere.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a non-deleted document owned by the given lawyer.
	// Returns sql.ErrNoRows when absent, deleted, or owned by someone else.
	FindByID(ctx context.Context, lawyerID, id string) (*model.Document, error)

	// List returns a filtered, sorted page of the lawyer's documents plus the
	// total row count for the same filter.
	List(ctx context.Context, lawyerID string, q ListQuery) (*PageResult[model.Document], error)

	// Update persists the mutable metadata fields of doc, matched by ID and
	// lawyer ID. Returns sql.ErrNoRows when no matching row exists.
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)

	// SoftDelete flags a document as deleted without removing the row.
	// Returns sql.ErrNoRows when no matching live row exists.
	SoftDelete(ctx context.Context, lawyerID, id string) error

	// RecordDownload atomically increments the download counter and stamps the
	// last-download audit fields in a single UPDATE.
	RecordDownload(ctx context.Context, lawyerID, id, byUserID string, at time.Time) error

	// Stats aggregates count, byte size, and status/category frequencies over
	// the lawyer's (optionally client-scoped) non-deleted documents.
	Stats(ctx context.Context, lawyerID, clientID string) (*model.DocumentStats, error)
}

// ListQuery holds filter, sort, and page parameters for List.
// Zero values mean "no filter". Search matches title, description, original
// filename, and tags case-insensitively.
type ListQuery struct {
	ClientID string
	Category model.Category
	Status   model.Status
	Priority model.Priority
	Search   string

	SortBy   string
	SortDesc bool

	Limit  int
	Offset int
}
