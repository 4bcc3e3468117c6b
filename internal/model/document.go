package model

import "time"

// Document represents a case document a lawyer manages for a client.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Document struct {
	ID       string `json:"id"`
	LawyerID string `json:"lawyer_id"`
	ClientID string `json:"client_id"`

	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// FileName is system-generated and unique; OriginalFileName is what the
	// lawyer uploaded. StoragePath is the only durable link to the stored bytes.
	FileName         string `json:"file_name"`
	OriginalFileName string `json:"original_file_name"`
	StoragePath      string `json:"-"`
	FileSize         int64  `json:"file_size"`
	MimeType         string `json:"mime_type"`

	UploadedBy  string     `json:"uploaded_by"`
	ReviewedBy  string     `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewNotes string     `json:"review_notes,omitempty"`

	// IsPublic is always false: public sharing is disabled by policy and caller
	// input is never trusted for it.
	IsPublic  bool `json:"is_public"`
	IsDeleted bool `json:"-"`

	DownloadCount    int        `json:"download_count"`
	LastDownloadedAt *time.Time `json:"last_downloaded_at,omitempty"`
	LastDownloadedBy string     `json:"last_downloaded_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ClientName and ClientEmail are joined from the user store for display.
	ClientName  string `json:"client_name,omitempty"`
	ClientEmail string `json:"client_email,omitempty"`
}

// DocumentPatch carries a partial update. Nil pointer means "leave untouched";
// a non-nil pointer to an empty value is an explicit clear where the field
// allows it (title may never be cleared).
type DocumentPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	ReviewNotes *string   `json:"review_notes,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p DocumentPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.Status == nil && p.Priority == nil && p.Tags == nil && p.ReviewNotes == nil
}

// DocumentStats aggregates a lawyer's (optionally client-scoped) non-deleted documents.
type DocumentStats struct {
	TotalDocuments int64              `json:"total_documents"`
	TotalBytes     int64              `json:"total_bytes"`
	ByStatus       map[Status]int64   `json:"by_status"`
	ByCategory     map[Category]int64 `json:"by_category"`
}
