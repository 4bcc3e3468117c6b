package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"lawdocs/internal/config"
	"lawdocs/internal/model"
	"lawdocs/internal/repository"
	"lawdocs/internal/storage"
)

var (
	ErrIDRequired           = errors.New("id is required")
	ErrNotFound             = errors.New("document not found")
	ErrRelationshipNotFound = errors.New("no active relationship with this client")
	ErrFileNotFound         = errors.New("stored file not found")
	ErrReaderNil            = errors.New("reader is nil")

	ErrFileRequired       = errors.New("file is required")
	ErrFileTooLarge       = errors.New("file exceeds the maximum allowed size")
	ErrInvalidFileType    = errors.New("file type is not allowed")
	ErrInvalidTitle       = errors.New("title must be between 3 and 200 characters")
	ErrInvalidDescription = errors.New("description must be at most 1000 characters")
	ErrInvalidCategory    = errors.New("unknown category")
	ErrInvalidStatus      = errors.New("unknown status")
	ErrInvalidPriority    = errors.New("unknown priority")
	ErrInvalidTag         = errors.New("tags must be between 1 and 50 characters")
)

// IsValidation reports whether err belongs to the validation error class
// (rejected before any persistence or storage call).
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrIDRequired, ErrReaderNil, ErrFileRequired, ErrFileTooLarge,
		ErrInvalidFileType, ErrInvalidTitle, ErrInvalidDescription,
		ErrInvalidCategory, ErrInvalidStatus, ErrInvalidPriority, ErrInvalidTag,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// UploadInput carries the metadata accompanying an uploaded file.
// Visibility is deliberately absent: documents are never public, whatever the
// caller sends.
type UploadInput struct {
	ClientID         string
	Title            string
	Description      string
	Category         model.Category
	Priority         model.Priority
	Tags             []string
	OriginalFilename string
	ContentType      string
	Size             int64
}

// ListParams holds the caller-facing filter/sort/page parameters for List.
type ListParams struct {
	ClientID  string
	Category  model.Category
	Status    model.Status
	Priority  model.Priority
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// Pagination describes one page of a list result. Pages are 1-indexed.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Documents  []model.Document     `json:"documents"`
	Pagination Pagination           `json:"pagination"`
	Stats      *model.DocumentStats `json:"stats"`
}

// DocumentService defines the use cases for handling case documents. Every
// operation is scoped to the calling lawyer; other lawyers' documents behave
// as if they do not exist.
type DocumentService interface {
	// Upload validates the payload against the upload policy, verifies the
	// lawyer-client relationship, stores the bytes, and records the document.
	// If the record insert fails the stored object is removed again so no
	// partial state survives.
	Upload(ctx context.Context, lawyerID string, in UploadInput, r io.Reader) (*model.Document, error)

	// List returns the lawyer's documents filtered, sorted, and paginated,
	// together with aggregate stats over the same scope.
	List(ctx context.Context, lawyerID string, p ListParams) (*DocumentListResult, error)

	// Get returns a single document by ID. Plain reads have no side effects.
	Get(ctx context.Context, lawyerID, id string) (*model.Document, error)

	// Update applies a partial patch. Entering a review-terminal status
	// records the reviewer and the review time.
	Update(ctx context.Context, lawyerID, id string, patch model.DocumentPatch) (*model.Document, error)

	// Delete soft-deletes a document; the record and the stored file are
	// retained for audit.
	Delete(ctx context.Context, lawyerID, id string) error

	// Download streams the stored bytes and bumps the download counter.
	// A failed counter bump is logged but does not block the stream.
	Download(ctx context.Context, lawyerID, id string) (io.ReadCloser, *model.Document, error)

	// Stats aggregates the lawyer's (optionally client-scoped) documents.
	Stats(ctx context.Context, lawyerID, clientID string) (*model.DocumentStats, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store   storage.Storage
	repo    repository.DocumentRepository
	relRepo repository.RelationshipRepository
	policy  config.UploadConfig
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, relRepo repository.RelationshipRepository, policy config.UploadConfig) DocumentService {
	return &documentService{store: store, repo: repo, relRepo: relRepo, policy: policy}
}

const (
	titleMinLen       = 3
	titleMaxLen       = 200
	descriptionMaxLen = 1000
	tagMaxLen         = 50

	defaultPageLimit = 10
	maxPageLimit     = 100
)

func (s *documentService) Upload(ctx context.Context, lawyerID string, in UploadInput, r io.Reader) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	// Policy and field validation happens before any storage or DB call.
	if in.Size <= 0 {
		return nil, ErrFileRequired
	}
	if in.Size > s.policy.MaxBytes {
		return nil, ErrFileTooLarge
	}
	if !s.typeAllowed(in.ContentType) {
		return nil, ErrInvalidFileType
	}
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateDescription(in.Description); err != nil {
		return nil, err
	}
	if in.Category == "" {
		in.Category = model.CategoryOther
	}
	if !in.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if err := validateTags(in.Tags); err != nil {
		return nil, err
	}

	// Ownership gate: the pair must be linked by a live relationship. A miss
	// is reported as not-found so callers cannot probe for clients.
	exists, err := s.relRepo.Exists(ctx, lawyerID, in.ClientID)
	if err != nil {
		return nil, fmt.Errorf("check relationship: %w", err)
	}
	if !exists {
		return nil, ErrRelationshipNotFound
	}

	// Generate stored filename using UUID + original extension.
	ext := filepath.Ext(in.OriginalFilename)
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("documents", genName))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.OriginalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:               uuid.New().String(),
		LawyerID:         lawyerID,
		ClientID:         in.ClientID,
		Title:            in.Title,
		Description:      in.Description,
		Category:         in.Category,
		Status:           model.StatusPendingReview,
		Priority:         in.Priority,
		Tags:             in.Tags,
		FileName:         genName,
		OriginalFileName: in.OriginalFilename,
		StoragePath:      objInfo.Key,
		FileSize:         objInfo.Size,
		MimeType:         in.ContentType,
		UploadedBy:       lawyerID,
		IsPublic:         false,
		IsDeleted:        false,
		DownloadCount:    0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Compensate: remove the object so no orphaned file survives a failed create.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// List returns paginated documents plus same-scope stats without exposing
// repository types.
func (s *documentService) List(ctx context.Context, lawyerID string, p ListParams) (*DocumentListResult, error) {
	if p.Category != "" && !p.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if p.Status != "" && !p.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if p.Priority != "" && !p.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}

	sortDesc := p.SortOrder != "asc"
	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}

	offset := (p.Page - 1) * p.Limit
	res, err := s.repo.List(ctx, lawyerID, repository.ListQuery{
		ClientID: p.ClientID,
		Category: p.Category,
		Status:   p.Status,
		Priority: p.Priority,
		Search:   p.Search,
		SortBy:   sortBy,
		SortDesc: sortDesc,
		Limit:    p.Limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.Stats(ctx, lawyerID, p.ClientID)
	if err != nil {
		return nil, err
	}

	totalPages := (res.Total + p.Limit - 1) / p.Limit
	return &DocumentListResult{
		Documents: res.Items,
		Pagination: Pagination{
			CurrentPage: p.Page,
			TotalPages:  totalPages,
			TotalItems:  res.Total,
			HasNext:     offset+len(res.Items) < res.Total,
			HasPrev:     p.Page > 1,
		},
		Stats: stats,
	}, nil
}

// Get returns a document by ID. No access-audit side effects on plain reads;
// only downloads touch the counter and timestamps.
func (s *documentService) Get(ctx context.Context, lawyerID, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, lawyerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Update(ctx context.Context, lawyerID, id string, patch model.DocumentPatch) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	doc, err := s.repo.FindByID(ctx, lawyerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if patch.Empty() {
		return doc, nil
	}

	if patch.Title != nil {
		doc.Title = *patch.Title
	}
	if patch.Description != nil {
		// Present-but-empty clears the description.
		doc.Description = *patch.Description
	}
	if patch.Category != nil {
		doc.Category = *patch.Category
	}
	if patch.Priority != nil {
		doc.Priority = *patch.Priority
	}
	if patch.Tags != nil {
		doc.Tags = *patch.Tags
	}
	if patch.ReviewNotes != nil {
		doc.ReviewNotes = *patch.ReviewNotes
	}
	if patch.Status != nil && *patch.Status != doc.Status {
		doc.Status = *patch.Status
		// Entering a review-terminal state records who reviewed and when.
		// Saves that do not change status never touch these fields.
		if doc.Status.ReviewTerminal() {
			now := time.Now().UTC()
			doc.ReviewedBy = lawyerID
			doc.ReviewedAt = &now
		}
	}
	doc.UpdatedAt = time.Now().UTC()

	stored, err := s.repo.Update(ctx, doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return stored, nil
}

// Delete soft-deletes the record. The stored object is kept; physical cleanup
// belongs to an external reaper so the audit trail stays intact.
func (s *documentService) Delete(ctx context.Context, lawyerID, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.repo.SoftDelete(ctx, lawyerID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *documentService) Download(ctx context.Context, lawyerID, id string) (io.ReadCloser, *model.Document, error) {
	if id == "" {
		return nil, nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, lawyerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// The record exists but its bytes are gone; distinct from a
			// missing record so operators can spot broken storage links.
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("get from storage: %w", err)
	}

	now := time.Now().UTC()
	if err := s.repo.RecordDownload(ctx, lawyerID, id, lawyerID, now); err != nil {
		// Non-fatal: the caller still gets the bytes, but the miss is surfaced
		// to observability.
		log.Printf("record download for document %s: %v", id, err)
	} else {
		doc.DownloadCount++
		doc.LastDownloadedAt = &now
		doc.LastDownloadedBy = lawyerID
	}

	return rc, doc, nil
}

// Stats is a pure aggregation with no side effects.
func (s *documentService) Stats(ctx context.Context, lawyerID, clientID string) (*model.DocumentStats, error) {
	return s.repo.Stats(ctx, lawyerID, clientID)
}

func (s *documentService) typeAllowed(contentType string) bool {
	for _, t := range s.policy.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

func validateTitle(title string) error {
	if n := utf8.RuneCountInString(title); n < titleMinLen || n > titleMaxLen {
		return ErrInvalidTitle
	}
	return nil
}

func validateDescription(desc string) error {
	if utf8.RuneCountInString(desc) > descriptionMaxLen {
		return ErrInvalidDescription
	}
	return nil
}

func validateTags(tags []string) error {
	for _, t := range tags {
		if n := utf8.RuneCountInString(t); n == 0 || n > tagMaxLen {
			return ErrInvalidTag
		}
	}
	return nil
}

func validatePatch(p model.DocumentPatch) error {
	if p.Title != nil {
		// Title may be changed but never cleared.
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := validateDescription(*p.Description); err != nil {
			return err
		}
	}
	if p.Category != nil && !p.Category.Valid() {
		return ErrInvalidCategory
	}
	if p.Status != nil && !p.Status.Valid() {
		return ErrInvalidStatus
	}
	if p.Priority != nil && *p.Priority != "" && !p.Priority.Valid() {
		return ErrInvalidPriority
	}
	if p.Tags != nil {
		if err := validateTags(*p.Tags); err != nil {
			return err
		}
	}
	return nil
}
