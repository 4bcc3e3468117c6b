package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"lawdocs/internal/config"
	"lawdocs/internal/model"
	"lawdocs/internal/repository"
	repoMocks "lawdocs/internal/repository/mocks"
	"lawdocs/internal/storage"
	storeMocks "lawdocs/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testPolicy = config.UploadConfig{
	MaxBytes:     10 << 20,
	AllowedTypes: []string{"application/pdf", "text/plain"},
}

func validUpload() UploadInput {
	return UploadInput{
		ClientID:         "client-1",
		Title:            "Retainer agreement",
		Description:      "signed copy",
		Category:         model.CategoryContract,
		Priority:         model.PriorityMedium,
		Tags:             []string{"retainer"},
		OriginalFilename: "retainer.pdf",
		ContentType:      "application/pdf",
		Size:             11,
	}
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		input      func() UploadInput
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mRel *repoMocks.MockRelationshipRepository) io.Reader
		wantErr    error
		wantErrMsg string
	}{
		{
			name:  "happy path",
			input: validUpload,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mRel *repoMocks.MockRelationshipRepository) io.Reader {
				r := strings.NewReader("hello world")
				mRel.On("Exists", ctx, "lawyer-1", "client-1").Return(true, nil)
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "documents/") && strings.HasSuffix(key, ".pdf")
				}), r, storage.PutObjectOptions{
					Size:        11,
					ContentType: "application/pdf",
					Metadata:    map[string]string{"original-filename": "retainer.pdf"},
				}).Return(storage.ObjectInfo{
					Key:         "documents/uuid.pdf",
					Size:        11,
					ContentType: "application/pdf",
				}, nil)

				mRepo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.StoragePath == "documents/uuid.pdf" &&
						doc.Status == model.StatusPendingReview &&
						doc.UploadedBy == "lawyer-1" &&
						!doc.IsPublic &&
						doc.DownloadCount == 0
				})).Return(&model.Document{ID: "gen-id"}, nil)

				return r
			},
		},
		{
			name:  "validation error - nil reader",
			input: validUpload,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mRel *repoMocks.MockRelationshipRepository) io.Reader {
				return nil
			},
			wantErr: ErrReaderNil,
		},
		{
			name: "validation error - empty file",
			input: func() UploadInput {
				in := validUpload()
				in.Size = 0
				return in
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mRel *repoMocks.MockRelationshipRepository) io.Reader {
				return strings.NewReader("")
			},
			wantErr: ErrFileRequired,
		},
		{
			name: "validation error - file over the size cap",
			input: func() UploadInput {
				in := validUpload()
				in.Size = testPolicy.MaxBytes + 1
				return in
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mRel *repoMocks.MockRelationshipRepository) io.Reader {
				return strings.NewReader("too big")
			},
			wantErr: ErrFileTooLarge,
		},
		{
			name: "validation error - disallowed content type",
			input: func() UploadInput {
				in := validUpload()
				in.ContentType = "application/x-msdownload"
				return in
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mRel *repoMocks.MockRelationshipRepository) io.Reader {
				return strings.NewReader("MZ")
			},
			wantErr: ErrInvalidFileType,
		},
		{
			name: "validation error - short title",
			input: func() UploadInput {
				in := validUpload()
				in.Title = "ab"
				return in
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mRel *repoMocks.MockRelationshipRepository) io.Reader {
				return strings.NewReader("hello")
			},
			wantErr: ErrInvalidTitle,
		},
		{
			name: "validation error - oversized tag",
			input: func() UploadInput {
				in := validUpload()
				in.Tags = []string{strings.Repeat("x", 51)}
				return in
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mRel *repoMocks.MockRelationshipRepository) io.Reader {
				return strings.NewReader("hello")
			},
			wantErr: ErrInvalidTag,
		},
		{
			name:  "no relationship with client",
			input: validUpload,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mRel *repoMocks.MockRelationshipRepository) io.Reader {
				mRel.On("Exists", ctx, "lawyer-1", "client-1").Return(false, nil)
				return strings.NewReader("hello world")
			},
			wantErr: ErrRelationshipNotFound,
		},
		{
			name:  "relationship check error",
			input: validUpload,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mRel *repoMocks.MockRelationshipRepository) io.Reader {
				mRel.On("Exists", ctx, "lawyer-1", "client-1").Return(false, errors.New("db fail"))
				return strings.NewReader("hello world")
			},
			wantErrMsg: "check relationship: db fail",
		},
		{
			name:  "storage error",
			input: validUpload,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mRel *repoMocks.MockRelationshipRepository) io.Reader {
				r := strings.NewReader("hello world")
				mRel.On("Exists", ctx, "lawyer-1", "client-1").Return(true, nil)
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
				return r
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name:  "repository error with successful rollback",
			input: validUpload,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mRel *repoMocks.MockRelationshipRepository) io.Reader {
				r := strings.NewReader("hello world")
				mRel.On("Exists", ctx, "lawyer-1", "client-1").Return(true, nil)
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", ctx, mock.Anything).
					Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(nil)
				return r
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name:  "repository error with failed rollback",
			input: validUpload,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository, mRel *repoMocks.MockRelationshipRepository) io.Reader {
				r := strings.NewReader("hello world")
				mRel.On("Exists", ctx, "lawyer-1", "client-1").Return(true, nil)
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", ctx, mock.Anything).
					Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
				return r
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			mRel := new(repoMocks.MockRelationshipRepository)
			svc := NewDocumentService(mStore, mRepo, mRel, testPolicy)

			r := tt.setupMocks(mStore, mRepo, mRel)

			doc, err := svc.Upload(ctx, "lawyer-1", tt.input(), r)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)
				// Validation and relationship failures must never reach storage.
				mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, doc)
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
			mRel.AssertExpectations(t)
		})
	}
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	emptyStats := &model.DocumentStats{
		ByStatus:   map[model.Status]int64{},
		ByCategory: map[model.Category]int64{},
	}

	tests := []struct {
		name       string
		params     ListParams
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
		checkRes   func(t *testing.T, res *DocumentListResult)
	}{
		{
			name:   "pagination math on a middle page",
			params: ListParams{Page: 2, Limit: 20},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				items := make([]model.Document, 20)
				mRepo.On("List", ctx, "lawyer-1", repository.ListQuery{
					SortBy: "created_at", SortDesc: true, Limit: 20, Offset: 20,
				}).Return(&repository.PageResult[model.Document]{Items: items, Total: 45}, nil)
				mRepo.On("Stats", ctx, "lawyer-1", "").Return(emptyStats, nil)
			},
			checkRes: func(t *testing.T, res *DocumentListResult) {
				assert.Len(t, res.Documents, 20)
				assert.Equal(t, 2, res.Pagination.CurrentPage)
				assert.Equal(t, 3, res.Pagination.TotalPages)
				assert.Equal(t, 45, res.Pagination.TotalItems)
				assert.True(t, res.Pagination.HasNext)
				assert.True(t, res.Pagination.HasPrev)
				assert.NotNil(t, res.Stats)
			},
		},
		{
			name:   "zero page and limit use defaults",
			params: ListParams{},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, "lawyer-1", repository.ListQuery{
					SortBy: "created_at", SortDesc: true, Limit: 10, Offset: 0,
				}).Return(&repository.PageResult[model.Document]{Items: []model.Document{}, Total: 0}, nil)
				mRepo.On("Stats", ctx, "lawyer-1", "").Return(emptyStats, nil)
			},
			checkRes: func(t *testing.T, res *DocumentListResult) {
				assert.Equal(t, 1, res.Pagination.CurrentPage)
				assert.Equal(t, 0, res.Pagination.TotalPages)
				assert.False(t, res.Pagination.HasNext)
				assert.False(t, res.Pagination.HasPrev)
			},
		},
		{
			name:   "limit above the cap is clamped",
			params: ListParams{Page: 1, Limit: 500},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, "lawyer-1", repository.ListQuery{
					SortBy: "created_at", SortDesc: true, Limit: 100, Offset: 0,
				}).Return(&repository.PageResult[model.Document]{Items: []model.Document{}, Total: 0}, nil)
				mRepo.On("Stats", ctx, "lawyer-1", "").Return(emptyStats, nil)
			},
		},
		{
			name: "filters and ascending sort pass through",
			params: ListParams{
				ClientID:  "client-1",
				Category:  model.CategoryContract,
				Search:    "retainer",
				SortBy:    "title",
				SortOrder: "asc",
				Page:      1,
				Limit:     10,
			},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, "lawyer-1", repository.ListQuery{
					ClientID: "client-1",
					Category: model.CategoryContract,
					Search:   "retainer",
					SortBy:   "title",
					SortDesc: false,
					Limit:    10,
					Offset:   0,
				}).Return(&repository.PageResult[model.Document]{Items: []model.Document{}, Total: 0}, nil)
				mRepo.On("Stats", ctx, "lawyer-1", "client-1").Return(emptyStats, nil)
			},
		},
		{
			name:       "unknown status filter",
			params:     ListParams{Status: model.Status("bogus")},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrInvalidStatus,
		},
		{
			name:   "repository error",
			params: ListParams{Page: 1, Limit: 10},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, "lawyer-1", mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
		{
			name:   "stats error",
			params: ListParams{Page: 1, Limit: 10},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, "lawyer-1", mock.Anything).
					Return(&repository.PageResult[model.Document]{Items: []model.Document{}, Total: 0}, nil)
				mRepo.On("Stats", ctx, "lawyer-1", "").Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(nil, mRepo, nil, testPolicy)

			tt.setupMocks(mRepo)

			res, err := svc.List(ctx, "lawyer-1", tt.params)

			if tt.wantErr != nil {
				if IsValidation(tt.wantErr) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Error(t, err)
				}
				assert.Nil(t, res)
			} else {
				assert.NoError(t, err)
				if tt.checkRes != nil {
					tt.checkRes(t, res)
				}
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   "valid-id",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "lawyer-1", "valid-id").
					Return(&model.Document{ID: "valid-id"}, nil)
			},
		},
		{
			name:       "validation - empty id",
			id:         "",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found - mapping sql.ErrNoRows",
			id:   "missing-id",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "lawyer-1", "missing-id").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "generic repository error",
			id:   "error-id",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "lawyer-1", "error-id").Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(nil, mRepo, nil, testPolicy)

			tt.setupMocks(mRepo)

			doc, err := svc.Get(ctx, "lawyer-1", tt.id)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrIDRequired) || errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Error(t, err)
				}
				assert.Nil(t, doc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, doc)
				assert.Equal(t, tt.id, doc.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func strPtr(s string) *string                { return &s }
func statusPtr(s model.Status) *model.Status { return &s }

func TestDocumentService_Update(t *testing.T) {
	ctx := context.Background()

	existing := func() *model.Document {
		return &model.Document{
			ID:       "doc-1",
			LawyerID: "lawyer-1",
			Title:    "Retainer agreement",
			Status:   model.StatusPendingReview,
		}
	}

	t.Run("metadata-only update leaves review fields alone", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo, nil, testPolicy)

		mRepo.On("FindByID", ctx, "lawyer-1", "doc-1").Return(existing(), nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.Title == "Retainer agreement v2" &&
				doc.ReviewedBy == "" && doc.ReviewedAt == nil
		})).Return(&model.Document{ID: "doc-1", Title: "Retainer agreement v2"}, nil)

		doc, err := svc.Update(ctx, "lawyer-1", "doc-1", model.DocumentPatch{
			Title: strPtr("Retainer agreement v2"),
		})

		assert.NoError(t, err)
		assert.Equal(t, "Retainer agreement v2", doc.Title)
		mRepo.AssertExpectations(t)
	})

	t.Run("entering a review-terminal status records the reviewer", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo, nil, testPolicy)

		mRepo.On("FindByID", ctx, "lawyer-1", "doc-1").Return(existing(), nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.Status == model.StatusApproved &&
				doc.ReviewedBy == "lawyer-1" && doc.ReviewedAt != nil
		})).Return(&model.Document{ID: "doc-1", Status: model.StatusApproved}, nil)

		doc, err := svc.Update(ctx, "lawyer-1", "doc-1", model.DocumentPatch{
			Status: statusPtr(model.StatusApproved),
		})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusApproved, doc.Status)
		mRepo.AssertExpectations(t)
	})

	t.Run("restating the current status does not touch review fields", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo, nil, testPolicy)

		mRepo.On("FindByID", ctx, "lawyer-1", "doc-1").Return(existing(), nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.Status == model.StatusPendingReview &&
				doc.ReviewedBy == "" && doc.ReviewedAt == nil
		})).Return(existing(), nil)

		_, err := svc.Update(ctx, "lawyer-1", "doc-1", model.DocumentPatch{
			Status: statusPtr(model.StatusPendingReview),
		})

		assert.NoError(t, err)
		mRepo.AssertExpectations(t)
	})

	t.Run("empty patch returns the current document without writing", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo, nil, testPolicy)

		mRepo.On("FindByID", ctx, "lawyer-1", "doc-1").Return(existing(), nil)

		doc, err := svc.Update(ctx, "lawyer-1", "doc-1", model.DocumentPatch{})

		assert.NoError(t, err)
		assert.Equal(t, "doc-1", doc.ID)
		mRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("invalid patch rejected before any read", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo, nil, testPolicy)

		doc, err := svc.Update(ctx, "lawyer-1", "doc-1", model.DocumentPatch{
			Status: statusPtr(model.Status("bogus")),
		})

		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.Nil(t, doc)
		mRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo, nil, testPolicy)

		mRepo.On("FindByID", ctx, "lawyer-1", "missing").Return(nil, sql.ErrNoRows)

		doc, err := svc.Update(ctx, "lawyer-1", "missing", model.DocumentPatch{
			Title: strPtr("New title"),
		})

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, doc)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   "valid-id",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("SoftDelete", ctx, "lawyer-1", "valid-id").Return(nil)
			},
		},
		{
			name:       "validation - empty id",
			id:         "",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found",
			id:   "missing-id",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("SoftDelete", ctx, "lawyer-1", "missing-id").Return(sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "repository error",
			id:   "error-id",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("SoftDelete", ctx, "lawyer-1", "error-id").Return(errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(mStore, mRepo, nil, testPolicy)

			tt.setupMocks(mRepo)

			err := svc.Delete(ctx, "lawyer-1", tt.id)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrIDRequired) || errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Error(t, err)
				}
			} else {
				assert.NoError(t, err)
			}
			// Soft delete never touches the stored object.
			mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Download(t *testing.T) {
	ctx := context.Background()

	stored := func() *model.Document {
		return &model.Document{
			ID:            "doc-1",
			LawyerID:      "lawyer-1",
			StoragePath:   "documents/uuid.pdf",
			FileSize:      11,
			MimeType:      "application/pdf",
			DownloadCount: 3,
		}
	}

	t.Run("happy path bumps the counter", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mStore, mRepo, nil, testPolicy)

		mRepo.On("FindByID", ctx, "lawyer-1", "doc-1").Return(stored(), nil)
		mStore.On("Get", ctx, "documents/uuid.pdf").
			Return(io.NopCloser(strings.NewReader("hello world")), storage.ObjectInfo{Key: "documents/uuid.pdf", Size: 11}, nil)
		mRepo.On("RecordDownload", ctx, "lawyer-1", "doc-1", "lawyer-1", mock.AnythingOfType("time.Time")).
			Return(nil)

		rc, doc, err := svc.Download(ctx, "lawyer-1", "doc-1")

		assert.NoError(t, err)
		assert.NotNil(t, rc)
		body, _ := io.ReadAll(rc)
		rc.Close()
		assert.Equal(t, "hello world", string(body))
		assert.Equal(t, 4, doc.DownloadCount)
		assert.Equal(t, "lawyer-1", doc.LastDownloadedBy)
		assert.NotNil(t, doc.LastDownloadedAt)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("record miss is non-fatal", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mStore, mRepo, nil, testPolicy)

		mRepo.On("FindByID", ctx, "lawyer-1", "doc-1").Return(stored(), nil)
		mStore.On("Get", ctx, "documents/uuid.pdf").
			Return(io.NopCloser(strings.NewReader("hello world")), storage.ObjectInfo{}, nil)
		mRepo.On("RecordDownload", ctx, "lawyer-1", "doc-1", "lawyer-1", mock.AnythingOfType("time.Time")).
			Return(errors.New("db fail"))

		rc, doc, err := svc.Download(ctx, "lawyer-1", "doc-1")

		assert.NoError(t, err)
		assert.NotNil(t, rc)
		rc.Close()
		// Counter is not reported as bumped when the write failed.
		assert.Equal(t, 3, doc.DownloadCount)
	})

	t.Run("record missing", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mStore, mRepo, nil, testPolicy)

		mRepo.On("FindByID", ctx, "lawyer-1", "missing").Return(nil, sql.ErrNoRows)

		rc, doc, err := svc.Download(ctx, "lawyer-1", "missing")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, rc)
		assert.Nil(t, doc)
	})

	t.Run("record present but object gone", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mStore, mRepo, nil, testPolicy)

		mRepo.On("FindByID", ctx, "lawyer-1", "doc-1").Return(stored(), nil)
		mStore.On("Get", ctx, "documents/uuid.pdf").
			Return(nil, storage.ObjectInfo{}, storage.ErrNotFound)

		rc, doc, err := svc.Download(ctx, "lawyer-1", "doc-1")

		assert.ErrorIs(t, err, ErrFileNotFound)
		assert.Nil(t, rc)
		assert.Nil(t, doc)
		mRepo.AssertNotCalled(t, "RecordDownload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := NewDocumentService(nil, nil, nil, testPolicy)

		rc, doc, err := svc.Download(ctx, "lawyer-1", "")

		assert.ErrorIs(t, err, ErrIDRequired)
		assert.Nil(t, rc)
		assert.Nil(t, doc)
	})
}

func TestDocumentService_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("passthrough", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo, nil, testPolicy)

		want := &model.DocumentStats{
			TotalDocuments: 3,
			TotalBytes:     6144,
			ByStatus:       map[model.Status]int64{model.StatusApproved: 3},
			ByCategory:     map[model.Category]int64{model.CategoryContract: 3},
		}
		mRepo.On("Stats", ctx, "lawyer-1", "client-1").Return(want, nil)

		got, err := svc.Stats(ctx, "lawyer-1", "client-1")

		assert.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(nil, mRepo, nil, testPolicy)

		mRepo.On("Stats", ctx, "lawyer-1", "").Return(nil, errors.New("db fail"))

		got, err := svc.Stats(ctx, "lawyer-1", "")

		assert.Error(t, err)
		assert.Nil(t, got)
	})
}
