package mocks

import (
	"context"
	"io"

	"lawdocs/internal/model"
	"lawdocs/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, lawyerID string, in service.UploadInput, r io.Reader) (*model.Document, error) {
	args := m.Called(ctx, lawyerID, in, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, lawyerID string, p service.ListParams) (*service.DocumentListResult, error) {
	args := m.Called(ctx, lawyerID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, lawyerID, id string) (*model.Document, error) {
	args := m.Called(ctx, lawyerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, lawyerID, id string, patch model.DocumentPatch) (*model.Document, error) {
	args := m.Called(ctx, lawyerID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, lawyerID, id string) error {
	args := m.Called(ctx, lawyerID, id)
	return args.Error(0)
}

func (m *MockDocumentService) Download(ctx context.Context, lawyerID, id string) (io.ReadCloser, *model.Document, error) {
	args := m.Called(ctx, lawyerID, id)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var doc *model.Document
	if args.Get(1) != nil {
		doc = args.Get(1).(*model.Document)
	}
	return rc, doc, args.Error(2)
}

func (m *MockDocumentService) Stats(ctx context.Context, lawyerID, clientID string) (*model.DocumentStats, error) {
	args := m.Called(ctx, lawyerID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentStats), args.Error(1)
}
