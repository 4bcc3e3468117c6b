package mocks

import (
	"context"
	"time"

	"lawdocs/internal/model"
	"lawdocs/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, lawyerID, id string) (*model.Document, error) {
	args := m.Called(ctx, lawyerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, lawyerID string, q repository.ListQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, lawyerID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

func (m *MockDocumentRepository) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) SoftDelete(ctx context.Context, lawyerID, id string) error {
	args := m.Called(ctx, lawyerID, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) RecordDownload(ctx context.Context, lawyerID, id, byUserID string, at time.Time) error {
	args := m.Called(ctx, lawyerID, id, byUserID, at)
	return args.Error(0)
}

func (m *MockDocumentRepository) Stats(ctx context.Context, lawyerID, clientID string) (*model.DocumentStats, error) {
	args := m.Called(ctx, lawyerID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentStats), args.Error(1)
}
