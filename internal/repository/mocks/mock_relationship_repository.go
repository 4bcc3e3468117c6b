package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRelationshipRepository struct {
	mock.Mock
}

func (m *MockRelationshipRepository) Exists(ctx context.Context, lawyerID, clientID string) (bool, error) {
	args := m.Called(ctx, lawyerID, clientID)
	return args.Bool(0), args.Error(1)
}
