package mocks

import (
	"context"

	"docvault/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockSearchLogRepository struct {
	mock.Mock
}

func (m *MockSearchLogRepository) Insert(ctx context.Context, e *model.SearchLogEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockSearchLogRepository) RecentDistinct(ctx context.Context, userID int64, limit int) ([]model.SearchHistoryItem, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SearchHistoryItem), args.Error(1)
}

func (m *MockSearchLogRepository) DeleteByID(ctx context.Context, userID, id int64) (int64, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSearchLogRepository) DeleteMatching(ctx context.Context, userID int64, keyword, tags string) (int64, error) {
	args := m.Called(ctx, userID, keyword, tags)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSearchLogRepository) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
