package mocks

import (
	"context"

	"docvault/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockSearchHistoryService struct {
	mock.Mock
}

func (m *MockSearchHistoryService) Recent(ctx context.Context, p model.Principal, limit int) ([]model.SearchHistoryItem, error) {
	args := m.Called(ctx, p, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SearchHistoryItem), args.Error(1)
}

func (m *MockSearchHistoryService) DeleteEntry(ctx context.Context, p model.Principal, id int64) (int64, error) {
	args := m.Called(ctx, p, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSearchHistoryService) DeleteMatching(ctx context.Context, p model.Principal, keyword, tags string) (int64, error) {
	args := m.Called(ctx, p, keyword, tags)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSearchHistoryService) Clear(ctx context.Context, p model.Principal) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

// MockSearchRecorder captures fire-and-forget history writes.
type MockSearchRecorder struct {
	mock.Mock
}

func (m *MockSearchRecorder) Record(e model.SearchLogEntry) {
	m.Called(e)
}
