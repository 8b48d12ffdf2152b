//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/take-eleven/internal/protocol"
	"github.com/palemoky/take-eleven/internal/server/storage"
)

// MockLeaderboard 排行榜 mock
type MockLeaderboard struct {
	mock.Mock
}

func (m *MockLeaderboard) RecordRound(ctx context.Context, scores []storage.RoundScore) error {
	args := m.Called(ctx, scores)
	return args.Error(0)
}

func (m *MockLeaderboard) GetLeaderboard(ctx context.Context, offset, limit int) ([]storage.LeaderboardEntry, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboard) GetPlayerRank(ctx context.Context, playerID string) (int64, error) {
	args := m.Called(ctx, playerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockHistoryStore 对局历史 mock
type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) SaveRound(ctx context.Context, record protocol.RoundRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistoryStore) GetHistory(ctx context.Context, limit int) ([]protocol.RoundRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]protocol.RoundRecord), args.Error(1)
}
