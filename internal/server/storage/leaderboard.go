package storage

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key
	leaderboardKey  = "leaderboard:head"
	playerNameKey   = "player:nickname"
	playerRoundsKey = "player:rounds"
)

// RoundScore 一名玩家在一局中的得分
type RoundScore struct {
	PlayerID string
	Nickname string
	NewHead  int
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank     int
	PlayerID string
	Nickname string
	Head     int
	Rounds   int
}

// LeaderboardManager 牛头排行榜，累计牛头越少排名越靠前
type LeaderboardManager struct {
	redis *redis.Client
}

// NewLeaderboardManager 创建排行榜管理器
func NewLeaderboardManager(client *redis.Client) *LeaderboardManager {
	return &LeaderboardManager{redis: client}
}

// RecordRound 记录一局的得分
func (lm *LeaderboardManager) RecordRound(ctx context.Context, scores []RoundScore) error {
	if len(scores) == 0 {
		return nil
	}

	pipe := lm.redis.TxPipeline()
	for _, s := range scores {
		pipe.ZIncrBy(ctx, leaderboardKey, float64(s.NewHead), s.PlayerID)
		pipe.HSet(ctx, playerNameKey, s.PlayerID, s.Nickname)
		pipe.HIncrBy(ctx, playerRoundsKey, s.PlayerID, 1)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// GetLeaderboard 获取排行榜
func (lm *LeaderboardManager) GetLeaderboard(ctx context.Context, offset, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	results, err := lm.redis.ZRangeWithScores(ctx, leaderboardKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return []LeaderboardEntry{}, nil
	}

	ids := make([]string, len(results))
	for i, z := range results {
		ids[i] = z.Member.(string)
	}

	pipe := lm.redis.Pipeline()
	names := pipe.HMGet(ctx, playerNameKey, ids...)
	rounds := pipe.HMGet(ctx, playerRoundsKey, ids...)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			Rank:     offset + i + 1,
			PlayerID: ids[i],
			Head:     int(z.Score),
		}
		if name, ok := names.Val()[i].(string); ok {
			entries[i].Nickname = name
		}
		if n, ok := rounds.Val()[i].(string); ok {
			entries[i].Rounds, _ = strconv.Atoi(n)
		}
	}
	return entries, nil
}

// GetPlayerRank 获取玩家排名（从 1 开始），没有记录时返回 0
func (lm *LeaderboardManager) GetPlayerRank(ctx context.Context, playerID string) (int64, error) {
	rank, err := lm.redis.ZRank(ctx, leaderboardKey, playerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return rank + 1, nil
}
