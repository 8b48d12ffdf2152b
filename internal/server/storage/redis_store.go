package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/take-eleven/internal/protocol"
)

const (
	// Redis key
	historyKey = "history:rounds"

	defaultHistorySize = 20
)

// RedisStore 保存最近几局的结算记录
// 只做统计，进程重启后不会据此恢复牌局
type RedisStore struct {
	client *redis.Client
	size   int64
}

// NewRedisStore 创建 Redis 存储，size 为保留的局数
func NewRedisStore(client *redis.Client, size int) *RedisStore {
	if size <= 0 {
		size = defaultHistorySize
	}
	return &RedisStore{client: client, size: int64(size)}
}

// SaveRound 保存一局结果，只保留最近 size 局
func (rs *RedisStore) SaveRound(ctx context.Context, record protocol.RoundRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("序列化对局记录失败: %w", err)
	}

	pipe := rs.client.TxPipeline()
	pipe.LPush(ctx, historyKey, data)
	pipe.LTrim(ctx, historyKey, 0, rs.size-1)
	_, err = pipe.Exec(ctx)
	return err
}

// GetHistory 获取最近 limit 局，新的在前
func (rs *RedisStore) GetHistory(ctx context.Context, limit int) ([]protocol.RoundRecord, error) {
	if limit <= 0 || int64(limit) > rs.size {
		limit = int(rs.size)
	}

	items, err := rs.client.LRange(ctx, historyKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	records := make([]protocol.RoundRecord, 0, len(items))
	for _, item := range items {
		var record protocol.RoundRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("反序列化对局记录失败: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Close 关闭底层连接
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
