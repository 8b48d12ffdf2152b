package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/take-eleven/internal/protocol"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	return client, mr
}

func newTestRedisStore(t *testing.T, size int) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	client, mr := newTestClient(t)
	return NewRedisStore(client, size), mr
}

func TestRedisStore_SaveAndGetHistory(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t, 5)
	defer mr.Close()
	ctx := context.Background()

	record := protocol.RoundRecord{
		Round:    1,
		EndedAt:  1700000000,
		Duration: 95,
		Players: []protocol.PlayerResult{
			{Nickname: "alice", Head: 4, NewHead: 4, Hand: []int{5, 55}},
			{Nickname: "bob", Head: 0, NewHead: 0, Hand: []int{}},
		},
	}
	require.NoError(t, store.SaveRound(ctx, record))

	history, err := store.GetHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, record, history[0])
}

func TestRedisStore_HistoryNewestFirstAndTrimmed(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t, 3)
	defer mr.Close()
	ctx := context.Background()

	for round := 1; round <= 5; round++ {
		require.NoError(t, store.SaveRound(ctx, protocol.RoundRecord{Round: round}))
	}

	n, err := store.client.LLen(ctx, historyKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	history, err := store.GetHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []int{5, 4, 3}, []int{history[0].Round, history[1].Round, history[2].Round})

	history, err = store.GetHistory(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestRedisStore_EmptyHistory(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t, 0)
	defer mr.Close()

	history, err := store.GetHistory(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, int64(defaultHistorySize), store.size)
}

func TestRedisStore_CorruptRecord(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t, 5)
	defer mr.Close()

	_, err := mr.Lpush(historyKey, "{not json")
	require.NoError(t, err)

	_, err = store.GetHistory(context.Background(), 5)
	assert.Error(t, err)
}
