// Package leaderboard keeps per-user distinct-question solved counts in a
// Redis sorted set. The set is a cache over the submission store; it is
// incremented on a user's first solve of a question and rebuilt from the store
// when cold, so both paths count each solved question once.
package leaderboard

import (
	"codetrack/internal/common"
	"codetrack/internal/domain/model"
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

type Board struct {
	rdb    *redis.Client
	key    string
	logger *zap.Logger
}

func NewBoard(rdb *redis.Client, key string, logger *zap.Logger) *Board {
	return &Board{rdb: rdb, key: key, logger: logger}
}

// RecordSolve adds one to the user's distinct-question count; callers invoke
// it only for a first solve of a question. Best-effort: a Redis failure is
// logged and swallowed so it never fails the submission write.
func (b *Board) RecordSolve(ctx context.Context, userID string) {
	if b == nil || b.rdb == nil {
		return
	}
	if err := b.rdb.ZIncrBy(ctx, b.key, 1, userID).Err(); err != nil {
		b.logger.Warn("leaderboard increment failed",
			zap.String("user_id", userID), zap.Error(err))
	}
}

type Entry struct {
	UserID string
	Solved int
}

func (b *Board) Top(ctx context.Context, n int) ([]Entry, error) {
	if b == nil || b.rdb == nil {
		return nil, nil
	}
	zs, err := b.rdb.ZRevRangeWithScores(ctx, b.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, common.Errorf("leaderboard read: %v: %w", err, common.ErrStoreUnavailable)
	}
	entries := make([]Entry, 0, len(zs))
	for _, z := range zs {
		userID, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, Entry{UserID: userID, Solved: int(z.Score)})
	}
	return entries, nil
}

// Rebuild repopulates the sorted set from store-derived entries.
func (b *Board) Rebuild(ctx context.Context, entries []model.LeaderboardEntry) error {
	if b == nil || b.rdb == nil || len(entries) == 0 {
		return nil
	}
	members := make([]redis.Z, 0, len(entries))
	for _, e := range entries {
		members = append(members, redis.Z{Score: float64(e.Solved), Member: e.UserID})
	}
	pipe := b.rdb.TxPipeline()
	pipe.Del(ctx, b.key)
	pipe.ZAdd(ctx, b.key, members...)
	if _, err := pipe.Exec(ctx); err != nil {
		return common.Errorf("leaderboard rebuild: %v: %w", err, common.ErrStoreUnavailable)
	}
	return nil
}
