package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"Campus_Portal/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultActivityTTL = 24 * time.Hour

	ActivitySeqKey    = "activity:seq"
	ActivityIndexKey  = "activity:index" // zset，score 为创建时间毫秒
	ActivityKeyPrefix = "activity:item"
)

// ActivityRepository 后台动态。每条动态单独一个带 TTL 的键，过期由 Redis 负责
type ActivityRepository struct {
	RDB *redis.Client
	ttl time.Duration
	now func() time.Time
}

func NewActivityRepository(rdb *redis.Client, ttl time.Duration) *ActivityRepository {
	if ttl <= 0 {
		ttl = DefaultActivityTTL
	}
	return &ActivityRepository{RDB: rdb, ttl: ttl, now: time.Now}
}

func (r *ActivityRepository) itemKey(id string) string {
	return fmt.Sprintf("%s:%s", ActivityKeyPrefix, id)
}

func (r *ActivityRepository) Append(ctx context.Context, a *model.Activity) error {
	seq, err := r.RDB.Incr(ctx, ActivitySeqKey).Result()
	if err != nil {
		return fmt.Errorf("activity seq: %w", err)
	}
	now := r.now()
	a.ID = strconv.FormatInt(seq, 10)
	a.CreatedAt = now

	body, err := json.Marshal(a)
	if err != nil {
		return err
	}
	score := float64(now.UnixMilli())
	cutoff := strconv.FormatInt(now.Add(-r.ttl).UnixMilli(), 10)

	_, err = r.RDB.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.itemKey(a.ID), body, r.ttl)
		pipe.ZAdd(ctx, ActivityIndexKey, redis.Z{Score: score, Member: a.ID})
		// 索引里过期的成员顺便清掉
		pipe.ZRemRangeByScore(ctx, ActivityIndexKey, "-inf", "("+cutoff)
		return nil
	})
	if err != nil {
		return fmt.Errorf("activity append: %w", err)
	}
	return nil
}

// Recent 保留期内最新的 limit 条，条目已过期的跳过
func (r *ActivityRepository) Recent(ctx context.Context, limit int) ([]model.Activity, error) {
	out := make([]model.Activity, 0, limit)
	if limit <= 0 {
		return out, nil
	}
	now := r.now()
	ids, err := r.RDB.ZRevRangeByScore(ctx, ActivityIndexKey, &redis.ZRangeBy{
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Min:   strconv.FormatInt(now.Add(-r.ttl).UnixMilli(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("activity index: %w", err)
	}
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.itemKey(id)
	}
	vals, err := r.RDB.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("activity items: %w", err)
	}
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var a model.Activity
		if err := json.Unmarshal([]byte(s), &a); err != nil {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
