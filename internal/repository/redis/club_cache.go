package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Campus_Portal/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	ClubListKey = "cache:club:list"
	ClubListTTL = 5 * time.Minute
)

// ClubCache 社团列表缓存，任何社团写操作后删除
type ClubCache struct {
	RDB *redis.Client
	ttl time.Duration
}

func NewClubCache(rdb *redis.Client) *ClubCache {
	return &ClubCache{RDB: rdb, ttl: ClubListTTL}
}

func (c *ClubCache) GetList(ctx context.Context) ([]model.ClubSummary, bool, error) {
	val, err := c.RDB.Get(ctx, ClubListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var list []model.ClubSummary
	if err := json.Unmarshal(val, &list); err != nil {
		// 脏数据当作未命中
		return nil, false, nil
	}
	return list, true, nil
}

func (c *ClubCache) SetList(ctx context.Context, list []model.ClubSummary) error {
	body, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.RDB.Set(ctx, ClubListKey, body, c.ttl).Err()
}

func (c *ClubCache) Invalidate(ctx context.Context) error {
	return c.RDB.Del(ctx, ClubListKey).Err()
}
