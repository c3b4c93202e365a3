package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Campus_Portal/internal/repository"

	"github.com/redis/go-redis/v9"
)

var (
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("session extend failed")
	ErrSessionDeleted   = errors.New("session delete failed")
)

const (
	UserTokenPrefix = "login:user:token"

	fieldAccess  = "access"
	fieldRefresh = "refresh"
)

// SessionRepository 登录态，hash 中保存当前有效的 access 和 refresh
type SessionRepository struct {
	RDB *redis.Client
}

func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{RDB: rdb}
}

func (r *SessionRepository) key(userID uint64) string {
	return fmt.Sprintf("%s:%d", UserTokenPrefix, userID)
}

// Save 覆盖旧的登录态，同一用户只保留一个
func (r *SessionRepository) Save(ctx context.Context, userID uint64, s repository.Session, ttl time.Duration) error {
	key := r.key(userID)
	_, err := r.RDB.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fieldAccess, s.AccessToken, fieldRefresh, s.RefreshToken)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, userID uint64) (*repository.Session, error) {
	vals, err := r.RDB.HGetAll(ctx, r.key(userID)).Result()
	if err != nil {
		return nil, ErrRedisUnavailable
	}
	if len(vals) == 0 {
		return nil, repository.ErrSessionNotFound
	}
	return &repository.Session{AccessToken: vals[fieldAccess], RefreshToken: vals[fieldRefresh]}, nil
}

// Extend 滑动续期
func (r *SessionRepository) Extend(ctx context.Context, userID uint64, ttl time.Duration) error {
	ok, err := r.RDB.Expire(ctx, r.key(userID), ttl).Result()
	if err != nil {
		return ErrExtendFailed
	}
	if !ok {
		return repository.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, userID uint64) error {
	if err := r.RDB.Del(ctx, r.key(userID)).Err(); err != nil {
		return ErrSessionDeleted
	}
	return nil
}
