package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations 记录已注销但尚未过期的令牌
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const revokedKeyPrefix = "session:revoked:"

// RedisRevocations 以 jti 为键存入 Redis，过期时间与令牌一致
type RedisRevocations struct {
	rdb *redis.Client
}

// NewRedisRevocations rdb 为 nil 时返回 nil，调用方按未启用处理
func NewRedisRevocations(rdb *redis.Client) Revocations {
	if rdb == nil {
		return nil
	}
	return &RedisRevocations{rdb: rdb}
}

func (r *RedisRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
