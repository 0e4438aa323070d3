package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface - контракт кеша справочников.
type CacheRepositoryInterface interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
