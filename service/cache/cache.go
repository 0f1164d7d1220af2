/*
 * @module service/cache/cache
 * @description 缓存抽象与提供者选择器，支持空实现、进程内TTL缓存和Redis
 * @architecture 提供者模式 - 启动时绑定唯一实现
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 特性开关快照 -> 绑定缓存实现（进程生命周期内不变）
 * @rules 缓存按固定TTL写入，写操作通过键模式失效；缓存故障不阻断请求
 * @dependencies github.com/go-redis/redis/v8, github.com/patrickmn/go-cache
 * @refs service/todo/service.go
 */

package cache

import (
	"context"
	"fmt"
	"time"

	"todohub-service/service/featureflags"
)

// Cache 缓存契约，值为序列化后的字节
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// DeletePattern 删除匹配给定前缀模式的所有键，模式形如 "todos:*"
	DeletePattern(ctx context.Context, pattern string)
	Ping(ctx context.Context) error
	Close() error
}

// NewCache 按特性开关选择缓存实现，进程启动时调用一次
func NewCache(flags *featureflags.FeatureFlags) (Cache, error) {
	switch flags.CacheProvider() {
	case featureflags.CacheProviderNone:
		return NewNoopCache(), nil
	case featureflags.CacheProviderMemory:
		return NewMemoryCache(flags.CacheTTL()), nil
	case featureflags.CacheProviderRedis:
		return NewRedisCache(flags.RedisAddr(), flags.RedisPassword())
	default:
		// Load() 已做枚举校验，此分支不可达
		return nil, fmt.Errorf("未知的缓存提供者: %s", flags.CacheProvider())
	}
}

// NoopCache 空缓存实现，所有操作均为无操作
type NoopCache struct{}

// NewNoopCache 创建空缓存实例
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (c *NoopCache) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }

func (c *NoopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {}

func (c *NoopCache) DeletePattern(ctx context.Context, pattern string) {}

func (c *NoopCache) Ping(ctx context.Context) error { return nil }

func (c *NoopCache) Close() error { return nil }
