/*
 * @module service/cache/memory_cache
 * @description 进程内TTL缓存实现，封装go-cache
 * @architecture 提供者模式 - 进程内实现
 * @stateFlow Get/Set -> go-cache -> 到期自动清理
 * @rules 键模式删除仅支持前缀通配形式（"todos:*"）
 * @dependencies github.com/patrickmn/go-cache
 * @refs service/cache/cache.go
 */

package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache 进程内TTL缓存实现
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache 创建进程内缓存实例
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		store: gocache.New(defaultTTL, 2*defaultTTL),
	}
}

// Get 读取缓存值
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, found := c.store.Get(key)
	if !found {
		return nil, false
	}
	bytes, ok := value.([]byte)
	return bytes, ok
}

// Set 按TTL写入缓存值
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

// DeletePattern 删除匹配前缀模式的所有键
func (c *MemoryCache) DeletePattern(ctx context.Context, pattern string) {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.store.Items() {
		if strings.HasPrefix(key, prefix) {
			c.store.Delete(key)
		}
	}
}

// Ping 进程内缓存恒为可用
func (c *MemoryCache) Ping(ctx context.Context) error { return nil }

// Close 清空缓存
func (c *MemoryCache) Close() error {
	c.store.Flush()
	return nil
}
