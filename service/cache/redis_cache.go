/*
 * @module service/cache/redis_cache
 * @description 基于Redis的缓存实现，多进程共享同一缓存后端
 * @architecture 提供者模式 - 分布式实现
 * @stateFlow Get/Set -> Redis -> 到期自动清理；键模式删除通过SCAN+DEL完成
 * @rules 多进程共享时不提供分布式失效保证；Redis故障降级为缓存未命中
 * @dependencies github.com/go-redis/redis/v8
 * @refs service/cache/cache.go
 */

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCache Redis缓存实现
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache 创建Redis缓存实例并验证连接
func NewRedisCache(addr, password string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis连接失败: %w", err)
	}

	slog.Info("Redis缓存初始化成功", "addr", addr)
	return &RedisCache{client: client}, nil
}

// Get 读取缓存值，Redis故障降级为未命中
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("读取Redis缓存失败", "key", key, "error", err)
		}
		return nil, false
	}
	return value, true
}

// Set 按TTL写入缓存值
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Warn("写入Redis缓存失败", "key", key, "error", err)
	}
}

// DeletePattern 通过SCAN迭代删除匹配模式的所有键
func (c *RedisCache) DeletePattern(ctx context.Context, pattern string) {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			slog.Warn("删除Redis缓存键失败", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		slog.Warn("扫描Redis缓存键失败", "pattern", pattern, "error", err)
	}
}

// Ping Redis连通性检查
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close 关闭Redis连接
func (c *RedisCache) Close() error {
	return c.client.Close()
}
