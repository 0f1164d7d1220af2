/*
 * @module service/cache/memory_cache_test
 * @description 进程内TTL缓存单元测试
 * @architecture 测试层
 * @documentReference service/cache/memory_cache.go
 * @stateFlow 写入 -> 读取/过期/模式删除断言
 * @rules 键模式删除仅影响匹配前缀的键
 * @dependencies github.com/stretchr/testify
 * @refs service/cache/cache.go
 */

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	_, found := c.Get(ctx, "todos:all")
	assert.False(t, found)

	c.Set(ctx, "todos:all", []byte(`[{"id":"1"}]`), time.Minute)

	value, found := c.Get(ctx, "todos:all")
	require.True(t, found)
	assert.Equal(t, []byte(`[{"id":"1"}]`), value)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	c.Set(ctx, "todos:id:1", []byte(`{}`), 20*time.Millisecond)

	_, found := c.Get(ctx, "todos:id:1")
	require.True(t, found)

	time.Sleep(50 * time.Millisecond)

	_, found = c.Get(ctx, "todos:id:1")
	assert.False(t, found)
}

func TestMemoryCacheDeletePattern(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	c.Set(ctx, "todos:all", []byte(`[]`), time.Minute)
	c.Set(ctx, "todos:id:1", []byte(`{}`), time.Minute)
	c.Set(ctx, "todos:completed:true", []byte(`[]`), time.Minute)
	c.Set(ctx, "sessions:abc", []byte(`{}`), time.Minute)

	c.DeletePattern(ctx, "todos:*")

	for _, key := range []string{"todos:all", "todos:id:1", "todos:completed:true"} {
		_, found := c.Get(ctx, key)
		assert.False(t, found, "键 %s 应当已被删除", key)
	}

	// 不匹配模式的键保留
	_, found := c.Get(ctx, "sessions:abc")
	assert.True(t, found)
}

func TestNoopCache(t *testing.T) {
	c := NewNoopCache()
	ctx := context.Background()

	c.Set(ctx, "todos:all", []byte(`[]`), time.Minute)
	_, found := c.Get(ctx, "todos:all")
	assert.False(t, found)
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}
