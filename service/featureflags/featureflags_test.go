/*
 * @module service/featureflags/featureflags_test
 * @description 特性开关配置服务单元测试
 * @architecture 测试层
 * @documentReference service/featureflags/featureflags.go
 * @stateFlow 环境变量准备 -> Load -> 快照/错误断言
 * @rules 使用 t.Setenv 隔离环境变量，避免测试间相互影响
 * @dependencies github.com/stretchr/testify
 * @refs service/init.go
 */

package featureflags

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetEnv 清空所有相关环境变量，保证每个用例从干净状态出发
func resetEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"DB_PROVIDER", "CACHE_PROVIDER", "AUTH_PROVIDER", "ERROR_TRACKING_PROVIDER",
		"LOG_LEVEL", "LOG_FILE", "SWAGGER_ENABLED", "PERFORMANCE_MODE", "CACHE_TTL_SECONDS",
		"DATABASE_URL", "SQLITE_PATH", "MONGO_URL",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD",
		"AUTH_API_KEY", "AUTH_API_KEY_HASH", "JWT_SECRET",
		"SENTRY_DSN", "BUGSNAG_API_KEY", "POSTHOG_API_KEY",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	resetEnv(t)

	flags, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DBProviderPostgres, flags.DBProvider())
	assert.Equal(t, CacheProviderMemory, flags.CacheProvider())
	assert.Equal(t, AuthProviderNone, flags.AuthProvider())
	assert.Equal(t, ErrorTrackingNone, flags.ErrorTrackingProvider())
	assert.Equal(t, "info", flags.LogLevel())
	assert.True(t, flags.SwaggerEnabled())
	assert.False(t, flags.PerformanceMode())
	assert.Equal(t, 60*time.Second, flags.CacheTTL())
	assert.Equal(t, "todos.db", flags.SQLitePath())
	assert.Contains(t, flags.DatabaseDSN(), "host=localhost")
}

func TestLoadDatabaseURLTakesPrecedence(t *testing.T) {
	resetEnv(t)
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/todos")
	t.Setenv("DB_HOST", "ignored")

	flags, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://user:pass@db:5432/todos", flags.DatabaseDSN())
}

func TestLoadAggregatesAllViolations(t *testing.T) {
	resetEnv(t)
	t.Setenv("DB_PROVIDER", "mysql")
	t.Setenv("CACHE_PROVIDER", "memcached")
	t.Setenv("AUTH_PROVIDER", "oauth")
	t.Setenv("ERROR_TRACKING_PROVIDER", "rollbar")
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)

	// 一次性报告所有违规项，而非遇到第一条就终止
	assert.Contains(t, err.Error(), "DB_PROVIDER")
	assert.Contains(t, err.Error(), "CACHE_PROVIDER")
	assert.Contains(t, err.Error(), "AUTH_PROVIDER")
	assert.Contains(t, err.Error(), "ERROR_TRACKING_PROVIDER")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestLoadCrossFieldRequirements(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "mongodb缺少MONGO_URL",
			env:     map[string]string{"DB_PROVIDER": "mongodb"},
			wantErr: "MONGO_URL",
		},
		{
			name:    "redis缺少REDIS_HOST",
			env:     map[string]string{"CACHE_PROVIDER": "redis"},
			wantErr: "REDIS_HOST",
		},
		{
			name:    "apikey缺少密钥配置",
			env:     map[string]string{"AUTH_PROVIDER": "apikey"},
			wantErr: "AUTH_API_KEY",
		},
		{
			name:    "jwt缺少JWT_SECRET",
			env:     map[string]string{"AUTH_PROVIDER": "jwt"},
			wantErr: "JWT_SECRET",
		},
		{
			name:    "sentry缺少SENTRY_DSN",
			env:     map[string]string{"ERROR_TRACKING_PROVIDER": "sentry"},
			wantErr: "SENTRY_DSN",
		},
		{
			name:    "bugsnag缺少BUGSNAG_API_KEY",
			env:     map[string]string{"ERROR_TRACKING_PROVIDER": "bugsnag"},
			wantErr: "BUGSNAG_API_KEY",
		},
		{
			name:    "posthog缺少POSTHOG_API_KEY",
			env:     map[string]string{"ERROR_TRACKING_PROVIDER": "posthog"},
			wantErr: "POSTHOG_API_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadCrossFieldSatisfied(t *testing.T) {
	resetEnv(t)
	t.Setenv("DB_PROVIDER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/test-todos.db")
	t.Setenv("CACHE_PROVIDER", "redis")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("AUTH_PROVIDER", "jwt")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ERROR_TRACKING_PROVIDER", "sentry")
	t.Setenv("SENTRY_DSN", "https://key@sentry.example.com/1")

	flags, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test-todos.db", flags.SQLitePath())
	assert.Equal(t, "redis.internal:6379", flags.RedisAddr())
	assert.Equal(t, "secret", flags.JWTSecret())
	assert.Equal(t, "https://key@sentry.example.com/1", flags.SentryDSN())
}

func TestLoadCacheTTL(t *testing.T) {
	resetEnv(t)
	t.Setenv("CACHE_TTL_SECONDS", "120")

	flags, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, flags.CacheTTL())

	for _, invalid := range []string{"abc", "0", "-5"} {
		t.Setenv("CACHE_TTL_SECONDS", invalid)
		_, err := Load()
		require.Error(t, err, "CACHE_TTL_SECONDS=%s 应当校验失败", invalid)
		assert.Contains(t, err.Error(), "CACHE_TTL_SECONDS")
	}
}

func TestLoadBoolFlags(t *testing.T) {
	resetEnv(t)
	t.Setenv("SWAGGER_ENABLED", "false")
	t.Setenv("PERFORMANCE_MODE", "true")

	flags, err := Load()
	require.NoError(t, err)
	assert.False(t, flags.SwaggerEnabled())
	assert.True(t, flags.PerformanceMode())

	t.Setenv("PERFORMANCE_MODE", "maybe")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PERFORMANCE_MODE")
}
