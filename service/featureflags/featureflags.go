/*
 * @module service/featureflags/featureflags
 * @description 特性开关配置服务，启动时一次性读取并校验所有可配置子系统的选项
 * @architecture 分层架构 - 配置层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 读取环境变量 -> 枚举校验 -> 交叉校验 -> 不可变快照/启动失败
 * @rules 校验全有或全无：一次性报告所有违规项，任何违规都阻止进程启动；快照只读，运行期不可变
 * @dependencies github.com/spf13/cast
 * @refs service/init.go
 */

package featureflags

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// 各子系统的合法枚举值
const (
	DBProviderPostgres = "postgres"
	DBProviderSQLite   = "sqlite"
	DBProviderMongoDB  = "mongodb"

	CacheProviderNone   = "none"
	CacheProviderMemory = "memory"
	CacheProviderRedis  = "redis"

	AuthProviderNone   = "none"
	AuthProviderAPIKey = "apikey"
	AuthProviderJWT    = "jwt"

	ErrorTrackingNone    = "none"
	ErrorTrackingSentry  = "sentry"
	ErrorTrackingBugsnag = "bugsnag"
	ErrorTrackingPostHog = "posthog"
)

var (
	validDBProviders    = []string{DBProviderPostgres, DBProviderSQLite, DBProviderMongoDB}
	validCacheProviders = []string{CacheProviderNone, CacheProviderMemory, CacheProviderRedis}
	validAuthProviders  = []string{AuthProviderNone, AuthProviderAPIKey, AuthProviderJWT}
	validErrorTrackers  = []string{ErrorTrackingNone, ErrorTrackingSentry, ErrorTrackingBugsnag, ErrorTrackingPostHog}
	validLogLevels      = []string{"debug", "info", "warn", "error"}
)

// FeatureFlags 进程级特性开关快照，启动时构建一次，之后只读
type FeatureFlags struct {
	dbProvider            string
	cacheProvider         string
	authProvider          string
	errorTrackingProvider string
	logLevel              string
	swaggerEnabled        bool
	performanceMode       bool
	cacheTTL              time.Duration

	databaseDSN   string
	sqlitePath    string
	mongoURL      string
	redisHost     string
	redisPort     string
	redisPassword string
	apiKey        string
	apiKeyHash    string
	jwtSecret     string
	sentryDSN     string
	bugsnagAPIKey string
	posthogAPIKey string
	logFile       string
}

// Load 读取环境变量并构建特性开关快照
// 枚举值非法或必需的配套配置缺失时返回聚合后的错误，列出所有违规项
func Load() (*FeatureFlags, error) {
	f := &FeatureFlags{
		dbProvider:            getEnvWithDefault("DB_PROVIDER", DBProviderPostgres),
		cacheProvider:         getEnvWithDefault("CACHE_PROVIDER", CacheProviderMemory),
		authProvider:          getEnvWithDefault("AUTH_PROVIDER", AuthProviderNone),
		errorTrackingProvider: getEnvWithDefault("ERROR_TRACKING_PROVIDER", ErrorTrackingNone),
		logLevel:              getEnvWithDefault("LOG_LEVEL", "info"),
		sqlitePath:            getEnvWithDefault("SQLITE_PATH", "todos.db"),
		mongoURL:              os.Getenv("MONGO_URL"),
		redisHost:             os.Getenv("REDIS_HOST"),
		redisPort:             getEnvWithDefault("REDIS_PORT", "6379"),
		redisPassword:         os.Getenv("REDIS_PASSWORD"),
		apiKey:                os.Getenv("AUTH_API_KEY"),
		apiKeyHash:            os.Getenv("AUTH_API_KEY_HASH"),
		jwtSecret:             os.Getenv("JWT_SECRET"),
		sentryDSN:             os.Getenv("SENTRY_DSN"),
		bugsnagAPIKey:         os.Getenv("BUGSNAG_API_KEY"),
		posthogAPIKey:         os.Getenv("POSTHOG_API_KEY"),
		logFile:               os.Getenv("LOG_FILE"),
	}

	var violations []string

	// 枚举成员校验
	if !contains(validDBProviders, f.dbProvider) {
		violations = append(violations, fmt.Sprintf("DB_PROVIDER 取值非法: %q，合法值: %s", f.dbProvider, strings.Join(validDBProviders, "/")))
	}
	if !contains(validCacheProviders, f.cacheProvider) {
		violations = append(violations, fmt.Sprintf("CACHE_PROVIDER 取值非法: %q，合法值: %s", f.cacheProvider, strings.Join(validCacheProviders, "/")))
	}
	if !contains(validAuthProviders, f.authProvider) {
		violations = append(violations, fmt.Sprintf("AUTH_PROVIDER 取值非法: %q，合法值: %s", f.authProvider, strings.Join(validAuthProviders, "/")))
	}
	if !contains(validErrorTrackers, f.errorTrackingProvider) {
		violations = append(violations, fmt.Sprintf("ERROR_TRACKING_PROVIDER 取值非法: %q，合法值: %s", f.errorTrackingProvider, strings.Join(validErrorTrackers, "/")))
	}
	if !contains(validLogLevels, f.logLevel) {
		violations = append(violations, fmt.Sprintf("LOG_LEVEL 取值非法: %q，合法值: %s", f.logLevel, strings.Join(validLogLevels, "/")))
	}

	// 布尔与数值解析
	var err error
	if f.swaggerEnabled, err = parseBool("SWAGGER_ENABLED", true); err != nil {
		violations = append(violations, err.Error())
	}
	if f.performanceMode, err = parseBool("PERFORMANCE_MODE", false); err != nil {
		violations = append(violations, err.Error())
	}

	ttlSeconds := 60
	if val := os.Getenv("CACHE_TTL_SECONDS"); val != "" {
		ttlSeconds, err = cast.ToIntE(val)
		if err != nil || ttlSeconds <= 0 {
			violations = append(violations, fmt.Sprintf("CACHE_TTL_SECONDS 必须为正整数: %q", val))
		}
	}
	f.cacheTTL = time.Duration(ttlSeconds) * time.Second

	// 交叉校验：所选提供者需要的配套配置
	switch f.dbProvider {
	case DBProviderPostgres:
		f.databaseDSN = buildPostgresDSN()
	case DBProviderMongoDB:
		if f.mongoURL == "" {
			violations = append(violations, "DB_PROVIDER=mongodb 时必须设置 MONGO_URL")
		}
	}

	if f.cacheProvider == CacheProviderRedis && f.redisHost == "" {
		violations = append(violations, "CACHE_PROVIDER=redis 时必须设置 REDIS_HOST")
	}

	switch f.authProvider {
	case AuthProviderAPIKey:
		if f.apiKey == "" && f.apiKeyHash == "" {
			violations = append(violations, "AUTH_PROVIDER=apikey 时必须设置 AUTH_API_KEY 或 AUTH_API_KEY_HASH")
		}
	case AuthProviderJWT:
		if f.jwtSecret == "" {
			violations = append(violations, "AUTH_PROVIDER=jwt 时必须设置 JWT_SECRET")
		}
	}

	switch f.errorTrackingProvider {
	case ErrorTrackingSentry:
		if f.sentryDSN == "" {
			violations = append(violations, "ERROR_TRACKING_PROVIDER=sentry 时必须设置 SENTRY_DSN")
		}
	case ErrorTrackingBugsnag:
		if f.bugsnagAPIKey == "" {
			violations = append(violations, "ERROR_TRACKING_PROVIDER=bugsnag 时必须设置 BUGSNAG_API_KEY")
		}
	case ErrorTrackingPostHog:
		if f.posthogAPIKey == "" {
			violations = append(violations, "ERROR_TRACKING_PROVIDER=posthog 时必须设置 POSTHOG_API_KEY")
		}
	}

	if len(violations) > 0 {
		return nil, fmt.Errorf("特性开关配置校验失败:\n  - %s", strings.Join(violations, "\n  - "))
	}

	return f, nil
}

// 只读访问器

func (f *FeatureFlags) DBProvider() string            { return f.dbProvider }
func (f *FeatureFlags) CacheProvider() string         { return f.cacheProvider }
func (f *FeatureFlags) AuthProvider() string          { return f.authProvider }
func (f *FeatureFlags) ErrorTrackingProvider() string { return f.errorTrackingProvider }
func (f *FeatureFlags) LogLevel() string              { return f.logLevel }
func (f *FeatureFlags) SwaggerEnabled() bool          { return f.swaggerEnabled }
func (f *FeatureFlags) PerformanceMode() bool         { return f.performanceMode }
func (f *FeatureFlags) CacheTTL() time.Duration       { return f.cacheTTL }
func (f *FeatureFlags) DatabaseDSN() string           { return f.databaseDSN }
func (f *FeatureFlags) SQLitePath() string            { return f.sqlitePath }
func (f *FeatureFlags) MongoURL() string              { return f.mongoURL }
func (f *FeatureFlags) RedisAddr() string             { return f.redisHost + ":" + f.redisPort }
func (f *FeatureFlags) RedisPassword() string         { return f.redisPassword }
func (f *FeatureFlags) APIKey() string                { return f.apiKey }
func (f *FeatureFlags) APIKeyHash() string            { return f.apiKeyHash }
func (f *FeatureFlags) JWTSecret() string             { return f.jwtSecret }
func (f *FeatureFlags) SentryDSN() string             { return f.sentryDSN }
func (f *FeatureFlags) BugsnagAPIKey() string         { return f.bugsnagAPIKey }
func (f *FeatureFlags) PostHogAPIKey() string         { return f.posthogAPIKey }
func (f *FeatureFlags) LogFile() string               { return f.logFile }

// buildPostgresDSN 构建Postgres连接串，优先使用DATABASE_URL环境变量
func buildPostgresDSN() string {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		return databaseURL
	}

	host := getEnvWithDefault("DB_HOST", "localhost")
	port := getEnvWithDefault("DB_PORT", "5432")
	user := getEnvWithDefault("DB_USER", "postgres")
	password := getEnvWithDefault("DB_PASSWORD", "postgres")
	dbname := getEnvWithDefault("DB_NAME", "todos")
	sslmode := getEnvWithDefault("DB_SSLMODE", "disable")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)
}

// parseBool 解析布尔环境变量，非法取值计入违规
func parseBool(key string, defaultValue bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue, nil
	}
	parsed, err := cast.ToBoolE(val)
	if err != nil {
		return defaultValue, fmt.Errorf("%s 必须为布尔值: %q", key, val)
	}
	return parsed, nil
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}
