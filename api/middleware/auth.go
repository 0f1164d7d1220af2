/*
 * @module api/middleware/auth
 * @description 鉴权中间件，按特性开关选择无鉴权、API Key或JWT三种模式之一
 * @architecture 中间件模式 - HTTP请求拦截和验证
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 白名单检查 -> 凭证提取 -> 凭证验证 -> 上下文注入 -> 下一个处理器
 * @rules 统一鉴权、安全验证、错误处理；健康检查与文档路径不需要鉴权
 * @dependencies github.com/golang-jwt/jwt/v5, golang.org/x/crypto/bcrypt
 * @refs api/routes.go
 */

package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"todohub-service/service/featureflags"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ContextKey 上下文键类型
type ContextKey string

// UserKey 用户标识在上下文中的键
const UserKey ContextKey = "user"

// 白名单路径（不需要鉴权），支持前缀匹配
var whitelistPaths = []string{
	"/health",
	"/ready",
	"/metrics",
	"/swagger",
	"/api/health",
}

// NewAuthMiddleware 按特性开关创建鉴权中间件，进程启动时调用一次
// AUTH_PROVIDER=none 时返回nil，路由层跳过挂载
func NewAuthMiddleware(flags *featureflags.FeatureFlags) func(http.Handler) http.Handler {
	switch flags.AuthProvider() {
	case featureflags.AuthProviderAPIKey:
		return apiKeyMiddleware(flags.APIKey(), flags.APIKeyHash())
	case featureflags.AuthProviderJWT:
		return jwtMiddleware(flags.JWTSecret())
	default:
		return nil
	}
}

// IsWhitelistPath 检查路径是否在白名单中
func IsWhitelistPath(path string) bool {
	for _, whitelistPath := range whitelistPaths {
		if strings.HasPrefix(path, whitelistPath) {
			return true
		}
	}
	return false
}

// apiKeyMiddleware API Key鉴权：X-API-Key请求头与配置的明文或bcrypt散列比对
func apiKeyMiddleware(apiKey, apiKeyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsWhitelistPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-API-Key")
			if provided == "" {
				respondUnauthorized(w, r, "缺少X-API-Key请求头")
				return
			}

			if !apiKeyMatches(provided, apiKey, apiKeyHash) {
				respondUnauthorized(w, r, "API Key无效")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// apiKeyMatches 明文路径使用常数时间比较，散列路径使用bcrypt
func apiKeyMatches(provided, apiKey, apiKeyHash string) bool {
	if apiKeyHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(apiKeyHash), []byte(provided)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) == 1
}

// jwtMiddleware JWT鉴权：验证Bearer Token并将subject注入上下文
func jwtMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsWhitelistPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondUnauthorized(w, r, "缺少Authorization头")
				return
			}
			if !strings.HasPrefix(authHeader, "Bearer ") {
				respondUnauthorized(w, r, "无效的Authorization格式，需要Bearer Token")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				respondUnauthorized(w, r, "Token无效")
				return
			}

			subject, _ := token.Claims.GetSubject()
			ctx := context.WithValue(r.Context(), UserKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext 从上下文中获取用户标识
func GetUserFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(UserKey).(string)
	return user, ok
}

// respondUnauthorized 返回401未授权响应
func respondUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	render.JSON(w, r, map[string]interface{}{
		"status":  http.StatusUnauthorized,
		"message": message,
		"error":   "Unauthorized",
	})
}
