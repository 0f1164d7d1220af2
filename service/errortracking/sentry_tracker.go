/*
 * @module service/errortracking/sentry_tracker
 * @description Sentry错误追踪实现
 * @architecture 提供者模式 - 厂商SDK封装
 * @stateFlow 初始化SDK -> 捕获异常/面包屑 -> 异步上报
 * @rules 上报失败由SDK内部处理，初始化失败阻止启动
 * @dependencies github.com/getsentry/sentry-go
 * @refs service/errortracking/errortracking.go
 */

package errortracking

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryTracker Sentry错误追踪实现
type SentryTracker struct{}

// NewSentryTracker 初始化Sentry SDK
func NewSentryTracker(dsn string) (*SentryTracker, error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry初始化失败: %w", err)
	}

	slog.Info("Sentry错误追踪初始化成功")
	return &SentryTracker{}, nil
}

// CaptureException 上报异常及其附加元数据
func (t *SentryTracker) CaptureException(err error, metadata map[string]interface{}) {
	sentry.WithScope(func(scope *sentry.Scope) {
		if len(metadata) > 0 {
			scope.SetExtras(metadata)
		}
		sentry.CaptureException(err)
	})
}

// SetUser 设置当前作用域的用户信息
func (t *SentryTracker) SetUser(id, email string) {
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetUser(sentry.User{ID: id, Email: email})
	})
}

// AddBreadcrumb 记录面包屑
func (t *SentryTracker) AddBreadcrumb(category, message string, data map[string]interface{}) {
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Category:  category,
		Message:   message,
		Data:      data,
		Level:     sentry.LevelInfo,
		Timestamp: time.Now(),
	})
}

// Flush 等待缓冲事件发送完成
func (t *SentryTracker) Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
