/*
 * @module service/errortracking/errortracking
 * @description 错误追踪抽象与提供者选择器，按特性开关绑定一个外部上报后端或空实现
 * @architecture 提供者模式 - 启动时绑定唯一实现
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 异常捕获 -> 异步上报外部服务；上报失败仅记录日志，从不向调用方传播
 * @rules 错误追踪自身的故障绝不能导致请求失败
 * @dependencies github.com/getsentry/sentry-go, github.com/bugsnag/bugsnag-go/v2, github.com/posthog/posthog-go
 * @refs service/todo/service.go
 */

package errortracking

import (
	"fmt"
	"time"

	"todohub-service/service/featureflags"
)

// ErrorTracker 错误追踪契约
// 所有方法均为即发即弃：外部服务不可达时在本地记录日志并吞掉错误
type ErrorTracker interface {
	CaptureException(err error, metadata map[string]interface{})
	SetUser(id, email string)
	AddBreadcrumb(category, message string, data map[string]interface{})
	Flush(timeout time.Duration)
}

// NewErrorTracker 按特性开关选择错误追踪实现，进程启动时调用一次
func NewErrorTracker(flags *featureflags.FeatureFlags) (ErrorTracker, error) {
	switch flags.ErrorTrackingProvider() {
	case featureflags.ErrorTrackingNone:
		return NewNoopTracker(), nil
	case featureflags.ErrorTrackingSentry:
		return NewSentryTracker(flags.SentryDSN())
	case featureflags.ErrorTrackingBugsnag:
		return NewBugsnagTracker(flags.BugsnagAPIKey())
	case featureflags.ErrorTrackingPostHog:
		return NewPostHogTracker(flags.PostHogAPIKey())
	default:
		// Load() 已做枚举校验，此分支不可达
		return nil, fmt.Errorf("未知的错误追踪提供者: %s", flags.ErrorTrackingProvider())
	}
}

// NoopTracker 空实现，未启用错误追踪时使用
type NoopTracker struct{}

// NewNoopTracker 创建空实现实例
func NewNoopTracker() *NoopTracker {
	return &NoopTracker{}
}

func (t *NoopTracker) CaptureException(err error, metadata map[string]interface{}) {}

func (t *NoopTracker) SetUser(id, email string) {}

func (t *NoopTracker) AddBreadcrumb(category, message string, data map[string]interface{}) {}

func (t *NoopTracker) Flush(timeout time.Duration) {}
