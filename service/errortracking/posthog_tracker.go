/*
 * @module service/errortracking/posthog_tracker
 * @description PostHog错误追踪实现，异常以 $exception 事件上报
 * @architecture 提供者模式 - 厂商SDK封装
 * @stateFlow 初始化SDK -> 入队事件 -> 批量异步上报
 * @rules 未设置用户时使用固定的匿名distinct_id；入队失败仅记录日志
 * @dependencies github.com/posthog/posthog-go
 * @refs service/errortracking/errortracking.go
 */

package errortracking

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/posthog/posthog-go"
)

const anonymousDistinctID = "todohub-service"

// PostHogTracker PostHog错误追踪实现
type PostHogTracker struct {
	client posthog.Client

	mu         sync.Mutex
	distinctID string
}

// NewPostHogTracker 初始化PostHog客户端
func NewPostHogTracker(apiKey string) (*PostHogTracker, error) {
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{})
	if err != nil {
		return nil, fmt.Errorf("posthog初始化失败: %w", err)
	}

	slog.Info("PostHog错误追踪初始化成功")
	return &PostHogTracker{client: client, distinctID: anonymousDistinctID}, nil
}

// CaptureException 以 $exception 事件上报异常，失败仅记录日志
func (t *PostHogTracker) CaptureException(err error, metadata map[string]interface{}) {
	properties := posthog.NewProperties().
		Set("$exception_message", err.Error())
	for key, value := range metadata {
		properties = properties.Set(key, value)
	}

	capture := posthog.Capture{
		DistinctId: t.currentDistinctID(),
		Event:      "$exception",
		Properties: properties,
	}
	if enqueueErr := t.client.Enqueue(capture); enqueueErr != nil {
		slog.Warn("PostHog异常上报失败", "error", enqueueErr)
	}
}

// SetUser 设置后续事件的distinct_id
func (t *PostHogTracker) SetUser(id, email string) {
	t.mu.Lock()
	t.distinctID = id
	t.mu.Unlock()

	identify := posthog.Identify{
		DistinctId: id,
		Properties: posthog.NewProperties().Set("email", email),
	}
	if err := t.client.Enqueue(identify); err != nil {
		slog.Warn("PostHog用户识别失败", "error", err)
	}
}

// AddBreadcrumb 以普通事件记录面包屑
func (t *PostHogTracker) AddBreadcrumb(category, message string, data map[string]interface{}) {
	properties := posthog.NewProperties().
		Set("category", category).
		Set("message", message)
	for key, value := range data {
		properties = properties.Set(key, value)
	}

	capture := posthog.Capture{
		DistinctId: t.currentDistinctID(),
		Event:      "breadcrumb",
		Properties: properties,
	}
	if err := t.client.Enqueue(capture); err != nil {
		slog.Warn("PostHog面包屑上报失败", "error", err)
	}
}

// Flush 关闭客户端以刷新发送队列
func (t *PostHogTracker) Flush(timeout time.Duration) {
	if err := t.client.Close(); err != nil {
		slog.Warn("PostHog刷新队列失败", "error", err)
	}
}

func (t *PostHogTracker) currentDistinctID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.distinctID
}
