/*
 * @module service/errortracking/bugsnag_tracker
 * @description Bugsnag错误追踪实现
 * @architecture 提供者模式 - 厂商SDK封装
 * @stateFlow 初始化SDK -> 捕获异常 -> 异步上报
 * @rules Go SDK没有面包屑API，面包屑在本地环形缓冲中保留并随异常一并上报
 * @dependencies github.com/bugsnag/bugsnag-go/v2
 * @refs service/errortracking/errortracking.go
 */

package errortracking

import (
	"log/slog"
	"sync"
	"time"

	bugsnag "github.com/bugsnag/bugsnag-go/v2"
)

const bugsnagBreadcrumbLimit = 20

// BugsnagTracker Bugsnag错误追踪实现
type BugsnagTracker struct {
	mu          sync.Mutex
	user        bugsnag.User
	breadcrumbs []map[string]interface{}
}

// NewBugsnagTracker 初始化Bugsnag SDK
func NewBugsnagTracker(apiKey string) (*BugsnagTracker, error) {
	bugsnag.Configure(bugsnag.Configuration{
		APIKey: apiKey,
		// 默认PanicHandler会fork子进程重启应用，这里不需要
		PanicHandler: func() {},
		Synchronous:  false,
	})

	slog.Info("Bugsnag错误追踪初始化成功")
	return &BugsnagTracker{}, nil
}

// CaptureException 上报异常及其附加元数据，失败仅记录日志
func (t *BugsnagTracker) CaptureException(err error, metadata map[string]interface{}) {
	t.mu.Lock()
	user := t.user
	crumbs := make([]map[string]interface{}, len(t.breadcrumbs))
	copy(crumbs, t.breadcrumbs)
	t.mu.Unlock()

	meta := bugsnag.MetaData{}
	if len(metadata) > 0 {
		meta["metadata"] = metadata
	}
	if len(crumbs) > 0 {
		meta["breadcrumbs"] = map[string]interface{}{"items": crumbs}
	}

	if notifyErr := bugsnag.Notify(err, meta, user); notifyErr != nil {
		slog.Warn("Bugsnag异常上报失败", "error", notifyErr)
	}
}

// SetUser 记录用户信息，随后续异常一并上报
func (t *BugsnagTracker) SetUser(id, email string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.user = bugsnag.User{Id: id, Email: email}
}

// AddBreadcrumb 在本地环形缓冲中记录面包屑
func (t *BugsnagTracker) AddBreadcrumb(category, message string, data map[string]interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.breadcrumbs = append(t.breadcrumbs, map[string]interface{}{
		"category":  category,
		"message":   message,
		"data":      data,
		"timestamp": time.Now().Format(time.RFC3339),
	})
	if len(t.breadcrumbs) > bugsnagBreadcrumbLimit {
		t.breadcrumbs = t.breadcrumbs[len(t.breadcrumbs)-bugsnagBreadcrumbLimit:]
	}
}

// Flush Bugsnag SDK内部管理发送队列，无需显式刷新
func (t *BugsnagTracker) Flush(timeout time.Duration) {}
