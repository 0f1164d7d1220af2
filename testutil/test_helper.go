/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference dev_docs/test_plan.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, testify, time
 * @refs service/models
 */

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todohub-service/service/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建内存SQLite测试数据库并迁移待办事项表
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	if err := db.AutoMigrate(&models.Todo{}); err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清空待办事项表
func (tdb *TestDB) CleanDB() {
	tdb.DB.Exec("DELETE FROM todos")
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// TodoOption 待办事项选项函数类型
type TodoOption func(*models.Todo)

// WithTitle 指定标题
func WithTitle(title string) TodoOption {
	return func(t *models.Todo) { t.Title = title }
}

// WithCompleted 指定完成状态
func WithCompleted(completed bool) TodoOption {
	return func(t *models.Todo) { t.Completed = completed }
}

// WithPriority 指定优先级
func WithPriority(priority string) TodoOption {
	return func(t *models.Todo) { t.Priority = priority }
}

// WithTags 指定标签
func WithTags(tags ...string) TodoOption {
	return func(t *models.Todo) { t.Tags = models.StringList(tags) }
}

// WithCreatedAt 指定创建时间，用于构造确定的排序场景
func WithCreatedAt(at time.Time) TodoOption {
	return func(t *models.Todo) {
		t.CreatedAt = at
		t.UpdatedAt = at
	}
}

// NewTodo 构造测试待办事项，未指定的字段取与生产路径一致的默认值
func NewTodo(opts ...TodoOption) *models.Todo {
	now := time.Now().UTC().Truncate(time.Millisecond)
	todo := &models.Todo{
		ID:          uuid.NewString(),
		Title:       "测试待办事项",
		Description: "这是一个测试待办事项",
		Completed:   false,
		Priority:    models.PriorityMedium,
		Tags:        models.StringList{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, opt := range opts {
		opt(todo)
	}

	return todo
}

// HTTPTestHelper HTTP测试辅助工具
type HTTPTestHelper struct{}

// NewHTTPTestHelper 创建HTTP测试辅助工具
func NewHTTPTestHelper() *HTTPTestHelper {
	return &HTTPTestHelper{}
}

// CreateJSONRequest 创建JSON请求
func (h *HTTPTestHelper) CreateJSONRequest(method, url string, body interface{}) (*http.Request, error) {
	var reqBody io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// AssertJSONResponse 断言JSON响应
func (h *HTTPTestHelper) AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedBody interface{}) {
	assert.Equal(t, expectedStatus, w.Code)

	if expectedBody != nil {
		var actualBody interface{}
		err := json.Unmarshal(w.Body.Bytes(), &actualBody)
		assert.NoError(t, err)

		expectedJSON, _ := json.Marshal(expectedBody)
		actualJSON, _ := json.Marshal(actualBody)

		assert.JSONEq(t, string(expectedJSON), string(actualJSON))
	}
}
