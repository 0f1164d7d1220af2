/*
 * @module api/controllers/health_controller_test
 * @description 健康检查控制器测试
 * @architecture 测试层
 * @documentReference api/controllers/health_controller.go
 * @stateFlow 构造控制器 -> httptest请求 -> 状态与提供者报告断言
 * @rules 健康响应必须报告各子系统当前绑定的提供者
 * @dependencies github.com/stretchr/testify
 * @refs service/featureflags/featureflags.go
 */

package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todohub-service/service/cache"
	"todohub-service/service/errortracking"
	"todohub-service/service/featureflags"
	"todohub-service/service/repositories"
	"todohub-service/service/todo"
	"todohub-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthReportsProviders(t *testing.T) {
	t.Setenv("DB_PROVIDER", "sqlite")
	t.Setenv("CACHE_PROVIDER", "memory")
	t.Setenv("AUTH_PROVIDER", "none")
	t.Setenv("ERROR_TRACKING_PROVIDER", "none")

	flags, err := featureflags.Load()
	require.NoError(t, err)

	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)

	repo := repositories.NewGormTodoRepository(tdb.DB)
	svc := todo.NewService(repo, cache.NewNoopCache(), errortracking.NewNoopTracker(), time.Minute)
	controller := NewHealthController(flags, svc, cache.NewMemoryCache(time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	controller.Health(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, "todohub-service", response.Service)
	assert.Equal(t, "sqlite", response.Providers["database"])
	assert.Equal(t, "memory", response.Providers["cache"])
	assert.Equal(t, "none", response.Providers["auth"])
	assert.Equal(t, "none", response.Providers["error_tracking"])
	assert.Equal(t, "ok", response.Checks["database"])
	assert.Equal(t, "ok", response.Checks["cache"])
}

func TestReady(t *testing.T) {
	controller := NewHealthController(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	controller.Ready(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ready", response.Status)
}
