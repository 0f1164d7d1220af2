/*
 * @module api/controllers/health_controller
 * @description 健康检查控制器，提供服务健康状态检查与所选提供者报告
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 提供简单的健康检查接口，用于容器健康检查和负载均衡
 * @dependencies net/http
 * @refs dev_docs/model.md
 */

package controllers

import (
	"context"
	"net/http"
	"time"

	"todohub-service/service/cache"
	"todohub-service/service/featureflags"
	"todohub-service/service/todo"

	"github.com/go-chi/render"
)

// HealthController 健康检查控制器
type HealthController struct {
	flags   *featureflags.FeatureFlags
	service *todo.Service
	cache   cache.Cache
}

// NewHealthController 创建健康检查控制器实例
func NewHealthController(flags *featureflags.FeatureFlags, service *todo.Service, c cache.Cache) *HealthController {
	return &HealthController{flags: flags, service: service, cache: c}
}

// HealthResponse 健康检查响应结构
type HealthResponse struct {
	Status    string            `json:"status" example:"ok"`
	Timestamp time.Time         `json:"timestamp" example:"2024-01-01T00:00:00Z"`
	Version   string            `json:"version" example:"1.0.0"`
	Service   string            `json:"service" example:"todohub-service"`
	Providers map[string]string `json:"providers,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health 健康检查
// @Summary 健康检查
// @Description 检查服务健康状态，报告各子系统所选提供者及数据库、缓存连通性
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Service:   "todohub-service",
		Providers: map[string]string{
			"database":       c.flags.DBProvider(),
			"cache":          c.flags.CacheProvider(),
			"auth":           c.flags.AuthProvider(),
			"error_tracking": c.flags.ErrorTrackingProvider(),
		},
		Checks: map[string]string{},
	}

	if err := c.service.Ping(ctx); err != nil {
		response.Status = "degraded"
		response.Checks["database"] = err.Error()
	} else {
		response.Checks["database"] = "ok"
	}

	if err := c.cache.Ping(ctx); err != nil {
		response.Status = "degraded"
		response.Checks["cache"] = err.Error()
	} else {
		response.Checks["cache"] = "ok"
	}

	if response.Status != "ok" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, response)
}

// Ready 就绪检查
// @Summary 就绪检查
// @Description 检查服务是否就绪
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /ready [get]
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Service:   "todohub-service",
	}

	render.JSON(w, r, response)
}
