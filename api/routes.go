/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式；鉴权与指标中间件按特性开关挂载
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs dev_docs/model.md
 */

package api

import (
	"todohub-service/api/controllers"
	apimiddleware "todohub-service/api/middleware"
	"todohub-service/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 性能特性包：HTTP指标中间件
	if service.Flags.PerformanceMode() {
		r.Use(apimiddleware.Metrics)
	}

	// 鉴权中间件（AUTH_PROVIDER=none 时不挂载）
	if authMiddleware := apimiddleware.NewAuthMiddleware(service.Flags); authMiddleware != nil {
		r.Use(authMiddleware)
	}

	// 健康检查
	healthController := controllers.NewHealthController(service.Flags, service.GlobalTodoService, service.GlobalCache)
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthController.Health)

		// 待办事项管理
		r.Route("/todos", func(r chi.Router) {
			todoController := controllers.NewTodoController(service.GlobalTodoService)

			r.Get("/", todoController.ListTodos)
			r.Post("/", todoController.CreateTodo)
			r.Delete("/", todoController.DeleteAllTodos)

			// 过滤查询需要先于 {id} 注册
			r.Get("/completed", todoController.ListTodosByCompleted)
			r.Get("/by-tags", todoController.ListTodosByTags)

			r.Get("/{id}", todoController.GetTodo)
			r.Patch("/{id}", todoController.UpdateTodo)
			r.Delete("/{id}", todoController.DeleteTodo)
		})
	})
}
