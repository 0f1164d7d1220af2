/*
 * @module api/controllers/todo_controller
 * @description 待办事项API控制器，处理HTTP请求和响应
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/requirements.md
 * @stateFlow HTTP请求处理流程：每个操作一比一映射到一次业务服务调用
 * @rules 统一的错误处理和响应格式：校验失败返回400及逐字段错误，缺失返回404，其余返回500
 * @dependencies todohub-service/service/todo, github.com/go-chi/render
 * @refs dev_docs/model.md
 */

package controllers

import (
	"errors"
	"net/http"
	"strings"

	"todohub-service/service/models"
	"todohub-service/service/todo"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/spf13/cast"
)

// TodoController 待办事项控制器
type TodoController struct {
	service *todo.Service
}

// NewTodoController 创建待办事项控制器实例
func NewTodoController(service *todo.Service) *TodoController {
	return &TodoController{service: service}
}

// ListTodos 获取待办事项列表
// @Summary 获取待办事项列表
// @Description 返回所有待办事项，按创建时间倒序
// @Tags 待办事项
// @Produce json
// @Success 200 {array} models.Todo
// @Failure 500 {object} APIError
// @Router /todos [get]
func (c *TodoController) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := c.service.GetAll(r.Context())
	if err != nil {
		InternalErrorResponse(w, r, "查询待办事项失败")
		return
	}

	render.JSON(w, r, todos)
}

// CreateTodo 创建待办事项
// @Summary 创建待办事项
// @Description 创建新的待办事项，省略字段取默认值：completed=false, priority=medium, tags=[]
// @Tags 待办事项
// @Accept json
// @Produce json
// @Param todo body models.CreateTodoInput true "待办事项信息"
// @Success 201 {object} models.Todo
// @Failure 400 {object} APIError
// @Failure 500 {object} APIError
// @Router /todos [post]
func (c *TodoController) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var input models.CreateTodoInput
	if err := render.DecodeJSON(r.Body, &input); err != nil {
		BadRequestResponse(w, r, "请求参数格式错误", nil)
		return
	}

	created, err := c.service.Create(r.Context(), &input)
	if err != nil {
		c.renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}

// GetTodo 获取待办事项详情
// @Summary 获取待办事项详情
// @Description 根据ID获取待办事项详细信息
// @Tags 待办事项
// @Produce json
// @Param id path string true "待办事项ID"
// @Success 200 {object} models.Todo
// @Failure 404 {object} APIError
// @Failure 500 {object} APIError
// @Router /todos/{id} [get]
func (c *TodoController) GetTodo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		BadRequestResponse(w, r, "ID参数不能为空", nil)
		return
	}

	result, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		c.renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// UpdateTodo 部分更新待办事项
// @Summary 部分更新待办事项
// @Description 仅合并已提供的字段，未提供的字段保持不变；每次更新刷新updated_at
// @Tags 待办事项
// @Accept json
// @Produce json
// @Param id path string true "待办事项ID"
// @Param todo body models.UpdateTodoInput true "更新信息"
// @Success 200 {object} models.Todo
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Failure 500 {object} APIError
// @Router /todos/{id} [patch]
func (c *TodoController) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		BadRequestResponse(w, r, "ID参数不能为空", nil)
		return
	}

	var input models.UpdateTodoInput
	if err := render.DecodeJSON(r.Body, &input); err != nil {
		BadRequestResponse(w, r, "请求参数格式错误", nil)
		return
	}

	updated, err := c.service.Update(r.Context(), id, &input)
	if err != nil {
		c.renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, updated)
}

// DeleteTodo 删除待办事项
// @Summary 删除待办事项
// @Description 删除并返回被删除的记录
// @Tags 待办事项
// @Produce json
// @Param id path string true "待办事项ID"
// @Success 200 {object} models.Todo
// @Failure 404 {object} APIError
// @Failure 500 {object} APIError
// @Router /todos/{id} [delete]
func (c *TodoController) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		BadRequestResponse(w, r, "ID参数不能为空", nil)
		return
	}

	deleted, err := c.service.Delete(r.Context(), id)
	if err != nil {
		c.renderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, deleted)
}

// DeleteAllTodos 清空待办事项
// @Summary 清空待办事项
// @Description 删除所有待办事项，返回删除数量（仅测试/维护路径使用）
// @Tags 待办事项
// @Produce json
// @Success 200 {object} map[string]int64
// @Failure 500 {object} APIError
// @Router /todos [delete]
func (c *TodoController) DeleteAllTodos(w http.ResponseWriter, r *http.Request) {
	deleted, err := c.service.DeleteAll(r.Context())
	if err != nil {
		InternalErrorResponse(w, r, "清空待办事项失败")
		return
	}

	render.JSON(w, r, map[string]int64{"deleted": deleted})
}

// ListTodosByCompleted 按完成状态过滤待办事项
// @Summary 按完成状态过滤
// @Description 返回指定完成状态的待办事项，status省略时默认为true
// @Tags 待办事项
// @Produce json
// @Param status query bool false "完成状态" default(true)
// @Success 200 {array} models.Todo
// @Failure 400 {object} APIError
// @Failure 500 {object} APIError
// @Router /todos/completed [get]
func (c *TodoController) ListTodosByCompleted(w http.ResponseWriter, r *http.Request) {
	completed := true
	if status := r.URL.Query().Get("status"); status != "" {
		parsed, err := cast.ToBoolE(status)
		if err != nil {
			BadRequestResponse(w, r, "status参数必须为布尔值", nil)
			return
		}
		completed = parsed
	}

	todos, err := c.service.GetByCompleted(r.Context(), completed)
	if err != nil {
		InternalErrorResponse(w, r, "查询待办事项失败")
		return
	}

	render.JSON(w, r, todos)
}

// ListTodosByTags 按标签过滤待办事项
// @Summary 按标签过滤
// @Description 返回标签与给定集合有交集的待办事项（任意匹配），tags为空时返回空列表
// @Tags 待办事项
// @Produce json
// @Param tags query string false "逗号分隔的标签列表"
// @Success 200 {array} models.Todo
// @Failure 500 {object} APIError
// @Router /todos/by-tags [get]
func (c *TodoController) ListTodosByTags(w http.ResponseWriter, r *http.Request) {
	var tags []string
	if raw := r.URL.Query().Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}
	}

	todos, err := c.service.GetByTags(r.Context(), tags)
	if err != nil {
		InternalErrorResponse(w, r, "查询待办事项失败")
		return
	}

	render.JSON(w, r, todos)
}

// renderServiceError 将业务服务错误映射为HTTP响应
func (c *TodoController) renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		BadRequestResponse(w, r, "输入校验失败", validationErr.Fields)
	case errors.Is(err, models.ErrTodoNotFound):
		NotFoundResponse(w, r, "待办事项不存在")
	default:
		InternalErrorResponse(w, r, "服务内部错误")
	}
}
