/*
 * @module service/todo/service
 * @description 待办事项业务服务，提供输入校验、默认值填充、部分更新合并、读路径缓存与异常上报
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 输入校验 -> 仓储调用 -> 缓存维护 -> 结果返回
 * @rules 未指定字段保持不变；updated_at 每次变更刷新；写操作按 todos:* 模式失效缓存
 * @dependencies todohub-service/service/repositories, todohub-service/service/cache, todohub-service/service/errortracking
 * @refs api/controllers/todo_controller.go
 */

package todo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"todohub-service/service/cache"
	"todohub-service/service/errortracking"
	"todohub-service/service/models"
	"todohub-service/service/repositories"

	"github.com/google/uuid"
)

// 缓存键
const (
	cacheKeyAll           = "todos:all"
	cacheKeyByIDPrefix    = "todos:id:"
	cacheKeyCompletedTrue = "todos:completed:true"
	cacheKeyCompletedNone = "todos:completed:false"
	cacheKeyPattern       = "todos:*"
)

// Service 待办事项业务服务
type Service struct {
	repo     repositories.TodoRepository
	cache    cache.Cache
	tracker  errortracking.ErrorTracker
	cacheTTL time.Duration
}

// NewService 创建待办事项业务服务实例
func NewService(repo repositories.TodoRepository, c cache.Cache, tracker errortracking.ErrorTracker, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		cache:    c,
		tracker:  tracker,
		cacheTTL: cacheTTL,
	}
}

// Create 校验输入、填充系统字段与默认值后保存新待办事项
// 省略字段的默认值: completed=false, priority=medium, tags=[]
func (s *Service) Create(ctx context.Context, input *models.CreateTodoInput) (*models.Todo, error) {
	if err := models.ValidateStruct(input); err != nil {
		return nil, err
	}

	now := time.Now()
	todo := &models.Todo{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Completed:   false,
		Priority:    models.PriorityMedium,
		Tags:        models.StringList{},
		DueDate:     input.DueDate,
		Metadata:    input.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.Priority != "" {
		todo.Priority = input.Priority
	}
	if input.Tags != nil {
		todo.Tags = models.StringList(input.Tags)
	}

	s.tracker.AddBreadcrumb("todo", "创建待办事项", map[string]interface{}{"id": todo.ID})

	if err := s.repo.Create(ctx, todo); err != nil {
		s.captureError(err, "create", todo.ID)
		return nil, err
	}

	s.invalidateCache(ctx)
	return todo, nil
}

// GetAll 返回所有待办事项，按创建时间倒序，读路径走缓存
func (s *Service) GetAll(ctx context.Context) ([]models.Todo, error) {
	if todos, ok := s.getCachedList(ctx, cacheKeyAll); ok {
		return todos, nil
	}

	todos, err := s.repo.GetAll(ctx)
	if err != nil {
		s.captureError(err, "get_all", "")
		return nil, err
	}

	s.setCachedValue(ctx, cacheKeyAll, todos)
	return todos, nil
}

// GetByID 根据ID获取待办事项，缺失时返回 ErrTodoNotFound
func (s *Service) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	key := cacheKeyByIDPrefix + id
	if data, ok := s.cache.Get(ctx, key); ok {
		var todo models.Todo
		if err := json.Unmarshal(data, &todo); err == nil {
			return &todo, nil
		}
	}

	todo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, models.ErrTodoNotFound) {
			s.captureError(err, "get_by_id", id)
		}
		return nil, err
	}

	s.setCachedValue(ctx, key, todo)
	return todo, nil
}

// Update 部分更新待办事项：仅合并已提供的字段，刷新 updated_at
// 目标不存在时返回 ErrTodoNotFound；空补丁仅刷新 updated_at
func (s *Service) Update(ctx context.Context, id string, input *models.UpdateTodoInput) (*models.Todo, error) {
	if err := models.ValidateStruct(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, models.ErrTodoNotFound) {
			s.captureError(err, "update", id)
		}
		return nil, err
	}

	applyPatch(existing, input)

	// updated_at 必须严格递增，即使补丁为空
	now := time.Now()
	if !now.After(existing.UpdatedAt) {
		now = existing.UpdatedAt.Add(time.Nanosecond)
	}
	existing.UpdatedAt = now

	s.tracker.AddBreadcrumb("todo", "更新待办事项", map[string]interface{}{"id": id})

	if err := s.repo.Update(ctx, existing); err != nil {
		if !errors.Is(err, models.ErrTodoNotFound) {
			s.captureError(err, "update", id)
		}
		return nil, err
	}

	s.invalidateCache(ctx)
	return existing, nil
}

// Delete 删除并返回被删除的记录，缺失时返回 ErrTodoNotFound，从不静默跳过
func (s *Service) Delete(ctx context.Context, id string) (*models.Todo, error) {
	s.tracker.AddBreadcrumb("todo", "删除待办事项", map[string]interface{}{"id": id})

	todo, err := s.repo.Delete(ctx, id)
	if err != nil {
		if !errors.Is(err, models.ErrTodoNotFound) {
			s.captureError(err, "delete", id)
		}
		return nil, err
	}

	s.invalidateCache(ctx)
	return todo, nil
}

// DeleteAll 删除所有待办事项，返回删除数量（仅测试/维护路径使用）
func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	s.tracker.AddBreadcrumb("todo", "清空待办事项", nil)

	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		s.captureError(err, "delete_all", "")
		return 0, err
	}

	s.invalidateCache(ctx)
	return deleted, nil
}

// GetByCompleted 按完成状态过滤，按创建时间倒序
func (s *Service) GetByCompleted(ctx context.Context, completed bool) ([]models.Todo, error) {
	key := cacheKeyCompletedNone
	if completed {
		key = cacheKeyCompletedTrue
	}
	if todos, ok := s.getCachedList(ctx, key); ok {
		return todos, nil
	}

	todos, err := s.repo.GetByCompleted(ctx, completed)
	if err != nil {
		s.captureError(err, "get_by_completed", "")
		return nil, err
	}

	s.setCachedValue(ctx, key, todos)
	return todos, nil
}

// GetByTags 返回标签与给定集合有交集的待办事项（任意匹配），空入参返回空结果
// 标签组合的键空间无界，该读路径不走缓存
func (s *Service) GetByTags(ctx context.Context, tags []string) ([]models.Todo, error) {
	todos, err := s.repo.GetByTags(ctx, tags)
	if err != nil {
		s.captureError(err, "get_by_tags", "")
		return nil, err
	}
	return todos, nil
}

// Ping 底层存储连通性检查
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// applyPatch 将补丁中已提供的字段合并进现有记录
func applyPatch(todo *models.Todo, input *models.UpdateTodoInput) {
	if input.Title != nil {
		todo.Title = *input.Title
	}
	if input.Description != nil {
		todo.Description = *input.Description
	}
	if input.Completed != nil {
		todo.Completed = *input.Completed
	}
	if input.Priority != nil {
		todo.Priority = *input.Priority
	}
	if input.Tags != nil {
		// 指向nil切片的指针视为显式清空，归一化为空列表，避免响应渲染出 "tags":null
		todo.Tags = models.StringList(*input.Tags)
		if todo.Tags == nil {
			todo.Tags = models.StringList{}
		}
	}
	if input.DueDate != nil {
		todo.DueDate = input.DueDate
	}
	if input.Metadata != nil {
		todo.Metadata = models.Metadata(input.Metadata)
	}
}

// getCachedList 读取缓存中的列表
func (s *Service) getCachedList(ctx context.Context, key string) ([]models.Todo, bool) {
	data, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var todos []models.Todo
	if err := json.Unmarshal(data, &todos); err != nil {
		return nil, false
	}
	return todos, true
}

// setCachedValue 序列化并写入缓存，失败静默跳过
func (s *Service) setCachedValue(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, data, s.cacheTTL)
}

// invalidateCache 写操作后按键模式失效所有待办事项缓存
func (s *Service) invalidateCache(ctx context.Context) {
	s.cache.DeletePattern(ctx, cacheKeyPattern)
}

// captureError 上报存储层异常，上报本身从不影响请求
func (s *Service) captureError(err error, operation, id string) {
	metadata := map[string]interface{}{"operation": operation}
	if id != "" {
		metadata["todo_id"] = id
	}
	s.tracker.CaptureException(fmt.Errorf("todo %s: %w", operation, err), metadata)
}
