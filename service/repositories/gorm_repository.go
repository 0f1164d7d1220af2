/*
 * @module service/repositories/gorm_repository
 * @description 基于GORM的待办事项存储实现（Postgres运行时 / SQLite测试）
 * @architecture 仓储模式 - ORM实现
 * @stateFlow CRUD请求 -> GORM -> 数据库
 * @rules 标签过滤在内存中求交集，保证跨数据库方言语义一致
 * @dependencies gorm.io/gorm
 * @refs service/repositories/repository.go
 */

package repositories

import (
	"context"
	"errors"

	"todohub-service/service/models"

	"gorm.io/gorm"
)

// GormTodoRepository GORM存储实现
type GormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository 创建GORM存储实例
func NewGormTodoRepository(db *gorm.DB) *GormTodoRepository {
	return &GormTodoRepository{db: db}
}

// Create 保存新的待办事项
func (r *GormTodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

// GetAll 返回所有待办事项，按创建时间倒序
func (r *GormTodoRepository) GetAll(ctx context.Context) ([]models.Todo, error) {
	todos := make([]models.Todo, 0)
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&todos).Error
	return todos, err
}

// GetByID 根据ID获取待办事项，缺失时返回 ErrTodoNotFound
func (r *GormTodoRepository) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	var todo models.Todo
	err := r.db.WithContext(ctx).First(&todo, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrTodoNotFound
		}
		return nil, err
	}
	return &todo, nil
}

// Update 整体写回已合并的记录，目标不存在时返回 ErrTodoNotFound
func (r *GormTodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	// Select("*") 确保零值字段（如 completed=false）也会被写入；
	// UpdateColumns 跳过自动时间戳回调，updated_at 以服务层计算的值为准，
	// 保证响应体与存储一致
	result := r.db.WithContext(ctx).Model(&models.Todo{}).
		Where("id = ?", todo.ID).
		Select("*").Omit("id").
		UpdateColumns(todo)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrTodoNotFound
	}
	return nil
}

// Delete 删除并返回被删除的记录，缺失时返回 ErrTodoNotFound
func (r *GormTodoRepository) Delete(ctx context.Context, id string) (*models.Todo, error) {
	todo, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Delete(&models.Todo{}, "id = ?", id)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, models.ErrTodoNotFound
	}
	return todo, nil
}

// DeleteAll 删除所有待办事项，返回删除数量（仅测试/维护路径使用）
func (r *GormTodoRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Todo{})
	return result.RowsAffected, result.Error
}

// GetByCompleted 按完成状态过滤，按创建时间倒序
func (r *GormTodoRepository) GetByCompleted(ctx context.Context, completed bool) ([]models.Todo, error) {
	todos := make([]models.Todo, 0)
	err := r.db.WithContext(ctx).
		Where("completed = ?", completed).
		Order("created_at DESC").
		Find(&todos).Error
	return todos, err
}

// GetByTags 返回标签与给定集合有交集的待办事项（任意匹配），空入参返回空结果
func (r *GormTodoRepository) GetByTags(ctx context.Context, tags []string) ([]models.Todo, error) {
	matched := make([]models.Todo, 0)
	if len(tags) == 0 {
		return matched, nil
	}

	todos, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, todo := range todos {
		if todo.Tags.Intersects(tags) {
			matched = append(matched, todo)
		}
	}
	return matched, nil
}

// Ping 数据库连通性检查
func (r *GormTodoRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
