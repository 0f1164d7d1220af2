/*
 * @module service/models/todo
 * @description 待办事项模型定义，包括实体、创建输入和部分更新输入
 * @architecture DDD领域驱动设计 - 实体模型
 * @documentReference dev_docs/model.md
 * @stateFlow 待办事项生命周期管理：创建 -> 部分更新 -> 删除
 * @rules ID由系统生成且不可变，updated_at 在每次变更时刷新且不早于 created_at
 * @dependencies gorm.io/gorm, go.mongodb.org/mongo-driver
 * @refs dev_docs/requirements.md
 */

package models

import (
	"time"
)

// 优先级枚举值
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Todo 待办事项模型
type Todo struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Title       string     `json:"title" gorm:"not null;size:200" bson:"title"`
	Description string     `json:"description" gorm:"size:1000" bson:"description"`
	Completed   bool       `json:"completed" gorm:"not null;default:false" bson:"completed"`
	Priority    string     `json:"priority" gorm:"not null;default:'medium';size:10" bson:"priority"` // low, medium, high
	Tags        StringList `json:"tags" gorm:"type:jsonb" bson:"tags"`
	DueDate     *time.Time `json:"due_date,omitempty" bson:"due_date,omitempty"`
	Metadata    Metadata   `json:"metadata,omitempty" gorm:"type:jsonb" bson:"metadata,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null;index" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"not null" bson:"updated_at"`
}

// TableName 指定数据库表名
func (Todo) TableName() string {
	return "todos"
}

// CreateTodoInput 创建待办事项的输入
type CreateTodoInput struct {
	Title       string                 `json:"title" validate:"required,min=1,max=200"`
	Description string                 `json:"description" validate:"omitempty,max=1000"`
	Priority    string                 `json:"priority" validate:"omitempty,oneof=low medium high"`
	Tags        []string               `json:"tags" validate:"omitempty,dive,max=50"`
	DueDate     *time.Time             `json:"due_date"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// UpdateTodoInput 部分更新待办事项的输入，nil 字段保持不变
// 指针字段使用 omitnil：显式提供的非法值（如空标题）必须被拒绝
type UpdateTodoInput struct {
	Title       *string                `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string                `json:"description" validate:"omitnil,max=1000"`
	Completed   *bool                  `json:"completed"`
	Priority    *string                `json:"priority" validate:"omitnil,oneof=low medium high"`
	Tags        *[]string              `json:"tags" validate:"omitnil,dive,max=50"`
	DueDate     *time.Time             `json:"due_date"`
	Metadata    map[string]interface{} `json:"metadata"`
}
