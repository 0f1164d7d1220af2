/*
 * @module service/repositories/repository
 * @description 待办事项存储抽象与提供者选择器，按特性开关在启动时绑定唯一实现
 * @architecture 仓储模式 - 一个契约，三个互换实现
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 特性开关快照 -> 连接初始化 -> 绑定实现（进程生命周期内不变）
 * @rules 所有实现必须满足相同语义：列表按创建时间倒序，缺失ID统一返回 ErrTodoNotFound，findByTags 空入参返回空结果
 * @dependencies todohub-service/service/database, todohub-service/service/featureflags
 * @refs service/init.go
 */

package repositories

import (
	"context"
	"fmt"

	"todohub-service/service/database"
	"todohub-service/service/featureflags"
	"todohub-service/service/models"
)

// TodoRepository 待办事项存储契约
// 读取缺失记录返回 models.ErrTodoNotFound 哨兵错误，从不因"未找到"而panic
type TodoRepository interface {
	Create(ctx context.Context, todo *models.Todo) error
	GetAll(ctx context.Context) ([]models.Todo, error)
	GetByID(ctx context.Context, id string) (*models.Todo, error)
	Update(ctx context.Context, todo *models.Todo) error
	Delete(ctx context.Context, id string) (*models.Todo, error)
	DeleteAll(ctx context.Context) (int64, error)
	GetByCompleted(ctx context.Context, completed bool) ([]models.Todo, error)
	GetByTags(ctx context.Context, tags []string) ([]models.Todo, error)
	Ping(ctx context.Context) error
}

// NewTodoRepository 按特性开关选择存储实现，进程启动时调用一次
func NewTodoRepository(ctx context.Context, flags *featureflags.FeatureFlags) (TodoRepository, error) {
	switch flags.DBProvider() {
	case featureflags.DBProviderPostgres:
		db, err := database.NewPostgresDB(flags.DatabaseDSN())
		if err != nil {
			return nil, fmt.Errorf("初始化Postgres存储失败: %w", err)
		}
		return NewGormTodoRepository(db), nil
	case featureflags.DBProviderSQLite:
		db, err := database.NewSQLiteDB(flags.SQLitePath())
		if err != nil {
			return nil, fmt.Errorf("初始化SQLite存储失败: %w", err)
		}
		return NewSQLTodoRepository(db), nil
	case featureflags.DBProviderMongoDB:
		client, err := database.NewMongoClient(ctx, flags.MongoURL())
		if err != nil {
			return nil, fmt.Errorf("初始化MongoDB存储失败: %w", err)
		}
		return NewMongoTodoRepository(client), nil
	default:
		// Load() 已做枚举校验，此分支不可达
		return nil, fmt.Errorf("未知的存储提供者: %s", flags.DBProvider())
	}
}
