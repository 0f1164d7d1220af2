/*
 * @module service/repositories/mongo_repository
 * @description 基于MongoDB官方驱动的待办事项存储实现
 * @architecture 仓储模式 - 文档数据库实现
 * @stateFlow CRUD请求 -> mongo-driver -> MongoDB
 * @rules UUID字符串直接作为 _id，列表查询按 created_at 倒序
 * @dependencies go.mongodb.org/mongo-driver
 * @refs service/repositories/repository.go
 */

package repositories

import (
	"context"
	"errors"
	"fmt"

	"todohub-service/service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoTodoRepository MongoDB存储实现
type MongoTodoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoTodoRepository 创建MongoDB存储实例
func NewMongoTodoRepository(client *mongo.Client) *MongoTodoRepository {
	return &MongoTodoRepository{
		client:     client,
		collection: client.Database("todos_db").Collection("todos"),
	}
}

// Create 保存新的待办事项
func (r *MongoTodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	if todo.Tags == nil {
		todo.Tags = models.StringList{}
	}
	if _, err := r.collection.InsertOne(ctx, todo); err != nil {
		return fmt.Errorf("写入待办事项失败: %w", err)
	}
	return nil
}

// GetAll 返回所有待办事项，按创建时间倒序
func (r *MongoTodoRepository) GetAll(ctx context.Context) ([]models.Todo, error) {
	return r.find(ctx, bson.M{})
}

// GetByID 根据ID获取待办事项，缺失时返回 ErrTodoNotFound
func (r *MongoTodoRepository) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	var todo models.Todo
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&todo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrTodoNotFound
		}
		return nil, fmt.Errorf("查询待办事项失败: %w", err)
	}
	return &todo, nil
}

// Update 整体写回已合并的记录，目标不存在时返回 ErrTodoNotFound
func (r *MongoTodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": todo.ID}, todo)
	if err != nil {
		return fmt.Errorf("更新待办事项失败: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrTodoNotFound
	}
	return nil
}

// Delete 删除并返回被删除的记录，缺失时返回 ErrTodoNotFound
func (r *MongoTodoRepository) Delete(ctx context.Context, id string) (*models.Todo, error) {
	var todo models.Todo
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&todo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrTodoNotFound
		}
		return nil, fmt.Errorf("删除待办事项失败: %w", err)
	}
	return &todo, nil
}

// DeleteAll 删除所有待办事项，返回删除数量（仅测试/维护路径使用）
func (r *MongoTodoRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("清空待办事项失败: %w", err)
	}
	return result.DeletedCount, nil
}

// GetByCompleted 按完成状态过滤，按创建时间倒序
func (r *MongoTodoRepository) GetByCompleted(ctx context.Context, completed bool) ([]models.Todo, error) {
	return r.find(ctx, bson.M{"completed": completed})
}

// GetByTags 返回标签与给定集合有交集的待办事项（任意匹配），空入参返回空结果
func (r *MongoTodoRepository) GetByTags(ctx context.Context, tags []string) ([]models.Todo, error) {
	if len(tags) == 0 {
		return make([]models.Todo, 0), nil
	}
	return r.find(ctx, bson.M{"tags": bson.M{"$in": tags}})
}

// Ping 数据库连通性检查
func (r *MongoTodoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

// find 执行过滤查询并解码结果集
func (r *MongoTodoRepository) find(ctx context.Context, filter bson.M) ([]models.Todo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("查询待办事项失败: %w", err)
	}
	defer cursor.Close(ctx)

	todos := make([]models.Todo, 0)
	if err := cursor.All(ctx, &todos); err != nil {
		return nil, fmt.Errorf("解码待办事项失败: %w", err)
	}
	return todos, nil
}
