/*
 * @module service/repositories/sql_repository
 * @description 基于原生database/sql的待办事项存储实现（SQLite）
 * @architecture 仓储模式 - 查询构建实现
 * @stateFlow CRUD请求 -> SQL语句 -> SQLite
 * @rules 时间以RFC3339Nano文本存储，标签与元数据以JSON文本存储
 * @dependencies database/sql, github.com/mattn/go-sqlite3
 * @refs service/repositories/repository.go, service/database/database.go
 */

package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"todohub-service/service/models"
)

const todoColumns = "id, title, description, completed, priority, tags, due_date, metadata, created_at, updated_at"

// sqliteTimeLayout 定宽UTC时间文本：小数秒补齐9位且时区恒为Z，
// 保证 ORDER BY 的字典序与时间序一致
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatSQLiteTime 归一化为UTC定宽文本后存储
func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

// SQLTodoRepository 原生SQL存储实现
type SQLTodoRepository struct {
	db *sql.DB
}

// NewSQLTodoRepository 创建原生SQL存储实例
func NewSQLTodoRepository(db *sql.DB) *SQLTodoRepository {
	return &SQLTodoRepository{db: db}
}

// Create 保存新的待办事项
func (r *SQLTodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	tags, metadata, err := marshalJSONColumns(todo)
	if err != nil {
		return err
	}

	query := `INSERT INTO todos (` + todoColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		todo.ID, todo.Title, todo.Description, todo.Completed, todo.Priority,
		tags, nullableTime(todo.DueDate), metadata,
		formatSQLiteTime(todo.CreatedAt), formatSQLiteTime(todo.UpdatedAt))
	if err != nil {
		return fmt.Errorf("写入待办事项失败: %w", err)
	}
	return nil
}

// GetAll 返回所有待办事项，按创建时间倒序
func (r *SQLTodoRepository) GetAll(ctx context.Context) ([]models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY created_at DESC`
	return r.queryTodos(ctx, query)
}

// GetByID 根据ID获取待办事项，缺失时返回 ErrTodoNotFound
func (r *SQLTodoRepository) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	todo, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

// Update 整体写回已合并的记录，目标不存在时返回 ErrTodoNotFound
func (r *SQLTodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	tags, metadata, err := marshalJSONColumns(todo)
	if err != nil {
		return err
	}

	query := `UPDATE todos SET title = ?, description = ?, completed = ?, priority = ?,
		tags = ?, due_date = ?, metadata = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		todo.Title, todo.Description, todo.Completed, todo.Priority,
		tags, nullableTime(todo.DueDate), metadata,
		formatSQLiteTime(todo.UpdatedAt), todo.ID)
	if err != nil {
		return fmt.Errorf("更新待办事项失败: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrTodoNotFound
	}
	return nil
}

// Delete 删除并返回被删除的记录，缺失时返回 ErrTodoNotFound
func (r *SQLTodoRepository) Delete(ctx context.Context, id string) (*models.Todo, error) {
	todo, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("删除待办事项失败: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, models.ErrTodoNotFound
	}
	return todo, nil
}

// DeleteAll 删除所有待办事项，返回删除数量（仅测试/维护路径使用）
func (r *SQLTodoRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todos`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// GetByCompleted 按完成状态过滤，按创建时间倒序
func (r *SQLTodoRepository) GetByCompleted(ctx context.Context, completed bool) ([]models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE completed = ? ORDER BY created_at DESC`
	return r.queryTodos(ctx, query, completed)
}

// GetByTags 返回标签与给定集合有交集的待办事项（任意匹配），空入参返回空结果
func (r *SQLTodoRepository) GetByTags(ctx context.Context, tags []string) ([]models.Todo, error) {
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
func (r *SQLTodoRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// queryTodos 执行查询并扫描结果集
func (r *SQLTodoRepository) queryTodos(ctx context.Context, query string, args ...interface{}) ([]models.Todo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询待办事项失败: %w", err)
	}
	defer rows.Close()

	todos := make([]models.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	return todos, rows.Err()
}

// rowScanner 兼容 *sql.Row 和 *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanTodo 扫描单行记录并还原JSON列与时间列
func scanTodo(row rowScanner) (*models.Todo, error) {
	var todo models.Todo
	var tagsJSON string
	var metadataJSON, dueDate sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Completed, &todo.Priority,
		&tagsJSON, &dueDate, &metadataJSON, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tagsJSON), &todo.Tags); err != nil {
		return nil, fmt.Errorf("解析标签列失败: %w", err)
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &todo.Metadata); err != nil {
			return nil, fmt.Errorf("解析元数据列失败: %w", err)
		}
	}
	if dueDate.Valid && dueDate.String != "" {
		t, err := time.Parse(time.RFC3339Nano, dueDate.String)
		if err != nil {
			return nil, fmt.Errorf("解析截止时间失败: %w", err)
		}
		todo.DueDate = &t
	}
	if todo.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("解析创建时间失败: %w", err)
	}
	if todo.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("解析更新时间失败: %w", err)
	}
	return &todo, nil
}

// marshalJSONColumns 序列化标签与元数据列
func marshalJSONColumns(todo *models.Todo) (string, sql.NullString, error) {
	tags := todo.Tags
	if tags == nil {
		tags = models.StringList{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return "", sql.NullString{}, fmt.Errorf("序列化标签失败: %w", err)
	}

	var metadata sql.NullString
	if todo.Metadata != nil {
		metadataJSON, err := json.Marshal(todo.Metadata)
		if err != nil {
			return "", sql.NullString{}, fmt.Errorf("序列化元数据失败: %w", err)
		}
		metadata = sql.NullString{String: string(metadataJSON), Valid: true}
	}
	return string(tagsJSON), metadata, nil
}

// nullableTime 将可选时间转换为可空文本列
func nullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatSQLiteTime(*t), Valid: true}
}
