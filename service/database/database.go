/*
 * @module service/database/database
 * @description 数据库连接初始化模块，为各存储提供者建立连接并完成表结构准备
 * @architecture 分层架构 - 基础设施层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 应用启动时按所选提供者执行一次连接与迁移
 * @rules 连接失败视为致命错误，由调用方决定终止启动
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres, github.com/mattn/go-sqlite3, go.mongodb.org/mongo-driver
 * @refs service/repositories/repository.go
 */

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"todohub-service/service/models"

	_ "github.com/mattn/go-sqlite3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgresDB 建立Postgres连接并自动迁移表结构
func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	if err := db.AutoMigrate(&models.Todo{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	slog.Info("Postgres数据库连接成功")
	return db, nil
}

// NewSQLiteDB 建立SQLite连接并创建表结构
func NewSQLiteDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("数据库打开失败: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	if err := createSQLiteSchema(db); err != nil {
		return nil, err
	}

	slog.Info("SQLite数据库连接成功", "path", path)
	return db, nil
}

// createSQLiteSchema 创建待办事项表
func createSQLiteSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS todos (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		completed INTEGER NOT NULL DEFAULT 0,
		priority TEXT NOT NULL DEFAULT 'medium',
		tags TEXT NOT NULL DEFAULT '[]',
		due_date TEXT,
		metadata TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos (created_at);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("创建todos表失败: %w", err)
	}
	return nil
}

// NewMongoClient 建立MongoDB连接并验证可达性
func NewMongoClient(ctx context.Context, url string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("MongoDB连接失败: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("MongoDB连通性检查失败: %w", err)
	}

	slog.Info("MongoDB数据库连接成功")
	return client, nil
}
