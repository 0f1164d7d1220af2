/*
 * @module service/repositories/repository_test
 * @description 存储契约测试，同一组用例跑在GORM与原生SQL实现上；设置MONGO_TEST_URL时MongoDB实现一并参与
 * @architecture 测试层 - 契约测试
 * @documentReference service/repositories/repository.go
 * @stateFlow 构造实现 -> 执行契约用例 -> 语义一致性断言
 * @rules 所有实现必须满足相同语义：倒序列表、缺失ID统一返回 ErrTodoNotFound、空标签入参返回空结果
 * @dependencies github.com/stretchr/testify, gorm.io/driver/sqlite, github.com/mattn/go-sqlite3
 * @refs service/database/database.go
 */

package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"todohub-service/service/database"
	"todohub-service/service/models"
	"todohub-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repositoryImplementations 返回所有参与契约测试的存储实现
// 设置 MONGO_TEST_URL 时 MongoDB 实现也参与同一组契约用例
func repositoryImplementations(t *testing.T) map[string]TodoRepository {
	t.Helper()

	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)

	sqlDB, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	impls := map[string]TodoRepository{
		"gorm": NewGormTodoRepository(tdb.DB),
		"sql":  NewSQLTodoRepository(sqlDB),
	}

	if url := os.Getenv("MONGO_TEST_URL"); url != "" {
		ctx := context.Background()
		client, err := database.NewMongoClient(ctx, url)
		require.NoError(t, err)
		t.Cleanup(func() { client.Disconnect(context.Background()) })

		repo := NewMongoTodoRepository(client)
		_, err = repo.DeleteAll(ctx)
		require.NoError(t, err)
		impls["mongo"] = repo
	}

	return impls
}

func TestRepositoryCreateAndGetByID(t *testing.T) {
	for name, repo := range repositoryImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			due := time.Now().UTC().Truncate(time.Second).Add(24 * time.Hour)
			todo := testutil.NewTodo(
				testutil.WithTitle("写周报"),
				testutil.WithPriority(models.PriorityHigh),
				testutil.WithTags("work", "weekly"),
			)
			todo.DueDate = &due
			todo.Metadata = models.Metadata{"project": "roadmap"}

			require.NoError(t, repo.Create(ctx, todo))

			got, err := repo.GetByID(ctx, todo.ID)
			require.NoError(t, err)
			assert.Equal(t, todo.ID, got.ID)
			assert.Equal(t, "写周报", got.Title)
			assert.Equal(t, models.PriorityHigh, got.Priority)
			assert.Equal(t, models.StringList{"work", "weekly"}, got.Tags)
			require.NotNil(t, got.DueDate)
			assert.WithinDuration(t, due, *got.DueDate, time.Second)
			assert.Equal(t, "roadmap", got.Metadata["project"])
			assert.WithinDuration(t, todo.CreatedAt, got.CreatedAt, time.Second)
		})
	}
}

func TestRepositoryGetByIDMissing(t *testing.T) {
	for name, repo := range repositoryImplementations(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.GetByID(context.Background(), "no-such-id")
			assert.ErrorIs(t, err, models.ErrTodoNotFound)
		})
	}
}

func TestRepositoryGetAllOrdering(t *testing.T) {
	for name, repo := range repositoryImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Now().UTC().Truncate(time.Second)

			oldest := testutil.NewTodo(testutil.WithTitle("最早"), testutil.WithCreatedAt(base.Add(-2*time.Minute)))
			middle := testutil.NewTodo(testutil.WithTitle("中间"), testutil.WithCreatedAt(base.Add(-time.Minute)))
			newest := testutil.NewTodo(testutil.WithTitle("最新"), testutil.WithCreatedAt(base))

			// 故意乱序写入
			require.NoError(t, repo.Create(ctx, middle))
			require.NoError(t, repo.Create(ctx, newest))
			require.NoError(t, repo.Create(ctx, oldest))

			todos, err := repo.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, todos, 3)
			assert.Equal(t, "最新", todos[0].Title)
			assert.Equal(t, "中间", todos[1].Title)
			assert.Equal(t, "最早", todos[2].Title)
		})
	}
}

func TestRepositoryUpdate(t *testing.T) {
	for name, repo := range repositoryImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			todo := testutil.NewTodo(testutil.WithTitle("原标题"))
			require.NoError(t, repo.Create(ctx, todo))

			todo.Title = "新标题"
			todo.Completed = true
			todo.Tags = models.StringList{"updated"}
			todo.UpdatedAt = todo.UpdatedAt.Add(time.Second + 123456789*time.Nanosecond)
			require.NoError(t, repo.Update(ctx, todo))

			got, err := repo.GetByID(ctx, todo.ID)
			require.NoError(t, err)
			assert.Equal(t, "新标题", got.Title)
			assert.True(t, got.Completed)
			assert.Equal(t, models.StringList{"updated"}, got.Tags)

			// 存储的 updated_at 必须与调用方写入的值一致，不允许被存储层自行刷新
			assert.WithinDuration(t, todo.UpdatedAt, got.UpdatedAt, time.Millisecond,
				"updated_at 被存储层改写")

			// completed 回写零值也必须生效
			todo.Completed = false
			require.NoError(t, repo.Update(ctx, todo))
			got, err = repo.GetByID(ctx, todo.ID)
			require.NoError(t, err)
			assert.False(t, got.Completed)
		})
	}
}

// TestSQLRepositoryOrderingIsChronological SQLite以文本存储时间，
// 必须归一化为UTC定宽格式，否则字典序在跨时区偏移或小数秒位数不同时偏离时间序
func TestSQLRepositoryOrderingIsChronological(t *testing.T) {
	ctx := context.Background()

	t.Run("跨时区偏移", func(t *testing.T) {
		sqlDB, err := database.NewSQLiteDB(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { sqlDB.Close() })
		repo := NewSQLTodoRepository(sqlDB)

		tokyo := time.FixedZone("UTC+9", 9*60*60)
		// 东京 12:00 = UTC 03:00，早于 UTC 05:00，但 "12:..." 的字典序更大
		older := testutil.NewTodo(testutil.WithTitle("较早"),
			testutil.WithCreatedAt(time.Date(2026, 1, 1, 12, 0, 0, 0, tokyo)))
		newer := testutil.NewTodo(testutil.WithTitle("较新"),
			testutil.WithCreatedAt(time.Date(2026, 1, 1, 5, 0, 0, 0, time.UTC)))
		require.NoError(t, repo.Create(ctx, older))
		require.NoError(t, repo.Create(ctx, newer))

		todos, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, todos, 2)
		assert.Equal(t, "较新", todos[0].Title)
		assert.Equal(t, "较早", todos[1].Title)
	})

	t.Run("小数秒位数不同", func(t *testing.T) {
		sqlDB, err := database.NewSQLiteDB(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { sqlDB.Close() })
		repo := NewSQLTodoRepository(sqlDB)

		base := time.Date(2026, 1, 1, 5, 0, 0, 0, time.UTC)
		// .12 截断尾零后的文本比 .123 的字典序更大
		older := testutil.NewTodo(testutil.WithTitle("较早"),
			testutil.WithCreatedAt(base.Add(120*time.Millisecond)))
		newer := testutil.NewTodo(testutil.WithTitle("较新"),
			testutil.WithCreatedAt(base.Add(123*time.Millisecond)))
		require.NoError(t, repo.Create(ctx, older))
		require.NoError(t, repo.Create(ctx, newer))

		todos, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, todos, 2)
		assert.Equal(t, "较新", todos[0].Title)
		assert.Equal(t, "较早", todos[1].Title)
	})
}

func TestRepositoryUpdateMissing(t *testing.T) {
	for name, repo := range repositoryImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ghost := testutil.NewTodo(testutil.WithTitle("不存在"))
			err := repo.Update(context.Background(), ghost)
			assert.ErrorIs(t, err, models.ErrTodoNotFound)
		})
	}
}

func TestRepositoryDelete(t *testing.T) {
	for name, repo := range repositoryImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			todo := testutil.NewTodo(testutil.WithTitle("待删除"))
			require.NoError(t, repo.Create(ctx, todo))

			deleted, err := repo.Delete(ctx, todo.ID)
			require.NoError(t, err)
			assert.Equal(t, todo.ID, deleted.ID)
			assert.Equal(t, "待删除", deleted.Title)

			_, err = repo.GetByID(ctx, todo.ID)
			assert.ErrorIs(t, err, models.ErrTodoNotFound)

			// 重复删除同样返回 ErrTodoNotFound，从不静默跳过
			_, err = repo.Delete(ctx, todo.ID)
			assert.ErrorIs(t, err, models.ErrTodoNotFound)
		})
	}
}

func TestRepositoryDeleteAll(t *testing.T) {
	for name, repo := range repositoryImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 3; i++ {
				require.NoError(t, repo.Create(ctx, testutil.NewTodo()))
			}

			count, err := repo.DeleteAll(ctx)
			require.NoError(t, err)
			assert.EqualValues(t, 3, count)

			todos, err := repo.GetAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, todos)

			count, err = repo.DeleteAll(ctx)
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestRepositoryGetByCompleted(t *testing.T) {
	for name, repo := range repositoryImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Now().UTC().Truncate(time.Second)

			done := testutil.NewTodo(testutil.WithTitle("已完成"), testutil.WithCompleted(true), testutil.WithCreatedAt(base))
			pending := testutil.NewTodo(testutil.WithTitle("未完成"), testutil.WithCreatedAt(base.Add(-time.Minute)))
			require.NoError(t, repo.Create(ctx, done))
			require.NoError(t, repo.Create(ctx, pending))

			completed, err := repo.GetByCompleted(ctx, true)
			require.NoError(t, err)
			require.Len(t, completed, 1)
			assert.Equal(t, "已完成", completed[0].Title)

			open, err := repo.GetByCompleted(ctx, false)
			require.NoError(t, err)
			require.Len(t, open, 1)
			assert.Equal(t, "未完成", open[0].Title)
		})
	}
}

func TestRepositoryGetByTags(t *testing.T) {
	for name, repo := range repositoryImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Now().UTC().Truncate(time.Second)

			work := testutil.NewTodo(testutil.WithTitle("工作"), testutil.WithTags("work", "urgent"), testutil.WithCreatedAt(base))
			home := testutil.NewTodo(testutil.WithTitle("家务"), testutil.WithTags("home"), testutil.WithCreatedAt(base.Add(-time.Minute)))
			untagged := testutil.NewTodo(testutil.WithTitle("无标签"), testutil.WithCreatedAt(base.Add(-2*time.Minute)))
			require.NoError(t, repo.Create(ctx, work))
			require.NoError(t, repo.Create(ctx, home))
			require.NoError(t, repo.Create(ctx, untagged))

			// 任意匹配：给定集合与记录标签有交集即命中
			matched, err := repo.GetByTags(ctx, []string{"urgent", "garden"})
			require.NoError(t, err)
			require.Len(t, matched, 1)
			assert.Equal(t, "工作", matched[0].Title)

			matched, err = repo.GetByTags(ctx, []string{"work", "home"})
			require.NoError(t, err)
			assert.Len(t, matched, 2)

			// 空标签入参返回空结果，而非全量
			matched, err = repo.GetByTags(ctx, nil)
			require.NoError(t, err)
			assert.Empty(t, matched)

			matched, err = repo.GetByTags(ctx, []string{"garden"})
			require.NoError(t, err)
			assert.Empty(t, matched)
		})
	}
}

func TestRepositoryPing(t *testing.T) {
	for name, repo := range repositoryImplementations(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, repo.Ping(context.Background()))
		})
	}
}
