/*
 * @module service/init
 * @description 服务初始化模块，负责特性开关加载、存储/缓存/错误追踪提供者绑定等初始化工作
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 应用启动时执行初始化流程：配置校验 -> 提供者绑定 -> 业务服务装配
 * @rules 特性开关校验失败必须阻止进程启动；所有提供者在进程生命周期内只选择一次
 * @dependencies todohub-service/service/featureflags, todohub-service/service/repositories
 * @refs dev_docs/model.md
 */

package service

import (
	"context"
	"log"
	"log/slog"

	"todohub-service/logger"
	"todohub-service/service/cache"
	"todohub-service/service/errortracking"
	"todohub-service/service/featureflags"
	"todohub-service/service/repositories"
	"todohub-service/service/todo"
)

var (
	Flags                *featureflags.FeatureFlags
	GlobalTodoRepository repositories.TodoRepository
	GlobalCache          cache.Cache
	GlobalErrorTracker   errortracking.ErrorTracker
	GlobalTodoService    *todo.Service
)

func init() {
	loadFeatureFlags()
	logger.InitLogger(Flags.LogLevel(), Flags.LogFile())
	initProviders()
	initServices()
}

// loadFeatureFlags 加载并校验特性开关，任何违规都阻止启动
func loadFeatureFlags() {
	var err error
	Flags, err = featureflags.Load()
	if err != nil {
		log.Fatalf("启动失败: %v", err)
	}
}

// initProviders 按特性开关绑定各子系统的提供者
func initProviders() {
	ctx := context.Background()

	var err error
	GlobalTodoRepository, err = repositories.NewTodoRepository(ctx, Flags)
	if err != nil {
		log.Fatalf("存储提供者初始化失败: %v", err)
	}
	slog.Info("存储提供者绑定完成", "provider", Flags.DBProvider())

	GlobalCache, err = cache.NewCache(Flags)
	if err != nil {
		log.Fatalf("缓存提供者初始化失败: %v", err)
	}
	slog.Info("缓存提供者绑定完成", "provider", Flags.CacheProvider())

	GlobalErrorTracker, err = errortracking.NewErrorTracker(Flags)
	if err != nil {
		log.Fatalf("错误追踪提供者初始化失败: %v", err)
	}
	slog.Info("错误追踪提供者绑定完成", "provider", Flags.ErrorTrackingProvider())
}

// initServices 装配业务服务
func initServices() {
	// 读路径缓存属于性能特性包，未开启时业务服务使用空缓存
	serviceCache := GlobalCache
	if !Flags.PerformanceMode() {
		serviceCache = cache.NewNoopCache()
	}

	GlobalTodoService = todo.NewService(GlobalTodoRepository, serviceCache, GlobalErrorTracker, Flags.CacheTTL())
	slog.Info("服务初始化完成")
}
