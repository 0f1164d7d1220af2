package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger 初始化全局日志记录器
// 创建 JSON 格式的日志处理器,级别由特性开关决定
// 设置了日志文件时通过 lumberjack 输出到滚动文件,否则输出到 stdout
func InitLogger(level, file string) {
	var output io.Writer = os.Stdout
	if file != "" {
		output = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    100, // MB
			MaxBackups: 3,
			MaxAge:     28, // 天
			Compress:   true,
		}
	}

	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
}

// parseLevel 将特性开关的日志级别映射为 slog 级别
func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
