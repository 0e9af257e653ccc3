// Package logger 提供 lanlink 的统一日志系统
//
// 基于标准库 log/slog，支持：
//   - 按子系统配置日志级别
//   - 环境变量配置（LANLINK_LOG_LEVEL, LANLINK_LOG_FORMAT）
//   - 运行时通过 Apply 覆盖（来自 config.LogConfig）
//
// 使用示例:
//
//	var log = logger.Logger("core.orchestrator")
//
//	log.Info("连接成功", "candidate", addr, "attempt", n)
package logger

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

var (
	// loggers 缓存各子系统的 Logger
	loggers sync.Map // map[string]*slog.Logger

	// handlers 缓存各子系统的 Handler（用于动态调整级别）
	handlers sync.Map // map[string]*subsystemHandler
)

// Logger 获取指定子系统的 Logger
//
// 同一子系统多次调用返回相同实例。
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	cfg := ConfigFromEnv()
	h := newHandler(subsystem, cfg.LevelForSubsystem(subsystem), cfg.Format)

	actual, loaded := loggers.LoadOrStore(subsystem, slog.New(h))
	if !loaded {
		handlers.Store(subsystem, h)
	}
	return actual.(*slog.Logger)
}

// SetLevel 动态设置子系统的日志级别
func SetLevel(subsystem string, level slog.Level) {
	if h, ok := handlers.Load(subsystem); ok {
		h.(*subsystemHandler).SetLevel(level)
	}
}

// Apply 用新的级别字符串覆盖当前配置并刷新已创建的 Logger
//
// 格式与 LANLINK_LOG_LEVEL 相同。格式切换只影响之后创建的 Logger。
func Apply(levelStr, formatStr string) {
	cfg := ParseConfig(levelStr, formatStr)

	configMu.Lock()
	configCache = cfg
	configMu.Unlock()

	handlers.Range(func(key, value any) bool {
		value.(*subsystemHandler).SetLevel(cfg.LevelForSubsystem(key.(string)))
		return true
	})
}

// SetOutput 设置全局日志输出目标
//
// 已创建的 Logger 同样会被重定向。
func SetOutput(w io.Writer) {
	globalOutputMu.Lock()
	globalOutput = w
	globalOutputMu.Unlock()
}

// Discard 返回丢弃所有日志的 Logger（测试用）
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

type discardHandler struct{}

func (discardHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler          { return d }
func (d discardHandler) WithGroup(string) slog.Handler               { return d }
