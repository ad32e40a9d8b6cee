// Package log 在 zap 之上提供全局的 sugared 日志函数。
package log

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init 之前为 no-op，单元测试里直接调用也不会输出或 panic。
var sugar = zap.NewNop().Sugar()

// Init 初始化全局 logger。format 为 "console" 时使用带颜色的开发格式，其余为 JSON。
// outputPath 非空时额外写入 outputPath/app.log。
func Init(level, format, outputPath string) {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.SetLevel(zap.InfoLevel)
	}

	var zapConfig zap.Config
	if format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zapConfig.Level = lvl

	zapConfig.OutputPaths = []string{"stdout"}
	if outputPath != "" {
		_ = os.MkdirAll(outputPath, 0o755)
		zapConfig.OutputPaths = append(zapConfig.OutputPaths, filepath.Join(outputPath, "app.log"))
	}

	// 跳过本包这一层，日志里的 caller 指向真正的调用方
	logger, err := zapConfig.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	sugar = logger.Sugar()
}

// Replace 替换全局 logger 并返回恢复函数，用法与 zap.ReplaceGlobals 相同。
func Replace(logger *zap.Logger) func() {
	prev := sugar
	sugar = logger.WithOptions(zap.AddCallerSkip(1)).Sugar()
	return func() { sugar = prev }
}

// With 返回附带固定字段的 logger，用于同一任务内的多条日志。
func With(keysAndValues ...interface{}) *zap.SugaredLogger {
	return sugar.Desugar().WithOptions(zap.AddCallerSkip(-1)).Sugar().With(keysAndValues...)
}

func Debugf(template string, args ...interface{}) {
	sugar.Debugf(template, args...)
}

func Info(msg string) {
	sugar.Info(msg)
}

func Infof(template string, args ...interface{}) {
	sugar.Infof(template, args...)
}

// Infow 记录结构化日志，keysAndValues 为交替的键值对。
func Infow(msg string, keysAndValues ...interface{}) {
	sugar.Infow(msg, keysAndValues...)
}

func Warnf(template string, args ...interface{}) {
	sugar.Warnf(template, args...)
}

func Warnw(msg string, keysAndValues ...interface{}) {
	sugar.Warnw(msg, keysAndValues...)
}

// Error 记录错误，err 作为 "error" 字段输出。
func Error(msg string, err error) {
	sugar.Errorw(msg, "error", err)
}

func Errorf(template string, args ...interface{}) {
	sugar.Errorf(template, args...)
}

// Fatal 记录错误后退出进程。
func Fatal(msg string, err error) {
	sugar.Fatalw(msg, "error", err)
}

func Fatalf(template string, args ...interface{}) {
	sugar.Fatalf(template, args...)
}

// Sync 刷新缓冲区，main 退出前调用。
func Sync() {
	_ = sugar.Sync()
}
