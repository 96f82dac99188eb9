package client

import (
	"go.uber.org/zap"
)

// Logger 日志接口（键值对风格）
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// zapLogger 基于 zap 的 Logger 实现
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger 用 zap.Logger 创建 Logger
func NewZapLogger(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &zapLogger{sugar: l.Sugar()}
}

// NopLogger 丢弃所有日志
func NopLogger() Logger {
	return NewZapLogger(zap.NewNop())
}

// OrNop 为 nil 时返回 NopLogger
func OrNop(l Logger) Logger {
	if l == nil {
		return NopLogger()
	}
	return l
}

func (l *zapLogger) Debug(msg string, args ...interface{}) { l.sugar.Debugw(msg, args...) }
func (l *zapLogger) Info(msg string, args ...interface{})  { l.sugar.Infow(msg, args...) }
func (l *zapLogger) Warn(msg string, args ...interface{})  { l.sugar.Warnw(msg, args...) }
func (l *zapLogger) Error(msg string, args ...interface{}) { l.sugar.Errorw(msg, args...) }
