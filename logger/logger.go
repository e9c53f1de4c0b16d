package logger

import (
	"io"
	"strings"
	"time"
)

// LogLevel 定义日志级别
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String 返回级别名称
func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	case FatalLevel:
		return "fatal"
	default:
		return "info"
	}
}

// ParseLevel 解析配置文件中的级别名称，无法识别时返回 InfoLevel
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// Field 表示结构化日志的字段
type Field struct {
	Key   string
	Value interface{}
}

// Logger 定义日志接口
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	// WithField 返回带有固定字段的子日志
	WithField(key string, value interface{}) Logger
	// WithFields 返回带有多个固定字段的子日志
	WithFields(fields ...Field) Logger

	SetLevel(level LogLevel)
	SetOutput(w io.Writer)
}

// Option 日志配置选项函数
type Option func(*LogConfig)

// LogConfig 日志配置
type LogConfig struct {
	Level      LogLevel
	Output     io.Writer
	TimeFormat string
}

// WithLevel 设置日志级别
func WithLevel(level LogLevel) Option {
	return func(cfg *LogConfig) {
		cfg.Level = level
	}
}

// WithOutput 设置日志输出目标
func WithOutput(w io.Writer) Option {
	return func(cfg *LogConfig) {
		cfg.Output = w
	}
}

// WithTimeFormat 设置时间格式
func WithTimeFormat(format string) Option {
	return func(cfg *LogConfig) {
		cfg.TimeFormat = format
	}
}

func defaultConfig() *LogConfig {
	return &LogConfig{
		Level:      InfoLevel,
		TimeFormat: time.RFC3339,
	}
}

// String 创建字符串类型的日志字段
func String(key string, value string) Field {
	return Field{Key: key, Value: value}
}

// Int 创建整数类型的日志字段
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 创建64位整数类型的日志字段
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Bool 创建布尔类型的日志字段
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration 创建时长类型的日志字段
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Time 创建时间类型的日志字段
func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value}
}

// FieldError 创建错误类型的日志字段
func FieldError(err error) Field {
	return Field{Key: "error", Value: err}
}

// Interface 创建任意类型的日志字段
func Interface(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

var defaultLogger Logger = NewLogger()

// GetDefaultLogger 获取默认日志实例
func GetDefaultLogger() Logger {
	return defaultLogger
}

// SetDefaultLogger 设置默认日志实例
func SetDefaultLogger(logger Logger) {
	if logger != nil {
		defaultLogger = logger
	}
}

func Debug(msg string, fields ...Field) {
	defaultLogger.Debug(msg, fields...)
}

func Info(msg string, fields ...Field) {
	defaultLogger.Info(msg, fields...)
}

func Warn(msg string, fields ...Field) {
	defaultLogger.Warn(msg, fields...)
}

func Error(msg string, fields ...Field) {
	defaultLogger.Error(msg, fields...)
}

func Fatal(msg string, fields ...Field) {
	defaultLogger.Fatal(msg, fields...)
}
