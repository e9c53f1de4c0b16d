package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// zerologLogger 使用 zerolog 实现的日志记录器
type zerologLogger struct {
	mu    *sync.RWMutex
	zlog  zerolog.Logger
	level LogLevel
}

// NewLogger 创建一个新的 zerolog 日志记录器
func NewLogger(opts ...Option) Logger {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	// zerolog 的时间格式是包级变量
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	zlog := zerolog.New(output).With().Timestamp().Logger().Level(toZerologLevel(cfg.Level))
	return &zerologLogger{
		mu:    &sync.RWMutex{},
		zlog:  zlog,
		level: cfg.Level,
	}
}

func (l *zerologLogger) Debug(msg string, fields ...Field) {
	l.write(DebugLevel, msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...Field) {
	l.write(InfoLevel, msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...Field) {
	l.write(WarnLevel, msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...Field) {
	l.write(ErrorLevel, msg, fields)
}

// Fatal 输出日志后退出进程
func (l *zerologLogger) Fatal(msg string, fields ...Field) {
	l.write(FatalLevel, msg, fields)
}

func (l *zerologLogger) write(level LogLevel, msg string, fields []Field) {
	l.mu.RLock()
	zlog := l.zlog
	enabled := level >= l.level
	l.mu.RUnlock()
	if !enabled {
		return
	}

	var event *zerolog.Event
	switch level {
	case DebugLevel:
		event = zlog.Debug()
	case WarnLevel:
		event = zlog.Warn()
	case ErrorLevel:
		event = zlog.Error()
	case FatalLevel:
		event = zlog.Fatal()
	default:
		event = zlog.Info()
	}

	for _, field := range fields {
		addFieldToEvent(event, field)
	}
	event.Msg(msg)
}

// WithField 添加单个字段
func (l *zerologLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(Field{Key: key, Value: value})
}

// WithFields 添加多个字段
func (l *zerologLogger) WithFields(fields ...Field) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ctx := l.zlog.With()
	for _, field := range fields {
		ctx = addFieldToContext(ctx, field)
	}

	return &zerologLogger{
		mu:    &sync.RWMutex{},
		zlog:  ctx.Logger(),
		level: l.level,
	}
}

// SetLevel 设置日志级别
func (l *zerologLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.zlog = l.zlog.Level(toZerologLevel(level))
}

// SetOutput 设置日志输出目标
func (l *zerologLogger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zlog = l.zlog.Output(w)
}

func toZerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case FatalLevel:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func addFieldToEvent(event *zerolog.Event, field Field) {
	switch v := field.Value.(type) {
	case string:
		event.Str(field.Key, v)
	case int:
		event.Int(field.Key, v)
	case int64:
		event.Int64(field.Key, v)
	case bool:
		event.Bool(field.Key, v)
	case time.Duration:
		event.Dur(field.Key, v)
	case time.Time:
		event.Time(field.Key, v)
	case error:
		event.AnErr(field.Key, v)
	default:
		event.Interface(field.Key, v)
	}
}

func addFieldToContext(ctx zerolog.Context, field Field) zerolog.Context {
	switch v := field.Value.(type) {
	case string:
		return ctx.Str(field.Key, v)
	case int:
		return ctx.Int(field.Key, v)
	case int64:
		return ctx.Int64(field.Key, v)
	case bool:
		return ctx.Bool(field.Key, v)
	case time.Duration:
		return ctx.Dur(field.Key, v)
	case time.Time:
		return ctx.Time(field.Key, v)
	case error:
		return ctx.AnErr(field.Key, v)
	default:
		return ctx.Interface(field.Key, v)
	}
}

type nopLogger struct{}

// Nop 返回丢弃所有输出的日志实例
func Nop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, ...Field)                  {}
func (nopLogger) Info(string, ...Field)                   {}
func (nopLogger) Warn(string, ...Field)                   {}
func (nopLogger) Error(string, ...Field)                  {}
func (nopLogger) Fatal(string, ...Field)                  {}
func (n nopLogger) WithField(string, interface{}) Logger  { return n }
func (n nopLogger) WithFields(...Field) Logger            { return n }
func (nopLogger) SetLevel(LogLevel)                       {}
func (nopLogger) SetOutput(io.Writer)                     {}
