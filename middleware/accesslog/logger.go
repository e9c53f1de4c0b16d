package accesslog

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/fyerfyer/fyer-session/logger"
	"github.com/fyerfyer/fyer-session/session"
)

type MiddlewareBuilder struct {
	logFunc func(content string)
}

type logInfo struct {
	Op        string `json:"op"`
	SessionID string `json:"session_id,omitempty"`
	ElapsedUs int64  `json:"elapsed_us"`
	Error     string `json:"error,omitempty"`
}

func (m *MiddlewareBuilder) SetLogger(fn func(content string)) *MiddlewareBuilder {
	m.logFunc = fn
	return m
}

// NewMiddlewareBuilder 默认输出到全局日志
func NewMiddlewareBuilder() *MiddlewareBuilder {
	return &MiddlewareBuilder{
		logFunc: func(content string) {
			logger.Info("session access", logger.String("entry", content))
		},
	}
}

// Build 每次存储调用结束后输出一行 JSON
func (m *MiddlewareBuilder) Build() session.Middleware {
	return session.Intercept(func(ctx context.Context, inv session.Invocation, next func(ctx context.Context) error) error {
		start := time.Now()
		err := next(ctx)

		info := logInfo{
			Op:        string(inv.Op),
			SessionID: inv.ID,
			ElapsedUs: time.Since(start).Microseconds(),
		}
		if err != nil {
			info.Error = err.Error()
		}
		val, _ := sonic.ConfigStd.MarshalToString(info)
		m.logFunc(val)
		return err
	})
}
