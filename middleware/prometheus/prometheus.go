package prometheus

import (
	"context"
	"errors"
	"time"

	"github.com/fyerfyer/fyer-session/session"
	"github.com/prometheus/client_golang/prometheus"
)

type MiddlewareBuilder struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string
	// Registerer 为空时使用 prometheus.DefaultRegisterer
	Registerer prometheus.Registerer
}

func (m *MiddlewareBuilder) registerer() prometheus.Registerer {
	if m.Registerer == nil {
		return prometheus.DefaultRegisterer
	}
	return m.Registerer
}

// Build 返回记录每次存储调用耗时（微秒）的中间件，标签为 op 和 result
func (m *MiddlewareBuilder) Build() session.Middleware {
	vec := register(m.registerer(), prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:      m.Name,
		Help:      m.Help,
		Namespace: m.Namespace,
		Subsystem: m.Subsystem,
		Objectives: map[float64]float64{
			0.5:   0.05,
			0.9:   0.01,
			0.99:  0.001,
			0.999: 0.0001,
		},
	}, []string{"op", "result"}))

	return session.Intercept(func(ctx context.Context, inv session.Invocation, next func(ctx context.Context) error) error {
		startTime := time.Now()
		err := next(ctx)
		vec.WithLabelValues(string(inv.Op), result(err)).
			Observe(float64(time.Since(startTime).Microseconds()))
		return err
	})
}

// ReapCallback 统计后台清理的结果，然后调用 next
// 用法：session.WithReapCallback(builder.ReapCallback(cb))
func (m *MiddlewareBuilder) ReapCallback(next func(err error)) func(err error) {
	counter := register(m.registerer(), prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      m.Name + "_reaps_total",
		Help:      "Number of background reap passes by result.",
		Namespace: m.Namespace,
		Subsystem: m.Subsystem,
	}, []string{"result"}))

	return func(err error) {
		counter.WithLabelValues(result(err)).Inc()
		if next != nil {
			next(err)
		}
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// register 注册 collector，同名 collector 已存在时复用已有的
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
