package session

import (
	"context"
)

// Operation 标识一次存储调用
type Operation string

const (
	OpGet     Operation = "get"
	OpSet     Operation = "set"
	OpDestroy Operation = "destroy"
	OpTouch   Operation = "touch"
	OpLength  Operation = "length"
	OpClear   Operation = "clear"
)

// Middleware 包装一个 Store，返回增强后的 Store
type Middleware func(Store) Store

// Chain 构建调用链，保证最先传入的中间件最先执行
func Chain(store Store, ms ...Middleware) Store {
	s := store
	for i := len(ms) - 1; i >= 0; i-- {
		s = ms[i](s)
	}
	return s
}

// Invocation 描述一次被拦截的调用
type Invocation struct {
	Op Operation
	// ID 对 Length 和 Clear 为空
	ID string
}

// Interceptor 在 next 前后插入逻辑，必须调用 next 才会访问下层存储
type Interceptor func(ctx context.Context, inv Invocation, next func(ctx context.Context) error) error

// Intercept 把 Interceptor 转换为 Middleware
func Intercept(interceptor Interceptor) Middleware {
	return func(next Store) Store {
		return &interceptedStore{next: next, interceptor: interceptor}
	}
}

type interceptedStore struct {
	next        Store
	interceptor Interceptor
}

func (s *interceptedStore) Get(ctx context.Context, id string) (Values, error) {
	var values Values
	err := s.interceptor(ctx, Invocation{Op: OpGet, ID: id}, func(ctx context.Context) error {
		var err error
		values, err = s.next.Get(ctx, id)
		return err
	})
	return values, err
}

func (s *interceptedStore) Set(ctx context.Context, id string, values Values) error {
	return s.interceptor(ctx, Invocation{Op: OpSet, ID: id}, func(ctx context.Context) error {
		return s.next.Set(ctx, id, values)
	})
}

func (s *interceptedStore) Destroy(ctx context.Context, id string) error {
	return s.interceptor(ctx, Invocation{Op: OpDestroy, ID: id}, func(ctx context.Context) error {
		return s.next.Destroy(ctx, id)
	})
}

func (s *interceptedStore) Touch(ctx context.Context, id string, values Values) error {
	return s.interceptor(ctx, Invocation{Op: OpTouch, ID: id}, func(ctx context.Context) error {
		return s.next.Touch(ctx, id, values)
	})
}

func (s *interceptedStore) Length(ctx context.Context) (int64, error) {
	var n int64
	err := s.interceptor(ctx, Invocation{Op: OpLength}, func(ctx context.Context) error {
		var err error
		n, err = s.next.Length(ctx)
		return err
	})
	return n, err
}

func (s *interceptedStore) Clear(ctx context.Context) error {
	return s.interceptor(ctx, Invocation{Op: OpClear}, func(ctx context.Context) error {
		return s.next.Clear(ctx)
	})
}
