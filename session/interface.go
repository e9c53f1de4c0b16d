package session

import (
	"context"
	"io"
)

// Values 是会话的负载数据，持久化时整体编码
type Values map[string]any

// Store 是会话中间件依赖的最小存储能力集合
//
// 所有方法都是阻塞调用，需要异步时由调用方自行开启 goroutine；
// 取消和超时通过 ctx 传递给底层驱动。
type Store interface {
	// Get 读取会话并顺带续约，会话不存在时返回 nil, nil
	Get(ctx context.Context, id string) (Values, error)
	// Set 写入会话，不存在则创建，存在则覆盖数据并续约
	Set(ctx context.Context, id string, values Values) error
	// Destroy 删除会话，会话不存在时不是错误
	Destroy(ctx context.Context, id string) error
	// Touch 只刷新最后访问时间，values 仅为兼容调用方而保留
	Touch(ctx context.Context, id string, values Values) error
	// Length 返回当前保存的会话数量，包含已过期但尚未清理的会话
	Length(ctx context.Context) (int64, error)
	// Clear 无条件删除全部会话
	Clear(ctx context.Context) error
}

// Backend 是带有过期清理和生命周期管理的完整存储实现
type Backend interface {
	Store
	// Reap 删除所有超过 TTL 未访问的会话，返回删除的数量
	Reap(ctx context.Context) (int64, error)
	// Close 停止后台清理任务，不会关闭调用方传入的连接
	io.Closer
}
