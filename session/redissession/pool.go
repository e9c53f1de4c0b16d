package redissession

import (
	"context"
	"sync"
	"time"

	"github.com/fyerfyer/fyer-kit/pool"
	"github.com/go-redis/redis/v8"
)

// Connection 把 redis 客户端包装为连接池中的连接
// go-redis 自身管理 TCP 连接，池中的连接只是对客户端的借用
type Connection struct {
	client  redis.UniversalClient
	mu      sync.RWMutex
	closed  bool
	lastUse time.Time
}

func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Connection) Raw() interface{} {
	return c.client
}

// IsAlive 通过 PING 检查连接
func (c *Connection) IsAlive() bool {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	return c.client.Ping(ctx).Err() == nil
}

func (c *Connection) ResetState() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = false
	c.lastUse = time.Now()
	return nil
}

// ConnectionFactory 为连接池创建连接
type ConnectionFactory struct {
	client redis.UniversalClient
}

func (f *ConnectionFactory) Create(ctx context.Context) (pool.Connection, error) {
	if err := f.client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Connection{client: f.client, lastUse: time.Now()}, nil
}

// NewPool 基于 redis 客户端创建连接池
func NewPool(client redis.UniversalClient, opts ...pool.Option) pool.Pool {
	return pool.NewPool(&ConnectionFactory{client: client}, opts...)
}
