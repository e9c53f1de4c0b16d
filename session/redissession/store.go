// Package redissession 把会话保存为 redis 字符串键，过期由 redis 的键过期完成
package redissession

import (
	"context"
	"errors"
	"fmt"

	"github.com/fyerfyer/fyer-kit/pool"
	"github.com/fyerfyer/fyer-session/logger"
	"github.com/fyerfyer/fyer-session/session"
	"github.com/go-redis/redis/v8"
)

// DefaultPrefix 是未指定命名空间时的键前缀
const DefaultPrefix = "sess_"

const scanCount = 100

var errUnexpectedConn = errors.New("redissession: pooled connection is not a redis client")

type Store struct {
	pool   pool.Pool
	prefix string
	cfg    session.Config
	log    logger.Logger
	reaper *session.Reaper
}

var _ session.Backend = (*Store)(nil)

// New 使用连接池创建存储
// 过期键由 redis 自行删除，后台清理只检查连接是否可用并把结果交给 ReapCallback
func New(p pool.Pool, opts ...session.Option) (*Store, error) {
	if p == nil {
		return nil, session.NewConfigError("connection", "must be a redis connection pool")
	}
	cfg, err := session.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	prefix := cfg.Namespace
	if prefix == "" {
		prefix = DefaultPrefix
	}
	s := &Store{
		pool:   p,
		prefix: prefix,
		cfg:    cfg,
		log:    cfg.Logger.WithFields(logger.String("store", "redissession"), logger.String("prefix", prefix)),
	}
	s.reaper = session.StartReaper(s.Reap, cfg)
	return s, nil
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

// withClient 从连接池借出连接执行 fn，并把结果归还给连接池
func (s *Store) withClient(ctx context.Context, fn func(client redis.Cmdable) error) error {
	conn, err := s.pool.Get(ctx)
	if err != nil {
		return err
	}
	client, ok := conn.Raw().(redis.Cmdable)
	if !ok {
		_ = s.pool.Put(conn, errUnexpectedConn)
		return errUnexpectedConn
	}
	err = fn(client)
	// redis.Nil 表示键不存在，连接本身没有问题
	putErr := err
	if errors.Is(putErr, redis.Nil) {
		putErr = nil
	}
	_ = s.pool.Put(conn, putErr)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (session.Values, error) {
	if err := session.ValidateID(id); err != nil {
		return nil, err
	}
	s.log.Debug("get", logger.String("session_id", id))

	var data []byte
	err := s.withClient(ctx, func(client redis.Cmdable) error {
		var err error
		data, err = client.Get(ctx, s.key(id)).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, session.NewStorageError("get", id, err)
	}

	values, err := s.cfg.Codec.Decode(data)
	if err != nil {
		return nil, &session.DeserializationError{ID: id, Err: err}
	}
	if err := s.touch(ctx, id); err != nil {
		return nil, err
	}
	return values, nil
}

func (s *Store) Set(ctx context.Context, id string, values session.Values) error {
	if err := session.ValidateID(id); err != nil {
		return err
	}
	s.log.Debug("set", logger.String("session_id", id))

	data, err := s.cfg.Codec.Encode(values)
	if err != nil {
		return fmt.Errorf("session: cannot encode session %q: %w", id, err)
	}
	err = s.withClient(ctx, func(client redis.Cmdable) error {
		return client.Set(ctx, s.key(id), data, s.cfg.TTL).Err()
	})
	return session.NewStorageError("set", id, err)
}

func (s *Store) Destroy(ctx context.Context, id string) error {
	if err := session.ValidateID(id); err != nil {
		return err
	}
	s.log.Debug("destroy", logger.String("session_id", id))

	err := s.withClient(ctx, func(client redis.Cmdable) error {
		return client.Del(ctx, s.key(id)).Err()
	})
	return session.NewStorageError("destroy", id, err)
}

// Touch 把键的过期时间重置为 TTL
func (s *Store) Touch(ctx context.Context, id string, _ session.Values) error {
	if err := session.ValidateID(id); err != nil {
		return err
	}
	s.log.Debug("touch", logger.String("session_id", id))
	return s.touch(ctx, id)
}

func (s *Store) touch(ctx context.Context, id string) error {
	err := s.withClient(ctx, func(client redis.Cmdable) error {
		return client.Expire(ctx, s.key(id), s.cfg.TTL).Err()
	})
	return session.NewStorageError("touch", id, err)
}

// scan 遍历前缀下的所有键
func (s *Store) scan(ctx context.Context, client redis.Cmdable, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, s.prefix+"*", scanCount).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (s *Store) Length(ctx context.Context) (int64, error) {
	s.log.Debug("length")

	var n int64
	err := s.withClient(ctx, func(client redis.Cmdable) error {
		// SCAN 可能重复返回同一个键
		seen := make(map[string]struct{})
		err := s.scan(ctx, client, func(keys []string) error {
			for _, k := range keys {
				seen[k] = struct{}{}
			}
			return nil
		})
		n = int64(len(seen))
		return err
	})
	if err != nil {
		return 0, session.NewStorageError("length", "", err)
	}
	return n, nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.log.Debug("clear")

	err := s.withClient(ctx, func(client redis.Cmdable) error {
		return s.scan(ctx, client, func(keys []string) error {
			return client.Del(ctx, keys...).Err()
		})
	})
	return session.NewStorageError("clear", "", err)
}

// Reap 不删除任何键，redis 已按 TTL 过期；连接不可用时返回 StorageError
func (s *Store) Reap(ctx context.Context) (int64, error) {
	err := s.withClient(ctx, func(client redis.Cmdable) error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		return 0, session.NewStorageError("reap", "", err)
	}
	return 0, nil
}

// Close 停止后台清理，连接池由调用方管理
func (s *Store) Close() error {
	s.reaper.Stop()
	return nil
}
