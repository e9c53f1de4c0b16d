// Package memsession 提供基于进程内缓存的会话存储，适用于单实例部署和测试
//
// 过期时间由 go-cache 按 time.Now 计算，session.WithClock 对本存储不生效
package memsession

import (
	"context"
	"fmt"
	"sync"

	"github.com/fyerfyer/fyer-session/logger"
	"github.com/fyerfyer/fyer-session/session"
	"github.com/patrickmn/go-cache"
)

type Store struct {
	mu     sync.Mutex
	cache  *cache.Cache
	cfg    session.Config
	log    logger.Logger
	reaper *session.Reaper
}

var _ session.Backend = (*Store)(nil)

// New 创建内存存储，会话以编码后的字节保存，过期时间为 TTL
// 过期会话在 Get 中不可见，但在 Reap 之前仍计入 Length
func New(opts ...session.Option) (*Store, error) {
	cfg, err := session.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	s := &Store{
		// 清理交给 Reaper，go-cache 自带的 janitor 不启用
		cache: cache.New(cfg.TTL, 0),
		cfg:   cfg,
		log:   cfg.Logger.WithField("store", "memsession"),
	}
	s.reaper = session.StartReaper(s.Reap, cfg)
	return s, nil
}

func (s *Store) Get(ctx context.Context, id string) (session.Values, error) {
	if err := session.ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.cache.Get(id)
	if !ok {
		return nil, nil
	}
	data, ok := raw.([]byte)
	if !ok {
		return nil, &session.DeserializationError{ID: id, Err: fmt.Errorf("unexpected cached type %T", raw)}
	}
	values, err := s.cfg.Codec.Decode(data)
	if err != nil {
		return nil, &session.DeserializationError{ID: id, Err: err}
	}
	s.cache.SetDefault(id, data)
	return values, nil
}

func (s *Store) Set(ctx context.Context, id string, values session.Values) error {
	if err := session.ValidateID(id); err != nil {
		return err
	}
	data, err := s.cfg.Codec.Encode(values)
	if err != nil {
		return fmt.Errorf("session: cannot encode session %q: %w", id, err)
	}
	s.mu.Lock()
	s.cache.SetDefault(id, data)
	s.mu.Unlock()
	return nil
}

func (s *Store) Destroy(ctx context.Context, id string) error {
	if err := session.ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	s.cache.Delete(id)
	s.mu.Unlock()
	return nil
}

// Touch 重置过期时间，会话不存在或已过期时什么都不做
func (s *Store) Touch(ctx context.Context, id string, _ session.Values) error {
	if err := session.ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, ok := s.cache.Get(id); ok {
		s.cache.SetDefault(id, raw)
	}
	return nil
}

func (s *Store) Length(ctx context.Context) (int64, error) {
	return int64(s.cache.ItemCount()), nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.cache.Flush()
	s.mu.Unlock()
	return nil
}

// Reap 删除已过期的会话并返回删除数量
func (s *Store) Reap(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.cache.ItemCount()
	s.cache.DeleteExpired()
	n := int64(before - s.cache.ItemCount())
	s.log.Debug("reap", logger.Int64("removed", n))
	return n, nil
}

func (s *Store) Close() error {
	s.reaper.Stop()
	return nil
}
