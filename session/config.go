package session

import (
	"time"

	"github.com/fyerfyer/fyer-session/logger"
	"github.com/robfig/cron/v3"
)

const (
	DefaultTTL          = 3600 * time.Second
	DefaultReapInterval = 3600 * time.Second

	// NeverReap 关闭自动清理
	NeverReap time.Duration = -1 * time.Second
)

// Config 是所有存储实现共享的配置，构造后不再修改
type Config struct {
	// TTL 会话在未被访问的情况下保留的时长
	TTL time.Duration
	// ReapInterval 两次自动清理之间的间隔，NeverReap 表示不自动清理
	ReapInterval time.Duration
	// ReapSchedule 可选的 cron 表达式，设置后代替 ReapInterval
	ReapSchedule string
	// ReapCallback 每次清理结束后以清理结果调用
	ReapCallback func(err error)
	// Namespace SQL 存储中是表名，Redis 存储中是键前缀
	Namespace string
	Codec     Codec
	Logger    logger.Logger
	Clock     func() time.Time

	schedule cron.Schedule
}

// Option 配置选项
type Option func(*Config)

func WithTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.TTL = ttl
	}
}

func WithReapInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.ReapInterval = interval
	}
}

// WithReapSchedule 使用 cron 表达式安排清理，例如 "@every 30m" 或 "0 3 * * *"
func WithReapSchedule(spec string) Option {
	return func(c *Config) {
		c.ReapSchedule = spec
	}
}

func WithReapCallback(fn func(err error)) Option {
	return func(c *Config) {
		c.ReapCallback = fn
	}
}

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithCodec(codec Codec) Option {
	return func(c *Config) {
		c.Codec = codec
	}
}

func WithLogger(l logger.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithClock 替换获取当前时间的函数，测试中用于固定时间
func WithClock(clock func() time.Time) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		TTL:          DefaultTTL,
		ReapInterval: DefaultReapInterval,
		ReapCallback: func(error) {},
		Codec:        JSONCodec{},
		Logger:       logger.GetDefaultLogger(),
		Clock:        time.Now,
	}
}

// NewConfig 应用选项并校验，非法选项返回 *ConfigError
func NewConfig(opts ...Option) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TTL <= 0 {
		return newConfigError("ttl", "must be > 0")
	}
	if c.ReapInterval != NeverReap && c.ReapInterval <= 0 {
		return newConfigError("reapInterval", "must be a positive duration or NeverReap to disable reaping")
	}
	if c.ReapSchedule != "" {
		schedule, err := cron.ParseStandard(c.ReapSchedule)
		if err != nil {
			return newConfigError("reapSchedule", err.Error())
		}
		c.schedule = schedule
	}
	if c.ReapCallback == nil {
		c.ReapCallback = func(error) {}
	}
	if c.Codec == nil {
		return newConfigError("codec", "must not be nil")
	}
	if c.Logger == nil {
		return newConfigError("logger", "must not be nil")
	}
	if c.Clock == nil {
		return newConfigError("clock", "must not be nil")
	}
	return nil
}

// Now 返回配置时钟的 UTC 时间
func (c Config) Now() time.Time {
	return c.Clock().UTC()
}

// Reaping 判断是否需要启动自动清理
func (c Config) Reaping() bool {
	return c.ReapInterval != NeverReap || c.ReapSchedule != ""
}
