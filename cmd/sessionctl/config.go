package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fyerfyer/fyer-session/logger"
	"github.com/fyerfyer/fyer-session/session"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config 是 sessionctl 的配置文件，时间单位为秒
type Config struct {
	DSN          string    `yaml:"dsn"`
	Dialect      string    `yaml:"dialect"`
	Table        string    `yaml:"table"`
	TTL          int       `yaml:"ttl"`
	ReapInterval int       `yaml:"reapInterval"`
	ReapSchedule string    `yaml:"reapSchedule"`
	Log          LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"`
}

func defaultConfig() Config {
	return Config{
		Dialect:      "mysql",
		TTL:          int(session.DefaultTTL / time.Second),
		ReapInterval: int(session.DefaultReapInterval / time.Second),
		Log: LogConfig{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// loadConfig 读取配置文件，path 为空时返回默认配置
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyFlags 用显式设置的命令行参数或环境变量覆盖配置文件
func (c *Config) applyFlags(cmd *cli.Command) {
	if cmd.IsSet("dsn") {
		c.DSN = cmd.String("dsn")
	}
	if cmd.IsSet("dialect") {
		c.Dialect = cmd.String("dialect")
	}
	if cmd.IsSet("table") {
		c.Table = cmd.String("table")
	}
	if cmd.IsSet("ttl") {
		c.TTL = int(cmd.Int("ttl"))
	}
	if cmd.IsSet("log-level") {
		c.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("log-file") {
		c.Log.File = cmd.String("log-file")
	}
}

func (c Config) newLogger() logger.Logger {
	opts := []logger.Option{logger.WithLevel(logger.ParseLevel(c.Log.Level))}
	if c.Log.File != "" {
		opts = append(opts, logger.WithRotatingFile(c.Log.File, c.Log.MaxSize, c.Log.MaxBackups, c.Log.MaxAge))
	}
	return logger.NewLogger(opts...)
}

// sessionOptions 转换为存储选项，-1 表示不清理
func (c Config) sessionOptions(l logger.Logger) []session.Option {
	opts := []session.Option{
		session.WithTTL(time.Duration(c.TTL) * time.Second),
		session.WithReapInterval(time.Duration(c.ReapInterval) * time.Second),
		session.WithNamespace(c.Table),
		session.WithLogger(l),
	}
	if c.ReapSchedule != "" {
		opts = append(opts, session.WithReapSchedule(c.ReapSchedule))
	}
	return opts
}
