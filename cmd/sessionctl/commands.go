package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/fyerfyer/fyer-session/logger"
	"github.com/fyerfyer/fyer-session/session"
	"github.com/fyerfyer/fyer-session/session/sqlsession"
	"github.com/urfave/cli/v3"
)

var (
	errMissingID       = errors.New("sessionctl: session id argument is required")
	errReapingDisabled = errors.New("sessionctl: run-reaper needs a positive --interval or a --schedule")
)

type runner struct {
	out io.Writer
}

// resolve 合并配置文件和命令行参数，并初始化日志
func (r *runner) resolve(cmd *cli.Command) (Config, logger.Logger, error) {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return cfg, nil, err
	}
	cfg.applyFlags(cmd)
	l := cfg.newLogger()
	logger.SetDefaultLogger(l)
	return cfg, l, nil
}

// withStore 打开一个不做后台清理的存储执行 fn
func (r *runner) withStore(ctx context.Context, cmd *cli.Command, fn func(s *sqlsession.Store) error) error {
	cfg, l, err := r.resolve(cmd)
	if err != nil {
		return err
	}
	cfg.ReapInterval = int(session.NeverReap / time.Second)
	cfg.ReapSchedule = ""

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := sqlsession.New(db, cfg.Dialect, cfg.sessionOptions(l)...)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (r *runner) migrate(ctx context.Context, cmd *cli.Command) error {
	return r.withStore(ctx, cmd, func(s *sqlsession.Store) error {
		if err := s.Migrate(ctx); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "table %s is ready\n", s.Table())
		return nil
	})
}

func (r *runner) count(ctx context.Context, cmd *cli.Command) error {
	return r.withStore(ctx, cmd, func(s *sqlsession.Store) error {
		n, err := s.Length(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, n)
		return nil
	})
}

func (r *runner) get(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return errMissingID
	}
	return r.withStore(ctx, cmd, func(s *sqlsession.Store) error {
		values, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if values == nil {
			return fmt.Errorf("sessionctl: session %q not found", id)
		}
		out, err := sonic.ConfigStd.MarshalIndent(values, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, string(out))
		return nil
	})
}

func (r *runner) destroy(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return errMissingID
	}
	return r.withStore(ctx, cmd, func(s *sqlsession.Store) error {
		return s.Destroy(ctx, id)
	})
}

func (r *runner) clear(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return errors.New("sessionctl: refusing to delete every session without --yes")
	}
	return r.withStore(ctx, cmd, func(s *sqlsession.Store) error {
		return s.Clear(ctx)
	})
}

func (r *runner) reap(ctx context.Context, cmd *cli.Command) error {
	return r.withStore(ctx, cmd, func(s *sqlsession.Store) error {
		n, err := s.Reap(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "removed %d expired sessions\n", n)
		return nil
	})
}

// runReaper 启动后台清理并阻塞到收到退出信号
func (r *runner) runReaper(ctx context.Context, cmd *cli.Command) error {
	cfg, l, err := r.resolve(cmd)
	if err != nil {
		return err
	}
	if cmd.IsSet("interval") {
		cfg.ReapInterval = int(cmd.Int("interval"))
	}
	if cmd.IsSet("schedule") {
		cfg.ReapSchedule = cmd.String("schedule")
	}
	if cfg.ReapSchedule == "" && cfg.ReapInterval == int(session.NeverReap/time.Second) {
		return errReapingDisabled
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := append(cfg.sessionOptions(l), session.WithReapCallback(func(err error) {
		if err != nil {
			l.Warn("sweep failed", logger.FieldError(err))
		}
	}))
	store, err := sqlsession.New(db, cfg.Dialect, opts...)
	if err != nil {
		return err
	}
	defer store.Close()

	l.Info("reaper started",
		logger.String("table", store.Table()),
		logger.Int("ttl_seconds", cfg.TTL),
		logger.Int("interval_seconds", cfg.ReapInterval))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	l.Info("reaper stopping")
	return nil
}
