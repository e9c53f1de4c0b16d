package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fyerfyer/fyer-session/logger"
	"github.com/robfig/cron/v3"
)

// SweepFunc 执行一次过期清理，返回删除的会话数量
type SweepFunc func(ctx context.Context) (int64, error)

// Reaper 按配置周期性地执行清理，由所属的存储持有并在 Close 时停止
type Reaper struct {
	sweep    SweepFunc
	callback func(error)
	log      logger.Logger

	cron     *cron.Cron
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// every 是固定间隔的调度，cron.Every 会把间隔向上取整到秒
type every time.Duration

func (e every) Next(t time.Time) time.Time {
	return t.Add(time.Duration(e))
}

// StartReaper 立即在后台执行一次清理，然后按间隔或 cron 表达式重复执行
// 配置为 NeverReap 时返回 nil
func StartReaper(sweep SweepFunc, cfg Config) *Reaper {
	if !cfg.Reaping() {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cl := cronLogger{log: cfg.Logger}
	r := &Reaper{
		sweep:    sweep,
		callback: cfg.ReapCallback,
		log:      cfg.Logger,
		ctx:      ctx,
		cancel:   cancel,
		cron:     cron.New(cron.WithLogger(cl)),
	}

	var schedule cron.Schedule = every(cfg.ReapInterval)
	if cfg.schedule != nil {
		schedule = cfg.schedule
	}
	// 首次清理与定时清理共用同一个 job，同一时刻最多只有一次清理在运行
	job := cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(r.run))
	r.cron.Schedule(schedule, job)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		job.Run()
	}()
	r.cron.Start()
	return r
}

func (r *Reaper) run() {
	start := time.Now()
	n, err := r.sweep(r.ctx)
	if err != nil && r.ctx.Err() != nil && errors.Is(err, context.Canceled) {
		// 停止过程中被取消的清理不再回调
		return
	}
	if err != nil {
		r.log.Error("reap failed", logger.FieldError(err), logger.Duration("elapsed", time.Since(start)))
	} else {
		r.log.Info("reap finished", logger.Int64("removed", n), logger.Duration("elapsed", time.Since(start)))
	}
	r.callback(err)
}

// Stop 取消进行中的清理并等待其退出，可重复调用
func (r *Reaper) Stop() {
	if r == nil {
		return
	}
	r.stopOnce.Do(func() {
		r.cancel()
		<-r.cron.Stop().Done()
		r.wg.Wait()
	})
}

// cronLogger 把 cron 的日志接到 logger 包
type cronLogger struct {
	log logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug("reaper: "+msg, toFields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error("reaper: "+msg, append(toFields(keysAndValues), logger.FieldError(err))...)
}

func toFields(keysAndValues []interface{}) []logger.Field {
	fields := make([]logger.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, logger.Interface(key, keysAndValues[i+1]))
	}
	return fields
}
