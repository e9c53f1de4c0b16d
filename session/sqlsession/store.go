// Package sqlsession 把 web 会话保存在关系型数据库的表中：
//
//	Session (sessionId varchar(450) primary key, sessionData text, lastTouchedUtc datetime)
//
// 存储借用调用方的连接，每个操作只执行一条语句，并发一致性由数据库的单语句语义保证。
// 超过 TTL 未访问的会话由后台清理删除，直到调用 Close。
package sqlsession

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/fyerfyer/fyer-session/logger"
	"github.com/fyerfyer/fyer-session/session"
)

// DefaultTable 是未指定命名空间时使用的表名
const DefaultTable = "Session"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DB 是存储需要的最小连接能力，*sql.DB、*sql.Conn 和 *sql.Tx 都满足
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db      DB
	dialect Dialect
	table   string
	stmts   statements
	cfg     session.Config
	log     logger.Logger
	reaper  *session.Reaper
}

var _ session.Backend = (*Store)(nil)

// New 使用已有连接创建存储，dialectName 为 mysql、postgresql、sqlite 或 mssql
// 除非配置为 session.NeverReap，否则立即执行一次清理并按间隔持续清理
func New(db DB, dialectName string, opts ...session.Option) (*Store, error) {
	if db == nil || isNilDB(db) {
		return nil, session.NewConfigError("connection", "must be an open database connection")
	}
	dialect, ok := Get(dialectName)
	if !ok {
		return nil, session.NewConfigError("dialect", "unknown dialect "+dialectName)
	}

	cfg, err := session.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	table := cfg.Namespace
	if table == "" {
		table = DefaultTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, session.NewConfigError("namespace", "invalid table name "+table)
	}

	s := &Store{
		db:      db,
		dialect: dialect,
		table:   table,
		stmts:   buildStatements(dialect, table),
		cfg:     cfg,
		log:     cfg.Logger.WithFields(logger.String("store", "sqlsession"), logger.String("table", table)),
	}
	s.reaper = session.StartReaper(s.Reap, cfg)
	return s, nil
}

func isNilDB(db DB) bool {
	switch v := db.(type) {
	case *sql.DB:
		return v == nil
	case *sql.Conn:
		return v == nil
	case *sql.Tx:
		return v == nil
	}
	return false
}

// Table 返回存储使用的表名
func (s *Store) Table() string {
	return s.table
}

// Get 读取会话数据，成功后刷新最后访问时间
func (s *Store) Get(ctx context.Context, id string) (session.Values, error) {
	if err := session.ValidateID(id); err != nil {
		return nil, err
	}
	s.log.Debug("get", logger.String("session_id", id))

	var data sql.NullString
	err := s.db.QueryRowContext(ctx, s.stmts.get, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, session.NewStorageError("get", id, err)
	}
	if !data.Valid || data.String == "" {
		return nil, nil
	}

	values, err := s.cfg.Codec.Decode([]byte(data.String))
	if err != nil {
		return nil, &session.DeserializationError{ID: id, Err: err}
	}

	if err := s.touch(ctx, id); err != nil {
		return nil, err
	}
	return values, nil
}

// Set 写入会话数据，新会话和已有会话都会把最后访问时间刷新为当前时间
func (s *Store) Set(ctx context.Context, id string, values session.Values) error {
	if err := session.ValidateID(id); err != nil {
		return err
	}
	s.log.Debug("set", logger.String("session_id", id))

	data, err := s.cfg.Codec.Encode(values)
	if err != nil {
		return fmt.Errorf("session: cannot encode session %q: %w", id, err)
	}
	now := s.cfg.Now()

	if s.stmts.upsert != "" {
		_, err = s.db.ExecContext(ctx, s.stmts.upsert, id, string(data), now)
		return session.NewStorageError("set", id, err)
	}
	return session.NewStorageError("set", id, s.updateOrInsert(ctx, id, string(data), now))
}

// updateOrInsert 用于没有 upsert 语法的方言
// 插入时如果被并发的 Set 抢先，说明记录已存在，再更新一次即可
func (s *Store) updateOrInsert(ctx context.Context, id, data string, now time.Time) error {
	updated, err := s.update(ctx, id, data, now)
	if err != nil || updated {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.stmts.insert, id, data, now)
	if err == nil || !s.dialect.IsDuplicateKey(err) {
		return err
	}

	_, err = s.update(ctx, id, data, now)
	return err
}

func (s *Store) update(ctx context.Context, id, data string, now time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.stmts.update, data, now, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Destroy 删除会话，记录不存在时直接返回
func (s *Store) Destroy(ctx context.Context, id string) error {
	if err := session.ValidateID(id); err != nil {
		return err
	}
	s.log.Debug("destroy", logger.String("session_id", id))

	_, err := s.db.ExecContext(ctx, s.stmts.destroy, id)
	return session.NewStorageError("destroy", id, err)
}

// Touch 只刷新最后访问时间，不修改会话数据
func (s *Store) Touch(ctx context.Context, id string, _ session.Values) error {
	if err := session.ValidateID(id); err != nil {
		return err
	}
	s.log.Debug("touch", logger.String("session_id", id))
	return s.touch(ctx, id)
}

func (s *Store) touch(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.stmts.touch, s.cfg.Now(), id)
	return session.NewStorageError("touch", id, err)
}

// Length 返回表中的会话数量，已过期但尚未清理的会话也计算在内
func (s *Store) Length(ctx context.Context) (int64, error) {
	s.log.Debug("length")

	var n int64
	if err := s.db.QueryRowContext(ctx, s.stmts.count).Scan(&n); err != nil {
		return 0, session.NewStorageError("length", "", err)
	}
	return n, nil
}

// Clear 删除表中全部会话
func (s *Store) Clear(ctx context.Context) error {
	s.log.Debug("clear")

	_, err := s.db.ExecContext(ctx, s.stmts.clear)
	return session.NewStorageError("clear", "", err)
}

// Reap 删除最后访问时间不晚于 now - ttl 的会话
func (s *Store) Reap(ctx context.Context) (int64, error) {
	cutoff := s.cfg.Now().Add(-s.cfg.TTL)
	s.log.Debug("reap", logger.Time("cutoff", cutoff))

	res, err := s.db.ExecContext(ctx, s.stmts.reap, cutoff)
	if err != nil {
		return 0, session.NewStorageError("reap", "", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, session.NewStorageError("reap", "", err)
	}
	return n, nil
}

// Close 停止后台清理，调用方传入的连接由调用方负责关闭
func (s *Store) Close() error {
	s.reaper.Stop()
	return nil
}
