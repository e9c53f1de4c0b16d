package sqlsession

import (
	"context"

	"github.com/fyerfyer/fyer-session/logger"
	"github.com/fyerfyer/fyer-session/session"
)

// Migrate 创建会话表和 lastTouchedUtc 上的索引，表已存在时不做修改
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.CreateTableSQL(s.table) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return session.NewStorageError("migrate", "", err)
		}
	}
	s.log.Info("session table ready", logger.String("dialect", s.dialect.Name()))
	return nil
}
