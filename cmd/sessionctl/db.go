package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// openDB 只链接了 mysql 驱动，其他方言需要在自己的程序中使用 sqlsession
func openDB(cfg Config) (*sql.DB, error) {
	if cfg.Dialect != "mysql" {
		return nil, fmt.Errorf("sessionctl: no driver linked for dialect %q", cfg.Dialect)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("sessionctl: dsn is required")
	}
	dsn, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sessionctl: invalid dsn: %w", err)
	}
	// lastTouchedUtc 以 UTC 写入和比较
	dsn.ParseTime = true
	dsn.Loc = time.UTC
	connector, err := mysql.NewConnector(dsn)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}
