package sqlsession

import (
	"errors"
	"strings"

	"github.com/fyerfyer/fyer-session/session"
	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry 是 MySQL 的 ER_DUP_ENTRY 错误码
const mysqlDuplicateEntry = 1062

// mysqlRowAlias 是 upsert 中待插入行的别名，需要 MySQL 8.0.19 及以上
const mysqlRowAlias = "new"

type Mysql struct {
	BaseDialect
}

func (Mysql) Name() string {
	return "mysql"
}

func (m Mysql) BuildUpsert(builder *strings.Builder, table string) bool {
	// 使用行别名引用待插入的值，VALUES() 写法自 8.0.20 起已废弃
	alias := m.Quote(mysqlRowAlias)
	builder.WriteString(" AS ")
	builder.WriteString(alias)
	builder.WriteString(" ON DUPLICATE KEY UPDATE ")
	builder.WriteString(m.Quote(colData))
	builder.WriteString(" = ")
	builder.WriteString(alias + "." + m.Quote(colData))
	builder.WriteString(", ")
	builder.WriteString(m.Quote(colTouched))
	builder.WriteString(" = ")
	builder.WriteString(m.Greatest(m.Quote(colTouched), alias+"."+m.Quote(colTouched)))
	return true
}

// CreateTableSQL 为MySQL生成建表语句
func (m Mysql) CreateTableSQL(table string) []string {
	return []string{
		"CREATE TABLE IF NOT EXISTS " + m.Quote(table) + " (" +
			m.Quote(colID) + " " + varchar(session.MaxIDLength) + " NOT NULL, " +
			m.Quote(colData) + " LONGTEXT, " +
			m.Quote(colTouched) + " DATETIME(6) NOT NULL, " +
			"PRIMARY KEY (" + m.Quote(colID) + "), " +
			"KEY " + m.Quote(indexName(table)) + " (" + m.Quote(colTouched) + ")" +
			") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci",
	}
}

func (m Mysql) IsDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return m.BaseDialect.IsDuplicateKey(err)
}

func init() {
	RegisterDialect("mysql", Mysql{})
}
