package sqlsession

import (
	"strconv"
	"strings"

	"github.com/fyerfyer/fyer-session/session"
)

type Postgresql struct {
	BaseDialect
}

func (Postgresql) Name() string {
	return "postgresql"
}

// Quote PostgreSQL使用双引号作为标识符引用符，同时保留列名的大小写
func (Postgresql) Quote(name string) string {
	return "\"" + name + "\""
}

// Placeholder PostgreSQL使用$n作为参数占位符
func (Postgresql) Placeholder(index int) string {
	return "$" + strconv.Itoa(index)
}

func (p Postgresql) BuildUpsert(builder *strings.Builder, table string) bool {
	buildOnConflict(builder, p, table)
	return true
}

func (p Postgresql) CreateTableSQL(table string) []string {
	return []string{
		"CREATE TABLE IF NOT EXISTS " + p.Quote(table) + " (" +
			p.Quote(colID) + " " + varchar(session.MaxIDLength) + " PRIMARY KEY, " +
			p.Quote(colData) + " TEXT, " +
			p.Quote(colTouched) + " TIMESTAMP NOT NULL)",
		"CREATE INDEX IF NOT EXISTS " + p.Quote(indexName(table)) + " ON " + p.Quote(table) + " (" + p.Quote(colTouched) + ")",
	}
}

// IsDuplicateKey 识别 SQLSTATE 23505 unique_violation
func (p Postgresql) IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "23505") || p.BaseDialect.IsDuplicateKey(err)
}

func init() {
	RegisterDialect("postgresql", Postgresql{})
	RegisterDialect("postgres", Postgresql{})
}
