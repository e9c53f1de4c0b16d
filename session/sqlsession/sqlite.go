package sqlsession

import (
	"strings"
)

type Sqlite struct {
	BaseDialect
}

func (Sqlite) Name() string {
	return "sqlite"
}

// Quote SQLite使用双引号作为标识符引用符
func (Sqlite) Quote(name string) string {
	return "\"" + name + "\""
}

// Greatest SQLite 的多参数 MAX 是标量函数
func (Sqlite) Greatest(a, b string) string {
	return "MAX(" + a + ", " + b + ")"
}

func (s Sqlite) BuildUpsert(builder *strings.Builder, table string) bool {
	buildOnConflict(builder, s, table)
	return true
}

func (s Sqlite) CreateTableSQL(table string) []string {
	return []string{
		"CREATE TABLE IF NOT EXISTS " + s.Quote(table) + " (" +
			s.Quote(colID) + " TEXT PRIMARY KEY, " +
			s.Quote(colData) + " TEXT, " +
			s.Quote(colTouched) + " DATETIME NOT NULL)",
		"CREATE INDEX IF NOT EXISTS " + s.Quote(indexName(table)) + " ON " + s.Quote(table) + " (" + s.Quote(colTouched) + ")",
	}
}

func init() {
	RegisterDialect("sqlite", Sqlite{})
	RegisterDialect("sqlite3", Sqlite{})
}
