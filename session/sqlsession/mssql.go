package sqlsession

import (
	"strconv"
	"strings"
)

// Mssql 对应 SQL Server，使用 go-mssqldb 风格的 @pN 命名参数
type Mssql struct {
	BaseDialect
}

func (Mssql) Name() string {
	return "mssql"
}

func (Mssql) Quote(name string) string {
	return "[" + name + "]"
}

func (Mssql) Placeholder(index int) string {
	return "@p" + strconv.Itoa(index)
}

// BuildUpsert SQL Server 没有 ON CONFLICT，MERGE 在并发下也不安全，交给存储退化处理
func (Mssql) BuildUpsert(*strings.Builder, string) bool {
	return false
}

func (Mssql) Greatest(a, b string) string {
	return "CASE WHEN " + a + " > " + b + " THEN " + a + " ELSE " + b + " END"
}

func (m Mssql) CreateTableSQL(table string) []string {
	return []string{
		"IF OBJECT_ID(N'" + table + "', N'U') IS NULL CREATE TABLE " + m.Quote(table) + " (" +
			m.Quote(colID) + " NVARCHAR(450) NOT NULL PRIMARY KEY, " +
			m.Quote(colData) + " NVARCHAR(MAX), " +
			m.Quote(colTouched) + " DATETIME2 NOT NULL)",
		"IF NOT EXISTS (SELECT 1 FROM sys.indexes WHERE name = N'" + indexName(table) + "') " +
			"CREATE INDEX " + m.Quote(indexName(table)) + " ON " + m.Quote(table) + " (" + m.Quote(colTouched) + ")",
	}
}

// IsDuplicateKey 识别 2627 主键冲突和 2601 唯一索引冲突
func (m Mssql) IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "2627") || strings.Contains(msg, "2601") ||
		strings.Contains(msg, "Violation of PRIMARY KEY") || m.BaseDialect.IsDuplicateKey(err)
}

func init() {
	RegisterDialect("mssql", Mssql{})
	RegisterDialect("sqlserver", Mssql{})
}
