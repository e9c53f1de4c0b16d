package sqlsession

import (
	"strconv"
	"strings"
	"sync"
)

// 会话表的列名，与既有的 Session 表结构保持一致
const (
	colID      = "sessionId"
	colData    = "sessionData"
	colTouched = "lastTouchedUtc"
)

// Dialect 屏蔽不同数据库在语法上的差异
type Dialect interface {
	// Name 返回注册时使用的名称
	Name() string

	// Quote 根据数据库方言对标识符(表名、列名等)进行引用
	Quote(name string) string

	// Placeholder 生成第 index 个参数的占位符，index 从 1 开始
	Placeholder(index int) string

	// BuildUpsert 在 INSERT 语句后追加冲突时的更新子句
	// 返回 false 表示不支持单语句 upsert，由存储退化为先更新后插入
	BuildUpsert(builder *strings.Builder, table string) bool

	// Greatest 返回两个表达式中较大的一个
	Greatest(a, b string) string

	// CreateTableSQL 返回幂等的建表和建索引语句
	CreateTableSQL(table string) []string

	// IsDuplicateKey 判断错误是否为主键冲突
	IsDuplicateKey(err error) bool
}

var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]Dialect)
)

// RegisterDialect 注册方言，同名方言会被覆盖
func RegisterDialect(name string, dialect Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[name] = dialect
}

// Get 按名称获取方言
func Get(name string) (Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[name]
	return d, ok
}

// BaseDialect 提供 MySQL 风格的默认实现，可被具体方言覆盖
type BaseDialect struct{}

func (BaseDialect) Quote(name string) string {
	return "`" + name + "`"
}

// 默认使用问号作为占位符
func (BaseDialect) Placeholder(int) string {
	return "?"
}

func (BaseDialect) Greatest(a, b string) string {
	return "GREATEST(" + a + ", " + b + ")"
}

func (BaseDialect) IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}

// buildOnConflict 生成 PostgreSQL 与 SQLite 共用的 ON CONFLICT 子句
func buildOnConflict(builder *strings.Builder, d Dialect, table string) {
	builder.WriteString(" ON CONFLICT (")
	builder.WriteString(d.Quote(colID))
	builder.WriteString(") DO UPDATE SET ")
	builder.WriteString(d.Quote(colData))
	builder.WriteString(" = excluded.")
	builder.WriteString(d.Quote(colData))
	builder.WriteString(", ")
	builder.WriteString(d.Quote(colTouched))
	builder.WriteString(" = ")
	builder.WriteString(d.Greatest(d.Quote(table)+"."+d.Quote(colTouched), "excluded."+d.Quote(colTouched)))
}

func indexName(table string) string {
	return "idx_" + table + "_" + colTouched
}

func varchar(size int) string {
	return "VARCHAR(" + strconv.Itoa(size) + ")"
}
