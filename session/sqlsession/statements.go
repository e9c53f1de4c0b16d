package sqlsession

import (
	"strings"
)

// statements 在构造时一次性生成，之后只读
type statements struct {
	get     string
	insert  string
	upsert  string // 为空表示方言不支持单语句 upsert
	update  string
	touch   string
	destroy string
	count   string
	clear   string
	reap    string
}

func buildStatements(d Dialect, table string) statements {
	t := d.Quote(table)
	id, data, touched := d.Quote(colID), d.Quote(colData), d.Quote(colTouched)

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(t)
	sb.WriteString(" (" + id + ", " + data + ", " + touched + ") VALUES (")
	sb.WriteString(d.Placeholder(1) + ", " + d.Placeholder(2) + ", " + d.Placeholder(3) + ")")
	insert := sb.String()

	upsert := ""
	if d.BuildUpsert(&sb, table) {
		upsert = sb.String()
	}

	return statements{
		get:    "SELECT " + data + " FROM " + t + " WHERE " + id + " = " + d.Placeholder(1),
		insert: insert,
		upsert: upsert,
		update: "UPDATE " + t + " SET " + data + " = " + d.Placeholder(1) + ", " +
			touched + " = " + d.Greatest(touched, d.Placeholder(2)) +
			" WHERE " + id + " = " + d.Placeholder(3),
		touch: "UPDATE " + t + " SET " + touched + " = " + d.Greatest(touched, d.Placeholder(1)) +
			" WHERE " + id + " = " + d.Placeholder(2),
		destroy: "DELETE FROM " + t + " WHERE " + id + " = " + d.Placeholder(1),
		count:   "SELECT COUNT(*) FROM " + t,
		clear:   "DELETE FROM " + t,
		reap:    "DELETE FROM " + t + " WHERE " + touched + " <= " + d.Placeholder(1),
	}
}
