package sqlsession

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStatements(t *testing.T) {
	testCases := []struct {
		name    string
		dialect string
		want    statements
	}{
		{
			name:    "mysql",
			dialect: "mysql",
			want: statements{
				get:     "SELECT `sessionData` FROM `Session` WHERE `sessionId` = ?",
				insert:  "INSERT INTO `Session` (`sessionId`, `sessionData`, `lastTouchedUtc`) VALUES (?, ?, ?)",
				upsert:  "INSERT INTO `Session` (`sessionId`, `sessionData`, `lastTouchedUtc`) VALUES (?, ?, ?) AS `new` ON DUPLICATE KEY UPDATE `sessionData` = `new`.`sessionData`, `lastTouchedUtc` = GREATEST(`lastTouchedUtc`, `new`.`lastTouchedUtc`)",
				update:  "UPDATE `Session` SET `sessionData` = ?, `lastTouchedUtc` = GREATEST(`lastTouchedUtc`, ?) WHERE `sessionId` = ?",
				touch:   "UPDATE `Session` SET `lastTouchedUtc` = GREATEST(`lastTouchedUtc`, ?) WHERE `sessionId` = ?",
				destroy: "DELETE FROM `Session` WHERE `sessionId` = ?",
				count:   "SELECT COUNT(*) FROM `Session`",
				clear:   "DELETE FROM `Session`",
				reap:    "DELETE FROM `Session` WHERE `lastTouchedUtc` <= ?",
			},
		},
		{
			name:    "postgresql",
			dialect: "postgresql",
			want: statements{
				get:     `SELECT "sessionData" FROM "Session" WHERE "sessionId" = $1`,
				insert:  `INSERT INTO "Session" ("sessionId", "sessionData", "lastTouchedUtc") VALUES ($1, $2, $3)`,
				upsert:  `INSERT INTO "Session" ("sessionId", "sessionData", "lastTouchedUtc") VALUES ($1, $2, $3) ON CONFLICT ("sessionId") DO UPDATE SET "sessionData" = excluded."sessionData", "lastTouchedUtc" = GREATEST("Session"."lastTouchedUtc", excluded."lastTouchedUtc")`,
				update:  `UPDATE "Session" SET "sessionData" = $1, "lastTouchedUtc" = GREATEST("lastTouchedUtc", $2) WHERE "sessionId" = $3`,
				touch:   `UPDATE "Session" SET "lastTouchedUtc" = GREATEST("lastTouchedUtc", $1) WHERE "sessionId" = $2`,
				destroy: `DELETE FROM "Session" WHERE "sessionId" = $1`,
				count:   `SELECT COUNT(*) FROM "Session"`,
				clear:   `DELETE FROM "Session"`,
				reap:    `DELETE FROM "Session" WHERE "lastTouchedUtc" <= $1`,
			},
		},
		{
			name:    "sqlite",
			dialect: "sqlite",
			want: statements{
				get:     `SELECT "sessionData" FROM "Session" WHERE "sessionId" = ?`,
				insert:  `INSERT INTO "Session" ("sessionId", "sessionData", "lastTouchedUtc") VALUES (?, ?, ?)`,
				upsert:  `INSERT INTO "Session" ("sessionId", "sessionData", "lastTouchedUtc") VALUES (?, ?, ?) ON CONFLICT ("sessionId") DO UPDATE SET "sessionData" = excluded."sessionData", "lastTouchedUtc" = MAX("Session"."lastTouchedUtc", excluded."lastTouchedUtc")`,
				update:  `UPDATE "Session" SET "sessionData" = ?, "lastTouchedUtc" = MAX("lastTouchedUtc", ?) WHERE "sessionId" = ?`,
				touch:   `UPDATE "Session" SET "lastTouchedUtc" = MAX("lastTouchedUtc", ?) WHERE "sessionId" = ?`,
				destroy: `DELETE FROM "Session" WHERE "sessionId" = ?`,
				count:   `SELECT COUNT(*) FROM "Session"`,
				clear:   `DELETE FROM "Session"`,
				reap:    `DELETE FROM "Session" WHERE "lastTouchedUtc" <= ?`,
			},
		},
		{
			name:    "mssql",
			dialect: "mssql",
			want: statements{
				get:     "SELECT [sessionData] FROM [Session] WHERE [sessionId] = @p1",
				insert:  "INSERT INTO [Session] ([sessionId], [sessionData], [lastTouchedUtc]) VALUES (@p1, @p2, @p3)",
				upsert:  "",
				update:  "UPDATE [Session] SET [sessionData] = @p1, [lastTouchedUtc] = CASE WHEN [lastTouchedUtc] > @p2 THEN [lastTouchedUtc] ELSE @p2 END WHERE [sessionId] = @p3",
				touch:   "UPDATE [Session] SET [lastTouchedUtc] = CASE WHEN [lastTouchedUtc] > @p1 THEN [lastTouchedUtc] ELSE @p1 END WHERE [sessionId] = @p2",
				destroy: "DELETE FROM [Session] WHERE [sessionId] = @p1",
				count:   "SELECT COUNT(*) FROM [Session]",
				clear:   "DELETE FROM [Session]",
				reap:    "DELETE FROM [Session] WHERE [lastTouchedUtc] <= @p1",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, ok := Get(tc.dialect)
			require.True(t, ok)
			assert.Equal(t, tc.want, buildStatements(d, DefaultTable))
		})
	}
}

func TestDialect_Aliases(t *testing.T) {
	for alias, name := range map[string]string{
		"postgres":  "postgresql",
		"sqlite3":   "sqlite",
		"sqlserver": "mssql",
	} {
		d, ok := Get(alias)
		require.True(t, ok, alias)
		assert.Equal(t, name, d.Name())
	}

	_, ok := Get("oracle")
	assert.False(t, ok)
}

func TestDialect_CreateTableSQL(t *testing.T) {
	d, _ := Get("mysql")
	stmts := d.CreateTableSQL("web_session")
	require.Len(t, stmts, 1)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS `web_session` (`sessionId` VARCHAR(450) NOT NULL, `sessionData` LONGTEXT, "+
		"`lastTouchedUtc` DATETIME(6) NOT NULL, PRIMARY KEY (`sessionId`), KEY `idx_web_session_lastTouchedUtc` (`lastTouchedUtc`)"+
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci", stmts[0])

	d, _ = Get("postgresql")
	stmts = d.CreateTableSQL("web_session")
	require.Len(t, stmts, 2)
	assert.Equal(t, `CREATE INDEX IF NOT EXISTS "idx_web_session_lastTouchedUtc" ON "web_session" ("lastTouchedUtc")`, stmts[1])

	d, _ = Get("mssql")
	stmts = d.CreateTableSQL("Session")
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "IF OBJECT_ID(N'Session', N'U') IS NULL CREATE TABLE [Session]")
}

func TestDialect_IsDuplicateKey(t *testing.T) {
	testCases := []struct {
		name    string
		dialect string
		err     error
		want    bool
	}{
		{name: "mysql dup entry", dialect: "mysql", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'sid' for key 'PRIMARY'"}, want: true},
		{name: "mysql wrapped dup entry", dialect: "mysql", err: errors.Join(errors.New("exec"), &mysql.MySQLError{Number: 1062}), want: true},
		{name: "mysql other error", dialect: "mysql", err: &mysql.MySQLError{Number: 1146, Message: "Table 'app.Session' doesn't exist"}, want: false},
		{name: "postgres unique violation", dialect: "postgresql", err: errors.New(`pq: duplicate key value violates unique constraint "Session_pkey" (SQLSTATE 23505)`), want: true},
		{name: "sqlite unique", dialect: "sqlite", err: errors.New("UNIQUE constraint failed: Session.sessionId"), want: true},
		{name: "mssql primary key", dialect: "mssql", err: errors.New("mssql: Violation of PRIMARY KEY constraint 'PK_Session'. Cannot insert duplicate key in object 'dbo.Session'."), want: true},
		{name: "mssql timeout", dialect: "mssql", err: errors.New("i/o timeout"), want: false},
		{name: "nil", dialect: "mssql", err: nil, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, ok := Get(tc.dialect)
			require.True(t, ok)
			assert.Equal(t, tc.want, d.IsDuplicateKey(tc.err))
		})
	}
}
