// sessionctl 管理保存在 SQL 表中的会话
package main

import (
	"context"
	"io"
	"os"

	"github.com/fyerfyer/fyer-session/logger"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		logger.Error("command failed", logger.FieldError(err))
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.Command {
	r := &runner{out: out}
	return &cli.Command{
		Name:  "sessionctl",
		Usage: "Inspect and maintain the SQL session table",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", Sources: cli.EnvVars("SESSIONCTL_CONFIG")},
			&cli.StringFlag{Name: "dsn", Usage: "database DSN", Sources: cli.EnvVars("SESSIONCTL_DSN")},
			&cli.StringFlag{Name: "dialect", Value: "mysql", Usage: "SQL dialect", Sources: cli.EnvVars("SESSIONCTL_DIALECT")},
			&cli.StringFlag{Name: "table", Usage: "session table name", Sources: cli.EnvVars("SESSIONCTL_TABLE")},
			&cli.IntFlag{Name: "ttl", Usage: "session lifetime in seconds", Sources: cli.EnvVars("SESSIONCTL_TTL")},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", Sources: cli.EnvVars("SESSIONCTL_LOG_LEVEL")},
			&cli.StringFlag{Name: "log-file", Usage: "write logs to a rotating file", Sources: cli.EnvVars("SESSIONCTL_LOG_FILE")},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Create the session table if it does not exist",
				Action: r.migrate,
			},
			{
				Name:   "count",
				Usage:  "Print the number of stored sessions, including expired ones not yet reaped",
				Action: r.count,
			},
			{
				Name:      "get",
				Usage:     "Print a session as JSON (refreshes its last-touched time)",
				ArgsUsage: "<id>",
				Action:    r.get,
			},
			{
				Name:      "destroy",
				Usage:     "Delete a session",
				ArgsUsage: "<id>",
				Action:    r.destroy,
			},
			{
				Name:  "clear",
				Usage: "Delete every session",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Usage: "confirm deleting all sessions"},
				},
				Action: r.clear,
			},
			{
				Name:   "reap",
				Usage:  "Delete expired sessions once",
				Action: r.reap,
			},
			{
				Name:  "run-reaper",
				Usage: "Delete expired sessions periodically until interrupted",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "interval", Usage: "seconds between sweeps", Sources: cli.EnvVars("SESSIONCTL_REAP_INTERVAL")},
					&cli.StringFlag{Name: "schedule", Usage: "cron expression overriding the interval"},
				},
				Action: r.runReaper,
			},
		},
	}
}
