package main

import (
	"Aviary/config"
	"Aviary/pkg/log"
	"Aviary/pkg/server"
	"Aviary/pkg/snowflake"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	defer log.Sync()

	cfg := config.New(config.Path(os.Getenv("APP_ENV")))
	if err := log.SetLevel(cfg.App.LogLevel); err != nil {
		log.L.Warn("invalid log level", zap.String("level", cfg.App.LogLevel), zap.Error(err))
	}
	if err := snowflake.SetNode(cfg.App.NodeID); err != nil {
		log.L.Fatal("snowflake node", zap.Int64("node_id", cfg.App.NodeID), zap.Error(err))
	}

	cliApp := &cli.App{
		Name:  "api-server",
		Usage: "bird catalogue http api",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start http server",
				Action: func(ctx *cli.Context) error {
					appProvider, cleanup, err := InitServer(cfg)
					if err != nil {
						return err
					}
					defer cleanup()
					return server.Run(ctx, appProvider)
				},
			},
			{
				Name:  "migrate",
				Usage: "manage database schema",
				Subcommands: []*cli.Command{
					{
						Name:  "up",
						Usage: "apply all pending migrations",
						Action: func(ctx *cli.Context) error {
							m, cleanup, err := InitMigrator(cfg)
							if err != nil {
								return err
							}
							defer cleanup()
							applied, err := m.Up(ctx.Context)
							if err != nil {
								return err
							}
							if len(applied) == 0 {
								fmt.Fprintln(ctx.App.Writer, "schema is up to date")
							}
							for _, v := range applied {
								fmt.Fprintln(ctx.App.Writer, "applied", v)
							}
							return nil
						},
					},
					{
						Name:  "down",
						Usage: "roll back the latest migration",
						Action: func(ctx *cli.Context) error {
							m, cleanup, err := InitMigrator(cfg)
							if err != nil {
								return err
							}
							defer cleanup()
							v, err := m.Down(ctx.Context)
							if err != nil {
								return err
							}
							if v == "" {
								fmt.Fprintln(ctx.App.Writer, "nothing to roll back")
								return nil
							}
							fmt.Fprintln(ctx.App.Writer, "rolled back", v)
							return nil
						},
					},
					{
						Name:  "status",
						Usage: "list migrations and whether they are applied",
						Action: func(ctx *cli.Context) error {
							m, cleanup, err := InitMigrator(cfg)
							if err != nil {
								return err
							}
							defer cleanup()
							st, err := m.Status(ctx.Context)
							if err != nil {
								return err
							}
							w := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
							fmt.Fprintln(w, "VERSION\tSTATUS\tAPPLIED AT")
							for _, s := range st {
								status, at := "down", "-"
								if s.Applied {
									status, at = "up", s.AppliedAt.Format(time.RFC3339)
								}
								fmt.Fprintf(w, "%s\t%s\t%s\n", s.Version, status, at)
							}
							return w.Flush()
						},
					},
				},
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("api-server", zap.Error(err))
	}
}
