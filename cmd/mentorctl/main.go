// Command mentorctl runs maintenance tasks against the MentorHub database.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	appMigrations "github.com/yigit/mentorhub/internal/app/migrations"
	appRepos "github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/bootstrap"
	"github.com/yigit/mentorhub/internal/config"
	"github.com/yigit/mentorhub/internal/db"
	"github.com/yigit/mentorhub/internal/pkg/logger"
	"github.com/yigit/mentorhub/internal/seed"
)

func main() {
	app := &cli.App{
		Name:  "mentorctl",
		Usage: "MentorHub database maintenance",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   bootstrap.DefaultConfigPath,
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"MENTORHUB_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			seedCommand(),
			resetCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("mentorctl failed")
		os.Exit(1)
	}
}

// withDatabase loads configuration, connects and hands the pool to fn.
func withDatabase(c *cli.Context, fn func(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
	if err != nil {
		return err
	}
	database, err := bootstrap.ConnectDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(c.Context, 5*time.Minute)
	defer cancel()
	return fn(ctx, cfg, database, lgr)
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending SQL migrations",
		Action: func(c *cli.Context) error {
			return withDatabase(c, func(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
				return bootstrap.Migrate(ctx, cfg, database, lgr)
			})
		},
		Subcommands: []*cli.Command{
			{
				Name:  "status",
				Usage: "list migrations that have not been applied",
				Action: func(c *cli.Context) error {
					return withDatabase(c, func(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
						pending, err := appMigrations.NewMigrator(database.Pool, lgr).Pending(ctx, cfg.Database.MigrationsDir)
						if err != nil {
							return err
						}
						if len(pending) == 0 {
							fmt.Fprintln(c.App.Writer, "schema is up to date")
							return nil
						}
						for _, m := range pending {
							fmt.Fprintf(c.App.Writer, "pending %s %s\n", m.Version, m.Name)
						}
						return nil
					})
				},
			},
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "insert demo departments, staff and students",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "password",
				Value: seed.DefaultPassword,
				Usage: "password for every seeded account",
			},
		},
		Action: func(c *cli.Context) error {
			return withDatabase(c, func(ctx context.Context, _ *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
				res, err := seed.Run(ctx, appRepos.NewRepositories(database), c.String("password"), lgr)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "seeded %d departments, %d users, %d faculty, %d heads, %d students\n",
					res.Departments, res.Users, res.Faculty, res.HODs, res.Students)
				return nil
			})
		},
	}
}

func resetCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset-mentorships",
		Usage: "close the active mentorships of a department",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "department", Aliases: []string{"d"}, Required: true, Usage: "department code"},
			&cli.IntFlag{Name: "year", Usage: "restrict to one academic year"},
			&cli.IntFlag{Name: "semester", Usage: "restrict to one semester"},
		},
		Action: func(c *cli.Context) error {
			var year, semester *int
			if c.IsSet("year") {
				v := c.Int("year")
				year = &v
			}
			if c.IsSet("semester") {
				v := c.Int("semester")
				semester = &v
			}
			return withDatabase(c, func(ctx context.Context, _ *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
				store := appRepos.NewRepositories(database)
				dept, err := store.Departments().GetByCode(ctx, c.String("department"))
				if err != nil {
					return fmt.Errorf("department %q: %w", c.String("department"), err)
				}
				var closed int64
				err = store.WithTx(ctx, func(ctx context.Context, tx appRepos.Store) error {
					closed, err = tx.Mentorships().CloseByDepartment(ctx, dept.ID, year, semester, time.Now())
					return err
				})
				if err != nil {
					return err
				}
				lgr.Info().Str("department", dept.Code).Int64("closed", closed).Msg("Mentorships reset")
				fmt.Fprintf(c.App.Writer, "closed %d mentorships in %s\n", closed, dept.Code)
				return nil
			})
		},
	}
}
