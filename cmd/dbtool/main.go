package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var stateKeys = []string{
	ports.StateFavorites,
	ports.StatePlanning,
	ports.StateTravelDates,
	ports.StateDestination,
}

type dbFlags struct {
	driver      string
	path        string
	databaseURL string
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	obs.InitLogger("trip-planner-dbtool", cfg.Env, cfg.LogLevel)

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	flags := &dbFlags{}

	root := &cobra.Command{
		Use:           "dbtool",
		Short:         "Manage the trip planner state database",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&flags.driver, "driver", cfg.DBDriver, "database driver (sqlite or postgres)")
	root.PersistentFlags().StringVar(&flags.path, "db", cfg.DBPath, "sqlite database path")
	root.PersistentFlags().StringVar(&flags.databaseURL, "database-url", cfg.DatabaseURL, "postgres connection string")

	root.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Create tables if they do not exist",
			RunE: func(cmd *cobra.Command, _ []string) error {
				conn, err := flags.open()
				if err != nil {
					return err
				}
				defer conn.Close()

				if err := repositories.InitSchema(conn, flags.driver); err != nil {
					return err
				}
				log.Info().Str("driver", flags.driver).Msg("schema ready")
				return nil
			},
		},
		&cobra.Command{
			Use:   "seed [path]",
			Short: "Load favorites from a JSON file of candidate results",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := cfg.SeedPath
				if len(args) == 1 {
					path = args[0]
				}

				conn, repo, err := flags.repository()
				if err != nil {
					return err
				}
				defer conn.Close()

				n, err := repositories.SeedFromJSON(cmd.Context(), repo, path)
				if err != nil {
					return err
				}
				log.Info().Str("path", path).Int("favorites", n).Msg("seeding complete")
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print every persisted state key",
			RunE: func(cmd *cobra.Command, _ []string) error {
				conn, repo, err := flags.repository()
				if err != nil {
					return err
				}
				defer conn.Close()

				out := cmd.OutOrStdout()
				for _, key := range stateKeys {
					value, ok, err := repo.Load(cmd.Context(), key)
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintf(out, "%s: <unset>\n", key)
						continue
					}
					fmt.Fprintf(out, "%s: %s\n", key, value)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all persisted planner state",
			RunE: func(cmd *cobra.Command, _ []string) error {
				conn, repo, err := flags.repository()
				if err != nil {
					return err
				}
				defer conn.Close()

				if err := repo.Clear(cmd.Context()); err != nil {
					return err
				}
				log.Info().Msg("state cleared")
				return nil
			},
		},
	)

	return root
}

func (f *dbFlags) open() (*sql.DB, error) {
	switch f.driver {
	case db.DriverSQLite:
		return db.OpenSQLite(f.path)
	case db.DriverPostgres:
		if f.databaseURL == "" {
			return nil, errors.New("dbtool: --database-url is required for postgres")
		}
		return db.Open(f.databaseURL)
	default:
		return nil, fmt.Errorf("dbtool: unsupported driver %q", f.driver)
	}
}

// repository opens the database, ensures the schema and returns the state repository for the driver.
func (f *dbFlags) repository() (*sql.DB, ports.StateRepository, error) {
	conn, err := f.open()
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitSchema(conn, f.driver); err != nil {
		conn.Close()
		return nil, nil, err
	}

	if f.driver == db.DriverPostgres {
		return conn, repositories.NewSQLStateRepository(conn), nil
	}
	return conn, repositories.NewSqliteStateRepository(conn), nil
}
