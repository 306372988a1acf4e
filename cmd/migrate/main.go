package main

import (
	"fmt"
	"os"

	"case-opening-platform/config"
	pgStorage "case-opening-platform/internal/adapter/storage/postgres"
	"case-opening-platform/pkg/logger"

	"github.com/spf13/pflag"
)

const usage = `usage: migrate [--config path] <up|down|version> [--steps n]`

func main() {
	configPath := pflag.String("config", os.Getenv("COP_CONFIG"), "path to the config file")
	steps := pflag.Int("steps", 1, "number of migrations to roll back with down")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	dsn := cfg.Database.DSN()

	switch cmd := pflag.Arg(0); cmd {
	case "up":
		err = pgStorage.MigrateUp(dsn, log)
	case "down":
		err = pgStorage.MigrateDown(dsn, *steps, log)
	case "version":
		var (
			version uint
			dirty   bool
			applied bool
		)
		version, dirty, applied, err = pgStorage.MigrationVersion(dsn)
		if err == nil {
			if !applied {
				log.Info().Msg("No migrations applied")
			} else {
				log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Migration version")
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n%s\n", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
