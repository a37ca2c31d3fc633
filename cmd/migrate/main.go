package main

import (
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/config"
	"github.com/sysu-ecnc-dev/barber-booking/backend/migrations"
)

// usage: migrate [up | down | force <version>]
func main() {
	/**********************************************
	 * create logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * load config
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	/**********************************************
	 * connect to database
	 **********************************************/
	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	/**********************************************
	 * build migrator
	 **********************************************/
	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		logger.Error("failed to create database driver", "error", err)
		os.Exit(1)
	}

	srcDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		logger.Error("failed to create source driver", "error", err)
		os.Exit(1)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		logger.Error("failed to create migrator", "error", err)
		os.Exit(1)
	}
	defer func() { _, _ = m.Close() }()

	/**********************************************
	 * run
	 **********************************************/
	command := "up"
	if len(os.Args) >= 2 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "force":
		if len(os.Args) < 3 {
			logger.Error("force needs a version")
			os.Exit(2)
		}
		version, convErr := strconv.Atoi(os.Args[2])
		if convErr != nil {
			logger.Error("invalid version", "version", os.Args[2], "error", convErr)
			os.Exit(2)
		}
		err = m.Force(version)
	default:
		logger.Error("unknown command", "command", command)
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("migration failed", "command", command, "error", err)
		os.Exit(1)
	}

	version, dirty, _ := m.Version()
	logger.Info("migrations complete", "command", command, "version", version, "dirty", dirty)
}
