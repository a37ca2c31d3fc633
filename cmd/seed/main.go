package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/booking"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/config"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/repository"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/seed"
)

func main() {
	var op int
	var n int
	var days int
	var barbershopID int64
	var csvPath string

	flag.IntVar(&op, "op", 0, "operation (1: random barbershops, 2: random appointments, 3: import services from CSV)")
	flag.IntVar(&n, "n", 5, "number of records to insert")
	flag.IntVar(&days, "days", 14, "how many days ahead random appointments may fall")
	flag.Int64Var(&barbershopID, "barbershop-id", 0, "barbershop to seed appointments or services into")
	flag.StringVar(&csvPath, "csv", "./internal/seed/data/services.csv", "CSV file for service import")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)
	ctx = context.Background()

	switch op {
	case 0:
		logger.Error("no operation given")
	case 1:
		if n <= 0 {
			logger.Error("n must be positive")
			return
		}

		created := 0
		for range n {
			shop, err := seed.RandomBarbershop(ctx, repo, cfg.Seed.EmailDomain)
			if err != nil {
				logger.Error("failed to seed barbershop", slog.String("error", err.Error()))
				continue
			}
			logger.Info("barbershop seeded", slog.Int64("id", shop.ID), slog.String("slug", shop.Slug))
			created++
		}

		logger.Info("barbershops inserted", slog.Int("count", created))
	case 2:
		shop, err := repo.GetBarbershopByID(ctx, barbershopID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				logger.Error("barbershop does not exist", slog.Int64("barbershop_id", barbershopID))
			default:
				logger.Error("failed to load barbershop", slog.String("error", err.Error()))
			}
			return
		}

		svc := booking.NewService(cfg, repo, logger, nil)
		booked, err := seed.RandomAppointments(ctx, repo, svc, shop, n, days)
		if err != nil {
			logger.Error("failed to seed appointments", slog.String("error", err.Error()))
		}
		logger.Info("appointments inserted", slog.Int("count", booked))
	case 3:
		file, err := os.Open(csvPath)
		if err != nil {
			logger.Error("failed to open CSV", "error", err)
			return
		}
		defer file.Close()

		imported, err := seed.ImportServices(ctx, repo, barbershopID, file)
		if err != nil {
			logger.Error("failed to import services", "error", err)
		}
		logger.Info("services imported", slog.Int("count", imported))
	default:
		logger.Error("unknown operation")
	}
}
