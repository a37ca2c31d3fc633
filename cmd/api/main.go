package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/booking"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/config"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/handler"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/observability"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/repository"
)

func main() {
	/**********************************************
	 * create logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * load config
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	/**********************************************
	 * tracing
	 **********************************************/
	shutdownTracing, err := observability.SetupTracing(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to set up tracing", "error", err)
		return
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("failed to flush traces", "error", err)
		}
	}()

	/**********************************************
	 * connect to database
	 **********************************************/
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

	// sql.Open does not connect, ping to find out early
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * connect to rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open channel", "error", err)
		return
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		cfg.RabbitMQ.Queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to declare queue", "error", err)
		return
	}

	/**********************************************
	 * connect to redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:    cfg.Redis.Password,
		DB:          0,
		DialTimeout: time.Duration(cfg.Redis.ConnectTimeout) * time.Second,
	})
	defer rdb.Close()

	// redis only backs rate limiting and idempotency, the API can run without it
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis is unreachable, continuing without it for now", "error", err)
	}

	/**********************************************
	 * metrics
	 **********************************************/
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(dbpool, "barber"),
	)
	metrics := observability.NewBookingMetrics(registry)

	/**********************************************
	 * create handler
	 **********************************************/
	h, err := handler.NewHandler(handler.Options{
		Config:      cfg,
		Repository:  repo,
		Booking:     booking.NewService(cfg, repo, logger, metrics),
		MailChannel: ch,
		Redis:       rdb,
		Metrics:     metrics,
		Gatherer:    registry,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to create handler", "error", err)
		return
	}
	h.RegisterRoutes()

	/**********************************************
	 * start HTTP server
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      otelhttp.NewHandler(h.Mux, "barber-booking-api"),
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting server...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.String("error", err.Error()))
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	logger.Info("shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}
