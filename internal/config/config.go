package config

import (
	"errors"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	// Tokens are issued by the hosted auth backend; this service only verifies them.
	Auth struct {
		JWTSecret string `env:"JWT_SECRET,required"`
		Issuer    string `env:"ISSUER"`
	} `envPrefix:"AUTH_"`
	Booking struct {
		MaxDaysAhead     int    `env:"MAX_DAYS_AHEAD" envDefault:"60"`
		DefaultTimezone  string `env:"DEFAULT_TIMEZONE" envDefault:"America/Sao_Paulo"`
		IdempotencyTTL   int    `env:"IDEMPOTENCY_TTL" envDefault:"86400"`
		PublicRateLimit  int    `env:"PUBLIC_RATE_LIMIT" envDefault:"60"`
		PublicRateWindow int    `env:"PUBLIC_RATE_WINDOW" envDefault:"60"`
	} `envPrefix:"BOOKING_"`
	Email struct {
		FromName string `env:"FROM_NAME" envDefault:"Barber Booking"`
		SMTP     struct {
			Username     string  `env:"USERNAME,required"`
			Password     string  `env:"PASSWORD,required"`
			Host         string  `env:"HOST,required"`
			Port         int     `env:"PORT" envDefault:"465"`
			DialTimeout  int     `env:"DIAL_TIMEOUT" envDefault:"10"`
			SendsPerSec  float64 `env:"SENDS_PER_SEC" envDefault:"2"`
			SendBurst    int     `env:"SEND_BURST" envDefault:"5"`
			TemplatesDir string  `env:"TEMPLATES_DIR" envDefault:"./templates"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		Queue          string `env:"QUEUE" envDefault:"email_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host             string `env:"HOST" envDefault:"localhost"`
		Port             int    `env:"PORT" envDefault:"6379"`
		Password         string `env:"PASSWORD"`
		ConnectTimeout   int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationTimeout int    `env:"OPERATION_TIMEOUT" envDefault:"3"`
	} `envPrefix:"REDIS_"`
	Telemetry struct {
		Enabled      bool    `env:"ENABLED" envDefault:"false"`
		ServiceName  string  `env:"SERVICE_NAME" envDefault:"barber-booking-api"`
		OTLPEndpoint string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4317"`
		SampleRatio  float64 `env:"SAMPLE_RATIO" envDefault:"1"`
	} `envPrefix:"TELEMETRY_"`
	Seed struct {
		EmailDomain string `env:"EMAIL_DOMAIN" envDefault:"example.com"`
	} `envPrefix:"SEED_"`
}

func LoadConfig() (*Config, error) {
	// a .env file is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// only the first error keeps the log readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
