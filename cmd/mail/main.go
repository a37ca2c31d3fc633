package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
	_ "time/tzdata"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"
	"golang.org/x/time/rate"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/config"
	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/mailer"
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
		logger.Error("failed to load config", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * parse templates
	 **********************************************/
	builder, err := mailer.NewBuilder(os.DirFS(cfg.Email.SMTP.TemplatesDir), cfg.Email.FromName, cfg.Email.SMTP.Username)
	if err != nil {
		logger.Error("failed to parse mail templates", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * create mail client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
		mail.WithTimeout(time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second),
	)
	if err != nil {
		logger.Error("failed to create mail client", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	// fail fast on bad credentials
	dialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(dialCtx); err != nil {
		logger.Error("failed to connect to SMTP server", slog.String("error", err.Error()))
		return
	}

	// SMTP providers throttle bursts; stay under their limit
	limiter := rate.NewLimiter(rate.Limit(cfg.Email.SMTP.SendsPerSec), cfg.Email.SMTP.SendBurst)

	/**********************************************
	 * connect to RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.Queue,
		true,  // durable
		false, // keep the queue while no consumer is attached
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to declare queue", slog.String("error", err.Error()))
		return
	}

	// one unacked message at a time, the limiter paces the rest
	if err := ch.Qos(1, 0, false); err != nil {
		logger.Error("failed to set QoS", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to consume queue", slog.String("error", err.Error()))
		return
	}

	ctx, stop := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Error("delivery channel closed")
					return
				}

				m, err := builder.Build(msg.Body)
				if err != nil {
					logger.Error("dropping mail message", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				if err := limiter.Wait(ctx); err != nil {
					// shutting down; let another worker take it
					_ = msg.Nack(false, true)
					return
				}

				if err := client.DialAndSendWithContext(ctx, m); err != nil {
					logger.Error("failed to send mail", slog.String("error", err.Error()))
					_ = msg.Nack(false, true)
					continue
				}

				logger.Info("mail sent", slog.String("subject", firstOf(m.GetGenHeader(mail.HeaderSubject))))
				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("waiting for messages (press CTRL+C to exit)")
	<-sigChan

	logger.Info("shutting down mail worker...")
	stop()
	wg.Wait()
	logger.Info("mail worker stopped")
}

func firstOf(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
