package handler

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

// publishMail queues a mail for cmd/mail. Mail is best effort: a failure is
// logged and counted but never fails the request that triggered it.
func (h *Handler) publishMail(ctx context.Context, mailType, to string, data any) {
	if h.mailChannel == nil || to == "" {
		return
	}

	body, err := json.Marshal(domain.MailMessage{
		Type: mailType,
		To:   to,
		Data: data,
	})
	if err != nil {
		h.logger.Error("failed to encode mail", "type", mailType, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	err = h.mailChannel.PublishWithContext(
		ctx,
		"",
		h.config.RabbitMQ.Queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	h.metrics.ObserveMailPublish(mailType, err)
	if err != nil {
		h.logger.Error("failed to publish mail", "type", mailType, "request_id", requestIDFrom(ctx), "error", err)
	}
}
