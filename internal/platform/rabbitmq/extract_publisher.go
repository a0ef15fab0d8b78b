package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/model"
)

type ExtractPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewExtractPublisher(conn *amqp.Connection, queueName string) *ExtractPublisher {
	return &ExtractPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ExtractPublisher) Publish(ctx context.Context, job model.ExtractJob) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal extract job failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish extract job failed: %w", err)
	}
	return nil
}
