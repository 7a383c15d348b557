package config

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Consumer drains one durable queue with manual acks. A handler error
// nacks with requeue, so a failed message is redelivered rather than
// lost.
type Consumer struct {
	channel *amqp.Channel
	queue   string
}

func NewConsumer(queueName string) (*Consumer, error) {
	if RabbitMQ == nil {
		return nil, fmt.Errorf("RabbitMQ connection not initialized")
	}

	ch, err := RabbitMQ.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Consumer{channel: ch, queue: q.Name}, nil
}

// Consume delivers queue messages to handler until ctx is cancelled or
// the channel closes.
func (c *Consumer) Consume(ctx context.Context, handler func([]byte) error) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return err
	}

	logrus.WithField("queue", c.queue).Info("Consumer is running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return amqp.ErrClosed
			}
			if err := handler(msg.Body); err != nil {
				logrus.WithError(err).WithField("queue", c.queue).Error("Message handling failed, requeueing")
				msg.Nack(false, true)
			} else {
				msg.Ack(false)
			}
		}
	}
}

// Close closes the consumer's channel.
func (c *Consumer) Close() error {
	return c.channel.Close()
}
