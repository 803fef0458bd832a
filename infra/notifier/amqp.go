// Package notifier provides the concrete notification channels: an AMQP
// publisher for deployments with a delivery worker behind a queue, and a
// slog-backed channel for development and tests.
package notifier

import (
	"context"
	"encoding/json"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hazemdiab/ebanking/pkg/notifier"
)

// AMQPNotifier publishes rendered messages to a durable topic exchange; a
// separate delivery worker drains the queue and talks to the mail/SMS
// provider. Publishing is the whole contract here.
type AMQPNotifier struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *slog.Logger
}

// NewAMQP connects to RabbitMQ and declares the notification exchange.
func NewAMQP(amqpURL, exchange string, logger *slog.Logger) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &AMQPNotifier{conn: conn, channel: ch, exchange: exchange, logger: logger}, nil
}

// Send publishes the message with the routing key "notification.send".
func (n *AMQPNotifier) Send(ctx context.Context, msg notifier.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	err = n.channel.PublishWithContext(ctx,
		n.exchange,
		"notification.send",
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		n.logger.Error("failed to publish notification", "destination", msg.Destination, "error", err)
		return err
	}
	n.logger.Debug("notification published", "destination", msg.Destination)
	return nil
}

// Close releases the channel and connection.
func (n *AMQPNotifier) Close() {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}
}
