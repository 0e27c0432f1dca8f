// Package events публикует доменные события подписок в RabbitMQ.
//
// События публикуются best-effort: платёжный поток никогда не блокируется
// и не откатывается из-за недоступности брокера, ошибка только логируется
// вызывающей стороной.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

const exchange = "subscriptions"

// Routing keys публикуемых событий.
const (
	RouteActivated = "subscription.activated"
	RouteExpired   = "subscription.expired"
	RouteCancelled = "subscription.cancelled"
)

// SubscriptionEvent полезная нагрузка события смены статуса подписки.
type SubscriptionEvent struct {
	UserUID    string     `json:"user_uid"`
	PlanType   string     `json:"plan_type"`
	Reference  string     `json:"reference"`
	Status     string     `json:"status"`
	PeriodEnd  *time.Time `json:"period_end,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// Publisher публикует события в выделенный exchange.
type Publisher struct {
	ch *amqp.Channel
}

// Connect подключается к RabbitMQ с повторами.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "events.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// NewPublisher открывает канал и объявляет exchange для событий подписок.
func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	const op = "events.NewPublisher"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Publisher{ch: ch}, nil
}

// Publish публикует событие с заданным routing key.
func (p *Publisher) Publish(routingKey string, event SubscriptionEvent) error {
	const op = "events.Publish"
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает канал публикации.
func (p *Publisher) Close() error {
	return p.ch.Close()
}
