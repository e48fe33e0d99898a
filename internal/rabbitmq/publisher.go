package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// EventsExchange имя exchange для событий платформы.
const EventsExchange = "education.events"

// Ключи маршрутизации публикуемых событий.
const (
	RouteSubscriptionExtended = "subscription.extended"
	RouteSubscriptionExpired  = "subscription.expired"
	RouteTaskSubmitted        = "task.submitted"
)

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetEventQueues возвращает очереди, которые слушают воркеры уведомлений.
func GetEventQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.subscription.extended", RoutingKey: RouteSubscriptionExtended},
		{QueueName: "notification.subscription.expired", RoutingKey: RouteSubscriptionExpired},
		{QueueName: "notification.task.submitted", RoutingKey: RouteTaskSubmitted},
	}
}

// Event сообщение о событии платформы.
type Event struct {
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher публикует события в exchange. Nil-издатель молча игнорирует
// публикации, что позволяет запускать сервис без брокера в dev-окружении.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher оборачивает канал RabbitMQ.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// Publish сериализует событие и отправляет его с заданным ключом маршрутизации.
func (p *Publisher) Publish(routingKey string, event Event) error {
	const op = "rabbitmq.Publish"
	if p == nil || p.ch == nil {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		EventsExchange,
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
