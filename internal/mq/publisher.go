package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shaiso/Cadence/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeSendTask MessageType = "send.task"
)

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// SendTaskPayload — самодостаточное задание доставки одного сообщения.
// Worker не ходит в campaigns за текстом: всё нужное уже в payload,
// кроме статуса элемента очереди, который перечитывается для идемпотентности.
type SendTaskPayload struct {
	QueueItemID uuid.UUID          `json:"queue_item_id"`
	CampaignID  uuid.UUID          `json:"campaign_id"`
	ProspectID  uuid.UUID          `json:"prospect_id"`
	AccountID   string             `json:"account_id"`
	MessageType domain.MessageType `json:"message_type"`
	Message     string             `json:"message"`
	TargetID    string             `json:"target_id"`
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishSendTask публикует задание доставки захваченного элемента очереди.
// Потребитель: Delivery Worker.
func (p *Publisher) PublishSendTask(ctx context.Context, payload SendTaskPayload) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeSendTask,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeSends, RoutingKeyDispatch, msg)
}
