package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/pkg/config"
)

var _ inventory.MovementPublisher = (*Publisher)(nil)

// Publisher publica movimientos de stock confirmados a un exchange fanout.
// Los consumidores típicos son reportes y alertas de reposición, fuera de
// este núcleo.
type Publisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

// MovementMessage es el cuerpo JSON publicado por cada movimiento confirmado.
type MovementMessage struct {
	MovementID    string          `json:"movement_id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	OrderLineID   string          `json:"order_line_id,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewPublisher conecta al broker y declara el exchange.
func NewPublisher(cfg config.AMQPConfig) (*Publisher, error) {
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%d/", cfg.User, cfg.Password, cfg.Host, cfg.Port)
	conn, err := amqp091.Dial(dsn)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	err = channel.ExchangeDeclare(
		cfg.Exchange, // name
		"fanout",     // type
		true,         // durable
		false,        // auto-delete
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, channel: channel, exchange: cfg.Exchange}, nil
}

// PublishMovements publica un mensaje por movimiento. Se invoca después del
// commit: un fallo aquí lo loguea el caller y no revierte nada.
func (p *Publisher) PublishMovements(ctx context.Context, movements []*entity.StockMovement) error {
	for _, m := range movements {
		msg := MovementMessage{
			MovementID:    m.ID,
			TransactionID: m.TransactionID,
			ProductID:     m.ProductID,
			WarehouseID:   m.WarehouseID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			OrderLineID:   m.OrderLineID,
			OccurredAt:    m.CreatedAt,
		}
		body, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal movement message: %w", err)
		}
		err = p.channel.PublishWithContext(ctx,
			p.exchange, // exchange
			"",         // routing key (fanout)
			false,      // mandatory
			false,      // immediate
			amqp091.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp091.Persistent,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish movement %s: %w", m.ID, err)
		}
	}
	return nil
}

// Close cierra canal y conexión.
func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
