// Package events fans order changes out to subscribers over NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"

	"yourrest-api/models"
)

const (
	TopicOrderCreated = "orders.created"
	TopicOrderStatus  = "orders.status"
)

type Publisher interface {
	Publish(ctx context.Context, topic string, msg []byte) error
	Close() error
}

// OrderEvent is the payload of both order topics. Notify carries the owner's
// notification preference so consumers can decide whether to alert them.
type OrderEvent struct {
	OrderID    string             `json:"orderId"`
	UserID     string             `json:"userId"`
	Item       string             `json:"item"`
	Price      decimal.Decimal    `json:"price"`
	FromStatus models.OrderStatus `json:"fromStatus,omitempty"`
	Status     models.OrderStatus `json:"status"`
	Actor      string             `json:"actor"`
	Notify     bool               `json:"notify"`
	At         time.Time          `json:"at"`
}

func NewOrderEvent(order *models.Order, from models.OrderStatus, actor string, notify bool) OrderEvent {
	return OrderEvent{
		OrderID:    order.ID,
		UserID:     order.UserID,
		Item:       order.Item,
		Price:      order.Price,
		FromStatus: from,
		Status:     order.Status,
		Actor:      actor,
		Notify:     notify,
		At:         time.Now().UTC(),
	}
}

// PublishJSON encodes v and publishes it on topic.
func PublishJSON(ctx context.Context, p Publisher, topic string, v any) error {
	msg, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", topic, err)
	}
	return p.Publish(ctx, topic, msg)
}

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("yourrest-api"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, topic string, msg []byte) error {
	return p.conn.Publish(topic, msg)
}

func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// NoopPublisher drops every message; used when NATS_URL is unset.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, []byte) error { return nil }
func (NoopPublisher) Close() error                                  { return nil }

// FromURL connects to url, or returns a NoopPublisher for an empty url.
func FromURL(url string) (Publisher, error) {
	if url == "" {
		return NoopPublisher{}, nil
	}
	return NewNATSPublisher(url)
}
