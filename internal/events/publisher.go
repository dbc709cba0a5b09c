// Package events publishes order changes to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"orderdesk.io/app/internal/config"
	"orderdesk.io/app/internal/modules/orders"
	"orderdesk.io/app/pkg/logger"
)

const (
	TypeStatusChanged = "order.status_changed"
	TypeDeleted       = "order.deleted"
)

type Event struct {
	Type    string        `json:"type"`
	OrderID string        `json:"orderId"`
	From    orders.Status `json:"from,omitempty"`
	To      orders.Status `json:"to,omitempty"`
	At      time.Time     `json:"at"`
}

// producer is the part of *kgo.Client the publisher needs.
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// KafkaPublisher is an orders.Listener that writes one record per
// acknowledged mutation, keyed by order id so a partition keeps an order's
// events in sequence.
type KafkaPublisher struct {
	client producer
	topic  string
	log    logger.Logger
	now    func() time.Time
}

func NewKafkaPublisher(cfg config.KafkaConfig, log logger.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	log.Info("kafka_publisher_ready",
		logger.Any("brokers", cfg.Brokers),
		logger.String("topic", cfg.Topic),
	)
	return newPublisher(client, cfg.Topic, log), nil
}

func newPublisher(p producer, topic string, log logger.Logger) *KafkaPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &KafkaPublisher{client: p, topic: topic, log: log, now: time.Now}
}

func (p *KafkaPublisher) OrderStatusChanged(ctx context.Context, ch orders.StatusChange) error {
	return p.publish(ctx, Event{
		Type:    TypeStatusChanged,
		OrderID: ch.Order.ID,
		From:    ch.From,
		To:      ch.To,
	})
}

func (p *KafkaPublisher) OrderDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, Event{Type: TypeDeleted, OrderID: id})
}

func (p *KafkaPublisher) publish(ctx context.Context, ev Event) error {
	ev.At = p.now().UTC()
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Type, err)
	}

	rec := &kgo.Record{
		Topic:     p.topic,
		Key:       []byte(ev.OrderID),
		Value:     payload,
		Timestamp: ev.At,
		Headers:   []kgo.RecordHeader{{Key: "type", Value: []byte(ev.Type)}},
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("publish %s to %s: %w", ev.Type, p.topic, err)
	}

	p.log.Debug("order_event_published",
		logger.String("type", ev.Type),
		logger.String("order_id", ev.OrderID),
	)
	return nil
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}
