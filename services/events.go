package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// OrderEvent is published on every order status change so kitchen displays
// and dashboards can follow along.
type OrderEvent struct {
	TenantID    uint      `json:"tenantId"`
	OrderID     uint      `json:"orderId"`
	OrderNumber int       `json:"orderNumber"`
	Status      string    `json:"status"`
	TableID     *uint     `json:"tableId,omitempty"`
	Total       int64     `json:"total"`
	At          time.Time `json:"at"`
}

// OrderFeed receives events for in-process delivery (the websocket hub).
type OrderFeed interface {
	Broadcast(tenantID uint, ev OrderEvent)
}

// EventPublisher writes order events to kafka. A nil publisher, or one with
// a nil writer, is a no-op; event delivery is thin glue and never fails a
// request.
type EventPublisher struct {
	Writer *kafka.Writer
	Log    *zap.Logger
}

func NewEventPublisher(brokers []string, topic string, log *zap.Logger) *EventPublisher {
	if len(brokers) == 0 {
		return &EventPublisher{Log: log}
	}
	return &EventPublisher{
		Writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		Log: log,
	}
}

func (p *EventPublisher) Publish(ctx context.Context, ev OrderEvent) {
	if p == nil || p.Writer == nil {
		return
	}
	payload, _ := json.Marshal(ev)
	err := p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(ev.OrderID), 10)),
		Value: payload,
	})
	if err != nil {
		p.Log.Warn("publish order event failed", zap.Error(err), zap.Uint("orderId", ev.OrderID))
	}
}
