package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/application/order"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

var _ order.EventPublisher = (*KafkaPublisher)(nil)

// Envelope sobre común de todos los eventos publicados.
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	Payload    json.RawMessage `json:"payload"`
}

type orderPayload struct {
	OrderID     string             `json:"order_id"`
	WarehouseID string             `json:"warehouse_id"`
	Warehouse   string             `json:"warehouse"`
	Status      string             `json:"status"`
	Lines       []orderLinePayload `json:"lines"`
}

type orderLinePayload struct {
	Product  string          `json:"product"`
	Quantity decimal.Decimal `json:"qta"`
}

// KafkaPublisher publica eventos de pedido en un topic Kafka. La publicación es
// best-effort: un fallo se loguea y nunca afecta la operación que lo originó.
type KafkaPublisher struct {
	writer   *kafka.Writer
	producer string
	log      *logger.Logger
}

// NewKafkaPublisher construye el publisher. El writer es asíncrono: Publish no
// bloquea esperando el ack del broker.
func NewKafkaPublisher(brokers []string, topic, producer string, log *logger.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Error().Err(err).Int("messages", len(messages)).Msg("entrega de eventos a kafka")
			}
		},
	}
	return &KafkaPublisher{writer: writer, producer: producer, log: log}
}

// PublishOrderEvent publica el estado actual del pedido bajo el tipo dado,
// con key = id del pedido para conservar el orden por partición.
func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, eventType string, o *entity.Order) {
	lines := make([]orderLinePayload, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orderLinePayload{Product: l.ProductName, Quantity: l.Quantity})
	}
	payload, err := json.Marshal(orderPayload{
		OrderID:     o.ID,
		WarehouseID: o.WarehouseID,
		Warehouse:   o.WarehouseName,
		Status:      string(o.Status),
		Lines:       lines,
	})
	if err != nil {
		p.log.Error().Err(err).Str("order_id", o.ID).Msg("serializar evento de pedido")
		return
	}
	body, err := json.Marshal(Envelope{
		EventID:    uuid.New().String(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Producer:   p.producer,
		Payload:    payload,
	})
	if err != nil {
		p.log.Error().Err(err).Str("order_id", o.ID).Msg("serializar sobre de evento")
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(o.ID),
		Value: body,
	})
	if err != nil {
		p.log.Error().Err(err).Str("order_id", o.ID).Str("event", eventType).Msg("publicar evento de pedido")
	}
}

// Close drena el writer asíncrono.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher descarta los eventos; se usa cuando Kafka está deshabilitado.
type NoopPublisher struct{}

var _ order.EventPublisher = (*NoopPublisher)(nil)

// PublishOrderEvent no hace nada.
func (NoopPublisher) PublishOrderEvent(context.Context, string, *entity.Order) {}
