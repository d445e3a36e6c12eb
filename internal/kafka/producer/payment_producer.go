package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dhoini/Checkout-gateway/pkg/logger"
	"github.com/IBM/sarama"
)

const (
	TopicChargeSucceeded = "charge.succeeded"
	TopicChargeFailed    = "charge.failed"
	TopicChargeCaptured  = "charge.captured"
)

// ChargeEvent представляет событие списания для Kafka
type ChargeEvent struct {
	OrderID       string    `json:"order_id"`
	TransactionID string    `json:"transaction_id,omitempty"`
	CustomerID    string    `json:"customer_id,omitempty"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Message       string    `json:"message,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// PaymentProducer интерфейс для отправки событий платежей
type PaymentProducer interface {
	PublishChargeSucceeded(ctx context.Context, event ChargeEvent) error
	PublishChargeFailed(ctx context.Context, event ChargeEvent) error
	PublishChargeCaptured(ctx context.Context, event ChargeEvent) error
	Close() error
}

type kafkaPaymentProducer struct {
	producer sarama.SyncProducer
	log      *logger.Logger
}

// NewKafkaPaymentProducer создает новый продюсер событий платежей
func NewKafkaPaymentProducer(producer sarama.SyncProducer, log *logger.Logger) PaymentProducer {
	return &kafkaPaymentProducer{
		producer: producer,
		log:      log,
	}
}

// PublishChargeSucceeded публикует событие об успешном списании
func (p *kafkaPaymentProducer) PublishChargeSucceeded(ctx context.Context, event ChargeEvent) error {
	return p.publishEvent(ctx, TopicChargeSucceeded, event)
}

// PublishChargeFailed публикует событие о неудачном списании
func (p *kafkaPaymentProducer) PublishChargeFailed(ctx context.Context, event ChargeEvent) error {
	return p.publishEvent(ctx, TopicChargeFailed, event)
}

// PublishChargeCaptured публикует событие о захвате средств
func (p *kafkaPaymentProducer) PublishChargeCaptured(ctx context.Context, event ChargeEvent) error {
	return p.publishEvent(ctx, TopicChargeCaptured, event)
}

// publishEvent публикует событие списания в Kafka
func (p *kafkaPaymentProducer) publishEvent(ctx context.Context, topic string, event ChargeEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	messageValue, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal charge event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		// Ключ по заказу сохраняет порядок событий одного заказа в партиции
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(messageValue),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.log.Error("Failed to publish event to topic %s: %v", topic, err)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.log.Debug("Published event to topic %s (partition %d, offset %d)", topic, partition, offset)
	return nil
}

// Close закрывает продюсер
func (p *kafkaPaymentProducer) Close() error {
	return p.producer.Close()
}

// NoopProducer продюсер-заглушка: используется, когда Kafka недоступна,
// публикация событий не критична для основного флоу оплаты
type NoopProducer struct{}

// PublishChargeSucceeded ничего не делает
func (NoopProducer) PublishChargeSucceeded(ctx context.Context, event ChargeEvent) error { return nil }

// PublishChargeFailed ничего не делает
func (NoopProducer) PublishChargeFailed(ctx context.Context, event ChargeEvent) error { return nil }

// PublishChargeCaptured ничего не делает
func (NoopProducer) PublishChargeCaptured(ctx context.Context, event ChargeEvent) error { return nil }

// Close ничего не делает
func (NoopProducer) Close() error { return nil }
