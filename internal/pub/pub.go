package pub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"account-service/internal/domain"
	"account-service/pkg/utils"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// TransactionEventPublisher pushes transaction events onto Kafka so other
// services (notifications, reporting) can react to posted movements.
type TransactionEventPublisher struct {
	writer *kafka.Writer
	ids    *utils.EventIDGenerator
	logger *zap.Logger
}

func NewTransactionEventPublisher(brokers []string, topic string, logger *zap.Logger) *TransactionEventPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		Logger:       kafka.LoggerFunc(func(msg string, args ...interface{}) { logger.Debug(fmt.Sprintf(msg, args...)) }),
		ErrorLogger:  kafka.LoggerFunc(func(msg string, args ...interface{}) { logger.Error(fmt.Sprintf(msg, args...)) }),
	}

	return &TransactionEventPublisher{
		writer: writer,
		ids:    utils.NewEventIDGenerator(),
		logger: logger,
	}
}

// PublishTransactionEvent publishes a transaction event keyed by account
// number, so all events for one account land on the same partition in
// posting order.
func (p *TransactionEventPublisher) PublishTransactionEvent(ctx context.Context, event *domain.TransactionEvent) error {
	event.EventID = p.ids.Generate()
	event.Timestamp = time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.AccountNumber),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("transaction event published",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.String("account_number", event.AccountNumber))

	return nil
}

func (p *TransactionEventPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
