package sub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"account-service/internal/domain"
	"account-service/internal/usecase"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ClientUpdateConsumer listens for client identity changes published by the
// client service and projects them onto the denormalized account fields.
// Delivery is at-least-once; the projection is idempotent, so every message
// is committed regardless of outcome.
type ClientUpdateConsumer struct {
	reader *kafka.Reader
	syncUC *usecase.ClientSyncUsecase
	logger *zap.Logger
	cancel context.CancelFunc
}

func NewClientUpdateConsumer(brokers []string, groupID, topic string, syncUC *usecase.ClientSyncUsecase, logger *zap.Logger) *ClientUpdateConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		MinBytes:          10e3,
		MaxBytes:          10e6,
		ReadBatchTimeout:  1 * time.Second,
		HeartbeatInterval: 3 * time.Second,
		CommitInterval:    time.Second,
		MaxAttempts:       3,
		Logger:            kafka.LoggerFunc(func(msg string, args ...interface{}) { logger.Debug(fmt.Sprintf(msg, args...)) }),
		ErrorLogger:       kafka.LoggerFunc(func(msg string, args ...interface{}) { logger.Error(fmt.Sprintf(msg, args...)) }),
	})

	return &ClientUpdateConsumer{
		reader: reader,
		syncUC: syncUC,
		logger: logger,
	}
}

// Start consumes client-updated events until the context is cancelled
func (c *ClientUpdateConsumer) Start(ctx context.Context) error {
	consumerCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.logger.Info("client update consumer starting",
		zap.String("topic", c.reader.Config().Topic),
		zap.String("group_id", c.reader.Config().GroupID))

	for {
		select {
		case <-consumerCtx.Done():
			c.logger.Info("client update consumer stopping")
			return c.reader.Close()
		default:
			msg, err := c.reader.FetchMessage(consumerCtx)
			if err != nil {
				if err == context.Canceled || err == context.DeadlineExceeded {
					continue
				}
				c.logger.Error("failed to fetch message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}

			c.handle(consumerCtx, msg)

			if commitErr := c.reader.CommitMessages(consumerCtx, msg); commitErr != nil {
				c.logger.Error("failed to commit offset",
					zap.Int64("offset", msg.Offset), zap.Error(commitErr))
			}
		}
	}
}

func (c *ClientUpdateConsumer) handle(ctx context.Context, msg kafka.Message) {
	var event domain.ClientUpdatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		// malformed payloads are skipped, not retried
		c.logger.Error("failed to unmarshal client updated event",
			zap.ByteString("value", msg.Value), zap.Error(err))
		return
	}

	c.logger.Info("received client updated event",
		zap.String("client_id", event.ClientID),
		zap.Int64("offset", msg.Offset))

	c.syncUC.ApplyClientUpdate(ctx, event.ClientID, event.ClientName, event.ClientStatus)
}

// Stop signals the consume loop to exit
func (c *ClientUpdateConsumer) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}
