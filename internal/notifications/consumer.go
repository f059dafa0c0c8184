package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"exhibae/internal/shared/config"
	"exhibae/pkg/logger"
)

// Consumer runs the worker group that turns Kafka delivery tasks into
// emails. Delivery failures are logged and dropped after bounded
// retries; they never affect the notification rows already committed.
type Consumer struct {
	group      sarama.ConsumerGroup
	topic      string
	workers    int
	dispatcher EmailDispatcher
	log        *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewConsumer(cfg *config.Config, dispatcher EmailDispatcher) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer group: %w", err)
	}

	return &Consumer{
		group:      group,
		topic:      cfg.Kafka.NotificationTopic,
		workers:    cfg.Kafka.ConsumerWorkers,
		dispatcher: dispatcher,
		log:        logger.GetDefault(),
	}, nil
}

// Start launches the consumer workers. Non-blocking.
func (c *Consumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	handler := &consumerHandler{
		dispatcher: c.dispatcher,
		log:        c.log,
	}

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go func(worker int) {
			defer c.wg.Done()
			for {
				if err := c.group.Consume(ctx, []string{c.topic}, handler); err != nil {
					if errors.Is(err, sarama.ErrClosedConsumerGroup) {
						return
					}
					c.log.Error("consumer group error", "worker", worker, "error", err)
				}
				if ctx.Err() != nil {
					return
				}
			}
		}(i)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-c.group.Errors():
				if !ok {
					return
				}
				c.log.Error("kafka consumer error", "error", err)
			}
		}
	}()

	c.log.Info("notification consumer started", "topic", c.topic, "workers", c.workers)
}

// Stop shuts the workers down and closes the group
func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	err := c.group.Close()
	c.wg.Wait()
	return err
}

type consumerHandler struct {
	dispatcher EmailDispatcher
	log        *logger.Logger
}

func (h *consumerHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var task KafkaMessage
		if err := json.Unmarshal(message.Value, &task); err != nil {
			h.log.Warn("skipping malformed notification message",
				"partition", message.Partition,
				"offset", message.Offset,
				"error", err,
			)
			session.MarkMessage(message, "")
			continue
		}

		if err := h.deliverWithRetry(session.Context(), &task); err != nil {
			// Email is best-effort: log and move on, the in-app row
			// already exists.
			h.log.Error("email delivery failed after retries",
				"notification_id", task.NotificationID,
				"event_type", string(task.EventType),
				"recipient_id", task.RecipientID,
				"error", err,
			)
		}

		session.MarkMessage(message, "")
	}
	return nil
}

const (
	maxDeliveryAttempts = 3
	baseRetryDelay      = 500 * time.Millisecond
)

func (h *consumerHandler) deliverWithRetry(ctx context.Context, task *KafkaMessage) error {
	if task.RecipientEmail == "" {
		return nil
	}

	email := &EmailMessage{
		To:      task.RecipientEmail,
		Subject: task.Title,
		Text:    task.Message,
	}

	var lastErr error
	for attempt := 1; attempt <= maxDeliveryAttempts; attempt++ {
		if err := h.dispatcher.Send(ctx, email); err != nil {
			lastErr = err
			delay := baseRetryDelay * time.Duration(1<<(attempt-1))
			h.log.Warn("email delivery attempt failed",
				"notification_id", task.NotificationID,
				"attempt", attempt,
				"retry_in", delay.String(),
				"error", err,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}
		return nil
	}
	return lastErr
}
