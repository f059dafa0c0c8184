package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"exhibae/internal/shared/config"
	"exhibae/pkg/logger"
)

// Producer publishes per-recipient delivery tasks to Kafka
type Producer interface {
	Send(msg *KafkaMessage) error
	Close() error
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

func NewProducer(cfg *config.Config) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	// Hash on recipient id keeps one user's notifications ordered
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &kafkaProducer{
		producer: producer,
		topic:    cfg.Kafka.NotificationTopic,
		log:      logger.GetDefault(),
	}, nil
}

func (p *kafkaProducer) Send(msg *KafkaMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification message: %w", err)
	}

	producerMsg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(msg.RecipientID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(msg.EventType)},
		},
	}

	partition, offset, err := p.producer.SendMessage(producerMsg)
	if err != nil {
		return fmt.Errorf("failed to send notification message: %w", err)
	}

	p.log.Debug("notification message sent",
		"notification_id", msg.NotificationID,
		"event_type", string(msg.EventType),
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.producer.Close()
}

// NoopProducer swallows messages; used when Kafka is disabled (tests,
// local runs without a broker).
type NoopProducer struct{}

func (NoopProducer) Send(msg *KafkaMessage) error { return nil }
func (NoopProducer) Close() error                 { return nil }
