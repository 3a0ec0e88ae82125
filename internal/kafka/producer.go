package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/carousell/ct-go/pkg/logger"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/storefront/internal/config"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
)

// EventPublisher writes cart events to the event stream.
type EventPublisher interface {
	Publish(ctx context.Context, event models.CartEvent) error
	Close() error
}

type saramaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	metrics  *prometheus.HistogramVec
}

// NewEventPublisher creates a new Kafka publisher
func NewEventPublisher(cfg *config.KafkaConfig) (EventPublisher, error) {
	if !cfg.Enabled {
		return &noopPublisher{}, nil
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, newProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("new sync producer: %w", err)
	}
	return newSaramaPublisher(producer, cfg.Topic)
}

func newProducerConfig() *sarama.Config {
	sc := sarama.NewConfig()
	sc.ClientID = "storefront"
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForLocal
	sc.Producer.Retry.Max = 3
	sc.Producer.Timeout = 5 * time.Second
	return sc
}

func newSaramaPublisher(producer sarama.SyncProducer, topic string) (*saramaPublisher, error) {
	metrics, err := util.GetHistogramVec("kafka_messages_published", "Duration of cart event publishes", "status", "topic")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	return &saramaPublisher{
		producer: producer,
		topic:    topic,
		metrics:  metrics,
	}, nil
}

// Publish sends event keyed by user id, so events of one user stay ordered
// within a partition.
func (p *saramaPublisher) Publish(ctx context.Context, event models.CartEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal cart event: %w", err)
	}

	start := time.Now()
	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(strconv.Itoa(event.UserID)),
		Value:     sarama.ByteEncoder(value),
		Timestamp: event.OccurredAt,
	}
	partition, offset, err := p.producer.SendMessage(msg)
	duration := time.Since(start)

	status := "success"
	level := logger.InfoLevel
	if err != nil {
		status = "error"
		level = logger.ErrorLevel
	}
	log.Logw(ctx, level, "publish cart event",
		"type", event.Type,
		"duration_ms", duration.Milliseconds(),
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"key", strconv.Itoa(event.UserID),
		"value", json.RawMessage(value),
	)
	p.metrics.
		WithLabelValues(status, p.topic).
		Observe(duration.Seconds())

	if err != nil {
		return fmt.Errorf("failed to publish cart event: %w", err)
	}
	return nil
}

func (p *saramaPublisher) Close() error {
	return p.producer.Close()
}

// noopPublisher is used when Kafka is disabled
type noopPublisher struct{}

func (n *noopPublisher) Publish(ctx context.Context, event models.CartEvent) error {
	return nil
}

func (n *noopPublisher) Close() error {
	return nil
}
