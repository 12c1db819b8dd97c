package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"gametracker/pkg/metrics"
)

const metricsService = "library-service"

const (
	headerContentType = "content-type"
	headerSource      = "source"
	contentTypeJSON   = "application/json"
)

// ErrProducerClosed возвращается PublishMessage после Close
var ErrProducerClosed = errors.New("kafka producer closed")

// ProducerConfig - параметры продюсера событий отзывов
type ProducerConfig struct {
	Brokers         []string
	Topic           string
	WriteTimeout    time.Duration
	AutoCreateTopic bool
}

// messageWriter - часть kafka.Writer, которой пользуется продюсер
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer публикует события отзывов с ключом по ID игры
// Hash балансировщик отправляет события одной игры в одну партицию,
// поэтому потребитель видит отзывы игры в порядке коммитов
type KafkaProducer struct {
	writer messageWriter
	topic  string
	now    func() time.Time

	mu     sync.RWMutex
	closed bool
}

func NewKafkaProducer(cfg ProducerConfig) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafka.Hash{},
		// События публикуются по одному из EventForwarder, копить пачку незачем
		BatchSize:              1,
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: cfg.AutoCreateTopic,
	}

	return newKafkaProducer(writer, cfg.Topic)
}

func newKafkaProducer(writer messageWriter, topic string) *KafkaProducer {
	return &KafkaProducer{
		writer: writer,
		topic:  topic,
		now:    time.Now,
	}
}

// PublishMessage пишет одно JSON событие
func (p *KafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrProducerClosed
	}

	timer := metrics.NewKafkaProduceTimer(metricsService, p.topic)

	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  p.now(),
		Headers: []kafka.Header{
			{Key: headerContentType, Value: []byte(contentTypeJSON)},
			{Key: headerSource, Value: []byte(metricsService)},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		timer.Error()
		return fmt.Errorf("failed to write message to kafka topic %q: %w", p.topic, err)
	}

	timer.Success()
	return nil
}

func (p *KafkaProducer) Topic() string {
	return p.topic
}

// Close закрывает writer, повторный вызов ничего не делает
func (p *KafkaProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}
