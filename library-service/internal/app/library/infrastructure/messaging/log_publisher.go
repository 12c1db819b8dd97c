package messaging

import (
	"context"

	"github.com/rs/zerolog"

	"gametracker/pkg/logger"
)

// LogPublisher пишет события в журнал вместо брокера
// Используется, когда Kafka отключена конфигурацией
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{log: logger.Component("event-log")}
}

func (p *LogPublisher) PublishMessage(_ context.Context, key string, value []byte) error {
	p.log.Info().
		Str("key", key).
		RawJSON("event", value).
		Msg("Event published")
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
