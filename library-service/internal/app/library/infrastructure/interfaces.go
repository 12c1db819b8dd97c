package infrastructure

import "context"

// MessagePublisher отправляет доменные события во внешнюю очередь
// Реализации: Kafka продюсер и журналирующий публикатор для запуска без брокера
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
