package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"gametracker/library-service/internal/app/library/entity"
	"gametracker/library-service/internal/app/library/infrastructure"
	"gametracker/library-service/internal/app/library/store"
	"gametracker/pkg/logger"
	"gametracker/pkg/metrics"
)

var ErrForwarderStarted = errors.New("event forwarder already started")

const (
	defaultEventBuffer = 256
	publishTimeout     = 5 * time.Second
)

// EventForwarder превращает каждый новый отзыв в событие REVIEW_CREATED
// и отправляет его через MessagePublisher в фоновой горутине
// Доставка подписчику не блокируется публикацией: при переполненном буфере
// событие отбрасывается и учитывается в метрике
type EventForwarder struct {
	source    ReviewSource
	publisher infrastructure.MessagePublisher
	log       zerolog.Logger

	events  chan entity.ReviewEvent
	dropped atomic.Int64

	mu          sync.Mutex
	seen        int
	started     bool
	stopped     bool
	unsubscribe func()
	wg          sync.WaitGroup
}

func NewEventForwarder(source ReviewSource, publisher infrastructure.MessagePublisher, bufferSize int) *EventForwarder {
	if bufferSize <= 0 {
		bufferSize = defaultEventBuffer
	}
	return &EventForwarder{
		source:    source,
		publisher: publisher,
		log:       logger.Component("event-forwarder"),
		events:    make(chan entity.ReviewEvent, bufferSize),
	}
}

// Start подписывается на отзывы и запускает публикацию
// Отзывы, существовавшие до Start, событий не порождают
func (f *EventForwarder) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return ErrForwarderStarted
	}
	f.started = true

	// Колбэк, запущенный другой горутиной, ждет f.mu, пока не выставлена точка отсчета
	current, unsubscribe := f.source.WatchReviews(f.handle)
	f.seen = len(current)
	f.unsubscribe = unsubscribe
	f.mu.Unlock()

	f.wg.Add(1)
	go f.run(ctx)

	f.log.Info().Int("existing_reviews", len(current)).Msg("Event forwarder started")
	return nil
}

// Stop отписывается от хранилища и дожидается публикации уже принятых событий
func (f *EventForwarder) Stop() {
	f.mu.Lock()
	if !f.started || f.stopped {
		f.mu.Unlock()
		return
	}
	f.stopped = true
	unsubscribe := f.unsubscribe
	close(f.events)
	f.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	f.wg.Wait()

	f.log.Info().Int64("dropped", f.dropped.Load()).Msg("Event forwarder stopped")
}

// Dropped возвращает количество событий, отброшенных из-за переполнения буфера
func (f *EventForwarder) Dropped() int64 {
	return f.dropped.Load()
}

// handle получает полный снимок отзывов после каждого коммита
// Хранилище только добавляет отзывы, поэтому новые - это хвост после f.seen
func (f *EventForwarder) handle(reviews []entity.Review) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stopped || len(reviews) <= f.seen {
		return
	}
	fresh := reviews[f.seen:]
	f.seen = len(reviews)

	for _, r := range fresh {
		agg := store.Aggregate(r.GameID, reviews)
		event := entity.ReviewEvent{
			EventType:     entity.EventReviewCreated,
			ReviewID:      r.ID,
			GameID:        r.GameID,
			UserID:        r.UserID,
			Rating:        r.Rating,
			AverageRating: agg.Average,
			TotalReviews:  agg.Count,
			Timestamp:     r.CreatedAt,
		}

		select {
		case f.events <- event:
		default:
			f.dropped.Add(1)
			metrics.EventsDropped.WithLabelValues(event.EventType).Inc()
			f.log.Warn().
				Str("review_id", event.ReviewID).
				Msg("Event buffer is full, dropping event")
		}
	}
}

func (f *EventForwarder) run(ctx context.Context) {
	defer f.wg.Done()

	for event := range f.events {
		if err := f.publish(ctx, event); err != nil {
			// Отзыв уже зафиксирован, ошибка брокера на него не влияет
			f.log.Error().
				Err(err).
				Str("review_id", event.ReviewID).
				Msg("Failed to publish review event")
		}
	}
}

func (f *EventForwarder) publish(ctx context.Context, event entity.ReviewEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	// Ключ - ID игры: события одной игры попадают в одну партицию
	return f.publisher.PublishMessage(ctx, event.GameID, data)
}
