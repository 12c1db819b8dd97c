package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"gametracker/pkg/metrics"
)

// ErrQueryCancelled возвращается Await для отмененного запроса
var ErrQueryCancelled = errors.New("query cancelled")

type pendingState int

const (
	statePending pendingState = iota
	stateResolved
	stateCancelled
)

// Pending - отложенный результат запроса
// Значение фиксируется в момент отправки и становится доступным после задержки
// Каждый получатель (Await, каждый колбэк OnComplete) получает свою копию
// После Cancel колбэки OnComplete не вызываются никогда
type Pending[T any] struct {
	query   string
	started time.Time
	clone   func(T) T

	mu        sync.Mutex
	state     pendingState
	value     T
	callbacks []func(T)
	done      chan struct{}
	timer     *time.Timer
	stopCtx   func() bool
}

func newPending[T any](ctx context.Context, query string, value T, clone func(T) T, latency time.Duration) *Pending[T] {
	p := &Pending[T]{
		query:   query,
		started: time.Now(),
		clone:   clone,
		value:   value,
		done:    make(chan struct{}),
	}

	p.mu.Lock()
	p.timer = time.AfterFunc(latency, p.resolve)
	p.stopCtx = context.AfterFunc(ctx, func() { p.Cancel() })
	p.mu.Unlock()

	return p
}

// OnComplete регистрирует колбэк завершения
// Для уже завершенного запроса колбэк вызывается сразу, для отмененного - никогда
func (p *Pending[T]) OnComplete(callback func(T)) {
	p.mu.Lock()
	switch p.state {
	case statePending:
		p.callbacks = append(p.callbacks, callback)
		p.mu.Unlock()
	case stateResolved:
		value := p.value
		p.mu.Unlock()
		callback(p.clone(value))
	default:
		p.mu.Unlock()
	}
}

// Cancel отменяет запрос, если он еще не завершен
// Возвращает false, если запрос уже завершен или отменен
func (p *Pending[T]) Cancel() bool {
	p.mu.Lock()
	if p.state != statePending {
		p.mu.Unlock()
		return false
	}
	p.state = stateCancelled
	p.callbacks = nil
	p.timer.Stop()
	p.stopCtx()
	var zero T
	p.value = zero
	close(p.done)
	p.mu.Unlock()

	metrics.RecordQueryCancelled(p.query)
	return true
}

// Await блокируется до завершения запроса, его отмены или отмены ctx
func (p *Pending[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == stateCancelled {
		var zero T
		return zero, ErrQueryCancelled
	}
	return p.clone(p.value), nil
}

// Done закрывается при завершении или отмене запроса
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Cancelled сообщает, был ли запрос отменен
func (p *Pending[T]) Cancelled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == stateCancelled
}

func (p *Pending[T]) resolve() {
	p.mu.Lock()
	if p.state != statePending {
		p.mu.Unlock()
		return
	}
	p.state = stateResolved
	callbacks := p.callbacks
	p.callbacks = nil
	p.stopCtx()
	close(p.done)
	value := p.value
	p.mu.Unlock()

	metrics.RecordQueryResolved(p.query, time.Since(p.started))

	for _, callback := range callbacks {
		callback(p.clone(value))
	}
}
