package reactive

import (
	"sync"
	"sync/atomic"

	"gametracker/pkg/logger"
	"gametracker/pkg/metrics"
)

type subscription[T any] struct {
	callback func(T)
	active   atomic.Bool
}

// Topic хранит последний зафиксированный снимок коллекции и список подписчиков
// Current отдает снимок синхронно, подписчики получают каждый новый снимок
// ровно один раз в порядке коммитов
type Topic[T any] struct {
	name       string
	clone      func(T) T
	dispatcher *Dispatcher

	mu      sync.RWMutex
	current T
	subs    []*subscription[T]
}

// NewTopic создает топик с начальным снимком
// clone должен возвращать глубокую копию: каждый читатель и каждый подписчик
// получает свою копию и не может повлиять на остальных
func NewTopic[T any](name string, initial T, clone func(T) T, dispatcher *Dispatcher) *Topic[T] {
	return &Topic[T]{
		name:       name,
		clone:      clone,
		dispatcher: dispatcher,
		current:    initial,
	}
}

func (t *Topic[T]) Name() string {
	return t.name
}

// Current возвращает копию последнего зафиксированного снимка
func (t *Topic[T]) Current() T {
	t.mu.RLock()
	v := t.current
	t.mu.RUnlock()
	return t.clone(v)
}

// Subscribe регистрирует колбэк и возвращает функцию отписки
func (t *Topic[T]) Subscribe(callback func(T)) (unsubscribe func()) {
	_, unsubscribe = t.Watch(callback)
	return unsubscribe
}

// Watch атомарно возвращает текущий снимок и регистрирует колбэк:
// первым уведомлением подписчика будет ровно следующий коммит после этого снимка
func (t *Topic[T]) Watch(callback func(T)) (current T, unsubscribe func()) {
	sub := &subscription[T]{callback: callback}
	sub.active.Store(true)

	t.mu.Lock()
	t.subs = append(t.subs, sub)
	current = t.current
	t.mu.Unlock()

	metrics.SubscribersActive.WithLabelValues(t.name).Inc()

	var once sync.Once
	unsubscribe = func() {
		once.Do(func() {
			// Снимаем флаг до удаления из списка: доставки, уже стоящие в очереди,
			// проверяют его непосредственно перед вызовом колбэка
			sub.active.Store(false)
			t.remove(sub)
			metrics.SubscribersActive.WithLabelValues(t.name).Dec()
		})
	}

	return t.clone(current), unsubscribe
}

// Publish фиксирует новый снимок и ставит его доставку в очередь диспетчера
// Значение не должно изменяться после передачи в Publish
func (t *Topic[T]) Publish(v T) {
	t.mu.Lock()
	t.current = v
	// Получатели определяются в момент коммита
	subs := make([]*subscription[T], len(t.subs))
	copy(subs, t.subs)
	t.mu.Unlock()

	t.dispatcher.Enqueue(func() {
		for _, sub := range subs {
			if !sub.active.Load() {
				continue
			}
			t.deliver(sub, v)
		}
	})
}

// Subscribers возвращает количество активных подписчиков
func (t *Topic[T]) Subscribers() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subs)
}

func (t *Topic[T]) deliver(sub *subscription[T], v T) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Str("topic", t.name).
				Interface("panic", r).
				Msg("Subscriber panicked while handling notification")
		}
	}()

	sub.callback(t.clone(v))
	metrics.NotificationsDelivered.WithLabelValues(t.name).Inc()
}

func (t *Topic[T]) remove(target *subscription[T]) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, sub := range t.subs {
		if sub == target {
			t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
			return
		}
	}
}
