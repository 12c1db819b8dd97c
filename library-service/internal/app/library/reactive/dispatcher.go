package reactive

import "sync"

// Dispatcher доставляет уведомления строго в порядке постановки в очередь
// Один диспетчер разделяется всеми топиками хранилища, поэтому порядок
// доставки совпадает с порядком коммитов между разными коллекциями
type Dispatcher struct {
	mu       sync.Mutex
	queue    []func()
	draining bool
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Enqueue ставит доставку в конец очереди
// Хранилище вызывает его под своей блокировкой
func (d *Dispatcher) Enqueue(delivery func()) {
	d.mu.Lock()
	d.queue = append(d.queue, delivery)
	d.mu.Unlock()
}

// Flush разбирает очередь в текущей горутине
// Если очередь уже разбирается (другой горутиной или выше по стеку из колбэка),
// возвращается сразу: новые доставки будут выполнены текущим разборщиком
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	if d.draining {
		d.mu.Unlock()
		return
	}
	d.draining = true

	for len(d.queue) > 0 {
		delivery := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]

		d.mu.Unlock()
		delivery()
		d.mu.Lock()
	}

	d.queue = nil
	d.draining = false
	d.mu.Unlock()
}

// Pending возвращает количество еще не доставленных уведомлений
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}
