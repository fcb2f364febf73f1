package backend

import (
	"sync"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
)

// NotificationHandler receives business-error notifications. Handlers run
// synchronously on the calling goroutine and must not block.
type NotificationHandler func(model.Notification)

type observers struct {
	mu   sync.RWMutex
	next int
	subs map[int]NotificationHandler
}

func (o *observers) add(fn NotificationHandler) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.subs == nil {
		o.subs = make(map[int]NotificationHandler)
	}
	id := o.next
	o.next++
	o.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			o.mu.Unlock()
		})
	}
}

func (o *observers) publish(n model.Notification) {
	o.mu.RLock()
	handlers := make([]NotificationHandler, 0, len(o.subs))
	for _, fn := range o.subs {
		handlers = append(handlers, fn)
	}
	o.mu.RUnlock()

	for _, fn := range handlers {
		fn(n)
	}
}
