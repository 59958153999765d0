// Package notify is the in-process notification bus for sync and import
// outcomes.
package notify

import (
	"sync"
	"time"
)

// DefaultBannerTimeout is how long a banner stays visible.
const DefaultBannerTimeout = 4 * time.Second

// Message is one published notification.
type Message struct {
	Text string
	At   time.Time
}

// Bus dispatches messages to the subscribers registered at publish time.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Message)
	now    func() time.Time
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Message)), now: time.Now}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(Message)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish hands text to every current subscriber on the caller's goroutine.
// There is no delivery guarantee beyond that.
func (b *Bus) Publish(text string) {
	if b == nil {
		return
	}
	msg := Message{Text: text, At: b.now()}

	b.mu.RLock()
	subs := make([]func(Message), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(msg)
	}
}
