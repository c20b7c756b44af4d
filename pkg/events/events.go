// Package events is a minimal synchronous event bus. The orchestrator
// publishes one event per handled package result; licensed add-ons and
// tests subscribe.
package events

import (
	"sync"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/types"
)

// HandlePackageResultCompleted is published after the post-pipeline for
// one package finishes, success or failure.
type HandlePackageResultCompleted struct {
	Result      *types.PackageResult
	Config      *config.Configuration
	CommandName string
}

// Handler receives published events.
type Handler func(event HandlePackageResultCompleted)

// Bus fans events out to subscribers, synchronously, in subscription
// order.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all future events.
func (b *Bus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Publish delivers the event to every subscriber on the calling
// goroutine.
func (b *Bus) Publish(event HandlePackageResultCompleted) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}
