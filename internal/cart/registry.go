package cart

import (
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
)

// TopicChanged is published on the application bus with the session id
// whenever a cart mutates.
const TopicChanged = "cart:changed"

// Registry owns one Engine per browser session.
type Registry struct {
	mu      sync.Mutex
	engines map[string]*Engine
	node    *snowflake.Node
	bus     EventBus.Bus
}

func NewRegistry(node *snowflake.Node, bus EventBus.Bus) *Registry {
	return &Registry{
		engines: make(map[string]*Engine),
		node:    node,
		bus:     bus,
	}
}

// Get returns the engine for a session, creating it on first use.
func (r *Registry) Get(sid string) *Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	if eng, ok := r.engines[sid]; ok {
		return eng
	}
	eng := NewEngine(r.node, func() {
		if r.bus != nil {
			r.bus.Publish(TopicChanged, sid)
		}
	})
	r.engines[sid] = eng
	return eng
}

// Drop discards a session's engine, releasing its memory.
func (r *Registry) Drop(sid string) {
	r.mu.Lock()
	delete(r.engines, sid)
	r.mu.Unlock()
}
