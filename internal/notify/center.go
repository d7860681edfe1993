// Package notify implements the transient toast notifications of the
// storefront. At most one notice is visible per session; a new notice evicts
// the previous one and every notice expires after a fixed delay.
package notify

import (
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
)

// TopicNotice is the bus topic notices are published on. Payload is
// (sid, key, level).
const TopicNotice = "storefront:notice"

// DefaultTTL matches the auto-dismiss delay of the web client.
const DefaultTTL = 3 * time.Second

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is a single pending toast. Key is an i18n message key resolved at
// render time.
type Notice struct {
	Key       string `json:"key"`
	Level     Level  `json:"level"`
	expiresAt time.Time
}

type Center struct {
	mu      sync.Mutex
	notices map[string]Notice
	ttl     time.Duration
	now     func() time.Time
}

// NewCenter creates a notification center and, when bus is non-nil,
// subscribes it to TopicNotice so any component can raise a toast.
func NewCenter(bus EventBus.Bus, ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Center{
		notices: make(map[string]Notice),
		ttl:     ttl,
		now:     time.Now,
	}
	if bus != nil {
		if err := bus.Subscribe(TopicNotice, func(sid, key string, level Level) {
			c.Push(sid, key, level)
		}); err != nil {
			zap.L().Warn("notify: bus subscribe failed", zap.Error(err))
		}
	}
	return c
}

// Push records a notice for a session, evicting whatever was pending.
func (c *Center) Push(sid, key string, level Level) {
	c.mu.Lock()
	c.notices[sid] = Notice{
		Key:       key,
		Level:     level,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// Current returns the pending notice for a session, or nil if none is
// pending or the pending one has expired. Expired notices are dropped.
func (c *Center) Current(sid string) *Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.notices[sid]
	if !ok {
		return nil
	}
	if c.now().After(n.expiresAt) {
		delete(c.notices, sid)
		return nil
	}
	return &n
}

// Dismiss drops the pending notice for a session.
func (c *Center) Dismiss(sid string) {
	c.mu.Lock()
	delete(c.notices, sid)
	c.mu.Unlock()
}
