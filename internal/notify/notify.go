// Package notify delivers player-facing notifications for game events.
//
// Every state-changing operation reports its outcome as a Notification.
// The BusNotifier publishes them on an rpg-toolkit event bus so any number
// of front ends can subscribe; the Recorder keeps them in memory.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/dragon-keeper/internal/errors"
)

// EventTypeNotification is the event type notifications are published under
const EventTypeNotification = "dragonkeeper.notification"

// Severity controls how a front end presents a notification
type Severity string

// Notification severities
const (
	SeveritySuccess     Severity = "success"
	SeverityDestructive Severity = "destructive"
	SeverityWarning     Severity = "warning"
	SeverityInfo        Severity = "info"
)

// Notification is a short message describing the outcome of an operation
type Notification struct {
	Title       string
	Description string
	Severity    Severity
}

// GetID implements core.Entity
func (n *Notification) GetID() string {
	return n.Title
}

// GetType implements core.Entity
func (n *Notification) GetType() string {
	return "notification"
}

var _ core.Entity = (*Notification)(nil)

// Notifier receives notifications. Delivery is fire-and-forget; a failed
// delivery never fails the operation that produced it.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// BusConfig configures a BusNotifier
type BusConfig struct {
	EventBus events.EventBus
	Logger   *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *BusConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	return vb.Build()
}

// BusNotifier publishes notifications on an event bus
type BusNotifier struct {
	bus    events.EventBus
	logger *slog.Logger
}

// NewBusNotifier creates a notifier backed by an event bus
func NewBusNotifier(cfg *BusConfig) (*BusNotifier, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &BusNotifier{bus: cfg.EventBus, logger: logger}, nil
}

// Notify publishes n on the bus
func (b *BusNotifier) Notify(ctx context.Context, n Notification) {
	b.logger.DebugContext(ctx, "notification",
		"title", n.Title,
		"severity", n.Severity)

	note := n
	event := events.NewGameEvent(EventTypeNotification, &note, nil)
	if err := b.bus.Publish(ctx, event); err != nil {
		b.logger.WarnContext(ctx, "failed to publish notification",
			"title", n.Title,
			"error", err)
	}
}

// Subscribe registers fn for every notification published on bus and
// returns the subscription id
func Subscribe(bus events.EventBus, fn func(ctx context.Context, n Notification)) string {
	return bus.SubscribeFunc(EventTypeNotification, 0, func(ctx context.Context, e events.Event) error {
		if note, ok := e.Source().(*Notification); ok {
			fn(ctx, *note)
		}
		return nil
	})
}

// Recorder keeps every notification it receives in order
type Recorder struct {
	mu    sync.Mutex
	notes []Notification
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Notify records n
func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

// All returns a copy of the recorded notifications
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}

// Last returns the most recent notification
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return Notification{}, false
	}
	return r.notes[len(r.notes)-1], true
}

// Reset forgets every recorded notification
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = nil
}

// Queue holds notifications until Flush hands them to the target in the
// order they arrived. It lets a caller produce notifications while holding
// a lock and deliver them once the lock is released.
type Queue struct {
	mu      sync.Mutex
	target  Notifier
	pending []Notification
}

// NewQueue creates a queue that flushes to target
func NewQueue(target Notifier) *Queue {
	return &Queue{target: target}
}

// Notify queues n
func (q *Queue) Notify(_ context.Context, n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, n)
}

// Flush delivers every queued notification. The queue is not locked while
// the target runs, so the target may queue more.
func (q *Queue) Flush(ctx context.Context) {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, n := range pending {
		q.target.Notify(ctx, n)
	}
}

// Ensure implementations satisfy Notifier
var (
	_ Notifier = (*BusNotifier)(nil)
	_ Notifier = (*Recorder)(nil)
	_ Notifier = (*Queue)(nil)
)
