package events

import (
	"context"
	"sync"

	"bolao/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeBetPlaced     EventType = "bet_placed"
	EventTypePoolSettled   EventType = "pool_settled"
	EventTypeAlertRaised   EventType = "alert_raised"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance movement that occurred
type BalanceChangeEvent struct {
	UserID          string
	TransactionType models.TransactionType
	ChangeAmount    decimal.Decimal
	Withdrawable    bool
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// BetPlacedEvent represents a bet that was placed on a pool
type BetPlacedEvent struct {
	BetID    string
	PoolID   string
	UserID   string
	Option   string
	Modality string
	Amount   decimal.Decimal
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// PoolSettledEvent represents a pool that was settled
type PoolSettledEvent struct {
	PoolID          string
	WinnerOption    string
	WinnerCount     int
	TotalCollected  decimal.Decimal
	PrizePaid       decimal.Decimal
}

func (e PoolSettledEvent) Type() EventType {
	return EventTypePoolSettled
}

// AlertRaisedEvent represents a new system alert
type AlertRaisedEvent struct {
	AlertID     string
	AlertType   models.AlertType
	ReferenceID string
	Message     string
}

func (e AlertRaisedEvent) Type() EventType {
	return EventTypeAlertRaised
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after a successful commit.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful database commit
func (b *TransactionalBus) Flush(ctx context.Context) {
	// Events are processed independently of the transaction lifecycle, so
	// emission uses a background context.
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard is called after rollback to drop stashed events
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
