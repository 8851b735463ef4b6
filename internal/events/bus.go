package events

import (
	"sync"
	"time"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventPairClassified  EventType = "PAIR_CLASSIFIED"
	EventSignal          EventType = "SIGNAL"
	EventPairBlacklisted EventType = "PAIR_BLACKLISTED"
	EventTradeOpened     EventType = "TRADE_OPENED"
	EventTradeClosed     EventType = "TRADE_CLOSED"
	EventScanCycleDone   EventType = "SCAN_CYCLE_DONE"
	EventBotStarted      EventType = "BOT_STARTED"
	EventBotStopped      EventType = "BOT_STOPPED"
	EventError           EventType = "ERROR"
)

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Subscriber is a function that handles events
type Subscriber func(Event)

// EventBus manages event publishing and subscriptions
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Subscriber
	allSubs     []Subscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]Subscriber),
		allSubs:     make([]Subscriber, 0),
	}
}

// Subscribe registers a subscriber for a specific event type
func (eb *EventBus) Subscribe(eventType EventType, subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber)
}

// SubscribeAll registers a subscriber for all events
func (eb *EventBus) SubscribeAll(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.allSubs = append(eb.allSubs, subscriber)
}

// Publish sends an event to all subscribers. Delivery is asynchronous so
// a slow subscriber never blocks the scan or monitor loops.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if subs, ok := eb.subscribers[event.Type]; ok {
		for _, sub := range subs {
			go sub(event)
		}
	}

	for _, sub := range eb.allSubs {
		go sub(event)
	}
}

// PublishPairClassified publishes a classification verdict for one pair.
func (eb *EventBus) PublishPairClassified(pairAddress, tokenAddress, symbol, pattern string) {
	eb.Publish(Event{
		Type: EventPairClassified,
		Data: map[string]interface{}{
			"pair_address":  pairAddress,
			"token_address": tokenAddress,
			"symbol":        symbol,
			"pattern":       pattern,
		},
	})
}

// PublishPairBlacklisted publishes an auto-blacklist event
func (eb *EventBus) PublishPairBlacklisted(pairAddress, tokenAddress, symbol, reason string) {
	eb.Publish(Event{
		Type: EventPairBlacklisted,
		Data: map[string]interface{}{
			"pair_address":  pairAddress,
			"token_address": tokenAddress,
			"symbol":        symbol,
			"reason":        reason,
		},
	})
}

// PublishSignal publishes a trade signal event
func (eb *EventBus) PublishSignal(tokenAddress, symbol, pattern string, price float64) {
	eb.Publish(Event{
		Type: EventSignal,
		Data: map[string]interface{}{
			"token_address": tokenAddress,
			"symbol":        symbol,
			"pattern":       pattern,
			"price":         price,
		},
	})
}

// PublishTradeOpened publishes a paper trade opened event
func (eb *EventBus) PublishTradeOpened(tokenAddress, symbol string, entryPrice, size float64) {
	eb.Publish(Event{
		Type: EventTradeOpened,
		Data: map[string]interface{}{
			"token_address": tokenAddress,
			"symbol":        symbol,
			"entry_price":   entryPrice,
			"size":          size,
		},
	})
}

// PublishTradeClosed publishes a paper trade closed event
func (eb *EventBus) PublishTradeClosed(tokenAddress, symbol string, entryPrice, exitPrice, pnlPercent float64, openedAt time.Time) {
	eb.Publish(Event{
		Type: EventTradeClosed,
		Data: map[string]interface{}{
			"token_address": tokenAddress,
			"symbol":        symbol,
			"entry_price":   entryPrice,
			"exit_price":    exitPrice,
			"pnl_percent":   pnlPercent,
			"opened_at":     openedAt,
		},
	})
}
