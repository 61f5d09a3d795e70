// Package events provides fire-and-forget analytics event emission. Services
// call Log at the end of an operation, never inline with cache or network
// logic, and a logger failure never changes a service's returned result.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Kind names a domain event.
type Kind string

const (
	KindStoreSearch      Kind = "store_search"
	KindStoreSelected    Kind = "store_selected"
	KindItemAdded        Kind = "item_added"
	KindItemUpdated      Kind = "item_updated"
	KindItemRemoved      Kind = "item_removed"
	KindCouponApplied    Kind = "coupon_applied"
	KindCouponRemoved    Kind = "coupon_removed"
	KindCheckoutStarted  Kind = "checkout_started"
	KindPaymentCompleted Kind = "payment_completed"
	KindLogin            Kind = "login"
	KindRegistration     Kind = "registration"
	KindPushTokenUpdated Kind = "push_token_updated"
)

// Event is a structured domain event.
type Event struct {
	ID     string         `json:"id"`
	Kind   Kind           `json:"kind"`
	At     time.Time      `json:"at"`
	Params map[string]any `json:"params,omitempty"`
}

// New builds an event with a fresh ID and the current time.
func New(kind Kind, params map[string]any) Event {
	return Event{
		ID:     uuid.NewString(),
		Kind:   kind,
		At:     time.Now().UTC(),
		Params: params,
	}
}

// Logger is the narrow port services emit events through.
type Logger interface {
	// Log records the event. Implementations must not block the caller on
	// delivery and must swallow their own failures.
	Log(event Event)
}

// Nop is a Logger that discards everything.
type Nop struct{}

func (Nop) Log(Event) {}

// ZerologLogger writes each event as a structured log line. Useful in
// development and as the default when no analytics backend is configured.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger creates a log-line backed event logger.
func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: logger.With().Str("component", "EventLogger").Logger()}
}

// Log writes the event at info level.
func (l *ZerologLogger) Log(event Event) {
	l.logger.Info().
		Str("event_id", event.ID).
		Str("event_kind", string(event.Kind)).
		Time("event_at", event.At).
		Interface("params", event.Params).
		Msg("Domain event.")
}

// Multi fans an event out to several loggers.
type Multi []Logger

// Log delivers the event to every logger in order.
func (m Multi) Log(event Event) {
	for _, l := range m {
		l.Log(event)
	}
}
