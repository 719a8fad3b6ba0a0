package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/inventory-core/pkg/logging"
)

// DomainEvent is the subset of a domain event the factory needs
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// EventFactory creates CloudEvents for one source
type EventFactory struct {
	source string
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{source: source}
}

// Source returns the factory's source attribute
func (f *EventFactory) Source() string {
	return f.source
}

// CreateEvent creates a new Event with the given parameters. The
// correlation id and actor are copied from ctx when present.
func (f *EventFactory) CreateEvent(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
) *Event {
	return &Event{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            data,
		Extensions:      make(map[string]interface{}),
		CorrelationID:   logging.CorrelationIDFromContext(ctx),
		Actor:           logging.UserIDFromContext(ctx),
	}
}

// FromDomainEvent wraps a domain event. The subject is
// "<aggregateType>/<aggregateID>" and the time is the event's own.
func (f *EventFactory) FromDomainEvent(
	ctx context.Context,
	aggregateType string,
	aggregateID string,
	event DomainEvent,
) *Event {
	ce := f.CreateEvent(ctx, event.EventType(), aggregateType+"/"+aggregateID, event)
	ce.AggregateType = aggregateType
	if at := event.OccurredAt(); !at.IsZero() {
		ce.Time = at.UTC()
	}
	return ce
}
