package cloudevents

// CloudEvents extension attribute names
const (
	ExtCorrelationID = "erpcorrelationid"
	ExtActor         = "erpactor"
	ExtAggregateType = "erpaggregatetype"
)

// HTTP header names carrying request context
const (
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderRequestID     = "X-Request-ID"
)

// Headers returns the extension attributes of e that are set, keyed by the
// "ce_" prefixed names used in Kafka message headers
func (e *Event) Headers() map[string]string {
	headers := map[string]string{
		"ce_specversion": e.SpecVersion,
		"ce_type":        e.Type,
		"ce_source":      e.Source,
		"ce_id":          e.ID,
	}
	if e.Subject != "" {
		headers["ce_subject"] = e.Subject
	}
	if e.CorrelationID != "" {
		headers["ce_"+ExtCorrelationID] = e.CorrelationID
	}
	if e.Actor != "" {
		headers["ce_"+ExtActor] = e.Actor
	}
	if e.AggregateType != "" {
		headers["ce_"+ExtAggregateType] = e.AggregateType
	}
	return headers
}

// WithCorrelation sets the correlation id and returns the event
func (e *Event) WithCorrelation(correlationID string) *Event {
	e.CorrelationID = correlationID
	return e
}
