package kafka

import (
	"strings"
	"time"
)

// Config holds Kafka configuration
type Config struct {
	Brokers       []string
	ConsumerGroup string
	ClientID      string

	// Producer settings
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int // 0: no ack, 1: leader ack, -1: all replicas ack

	// Consumer settings
	MinBytes      int
	MaxBytes      int
	MaxWait       time.Duration
	CommitTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Brokers:       []string{"localhost:9092"},
		ConsumerGroup: "inventory-core",
		ClientID:      "inventory-core",

		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: -1,

		MinBytes:      1,
		MaxBytes:      10e6,
		MaxWait:       500 * time.Millisecond,
		CommitTimeout: 5 * time.Second,
	}
}

// ParseBrokers splits a comma separated KAFKA_BROKERS value
func ParseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Topics contains the Kafka topic names events are published to
var Topics = struct {
	InventoryEvents  string
	PurchasingEvents string
	SalesEvents      string
}{
	InventoryEvents:  "erp.inventory.events",
	PurchasingEvents: "erp.purchasing.events",
	SalesEvents:      "erp.sales.events",
}

// TopicForEvent routes an event type to its topic by its "erp.<area>."
// prefix. Unknown areas go to the inventory topic.
func TopicForEvent(eventType string) string {
	switch {
	case strings.HasPrefix(eventType, "erp.purchasing."):
		return Topics.PurchasingEvents
	case strings.HasPrefix(eventType, "erp.sales."):
		return Topics.SalesEvents
	default:
		return Topics.InventoryEvents
	}
}
