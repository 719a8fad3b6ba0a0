package idempotency

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/inventory-core/pkg/logging"
)

const (
	// DefaultMaxKeyLength is the maximum length for an idempotency key
	DefaultMaxKeyLength = 255

	// DefaultLockTimeout is how long an unfinished request holds its key
	DefaultLockTimeout = 5 * time.Minute

	// DefaultRetentionPeriod is how long completed responses are replayed
	DefaultRetentionPeriod = 24 * time.Hour

	// DefaultMaxResponseSize is the largest response body stored for replay
	DefaultMaxResponseSize = 1 * 1024 * 1024
)

// Config holds configuration for the idempotency middleware
type Config struct {
	ServiceName string
	Repository  KeyRepository
	Logger      *logging.Logger
	Metrics     *Metrics

	// RequireKey rejects mutating requests that carry no Idempotency-Key
	RequireKey bool

	// OnlyMutating skips GET, HEAD and OPTIONS requests
	OnlyMutating bool

	// UserIDExtractor scopes keys per caller when set
	UserIDExtractor func(*gin.Context) string

	MaxKeyLength    int
	LockTimeout     time.Duration
	RetentionPeriod time.Duration
	MaxResponseSize int
}

// DefaultConfig returns a default configuration for the given service
func DefaultConfig(serviceName string, repository KeyRepository, logger *logging.Logger) *Config {
	return &Config{
		ServiceName:     serviceName,
		Repository:      repository,
		Logger:          logger,
		RequireKey:      false,
		OnlyMutating:    true,
		MaxKeyLength:    DefaultMaxKeyLength,
		LockTimeout:     DefaultLockTimeout,
		RetentionPeriod: DefaultRetentionPeriod,
		MaxResponseSize: DefaultMaxResponseSize,
	}
}
