package backend

import (
	"context"

	"gastos/internal/amqp"
	"gastos/internal/services"
)

// CleanupFunc releases resources held by a backend
type CleanupFunc func() error

// BackendResult contains the storage, the optional broker client and the
// cleanup function releasing both.
type BackendResult struct {
	Repository services.Repository
	// AMQP is nil when no broker is configured or it was unreachable at startup.
	AMQP    *amqp.Client
	Cleanup CleanupFunc
}

// Publisher returns the event publisher, or nil when there is no broker.
func (r *BackendResult) Publisher() services.EventPublisher {
	if r.AMQP == nil {
		return nil
	}
	return r.AMQP
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Optional broker
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
