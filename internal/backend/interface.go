// Package backend assembles the data layer from configuration.
package backend

import (
	"context"

	"outgo/internal/services"
	"outgo/internal/store"
)

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result bundles the assembled store with its optional event publisher.
// Publisher is nil when AMQP is not configured or unreachable.
type Result struct {
	Store     store.Store
	Publisher services.EventPublisher
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds what the factory needs to build a backend.
type Config struct {
	Type Type

	// sqlite
	SQLiteDBPath string

	// optional sync pipeline
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// Type selects the storage implementation.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
