package backend

import (
	"context"
	"fmt"

	"outgo/internal/amqp"
	"outgo/internal/log"
	"outgo/internal/services"
	"outgo/internal/storage"
	"outgo/internal/store/memory"
)

type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository: %w", err)
	}

	// The broker is optional: without it writes stay local and the worker's
	// pending sweep catches up later.
	var publisher services.EventPublisher
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "AMQP unavailable, continuing without sync",
				log.FieldError, err.Error())
		} else {
			publisher = amqpClient
			f.logger.InfoContext(ctx, "AMQP client initialized",
				"exchange", config.AMQPExchange, "queue", config.AMQPQueue)
		}
	}

	f.logger.InfoContext(ctx, "sqlite backend initialized",
		"db_path", config.SQLiteDBPath, "amqp_enabled", publisher != nil)

	cleanup := func() error {
		var errs []error
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				errs = append(errs, fmt.Errorf("amqp: %w", err))
			}
		}
		if err := repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
		if len(errs) > 0 {
			return fmt.Errorf("close sqlite backend: %v", errs)
		}
		return nil
	}

	return &Result{Store: repo, Publisher: publisher, Cleanup: cleanup}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context) (*Result, error) {
	f.logger.InfoContext(ctx, "memory backend initialized")
	return &Result{Store: memory.NewStore()}, nil
}
