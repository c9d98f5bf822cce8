// Package store defines the outbound ports for the activity, user and
// taxonomy collections. The SQLite repository and the in-memory store both
// satisfy them.
package store

import (
	"context"
	"errors"

	"outgo/internal/core"
)

// ErrNotFound is returned when a lookup matches no row. Callers that must
// not leak which check failed (login) translate it before responding.
var ErrNotFound = errors.New("record not found")

type (
	ActivityStore interface {
		// ListActivities returns the owner's full history, newest date first.
		ListActivities(ctx context.Context, userID int64) ([]core.Activity, error)
		GetActivity(ctx context.Context, id int64) (core.Activity, error)
		// InsertActivity stores a new record and returns it with its
		// assigned identifier.
		InsertActivity(ctx context.Context, a core.Activity) (core.Activity, error)
		// UpdateActivity replaces the full record keyed by its identifier,
		// scoped to the owner, and returns the stored result.
		UpdateActivity(ctx context.Context, a core.Activity) (core.Activity, error)
		DeleteActivity(ctx context.Context, id, userID int64) error
	}

	UserStore interface {
		UserByEmail(ctx context.Context, email string) (core.User, error)
		UserByName(ctx context.Context, name string) (core.User, error)
		InsertUser(ctx context.Context, u core.User) (core.User, error)
	}

	// TaxonomyStore serves the category and payment-method name lists.
	// Categories are global; payment methods are shared (owner 0) or scoped
	// to one user.
	TaxonomyStore interface {
		ListCategories(ctx context.Context) ([]string, error)
		ListPaymentMethods(ctx context.Context, userID int64) ([]string, error)
		UpsertCategory(ctx context.Context, name string) error
		UpsertPaymentMethod(ctx context.Context, name string, userID int64) error
	}

	// Store is the full backend surface the HTTP layer needs.
	Store interface {
		ActivityStore
		UserStore
		TaxonomyStore
	}
)
