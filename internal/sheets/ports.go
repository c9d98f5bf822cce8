package sheets

import (
	"context"

	"outgo/internal/core"
)

// Ports for the ledger export adapters.
type (
	// LedgerWriter appends one row per activity to the external ledger.
	// Appending an activity that is already present replaces its row.
	LedgerWriter interface {
		Append(ctx context.Context, a core.Activity) (rowRef string, err error)
	}

	// LedgerDeleter removes an activity's row from the ledger.
	LedgerDeleter interface {
		Delete(ctx context.Context, activityID int64) error
	}

	// Ledger combines both ports.
	Ledger interface {
		LedgerWriter
		LedgerDeleter
	}
)
