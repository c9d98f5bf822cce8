// Package memory is an in-memory ledger used for local development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"outgo/internal/core"
	ports "outgo/internal/sheets"
)

type Ledger struct {
	mu   sync.RWMutex
	rows map[int64]core.Activity
}

var _ ports.Ledger = (*Ledger)(nil)

func NewLedger() *Ledger {
	return &Ledger{rows: make(map[int64]core.Activity)}
}

func (l *Ledger) Append(_ context.Context, a core.Activity) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rows[a.ID] = a
	return fmt.Sprintf("memory:%d", a.ID), nil
}

func (l *Ledger) Delete(_ context.Context, activityID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.rows, activityID)
	return nil
}

// Rows returns a copy of the current ledger contents.
func (l *Ledger) Rows() []core.Activity {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]core.Activity, 0, len(l.rows))
	for _, a := range l.rows {
		out = append(out, a)
	}
	return out
}
