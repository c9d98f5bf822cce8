// Package worker keeps the external ledger in step with the local store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"outgo/internal/amqp"
	"outgo/internal/core"
	"outgo/internal/sheets"
	"outgo/internal/storage"
	"outgo/internal/store"
)

// SyncWorker applies activity sync and delete messages to the ledger and
// sweeps records the broker never delivered.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	ledger    sheets.Ledger
	batchSize int
}

func NewSyncWorker(repo *storage.SQLiteRepository, ledger sheets.Ledger, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   repo,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// HandleMessage dispatches a single queue message.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.SyncMessage) error {
	switch msg.Kind {
	case amqp.KindUpsert:
		return w.handleUpsert(ctx, msg)
	case amqp.KindDelete:
		return w.handleDelete(ctx, msg)
	default:
		// Unknown kinds are dropped, requeueing would loop forever.
		slog.WarnContext(ctx, "dropping message with unknown kind", "kind", msg.Kind, "id", msg.ID)
		return nil
	}
}

func (w *SyncWorker) handleUpsert(ctx context.Context, msg *amqp.SyncMessage) error {
	slog.InfoContext(ctx, "processing sync message", "id", msg.ID, "version", msg.Version)

	activity, err := w.storage.GetActivity(ctx, msg.ID)
	if errors.Is(err, store.ErrNotFound) {
		// Deleted between publish and delivery; the delete message will
		// clean up the ledger.
		slog.InfoContext(ctx, "activity gone, skipping sync", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get activity from storage: %w", err)
	}

	return w.syncToLedger(ctx, activity.ID, activity)
}

func (w *SyncWorker) handleDelete(ctx context.Context, msg *amqp.SyncMessage) error {
	slog.InfoContext(ctx, "processing delete message", "id", msg.ID)

	if err := w.ledger.Delete(ctx, msg.ID); err != nil {
		return fmt.Errorf("delete from ledger: %w", err)
	}

	slog.InfoContext(ctx, "removed activity from ledger", "id", msg.ID)
	return nil
}

// ProcessPendingActivities syncs records still marked pending. This is the
// backup path for lost broker messages.
func (w *SyncWorker) ProcessPendingActivities(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize)
}

// StartupSyncCheck drains a larger pending backlog accumulated while the
// worker was down.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize*5)
}

func (w *SyncWorker) processPending(ctx context.Context, limit int) error {
	pending, err := w.storage.GetPendingSyncActivities(ctx, limit)
	if err != nil {
		return fmt.Errorf("get pending activities: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "processing pending activities", "count", len(pending))

	synced := 0
	failed := 0
	for _, p := range pending {
		activity, err := w.storage.GetActivity(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to load pending activity", "id", p.ID, "error", err)
			if markErr := w.storage.MarkSyncError(ctx, p.ID); markErr != nil {
				slog.ErrorContext(ctx, "failed to mark sync error", "id", p.ID, "error", markErr)
			}
			failed++
			continue
		}

		if err := w.syncToLedger(ctx, p.ID, activity); err != nil {
			slog.ErrorContext(ctx, "failed to sync pending activity", "id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "pending sweep completed",
		"total", len(pending), "synced", synced, "errors", failed)
	return nil
}

func (w *SyncWorker) syncToLedger(ctx context.Context, id int64, activity core.Activity) error {
	ref, err := w.ledger.Append(ctx, activity)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// The row is in the ledger; only the local flag is stale.
		slog.ErrorContext(ctx, "failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "synced activity to ledger",
		"id", id, "ledger_ref", ref, "amount_cents", activity.Amount.Cents)
	return nil
}
