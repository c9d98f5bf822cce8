// Command outgo-worker consumes activity sync events and exports them to the
// external ledger.
package main

import (
	"context"
	"time"

	"outgo/internal/amqp"
	"outgo/internal/cli"
	"outgo/internal/log"
	"outgo/internal/sheets"
	"outgo/internal/sheets/google"
	sheetsmemory "outgo/internal/sheets/memory"
	"outgo/internal/worker"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		return
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)

	var ledger sheets.Ledger
	if cfg.GoogleSpreadsheetID != "" {
		client, err := google.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("failed to initialize google sheets ledger",
				log.FieldError, err.Error())
			return
		}
		ledger = client
		logger.Info("using google sheets ledger",
			"spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		ledger = sheetsmemory.NewLedger()
		logger.Warn("no spreadsheet configured, using in-memory ledger")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("failed to connect to amqp", log.FieldError, err.Error())
		return
	}

	syncWorker := worker.NewSyncWorker(repo, ledger, cfg.SyncBatchSize)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if err := amqpClient.Close(); err != nil {
			logger.Error("failed to close amqp client", log.FieldError, err.Error())
		}
		if err := repo.Close(); err != nil {
			logger.Error("failed to close repository", log.FieldError, err.Error())
		}
	})

	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Warn("startup sync check failed", log.FieldError, err.Error())
	}

	go func() {
		err := amqpClient.ConsumeSyncMessages(ctx, func(msg *amqp.SyncMessage) error {
			return syncWorker.HandleMessage(ctx, msg)
		})
		if err != nil && ctx.Err() == nil {
			logger.Error("consumer stopped", log.FieldError, err.Error())
		}
	}()

	go func() {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := syncWorker.ProcessPendingActivities(ctx); err != nil {
					logger.Warn("periodic sync failed", log.FieldError, err.Error())
				}
			}
		}
	}()

	logger.Info("worker started",
		"queue", cfg.AMQPQueue, "sync_interval", cfg.SyncInterval.String())
	cli.WaitForShutdown(ctx, done)
}
