package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"menusales/internal/amqp"
	"menusales/internal/core"
	applog "menusales/internal/log"
	"menusales/internal/services"
	"menusales/internal/sheets"
)

// Mirror is a sales store the worker keeps in step with a live source.
type Mirror interface {
	services.Importer
	sheets.SheetLister
}

// SyncWorker copies every catalog category from a live source (workbook or
// Google Sheets) into the SQLite mirror, and reports comment notifications.
type SyncWorker struct {
	source     sheets.TableLoader
	mirror     Mirror
	categories []core.Category
	logger     *applog.Logger
	events     *applog.StructuredLogger
}

func NewSyncWorker(source sheets.TableLoader, mirror Mirror, catalog *core.Catalog) *SyncWorker {
	if catalog == nil {
		catalog = core.DefaultCatalog()
	}
	infos := catalog.All()
	categories := make([]core.Category, len(infos))
	for i, info := range infos {
		categories[i] = info.Name
	}
	logger := applog.New(applog.Config{Handler: slog.Default().Handler(), Component: applog.ComponentStorage})
	return &SyncWorker{
		source:     source,
		mirror:     mirror,
		categories: categories,
		logger:     logger,
		events:     applog.NewStructuredLogger(logger),
	}
}

// Sync imports every category once.
func (w *SyncWorker) Sync(ctx context.Context) (services.ImportReport, error) {
	start := time.Now()
	rep, err := services.ImportSheets(ctx, w.source, w.mirror, w.categories)
	if err != nil {
		return rep, fmt.Errorf("sync sales mirror: %w", err)
	}
	w.logger.InfoContext(ctx, "Sales mirror synced",
		applog.FieldOperation, applog.OpImport,
		"imported", len(rep.Imported),
		"skipped", len(rep.Skipped),
		"duration_ms", time.Since(start).Milliseconds())
	return rep, nil
}

// SyncIfEmpty fills a fresh mirror at start-up. A mirror that already holds
// sheets is left for the periodic sync.
func (w *SyncWorker) SyncIfEmpty(ctx context.Context) error {
	have, err := w.mirror.Sheets(ctx)
	if err != nil {
		return fmt.Errorf("list mirrored sheets: %w", err)
	}
	if len(have) > 0 {
		w.logger.InfoContext(ctx, "Sales mirror already populated", "sheets", len(have))
		return nil
	}
	w.logger.InfoContext(ctx, "Sales mirror empty, loading from source")
	_, err = w.Sync(ctx)
	return err
}

// Run syncs every interval until ctx is done. Failed rounds are logged and
// retried on the next tick.
func (w *SyncWorker) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.Sync(ctx); err != nil {
				w.events.LogError(ctx, "Periodic sync failed", err, applog.ComponentStorage, applog.OpImport, nil)
			}
		}
	}
}

// HandleCommentAppended records a comment notification. The comment text is
// not logged.
func (w *SyncWorker) HandleCommentAppended(msg *amqp.CommentAppendedMessage) error {
	w.logger.WithComponent(applog.ComponentAMQP).Info("Comment appended",
		"id", msg.ID,
		"comment_length", len(msg.Comment),
		"timestamp", msg.Timestamp)
	return nil
}
