package backend

import (
	"context"
	"fmt"
	"log/slog"

	"menusales/internal/amqp"
	"menusales/internal/cache"
	"menusales/internal/comments"
	applog "menusales/internal/log"
	"menusales/internal/services"
	"menusales/internal/sheets"
	gsheet "menusales/internal/sheets/google"
	"menusales/internal/sheets/memory"
	"menusales/internal/sheets/xlsx"
	"menusales/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) log(component string) *slog.Logger {
	return f.logger.With(applog.FieldComponent, component)
}

// CreateLoader opens the configured source and, when enabled, wraps it in a
// read-through cache.
func (f *DefaultFactory) CreateLoader(ctx context.Context, config Config, layouts sheets.LayoutResolver) (*LoaderResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		loader  sheets.TableLoader
		stamp   cache.StampFunc
		cleanup CleanupFunc
	)

	switch config.Type {
	case XLSXBackend:
		loader = xlsx.New(config.WorkbookPath, layouts)
		stamp = cache.FileStamp(config.WorkbookPath)
		f.log(applog.ComponentSheets).Info("Initialized workbook backend", "path", config.WorkbookPath)

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, layouts)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		loader, stamp, cleanup = repo, repo.Stamp, repo.Close
		f.log(applog.ComponentStorage).Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	case SheetsBackend:
		cli, err := gsheet.New(ctx, config.GoogleSpreadsheetID, layouts)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		loader, stamp = cli, cache.TTLOnly
		f.log(applog.ComponentSheets).Info("Initialized Google Sheets backend", "spreadsheet_id", config.GoogleSpreadsheetID)

	case MemoryBackend:
		store, err := memory.NewFromDir(config.DataDirectory, layouts)
		if err != nil {
			return nil, fmt.Errorf("failed to seed memory backend: %w", err)
		}
		loader, stamp = store, cache.TTLOnly
		f.log(applog.ComponentSheets).Info("Initialized memory backend", "data_directory", config.DataDirectory)

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	if !config.CacheEnabled {
		return &LoaderResult{Loader: loader, Cleanup: cleanup}, nil
	}

	tc := cache.NewTableCache(loader, stamp, config.CacheSize, config.CacheTTL)
	if config.CacheTTL <= 0 {
		f.log(applog.ComponentCache).Info("Enabled sales table cache", "size", config.CacheSize)
		return &LoaderResult{Loader: tc, Cleanup: cleanup}, nil
	}

	mgr := cache.NewManager()
	mgr.Register(tc)
	mgr.StartCleanup(config.CacheTTL)
	f.log(applog.ComponentCache).Info("Enabled sales table cache", "size", config.CacheSize, "ttl", config.CacheTTL)

	return &LoaderResult{
		Loader: tc,
		Cleanup: func() error {
			mgr.Stop()
			if cleanup != nil {
				return cleanup()
			}
			return nil
		},
	}, nil
}

// CreateCommentService returns the comment log service. AMQP notifications
// are attached when configured and reachable; otherwise comments are only
// stored.
func (f *DefaultFactory) CreateCommentService(config Config) *services.CommentService {
	log := comments.NewFileLog(config.CommentsDir)

	if config.AMQPURL == "" {
		return services.NewCommentService(log, nil)
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.log(applog.ComponentAMQP).Warn("Failed to initialize AMQP client, continuing without notifications", applog.FieldError, err)
		return services.NewCommentService(log, nil)
	}
	f.log(applog.ComponentAMQP).Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return services.NewCommentService(log, client)
}
