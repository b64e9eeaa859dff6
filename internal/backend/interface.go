package backend

import (
	"context"
	"time"

	"menusales/internal/services"
	"menusales/internal/sheets"
)

// CleanupFunc releases resources held by a created component.
type CleanupFunc func() error

// LoaderResult is the table source selected by configuration.
type LoaderResult struct {
	Loader  sheets.TableLoader
	Cleanup CleanupFunc
}

// Factory builds the configured sales source and comment service.
type Factory interface {
	CreateLoader(ctx context.Context, config Config, layouts sheets.LayoutResolver) (*LoaderResult, error)
	CreateCommentService(config Config) *services.CommentService
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// xlsx
	WorkbookPath string

	// memory
	DataDirectory string

	// sqlite
	SQLiteDBPath string

	// sheets
	GoogleSpreadsheetID string

	// read-through cache
	CacheEnabled bool
	CacheSize    int
	CacheTTL     time.Duration

	// comments
	CommentsDir  string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	XLSXBackend   BackendType = "xlsx"
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case XLSXBackend, SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
