package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"menusales/internal/core"
	applog "menusales/internal/log"
	"menusales/internal/sheets"
)

// Importer stores a loaded sheet, replacing any previous copy.
type Importer interface {
	Import(ctx context.Context, t core.SalesTable) error
}

// ImportReport lists what ImportSheets copied and skipped.
type ImportReport struct {
	Imported []core.Category
	Skipped  []core.Category
}

// ImportSheets copies every category from src into dst. Categories the
// source lacks are skipped; any other failure stops the import.
func ImportSheets(ctx context.Context, src sheets.TableLoader, dst Importer, categories []core.Category) (ImportReport, error) {
	var rep ImportReport
	for _, c := range categories {
		t, err := src.Load(ctx, c)
		if errors.Is(err, core.ErrNotFound) {
			slog.WarnContext(ctx, "Sheet missing from source, skipped", "category", c, "error", err)
			rep.Skipped = append(rep.Skipped, c)
			continue
		}
		if err != nil {
			return rep, fmt.Errorf("load %s: %w", c, err)
		}
		if _, err := core.Normalize(t); err != nil {
			return rep, fmt.Errorf("check %s: %w", c, err)
		}
		if err := dst.Import(ctx, t); err != nil {
			return rep, fmt.Errorf("import %s: %w", c, err)
		}
		slog.DebugContext(ctx, "Sheet imported", applog.FieldOperation, applog.OpImport, applog.FieldCategory, c, "rows", len(t.Rows), "columns", len(t.Columns))
		rep.Imported = append(rep.Imported, c)
	}
	return rep, nil
}
