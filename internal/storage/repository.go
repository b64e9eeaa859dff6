// Package storage keeps imported sales sheets in SQLite so the dashboard can
// run without the original workbook.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"menusales/internal/core"
	applog "menusales/internal/log"
	ports "menusales/internal/sheets"

	_ "modernc.org/sqlite"
)

const (
	axisRow = "row"
	axisCol = "col"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	layouts ports.LayoutResolver
}

// Ensure interface conformance
var (
	_ ports.TableLoader = (*SQLiteRepository)(nil)
	_ ports.SheetLister = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string, layouts ports.LayoutResolver) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db), layouts: layouts}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load rebuilds the stored grid for category exactly as it was imported.
// The sheet, its axes and its cells are read in one transaction so a
// concurrent Import is seen either whole or not at all.
func (r *SQLiteRepository) Load(ctx context.Context, category core.Category) (core.SalesTable, error) {
	name := string(category)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.SalesTable{}, fmt.Errorf("begin read: %w", err)
	}
	defer tx.Rollback()
	q := r.queries.WithTx(tx)

	if _, err := q.GetSheet(ctx, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.SalesTable{}, &core.NotFoundError{Category: category}
		}
		return core.SalesTable{}, &core.NotFoundError{Category: category, Err: fmt.Errorf("get sheet: %w", err)}
	}

	rows, err := q.ListAxis(ctx, name, axisRow)
	if err != nil {
		return core.SalesTable{}, fmt.Errorf("list rows: %w", err)
	}
	cols, err := q.ListAxis(ctx, name, axisCol)
	if err != nil {
		return core.SalesTable{}, fmt.Errorf("list columns: %w", err)
	}
	stored, err := q.ListCells(ctx, name)
	if err != nil {
		return core.SalesTable{}, fmt.Errorf("list cells: %w", err)
	}

	t := core.SalesTable{Category: category, Layout: r.layoutOf(category), Rows: rows, Columns: cols}
	t.Cells = make([][]core.Quantity, len(rows))
	for i := range t.Cells {
		t.Cells[i] = make([]core.Quantity, len(cols))
	}
	for _, c := range stored {
		if c.RowPos < 0 || c.RowPos >= int64(len(rows)) || c.ColPos < 0 || c.ColPos >= int64(len(cols)) {
			return core.SalesTable{}, fmt.Errorf("sheet %s: cell (%d,%d) outside %dx%d grid", name, c.RowPos, c.ColPos, len(rows), len(cols))
		}
		if !c.Quantity.Valid {
			continue
		}
		qty, err := core.ParseQuantity(c.Quantity.String)
		if err != nil {
			return core.SalesTable{}, fmt.Errorf("cell (%d,%d): %w", c.RowPos, c.ColPos, err)
		}
		t.Cells[c.RowPos][c.ColPos] = qty
	}
	slog.DebugContext(ctx, "Stored sheet loaded", "category", category, "rows", len(rows), "columns", len(cols))
	return t, nil
}

// Sheets lists imported categories in first-import order.
func (r *SQLiteRepository) Sheets(ctx context.Context) ([]core.Category, error) {
	sheets, err := r.queries.ListSheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	out := make([]core.Category, 0, len(sheets))
	for _, s := range sheets {
		out = append(out, core.Category(s.Category))
	}
	return out, nil
}

// Stamp returns the import revision of category, for cache validation.
func (r *SQLiteRepository) Stamp(ctx context.Context, category core.Category) (string, bool) {
	s, err := r.queries.GetSheet(ctx, string(category))
	if err != nil {
		return "", false
	}
	return strconv.FormatInt(s.Revision, 10), true
}

// Import replaces the stored copy of t.Category in a single transaction.
func (r *SQLiteRepository) Import(ctx context.Context, t core.SalesTable) error {
	if t.Category == "" {
		return errors.New("import: category is required")
	}
	name := string(t.Category)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	q := r.queries.WithTx(tx)

	if err := q.UpsertSheet(ctx, name); err != nil {
		return fmt.Errorf("upsert sheet: %w", err)
	}
	if err := q.DeleteSheetData(ctx, name); err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}
	for i, label := range t.Rows {
		if err := q.InsertAxis(ctx, name, axisRow, i, label); err != nil {
			return fmt.Errorf("insert row %q: %w", label, err)
		}
	}
	for j, label := range t.Columns {
		if err := q.InsertAxis(ctx, name, axisCol, j, label); err != nil {
			return fmt.Errorf("insert column %q: %w", label, err)
		}
	}
	for i := range t.Rows {
		for j := range t.Columns {
			qty := t.Cell(i, j)
			if !qty.Valid {
				continue
			}
			val := sql.NullString{String: qty.Decimal.String(), Valid: true}
			if err := q.InsertCell(ctx, name, i, j, val); err != nil {
				return fmt.Errorf("insert cell (%d,%d): %w", i, j, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	slog.InfoContext(ctx, "Sales sheet imported",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldOperation, applog.OpImport,
		applog.FieldCategory, t.Category, "rows", len(t.Rows), "columns", len(t.Columns))
	return nil
}

func (r *SQLiteRepository) layoutOf(category core.Category) core.Layout {
	if r.layouts == nil {
		return core.ItemsOnRows
	}
	return r.layouts.LayoutOf(category)
}
