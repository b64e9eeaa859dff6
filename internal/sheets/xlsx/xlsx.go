// Package xlsx reads sales tables from an .xlsx workbook with one sheet per
// category.
package xlsx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"menusales/internal/core"
	ports "menusales/internal/sheets"
)

type Workbook struct {
	path    string
	layouts ports.LayoutResolver
}

// Ensure interface conformance
var (
	_ ports.TableLoader = (*Workbook)(nil)
	_ ports.SheetLister = (*Workbook)(nil)
)

// New returns a loader for the workbook at path. The file is opened on every
// Load and closed before it returns.
func New(path string, layouts ports.LayoutResolver) *Workbook {
	return &Workbook{path: path, layouts: layouts}
}

// Path returns the workbook location.
func (w *Workbook) Path() string { return w.path }

func (w *Workbook) Load(ctx context.Context, category core.Category) (core.SalesTable, error) {
	if err := ctx.Err(); err != nil {
		return core.SalesTable{}, err
	}
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return core.SalesTable{}, &core.NotFoundError{Category: category, Err: fmt.Errorf("open workbook %s: %w", w.path, err)}
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(string(category))
	if err != nil || idx == -1 {
		return core.SalesTable{}, &core.NotFoundError{Category: category}
	}

	rows, err := readGrid(f, string(category))
	if err != nil {
		return core.SalesTable{}, &core.NotFoundError{Category: category, Err: fmt.Errorf("read sheet: %w", err)}
	}

	t, err := ports.ParseGrid(category, w.layoutOf(category), rows)
	if err != nil {
		return core.SalesTable{}, err
	}
	slog.DebugContext(ctx, "Workbook sheet loaded", "path", w.path, "category", category, "rows", len(t.Rows), "columns", len(t.Columns))
	return t, nil
}

// Sheets lists the sheet names of the workbook in tab order.
func (w *Workbook) Sheets(ctx context.Context) ([]core.Category, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", w.path, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	out := make([]core.Category, 0, len(names))
	for _, n := range names {
		out = append(out, core.Category(n))
	}
	return out, nil
}

// readGrid returns the sheet with labels as displayed and quantities as
// stored. Header row and label column keep their number format so date
// headers stay readable; every other cell is the raw value, so a "#,##0" or
// "0%" style does not round or decorate the quantity.
func readGrid(f *excelize.File, sheet string) ([][]string, error) {
	shown, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	for r := range raw {
		if r >= len(shown) {
			break
		}
		if r == 0 {
			raw[0] = shown[0]
			continue
		}
		if len(raw[r]) > 0 && len(shown[r]) > 0 {
			raw[r][0] = shown[r][0]
		}
	}
	return raw, nil
}

func (w *Workbook) layoutOf(category core.Category) core.Layout {
	if w.layouts == nil {
		return core.ItemsOnRows
	}
	return w.layouts.LayoutOf(category)
}
