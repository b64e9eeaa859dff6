package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"menusales/internal/chart"
	"menusales/internal/core"
	"menusales/internal/sheets"
)

// SingleResult is a one-item selection, drawn as a bar chart.
type SingleResult struct {
	Category core.Category
	Item     string
	Chart    core.ChartKind
	Points   []core.Point
}

// CompareResult is a multi-item selection, drawn as a line chart whatever the
// number of items. Table.Empty() means nothing was selected.
type CompareResult struct {
	Category core.Category
	Chart    core.ChartKind
	Table    core.SeriesTable
}

// SalesService runs the load, normalize and select steps for one request.
type SalesService struct {
	loader  sheets.TableLoader
	catalog *core.Catalog
}

func NewSalesService(loader sheets.TableLoader, catalog *core.Catalog) *SalesService {
	if catalog == nil {
		catalog = core.DefaultCatalog()
	}
	return &SalesService{loader: loader, catalog: catalog}
}

// Categories returns the offered categories in display order.
func (s *SalesService) Categories() []core.CategoryInfo {
	return s.catalog.All()
}

// Lookup returns the catalog entry for category.
func (s *SalesService) Lookup(category core.Category) (core.CategoryInfo, bool) {
	return s.catalog.Lookup(category)
}

// Series loads category afresh and returns it keyed by item. Categories
// outside the catalog are reported as not found without touching the source.
func (s *SalesService) Series(ctx context.Context, category core.Category) (core.NormalizedSeries, error) {
	if _, ok := s.catalog.Lookup(category); !ok {
		return core.NormalizedSeries{}, &core.NotFoundError{Category: category}
	}
	t, err := s.loader.Load(ctx, category)
	if err != nil {
		return core.NormalizedSeries{}, err
	}
	n, err := core.Normalize(t)
	if err != nil {
		return core.NormalizedSeries{}, fmt.Errorf("normalize %s: %w", category, err)
	}
	slog.DebugContext(ctx, "Sales series loaded", "category", category, "items", n.Len())
	return n, nil
}

func (s *SalesService) Single(ctx context.Context, category core.Category, item string) (SingleResult, error) {
	n, err := s.Series(ctx, category)
	if err != nil {
		return SingleResult{}, err
	}
	points, err := core.SingleSeries(n, item)
	if err != nil {
		return SingleResult{}, err
	}
	return SingleResult{Category: category, Item: item, Chart: core.ChartBar, Points: points}, nil
}

func (s *SalesService) Compare(ctx context.Context, category core.Category, items []string) (CompareResult, error) {
	n, err := s.Series(ctx, category)
	if err != nil {
		return CompareResult{}, err
	}
	table, err := core.MultiSeries(n, items)
	if err != nil {
		return CompareResult{}, err
	}
	return CompareResult{Category: category, Chart: core.ChartLine, Table: table}, nil
}

// WriteBarChart renders the single-item selection as a PNG bar chart.
func (s *SalesService) WriteBarChart(ctx context.Context, w io.Writer, category core.Category, item string) error {
	res, err := s.Single(ctx, category, item)
	if err != nil {
		return err
	}
	return chart.RenderBar(w, item, res.Points)
}

// WriteLineChart renders the comparison as a PNG line chart. An empty
// selection yields core.ErrNothingToRender.
func (s *SalesService) WriteLineChart(ctx context.Context, w io.Writer, category core.Category, items []string) error {
	res, err := s.Compare(ctx, category, items)
	if err != nil {
		return err
	}
	title := string(category)
	if info, ok := s.catalog.Lookup(category); ok {
		title = info.Label
	}
	return chart.RenderLines(w, title, res.Table)
}
