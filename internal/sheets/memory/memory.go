// Package memory keeps sales grids in process. It backs tests and local runs
// without a workbook; grids can be seeded from CSV files.
package memory

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"menusales/internal/core"
	ports "menusales/internal/sheets"
)

type Store struct {
	mu      sync.Mutex
	order   []core.Category
	grids   map[core.Category][][]string
	layouts ports.LayoutResolver
}

// Ensure interface conformance
var (
	_ ports.TableLoader = (*Store)(nil)
	_ ports.SheetLister = (*Store)(nil)
)

func New(layouts ports.LayoutResolver) *Store {
	return &Store{grids: map[core.Category][][]string{}, layouts: layouts}
}

// NewFromDir loads every <category>.csv in dir. When the directory holds no
// CSV files a small demo drink sheet is seeded instead.
func NewFromDir(dir string, layouts ports.LayoutResolver) (*Store, error) {
	s := New(layouts)
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	for _, p := range paths {
		grid, err := readCSV(p)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		s.Put(core.Category(name), grid)
	}
	if len(s.order) == 0 {
		s.Put("drink", [][]string{
			{"品名", "2022-01", "2022-02", "2022-03"},
			{"cola", "10", "20", "15"},
			{"tea", "5", "", "8"},
		})
	}
	return s, nil
}

// Put stores (or replaces) the raw grid for category.
func (s *Store) Put(category core.Category, grid [][]string) {
	cp := make([][]string, len(grid))
	for i, row := range grid {
		cp[i] = append([]string(nil), row...)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.grids[category]; !ok {
		s.order = append(s.order, category)
	}
	s.grids[category] = cp
}

// Load parses the stored grid afresh on every call.
func (s *Store) Load(_ context.Context, category core.Category) (core.SalesTable, error) {
	s.mu.Lock()
	grid, ok := s.grids[category]
	s.mu.Unlock()
	if !ok {
		return core.SalesTable{}, &core.NotFoundError{Category: category}
	}
	layout := core.ItemsOnRows
	if s.layouts != nil {
		layout = s.layouts.LayoutOf(category)
	}
	return ports.ParseGrid(category, layout, grid)
}

func (s *Store) Sheets(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.order...), nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}
