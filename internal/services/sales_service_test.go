package services

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"

	"menusales/internal/core"
	"menusales/internal/sheets/memory"
)

func newSalesService(t *testing.T) *SalesService {
	t.Helper()
	store := memory.New(core.DefaultCatalog())
	store.Put("drink", [][]string{
		{"品名", "2022-01", "2022-02"},
		{"cola", "10", "20"},
		{"tea", "5", ""},
	})
	return NewSalesService(store, core.DefaultCatalog())
}

func TestSalesService_Single(t *testing.T) {
	svc := newSalesService(t)
	res, err := svc.Single(context.Background(), "drink", "cola")
	if err != nil {
		t.Fatalf("Single: %v", err)
	}
	if res.Chart != core.ChartBar {
		t.Fatalf("chart = %s, want bar", res.Chart)
	}
	want := []core.Point{{Month: "2022-01", Quantity: core.Qty(10)}, {Month: "2022-02", Quantity: core.Qty(20)}}
	if len(res.Points) != 2 || res.Points[0].Month != want[0].Month || !res.Points[1].Quantity.Decimal.Equal(want[1].Quantity.Decimal) {
		t.Fatalf("points = %+v", res.Points)
	}

	if _, err := svc.Single(context.Background(), "drink", "juice"); !errors.Is(err, core.ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
}

func TestSalesService_CompareUsesLineForAnyCount(t *testing.T) {
	svc := newSalesService(t)
	for _, items := range [][]string{{"cola"}, {"cola", "tea"}, {}} {
		res, err := svc.Compare(context.Background(), "drink", items)
		if err != nil {
			t.Fatalf("Compare(%v): %v", items, err)
		}
		if res.Chart != core.ChartLine {
			t.Fatalf("Compare(%v) chart = %s, want line", items, res.Chart)
		}
		if !reflect.DeepEqual(res.Table.Months, []string{"2022-01", "2022-02"}) {
			t.Fatalf("months = %v", res.Table.Months)
		}
		if res.Table.Empty() != (len(items) == 0) {
			t.Fatalf("Compare(%v) Empty() = %v", items, res.Table.Empty())
		}
	}
}

func TestSalesService_NotFound(t *testing.T) {
	svc := newSalesService(t)
	// In the catalog but absent from the source.
	if _, err := svc.Series(context.Background(), "meat"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("meat: expected ErrNotFound, got %v", err)
	}
	// Not offered at all.
	if _, err := svc.Series(context.Background(), "dessert"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("dessert: expected ErrNotFound, got %v", err)
	}
}

func TestSalesService_DuplicateLabels(t *testing.T) {
	store := memory.New(nil)
	store.Put("drink", [][]string{{"", "Jan"}, {"cola", "1"}, {"cola", "2"}})
	svc := NewSalesService(store, nil)
	if _, err := svc.Series(context.Background(), "drink"); !errors.Is(err, core.ErrDuplicateLabel) {
		t.Fatalf("expected ErrDuplicateLabel, got %v", err)
	}
}

func TestSalesService_Charts(t *testing.T) {
	svc := newSalesService(t)
	var buf bytes.Buffer
	if err := svc.WriteBarChart(context.Background(), &buf, "drink", "tea"); err != nil {
		t.Fatalf("WriteBarChart: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty bar chart")
	}
	buf.Reset()
	if err := svc.WriteLineChart(context.Background(), &buf, "drink", []string{"cola", "tea"}); err != nil {
		t.Fatalf("WriteLineChart: %v", err)
	}
	err := svc.WriteLineChart(context.Background(), &bytes.Buffer{}, "drink", nil)
	if !errors.Is(err, core.ErrNothingToRender) {
		t.Fatalf("empty selection: expected ErrNothingToRender, got %v", err)
	}
}

func TestSalesService_Categories(t *testing.T) {
	svc := newSalesService(t)
	cats := svc.Categories()
	if len(cats) != 3 || cats[0].Name != "drink" || cats[0].Label != "ドリンク" {
		t.Fatalf("categories = %+v", cats)
	}
}
