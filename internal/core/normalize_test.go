package core

import (
	"errors"
	"reflect"
	"testing"
)

// drinkTable is the scenario sheet: cola=[10,20], tea=[5,blank].
func drinkTable() SalesTable {
	return SalesTable{
		Category: "drink",
		Layout:   ItemsOnRows,
		Rows:     []string{"cola", "tea"},
		Columns:  []string{"2022-01", "2022-02"},
		Cells: [][]Quantity{
			{Qty(10), Qty(20)},
			{Qty(5), Missing()},
		},
	}
}

func TestNormalizeItemsOnRows(t *testing.T) {
	n, err := Normalize(drinkTable())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got := n.Items(); !reflect.DeepEqual(got, []string{"cola", "tea"}) {
		t.Fatalf("items = %v", got)
	}
	if got := n.Months(); !reflect.DeepEqual(got, []string{"2022-01", "2022-02"}) {
		t.Fatalf("months = %v", got)
	}
	if !n.Has("cola") || n.Has("juice") {
		t.Fatalf("unexpected membership")
	}
}

func TestNormalizeItemsOnColumnsTransposes(t *testing.T) {
	tbl := SalesTable{
		Category: "meat",
		Layout:   ItemsOnColumns,
		Rows:     []string{"Mar", "Jan", "Feb"},
		Columns:  []string{"beef", "pork"},
		Cells: [][]Quantity{
			{Qty(3), Qty(30)},
			{Qty(1), Qty(10)},
			{Qty(2), Missing()},
		},
	}
	n, err := Normalize(tbl)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	// Source month order is kept even though it is not sorted.
	if got := n.Months(); !reflect.DeepEqual(got, []string{"Mar", "Jan", "Feb"}) {
		t.Fatalf("months = %v", got)
	}
	pork, err := SingleSeries(n, "pork")
	if err != nil {
		t.Fatalf("SingleSeries: %v", err)
	}
	if FormatQuantity(pork[0].Quantity) != "30" || FormatQuantity(pork[1].Quantity) != "10" || pork[2].Quantity.Valid {
		t.Fatalf("unexpected pork series: %+v", pork)
	}
}

func TestNormalizeEmptyTable(t *testing.T) {
	for _, tbl := range []SalesTable{
		{Category: "drink"},
		{Category: "drink", Rows: []string{"cola"}},
		{Category: "drink", Columns: []string{"2022-01"}},
	} {
		n, err := Normalize(tbl)
		if err != nil {
			t.Fatalf("Normalize(empty) error: %v", err)
		}
		if n.Len() != 0 || len(n.Months()) != 0 {
			t.Fatalf("expected empty series, got items=%v months=%v", n.Items(), n.Months())
		}
	}
}

func TestNormalizeRejectsDuplicates(t *testing.T) {
	tbl := drinkTable()
	tbl.Rows = []string{"cola", "cola"}
	_, err := Normalize(tbl)
	var dup *DuplicateLabelError
	if !errors.As(err, &dup) || dup.Axis != "item" || dup.Label != "cola" {
		t.Fatalf("expected duplicate item error, got %v", err)
	}

	tbl = drinkTable()
	tbl.Columns = []string{"2022-01", "2022-01"}
	if _, err := Normalize(tbl); !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("expected duplicate month error, got %v", err)
	}
}

func TestNormalizeItemSetMatchesSource(t *testing.T) {
	tbl := SalesTable{
		Category: "sidemenu",
		Rows:     []string{"fries", "salad", "rice", "soup"},
		Columns:  []string{"1", "2", "3"},
	}
	tbl.Cells = make([][]Quantity, len(tbl.Rows))
	for i := range tbl.Cells {
		tbl.Cells[i] = []Quantity{Qty(int64(i)), Qty(1), Missing()}
	}
	n, err := Normalize(tbl)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !reflect.DeepEqual(n.Items(), tbl.Rows) {
		t.Fatalf("items = %v, want %v", n.Items(), tbl.Rows)
	}
	for _, item := range n.Items() {
		pts, err := SingleSeries(n, item)
		if err != nil {
			t.Fatalf("SingleSeries(%s): %v", item, err)
		}
		if len(pts) != len(tbl.Columns) {
			t.Fatalf("series %s has %d points, want %d", item, len(pts), len(tbl.Columns))
		}
		for i, p := range pts {
			if p.Month != tbl.Columns[i] {
				t.Fatalf("series %s month[%d] = %s", item, i, p.Month)
			}
		}
	}
}

func TestNormalizeShortRowsAreMissing(t *testing.T) {
	tbl := drinkTable()
	tbl.Cells = [][]Quantity{{Qty(10), Qty(20)}, {Qty(5)}}
	n, err := Normalize(tbl)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	tea, _ := SingleSeries(n, "tea")
	if tea[1].Quantity.Valid {
		t.Fatalf("short row cell should be missing, got %v", tea[1].Quantity)
	}
}
