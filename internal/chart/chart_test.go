package chart

import (
	"bytes"
	"errors"
	"testing"

	"menusales/internal/core"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderBar(t *testing.T) {
	points := []core.Point{
		{Month: "2022-01", Quantity: core.Qty(10)},
		{Month: "2022-02", Quantity: core.Missing()},
		{Month: "2022-03", Quantity: core.Qty(15)},
	}
	var buf bytes.Buffer
	if err := RenderBar(&buf, "cola", points); err != nil {
		t.Fatalf("RenderBar: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatal("output is not a PNG")
	}
}

func TestRenderBarAllZero(t *testing.T) {
	var buf bytes.Buffer
	points := []core.Point{{Month: "Jan", Quantity: core.Qty(0)}, {Month: "Feb", Quantity: core.Qty(0)}}
	if err := RenderBar(&buf, "none sold", points); err != nil {
		t.Fatalf("RenderBar: %v", err)
	}
}

func TestRenderBarNoMonths(t *testing.T) {
	err := RenderBar(&bytes.Buffer{}, "cola", nil)
	if !errors.Is(err, core.ErrNothingToRender) {
		t.Fatalf("expected ErrNothingToRender, got %v", err)
	}
}

func TestRenderLines(t *testing.T) {
	table := core.SeriesTable{
		Category: "drink",
		Months:   []string{"2022-01", "2022-02", "2022-03"},
		Items:    []string{"cola", "tea"},
		Cells: [][]core.Quantity{
			{core.Qty(10), core.Qty(5)},
			{core.Qty(20), core.Missing()},
			{core.Qty(15), core.Qty(8)},
		},
	}
	var buf bytes.Buffer
	if err := RenderLines(&buf, "drink", table); err != nil {
		t.Fatalf("RenderLines: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatal("output is not a PNG")
	}
}

func TestRenderLinesNothingToDraw(t *testing.T) {
	cases := map[string]core.SeriesTable{
		"empty selection": {Months: []string{"2022-01"}},
		"all missing": {
			Months: []string{"2022-01", "2022-02"},
			Items:  []string{"tea"},
			Cells:  [][]core.Quantity{{core.Missing()}, {core.Missing()}},
		},
	}
	for name, table := range cases {
		t.Run(name, func(t *testing.T) {
			err := RenderLines(&bytes.Buffer{}, "drink", table)
			if !errors.Is(err, core.ErrNothingToRender) {
				t.Fatalf("expected ErrNothingToRender, got %v", err)
			}
		})
	}
}

func TestAxisMax(t *testing.T) {
	if axisMax(0) != 1 || axisMax(-3) != 1 {
		t.Fatal("non-positive maximum must fall back to 1")
	}
	if got := axisMax(100); got <= 100 {
		t.Fatalf("axisMax(100) = %v, want headroom", got)
	}
}
