package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// ItemsOnRows means the first column of the sheet holds item labels and the
	// header row holds months. This is how the sales workbook is laid out.
	ItemsOnRows Layout = "rows"
	// ItemsOnColumns means the header row holds item labels and the first
	// column holds months.
	ItemsOnColumns Layout = "columns"
)

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
)

type (
	// Category names a sheet (sub-dataset) of the sales source, e.g. "drink".
	Category string

	// Layout tells which axis of a source sheet carries item labels.
	Layout string

	// ChartKind is the rendering hint handed to the chart sink.
	ChartKind string

	// Quantity is a sales figure. Valid is false when the source cell was blank.
	Quantity = decimal.NullDecimal

	CategoryInfo struct {
		Name   Category
		Label  string // display label
		Layout Layout
	}

	// Point is one (month, quantity) pair of a single-item series.
	Point struct {
		Month    string
		Quantity Quantity
	}

	// CommentEntry is one line of the comment log.
	CommentEntry string
)

func (c Category) String() string { return string(c) }

// IsValid reports whether l is a known layout.
func (l Layout) IsValid() bool {
	switch l {
	case ItemsOnRows, ItemsOnColumns:
		return true
	default:
		return false
	}
}

// Qty returns a present quantity.
func Qty(v int64) Quantity {
	return Quantity{Decimal: decimal.NewFromInt(v), Valid: true}
}

// Missing returns an absent quantity.
func Missing() Quantity {
	return Quantity{}
}

// ParseQuantity parses a cell value. Blank input yields a missing quantity.
// Thousands separators are accepted.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Missing(), nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return Missing(), err
	}
	return Quantity{Decimal: d, Valid: true}, nil
}

// FormatQuantity renders q for display; missing quantities render as "".
func FormatQuantity(q Quantity) string {
	if !q.Valid {
		return ""
	}
	return q.Decimal.String()
}
