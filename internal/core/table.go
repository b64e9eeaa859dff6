package core

// SalesTable is one category's sheet as stored in the source: rows and
// columns in source order, cells indexed [row][col]. Layout says which axis
// holds the items. Tables are not mutated once built.
type SalesTable struct {
	Category Category
	Layout   Layout
	Rows     []string
	Columns  []string
	Cells    [][]Quantity
}

// IsEmpty reports whether the table has no items or no months.
func (t SalesTable) IsEmpty() bool {
	return len(t.Rows) == 0 || len(t.Columns) == 0
}

// Cell returns the quantity at (row, col); out-of-range cells are missing.
func (t SalesTable) Cell(row, col int) Quantity {
	if row < 0 || row >= len(t.Cells) {
		return Missing()
	}
	r := t.Cells[row]
	if col < 0 || col >= len(r) {
		return Missing()
	}
	return r[col]
}

// Items returns the item labels in source order.
func (t SalesTable) Items() []string {
	if t.Layout == ItemsOnColumns {
		return t.Columns
	}
	return t.Rows
}

// Months returns the month labels in source order.
func (t SalesTable) Months() []string {
	if t.Layout == ItemsOnColumns {
		return t.Rows
	}
	return t.Columns
}
