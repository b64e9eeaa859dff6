package core

// SeriesTable is a multi-item selection: quantities indexed [month][item].
// A table with no items is the "nothing selected" state; its month axis is
// still populated.
type SeriesTable struct {
	Category Category
	Months   []string
	Items    []string
	Cells    [][]Quantity
}

// Empty reports whether no item was selected.
func (t SeriesTable) Empty() bool { return len(t.Items) == 0 }

// Column returns the series of the item at index i as points.
func (t SeriesTable) Column(i int) []Point {
	out := make([]Point, len(t.Months))
	for m, month := range t.Months {
		out[m] = Point{Month: month, Quantity: t.Cells[m][i]}
	}
	return out
}

// SingleSeries returns the (month, quantity) pairs of item in canonical
// month order. It is rendered as a bar chart.
func SingleSeries(n NormalizedSeries, item string) ([]Point, error) {
	qs, ok := n.values[item]
	if !ok {
		return nil, &UnknownItemError{Category: n.Category, Item: item}
	}
	out := make([]Point, len(n.months))
	for i, month := range n.months {
		out[i] = Point{Month: month, Quantity: qs[i]}
	}
	return out, nil
}

// MultiSeries returns one column per selected item, sharing the month axis.
// It is rendered as a line chart. An empty selection is not an error: the
// result is Empty and the caller decides how to tell the user.
func MultiSeries(n NormalizedSeries, items []string) (SeriesTable, error) {
	cols := make([][]Quantity, len(items))
	for i, item := range items {
		qs, ok := n.values[item]
		if !ok {
			return SeriesTable{}, &UnknownItemError{Category: n.Category, Item: item}
		}
		cols[i] = qs
	}

	t := SeriesTable{
		Category: n.Category,
		Months:   append([]string(nil), n.months...),
		Items:    append([]string(nil), items...),
		Cells:    make([][]Quantity, len(n.months)),
	}
	for m := range n.months {
		row := make([]Quantity, len(items))
		for i := range items {
			row[i] = cols[i][m]
		}
		t.Cells[m] = row
	}
	return t, nil
}
