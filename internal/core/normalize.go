package core

// NormalizedSeries is item-keyed, month-ordered sales data. Every item shares
// the same month axis, in the order the source stored it.
type NormalizedSeries struct {
	Category Category
	items    []string
	months   []string
	values   map[string][]Quantity // item -> quantities aligned with months
}

// Normalize transposes t so that items become the primary key, whichever
// axis the source stored them on. Month order is kept as found; labels are
// never sorted and duplicate labels are reported, not merged. An empty table
// yields an empty series.
func Normalize(t SalesTable) (NormalizedSeries, error) {
	n := NormalizedSeries{Category: t.Category, values: map[string][]Quantity{}}
	if t.IsEmpty() {
		return n, nil
	}

	items, months := t.Items(), t.Months()
	if label, dup := firstDuplicate(items); dup {
		return NormalizedSeries{}, &DuplicateLabelError{Category: t.Category, Axis: "item", Label: label}
	}
	if label, dup := firstDuplicate(months); dup {
		return NormalizedSeries{}, &DuplicateLabelError{Category: t.Category, Axis: "month", Label: label}
	}

	for i, item := range items {
		qs := make([]Quantity, len(months))
		for m := range months {
			if t.Layout == ItemsOnColumns {
				qs[m] = t.Cell(m, i)
			} else {
				qs[m] = t.Cell(i, m)
			}
		}
		n.values[item] = qs
	}
	n.items = append([]string(nil), items...)
	n.months = append([]string(nil), months...)
	return n, nil
}

// Items returns the item labels in source order.
func (n NormalizedSeries) Items() []string {
	return append([]string(nil), n.items...)
}

// Months returns the canonical month axis.
func (n NormalizedSeries) Months() []string {
	return append([]string(nil), n.months...)
}

// Has reports whether item is part of the series.
func (n NormalizedSeries) Has(item string) bool {
	_, ok := n.values[item]
	return ok
}

// Len returns the number of items.
func (n NormalizedSeries) Len() int { return len(n.items) }

func firstDuplicate(labels []string) (string, bool) {
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			return l, true
		}
		seen[l] = struct{}{}
	}
	return "", false
}
