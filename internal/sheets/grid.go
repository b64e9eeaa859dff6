package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"menusales/internal/core"
)

// ParseGrid converts a values matrix (header row first, labels in the first
// column) into a SalesTable. The corner cell is the index name and is
// ignored. Blank cells are missing quantities; any other cell must be numeric.
// Blank rows are dropped and short rows are padded. A row with values but a
// blank label is an error naming its label cell.
func ParseGrid(category core.Category, layout core.Layout, grid [][]string) (core.SalesTable, error) {
	t := core.SalesTable{Category: category, Layout: layout}
	grid = trimTrailingBlankRows(grid)
	if len(grid) == 0 {
		return t, nil
	}

	header := grid[0]
	if len(header) > 1 {
		t.Columns = make([]string, 0, len(header)-1)
		for _, h := range header[1:] {
			t.Columns = append(t.Columns, strings.TrimSpace(h))
		}
		t.Columns = trimTrailingBlank(t.Columns)
	}

	for r, row := range grid[1:] {
		label := strings.TrimSpace(safeGet(row, 0))
		if label == "" {
			if isBlankRow(row) {
				continue
			}
			return core.SalesTable{}, fmt.Errorf("sheet %s: cell %s: row has values but no label", category, cellRef(r+2, 1))
		}
		cells := make([]core.Quantity, len(t.Columns))
		for c := range t.Columns {
			raw := safeGet(row, c+1)
			q, err := core.ParseQuantity(raw)
			if err != nil {
				return core.SalesTable{}, fmt.Errorf("sheet %s: cell %s: non-numeric value %q", category, cellRef(r+2, c+2), raw)
			}
			cells[c] = q
		}
		t.Rows = append(t.Rows, label)
		t.Cells = append(t.Cells, cells)
	}
	return t, nil
}

// ToStrings converts an API row ([]interface{}) to trimmed strings. Numbers
// are written in plain decimal notation, never with an exponent.
func ToStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch n := v.(type) {
		case nil:
		case float64:
			out[i] = strconv.FormatFloat(n, 'f', -1, 64)
		default:
			out[i] = strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return out
}

func trimTrailingBlankRows(grid [][]string) [][]string {
	end := len(grid)
	for end > 0 && isBlankRow(grid[end-1]) {
		end--
	}
	return grid[:end]
}

func trimTrailingBlank(labels []string) []string {
	end := len(labels)
	for end > 0 && labels[end-1] == "" {
		end--
	}
	return labels[:end]
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

// cellRef renders a 1-based (row, col) pair in A1 notation.
func cellRef(row, col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return fmt.Sprintf("%s%d", name, row)
}
