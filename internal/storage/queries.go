package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type SalesSheet struct {
	Category string
	Position int64
	Revision int64
}

type SalesCell struct {
	RowPos   int64
	ColPos   int64
	Quantity sql.NullString
}

const getSheet = `SELECT category, position, revision FROM sales_sheets WHERE category = ?`

func (q *Queries) GetSheet(ctx context.Context, category string) (SalesSheet, error) {
	var s SalesSheet
	err := q.db.QueryRowContext(ctx, getSheet, category).Scan(&s.Category, &s.Position, &s.Revision)
	return s, err
}

const listSheets = `SELECT category, position, revision FROM sales_sheets ORDER BY position`

func (q *Queries) ListSheets(ctx context.Context) ([]SalesSheet, error) {
	rows, err := q.db.QueryContext(ctx, listSheets)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SalesSheet
	for rows.Next() {
		var s SalesSheet
		if err := rows.Scan(&s.Category, &s.Position, &s.Revision); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const upsertSheet = `INSERT INTO sales_sheets (category, position)
VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM sales_sheets))
ON CONFLICT (category) DO UPDATE SET revision = revision + 1, imported_at = CURRENT_TIMESTAMP`

func (q *Queries) UpsertSheet(ctx context.Context, category string) error {
	_, err := q.db.ExecContext(ctx, upsertSheet, category)
	return err
}

const listAxis = `SELECT label FROM sales_axes WHERE category = ? AND axis = ? ORDER BY position`

func (q *Queries) ListAxis(ctx context.Context, category, axis string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listAxis, category, axis)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var labels []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

const insertAxis = `INSERT INTO sales_axes (category, axis, position, label) VALUES (?, ?, ?, ?)`

func (q *Queries) InsertAxis(ctx context.Context, category, axis string, position int, label string) error {
	_, err := q.db.ExecContext(ctx, insertAxis, category, axis, position, label)
	return err
}

const listCells = `SELECT row_pos, col_pos, quantity FROM sales_cells WHERE category = ?`

func (q *Queries) ListCells(ctx context.Context, category string) ([]SalesCell, error) {
	rows, err := q.db.QueryContext(ctx, listCells, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cells []SalesCell
	for rows.Next() {
		var c SalesCell
		if err := rows.Scan(&c.RowPos, &c.ColPos, &c.Quantity); err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, rows.Err()
}

const insertCell = `INSERT INTO sales_cells (category, row_pos, col_pos, quantity) VALUES (?, ?, ?, ?)`

func (q *Queries) InsertCell(ctx context.Context, category string, row, col int, quantity sql.NullString) error {
	_, err := q.db.ExecContext(ctx, insertCell, category, row, col, quantity)
	return err
}

const (
	deleteCells = `DELETE FROM sales_cells WHERE category = ?`
	deleteAxes  = `DELETE FROM sales_axes WHERE category = ?`
)

func (q *Queries) DeleteSheetData(ctx context.Context, category string) error {
	if _, err := q.db.ExecContext(ctx, deleteCells, category); err != nil {
		return err
	}
	_, err := q.db.ExecContext(ctx, deleteAxes, category)
	return err
}
