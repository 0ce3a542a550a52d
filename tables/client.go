// Package tables is the uniform select/insert/update/delete port over the
// hosted relational tables (products, categories, orders, order_items,
// contact_forms).
package tables

import (
	"context"

	"github.com/juju/errors"
)

const (
	Products     = "products"
	Categories   = "categories"
	Orders       = "orders"
	OrderItems   = "order_items"
	ContactForms = "contact_forms"
)

// Row is one table row keyed by column name.
type Row map[string]any

type Op string

const (
	Eq  Op = "eq"
	Neq Op = "neq"
	Gt  Op = "gt"
	Gte Op = "gte"
	Lt  Op = "lt"
	Lte Op = "lte"
	In  Op = "in"
)

type Filter struct {
	Column string
	Op     Op
	Value  any
}

func Where(column string, op Op, value any) Filter {
	return Filter{Column: column, Op: op, Value: value}
}

func ByID(id string) Filter {
	return Filter{Column: "id", Op: Eq, Value: id}
}

type OrderBy struct {
	Column string
	Desc   bool
}

type Query struct {
	// Columns limits the returned columns; empty means all.
	Columns []string
	Filters []Filter
	Order   []OrderBy
	Limit   int
}

// Client is implemented by every table backend.
type Client interface {
	Select(ctx context.Context, table string, q Query) ([]Row, error)
	// Insert returns the stored rows, including the generated "id".
	Insert(ctx context.Context, table string, rows ...Row) ([]Row, error)
	Update(ctx context.Context, table string, patch Row, filters ...Filter) (int, error)
	Delete(ctx context.Context, table string, filters ...Filter) (int, error)
}

// SelectOne returns the single row matching filters, or a NotFound error.
func SelectOne(ctx context.Context, c Client, table string, filters ...Filter) (Row, error) {
	rows, err := c.Select(ctx, table, Query{Filters: filters, Limit: 1})
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(rows) == 0 {
		return nil, errors.NotFoundf("%s row", table)
	}
	return rows[0], nil
}

func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
