package tables

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/lib/pq"
)

// Postgres talks to tables whose primary key column is "id" with a server
// side default; inserts let the database fill id and created_at.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

var sqlOps = map[Op]string{
	Eq:  "=",
	Neq: "<>",
	Gt:  ">",
	Gte: ">=",
	Lt:  "<",
	Lte: "<=",
}

func (p *Postgres) Select(ctx context.Context, table string, q Query) ([]Row, error) {
	cols := "*"
	if len(q.Columns) > 0 {
		quoted := make([]string, len(q.Columns))
		for i, c := range q.Columns {
			quoted[i] = pq.QuoteIdentifier(c)
		}
		cols = strings.Join(quoted, ", ")
	}

	where, args, err := sqlWhere(q.Filters, 1)
	if err != nil {
		return nil, err
	}
	stmt := fmt.Sprintf("SELECT %s FROM %s%s", cols, pq.QuoteIdentifier(table), where)
	if len(q.Order) > 0 {
		parts := make([]string, len(q.Order))
		for i, o := range q.Order {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts[i] = pq.QuoteIdentifier(o.Column) + " " + dir
		}
		stmt += " ORDER BY " + strings.Join(parts, ", ")
	}
	if q.Limit > 0 {
		stmt += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	rows, err := p.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Annotatef(err, "selecting from %s", table)
	}
	defer rows.Close()
	return scanRows(rows)
}

func (p *Postgres) Insert(ctx context.Context, table string, rows ...Row) ([]Row, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Annotate(err, "starting insert")
	}
	defer func() { _ = tx.Rollback() }()

	var out []Row
	for _, r := range rows {
		cols := make([]string, 0, len(r))
		for k := range r {
			cols = append(cols, k)
		}
		sort.Strings(cols)

		quoted := make([]string, len(cols))
		holders := make([]string, len(cols))
		args := make([]any, len(cols))
		for i, c := range cols {
			quoted[i] = pq.QuoteIdentifier(c)
			holders[i] = fmt.Sprintf("$%d", i+1)
			args[i] = r[c]
		}
		stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
			pq.QuoteIdentifier(table), strings.Join(quoted, ", "), strings.Join(holders, ", "))

		res, err := tx.QueryContext(ctx, stmt, args...)
		if err != nil {
			return nil, errors.Annotatef(err, "inserting into %s", table)
		}
		inserted, err := scanRows(res)
		res.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, inserted...)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Annotatef(err, "committing insert into %s", table)
	}
	return out, nil
}

func (p *Postgres) Update(ctx context.Context, table string, patch Row, filters ...Filter) (int, error) {
	cols := make([]string, 0, len(patch))
	for k := range patch {
		if k != "id" {
			cols = append(cols, k)
		}
	}
	if len(cols) == 0 {
		return 0, errors.NotValidf("empty patch")
	}
	sort.Strings(cols)

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(filters))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(c), i+1)
		args = append(args, patch[c])
	}
	where, whereArgs, err := sqlWhere(filters, len(cols)+1)
	if err != nil {
		return 0, err
	}
	args = append(args, whereArgs...)

	stmt := fmt.Sprintf("UPDATE %s SET %s%s", pq.QuoteIdentifier(table), strings.Join(sets, ", "), where)
	res, err := p.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, errors.Annotatef(err, "updating %s", table)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (p *Postgres) Delete(ctx context.Context, table string, filters ...Filter) (int, error) {
	where, args, err := sqlWhere(filters, 1)
	if err != nil {
		return 0, err
	}
	res, err := p.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s%s", pq.QuoteIdentifier(table), where), args...)
	if err != nil {
		return 0, errors.Annotatef(err, "deleting from %s", table)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// sqlWhere renders filters as a WHERE clause with placeholders numbered from
// start.
func sqlWhere(filters []Filter, start int) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}
	parts := make([]string, len(filters))
	args := make([]any, len(filters))
	for i, f := range filters {
		if err := validOp(f.Op); err != nil {
			return "", nil, err
		}
		col := pq.QuoteIdentifier(f.Column)
		n := start + i
		if f.Op == In {
			parts[i] = fmt.Sprintf("%s = ANY($%d)", col, n)
			args[i] = pq.Array(f.Value)
			continue
		}
		parts[i] = fmt.Sprintf("%s %s $%d", col, sqlOps[f.Op], n)
		args[i] = f.Value
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Trace(err)
	}
	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Trace(err)
		}
		r := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				r[c] = string(b)
				continue
			}
			r[c] = vals[i]
		}
		out = append(out, r)
	}
	return out, errors.Trace(rows.Err())
}
