package tables

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

// Memory is an in-process table store. Rows are copied on the way in and out
// so callers never share maps with the store.
type Memory struct {
	mu     sync.Mutex
	tables map[string][]Row
	now    func() time.Time

	// FailInsert, when set, is consulted before every insert; a non-nil
	// return aborts the insert with that error.
	FailInsert func(table string, rows []Row) error
}

func NewMemory() *Memory {
	return &Memory{tables: make(map[string][]Row), now: time.Now}
}

// Seed stores rows as-is, generating ids where missing.
func (m *Memory) Seed(table string, rows ...Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		m.tables[table] = append(m.tables[table], m.prepare(r))
	}
}

func (m *Memory) Select(_ context.Context, table string, q Query) ([]Row, error) {
	if err := checkFilters(q.Filters); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Row
	for _, r := range m.tables[table] {
		if matchesAll(r, q.Filters) {
			out = append(out, r.Clone())
		}
	}

	if len(q.Order) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, o := range q.Order {
				c, _ := compare(out[i][o.Column], out[j][o.Column])
				if c == 0 {
					continue
				}
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	if len(q.Columns) > 0 {
		for i, r := range out {
			projected := make(Row, len(q.Columns))
			for _, col := range q.Columns {
				if v, ok := r[col]; ok {
					projected[col] = v
				}
			}
			out[i] = projected
		}
	}
	return out, nil
}

func (m *Memory) Insert(_ context.Context, table string, rows ...Row) ([]Row, error) {
	if m.FailInsert != nil {
		if err := m.FailInsert(table, rows); err != nil {
			return nil, errors.Annotatef(err, "inserting into %s", table)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		stored := m.prepare(r)
		m.tables[table] = append(m.tables[table], stored)
		out = append(out, stored.Clone())
	}
	return out, nil
}

func (m *Memory) Update(_ context.Context, table string, patch Row, filters ...Filter) (int, error) {
	if err := checkFilters(filters); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, r := range m.tables[table] {
		if !matchesAll(r, filters) {
			continue
		}
		for k, v := range patch {
			if k == "id" {
				continue
			}
			r[k] = v
		}
		n++
	}
	return n, nil
}

func (m *Memory) Delete(_ context.Context, table string, filters ...Filter) (int, error) {
	if err := checkFilters(filters); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.tables[table][:0]
	n := 0
	for _, r := range m.tables[table] {
		if matchesAll(r, filters) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.tables[table] = kept
	return n, nil
}

func (m *Memory) prepare(r Row) Row {
	stored := r.Clone()
	if id, ok := stored["id"]; !ok || id == nil || id == "" {
		stored["id"] = uuid.NewString()
	}
	if _, ok := stored["created_at"]; !ok {
		stored["created_at"] = m.now().UTC()
	}
	return stored
}

func matchesAll(r Row, filters []Filter) bool {
	for _, f := range filters {
		if !matches(r, f) {
			return false
		}
	}
	return true
}

func checkFilters(filters []Filter) error {
	for _, f := range filters {
		if err := validOp(f.Op); err != nil {
			return err
		}
	}
	return nil
}
