package tables

import (
	"reflect"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
)

// compare orders two column values. ok is false when the values are not
// comparable (different kinds, nil on one side).
func compare(a, b any) (c int, ok bool) {
	if a == nil || b == nil {
		return 0, a == nil && b == nil
	}
	if da, okA := toDecimal(a); okA {
		if db, okB := toDecimal(b); okB {
			return da.Cmp(db), true
		}
		return 0, false
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		default:
			return 1, true
		}
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	}
	if reflect.DeepEqual(a, b) {
		return 0, true
	}
	return 0, false
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	}
	return decimal.Decimal{}, false
}

func matches(row Row, f Filter) bool {
	v := row[f.Column]
	if f.Op == In {
		rv := reflect.ValueOf(f.Value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			if c, ok := compare(v, rv.Index(i).Interface()); ok && c == 0 {
				return true
			}
		}
		return false
	}

	c, ok := compare(v, f.Value)
	if f.Op == Neq {
		return !ok || c != 0
	}
	if !ok {
		return false
	}
	switch f.Op {
	case Eq:
		return c == 0
	case Gt:
		return c > 0
	case Gte:
		return c >= 0
	case Lt:
		return c < 0
	case Lte:
		return c <= 0
	}
	return false
}

func validOp(op Op) error {
	switch op {
	case Eq, Neq, Gt, Gte, Lt, Lte, In:
		return nil
	}
	return errors.NotSupportedf("filter op %q", op)
}
