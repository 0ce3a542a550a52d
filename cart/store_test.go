package cart

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"balloonshop/models"
	"balloonshop/notify"
	"balloonshop/storage"
)

const key = "cart:test"

func product(id string, price int64, stock int) models.Product {
	return models.Product{ID: id, Name: "Product " + id, Price: decimal.NewFromInt(price), StockQuantity: stock}
}

func newStore(t *testing.T, kv storage.KV) (*Store, *notify.Recorder) {
	t.Helper()
	rec := &notify.Recorder{}
	return Load(context.Background(), kv, key, WithNotifier(rec)), rec
}

func TestAdd_IncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	s, rec := newStore(t, storage.NewMemory())

	require.True(t, s.Add(ctx, product("p1", 199, 5)))
	require.True(t, s.Add(ctx, product("p1", 199, 5)))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	last, _ := rec.Last()
	assert.Equal(t, notify.KindSuccess, last.Kind)
}

func TestAdd_StopsAtStockLimit(t *testing.T) {
	ctx := context.Background()
	s, rec := newStore(t, storage.NewMemory())
	p := product("p1", 50, 3)

	for i := 0; i < 3; i++ {
		require.True(t, s.Add(ctx, p))
	}
	assert.False(t, s.Add(ctx, p))

	assert.Equal(t, 3, s.Items()[0].Quantity)
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.Notification{Kind: notify.KindWarning, Message: MsgStockLimit}, last)
}

func TestAdd_OutOfStockProductRejected(t *testing.T) {
	s, rec := newStore(t, storage.NewMemory())
	assert.False(t, s.Add(context.Background(), product("p1", 10, 0)))
	assert.True(t, s.Empty())
	last, _ := rec.Last()
	assert.Equal(t, MsgStockLimit, last.Message)
}

func TestAdd_NegativePriceRejectedKeepsCart(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s, rec := newStore(t, kv)

	require.True(t, s.Add(ctx, product("p1", 199, 5)))
	assert.False(t, s.Add(ctx, product("bad", -1, 5)))
	last, _ := rec.Last()
	assert.Equal(t, notify.Notification{Kind: notify.KindError, Message: MsgUnavailable}, last)
	require.Len(t, s.Items(), 1)

	reloaded, _ := newStore(t, kv)
	items := reloaded.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s, _ := newStore(t, kv)
	s.Add(ctx, product("p1", 10, 4))
	s.Add(ctx, product("p2", 20, 9))

	s.UpdateQuantity(ctx, "p1", 10)
	assert.Equal(t, 4, s.Items()[0].Quantity, "clamped to stock")

	s.UpdateQuantity(ctx, "p1", 0)
	require.Len(t, s.Items(), 1)
	assert.Equal(t, "p2", s.Items()[0].ProductID)

	// second removal is a no-op
	s.UpdateQuantity(ctx, "p1", 0)
	assert.Len(t, s.Items(), 1)

	// unknown product is ignored
	s.UpdateQuantity(ctx, "nope", 3)
	assert.Len(t, s.Items(), 1)

	s.UpdateQuantity(ctx, "p2", -1)
	assert.True(t, s.Empty())
	raw, ok, _ := kv.Get(ctx, key)
	assert.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestTotals(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t, storage.NewMemory())
	s.Add(ctx, models.Product{ID: "a", Price: decimal.RequireFromString("12.50"), StockQuantity: 5})
	s.Add(ctx, models.Product{ID: "a", Price: decimal.RequireFromString("12.50"), StockQuantity: 5})
	s.Add(ctx, product("b", 3, 1))

	tot := s.Totals()
	assert.Equal(t, 3, tot.TotalItems)
	assert.True(t, tot.TotalPrice.Equal(decimal.RequireFromString("28")), tot.TotalPrice.String())
}

func TestPersistReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s, _ := newStore(t, kv)
	s.Add(ctx, product("p1", 199, 5))
	s.Add(ctx, product("p1", 199, 5))
	s.Add(ctx, product("p2", 49, 1))

	reloaded, _ := newStore(t, kv)
	assertSameItems(t, s.Items(), reloaded.Items())
}

func TestLoad_MalformedSnapshotYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	for name, raw := range map[string]string{
		"not json":       "{oops",
		"wrong shape":    `{"productId":"p1"}`,
		"zero quantity":  `[{"productId":"p1","quantity":0,"stockLimit":3,"unitPrice":"1"}]`,
		"over stock":     `[{"productId":"p1","quantity":4,"stockLimit":3,"unitPrice":"1"}]`,
		"duplicate line": `[{"productId":"p1","quantity":1,"stockLimit":3,"unitPrice":"1"},{"productId":"p1","quantity":1,"stockLimit":3,"unitPrice":"1"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			kv := storage.NewMemory()
			require.NoError(t, kv.Set(ctx, key, raw))
			s, _ := newStore(t, kv)
			assert.True(t, s.Empty())
		})
	}
}

type failingKV struct{ *storage.Memory }

func (f *failingKV) Set(context.Context, string, string) error { return errors.New("quota exceeded") }

func TestPersistFailureIsSwallowed(t *testing.T) {
	kv := &failingKV{Memory: storage.NewMemory()}
	s, _ := newStore(t, kv)
	assert.True(t, s.Add(context.Background(), product("p1", 1, 2)))
	assert.Len(t, s.Items(), 1)
}

func TestClearRemovesSnapshot(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s, _ := newStore(t, kv)
	s.Add(ctx, product("p1", 1, 2))

	s.Clear(ctx)
	assert.True(t, s.Empty())
	_, ok, _ := kv.Get(ctx, key)
	assert.False(t, ok)
}

func TestInvariantsHoldUnderRandomOperations(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))
	catalog := []models.Product{product("a", 5, 3), product("b", 7, 1), product("c", 11, 6)}
	s, _ := newStore(t, storage.NewMemory())

	for i := 0; i < 2000; i++ {
		p := catalog[rng.Intn(len(catalog))]
		if rng.Intn(2) == 0 {
			s.Add(ctx, p)
		} else {
			s.UpdateQuantity(ctx, p.ID, rng.Intn(10)-2)
		}

		sum := 0
		seen := map[string]bool{}
		for _, li := range s.Items() {
			require.False(t, seen[li.ProductID], "duplicate line %s", li.ProductID)
			seen[li.ProductID] = true
			require.GreaterOrEqual(t, li.Quantity, 1)
			require.LessOrEqual(t, li.Quantity, li.StockLimit)
			sum += li.Quantity
		}
		require.Equal(t, sum, s.Totals().TotalItems)
	}
}

func assertSameItems(t *testing.T, want, got []LineItem) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ProductID, got[i].ProductID)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.Equal(t, want[i].StockLimit, got[i].StockLimit)
		assert.Equal(t, want[i].ImageURL, got[i].ImageURL)
		assert.True(t, want[i].UnitPrice.Equal(got[i].UnitPrice))
	}
}
