// Package cart keeps a session's working set of products and mirrors it to a
// key-value store after every change.
package cart

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"balloonshop/models"
	"balloonshop/notify"
	"balloonshop/storage"
)

const (
	MsgStockLimit  = "Stock limit reached"
	MsgUnavailable = "This product is currently unavailable"
	msgAdded       = "Added to cart"
)

// LineItem is one product in the cart. ProductID is unique within a cart and
// 1 <= Quantity <= StockLimit always holds.
type LineItem struct {
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	ImageURL   string          `json:"imageUrl"`
	Quantity   int             `json:"quantity"`
	StockLimit int             `json:"stockLimit"`
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type Totals struct {
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type Store struct {
	kv       storage.KV
	key      string
	items    []LineItem
	notifier notify.Notifier
	log      *zap.Logger
}

type Option func(*Store)

func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Load rehydrates the cart saved under key. A missing, unreadable or
// malformed snapshot yields an empty cart.
func Load(ctx context.Context, kv storage.KV, key string, opts ...Option) *Store {
	s := &Store{kv: kv, key: key, notifier: notify.Discard, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}

	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		s.log.Warn("reading cart snapshot", zap.String("key", key), zap.Error(err))
		return s
	}
	if !ok {
		return s
	}
	items, err := decodeSnapshot(raw)
	if err != nil {
		s.log.Warn("discarding malformed cart snapshot", zap.String("key", key), zap.Error(err))
		return s
	}
	s.items = items
	return s
}

// Add puts one unit of p in the cart. It reports false, after raising a
// stock-limit notification, when that would exceed the product's stock.
func (s *Store) Add(ctx context.Context, p models.Product) bool {
	if i := s.index(p.ID); i >= 0 {
		if s.items[i].Quantity+1 > s.items[i].StockLimit {
			s.notifier.Notify(notify.KindWarning, MsgStockLimit)
			return false
		}
		s.items[i].Quantity++
	} else {
		if p.Price.IsNegative() {
			// a snapshot holding this line would be discarded on the next load
			s.log.Warn("refusing product with negative price", zap.String("product_id", p.ID), zap.Stringer("price", p.Price))
			s.notifier.Notify(notify.KindError, MsgUnavailable)
			return false
		}
		if p.StockQuantity < 1 {
			s.notifier.Notify(notify.KindWarning, MsgStockLimit)
			return false
		}
		s.items = append(s.items, LineItem{
			ProductID:  p.ID,
			Name:       p.Name,
			UnitPrice:  p.Price,
			ImageURL:   p.ImageURL,
			Quantity:   1,
			StockLimit: p.StockQuantity,
		})
	}

	s.persist(ctx)
	s.notifier.Notify(notify.KindSuccess, msgAdded)
	return true
}

// UpdateQuantity sets the quantity of a line, clamped to its stock limit.
// A quantity of zero or less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	i := s.index(productID)
	switch {
	case quantity <= 0:
		if i >= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
	case i >= 0:
		s.items[i].Quantity = min(quantity, s.items[i].StockLimit)
	}
	s.persist(ctx)
}

// Clear empties the cart and drops the persisted snapshot.
func (s *Store) Clear(ctx context.Context) {
	s.items = nil
	if err := s.kv.Remove(ctx, s.key); err != nil {
		s.log.Warn("removing cart snapshot", zap.String("key", s.key), zap.Error(err))
	}
}

// Totals is recomputed from the line items on every call.
func (s *Store) Totals() Totals {
	t := Totals{TotalPrice: decimal.Zero}
	for _, li := range s.items {
		t.TotalItems += li.Quantity
		t.TotalPrice = t.TotalPrice.Add(li.Subtotal())
	}
	return t
}

func (s *Store) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Empty() bool {
	return len(s.items) == 0
}

func (s *Store) index(productID string) int {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// persist writes the snapshot. Write failures are logged and otherwise
// ignored; the in-memory cart stays authoritative for this request.
func (s *Store) persist(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		s.log.Warn("encoding cart snapshot", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		s.log.Warn("writing cart snapshot", zap.String("key", s.key), zap.Error(err))
	}
}
