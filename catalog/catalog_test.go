package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"balloonshop/models"
	"balloonshop/tables"
)

var base = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func fixture() []models.Product {
	return []models.Product{
		{ID: "arch", Name: "Gold Balloon Arch", Description: "Organic arch", Price: decimal.NewFromInt(2499), StockQuantity: 2, CategoryID: "decor", CreatedAt: base},
		{ID: "star", Name: "foil star", Description: "Silver star balloon", Price: decimal.NewFromInt(99), StockQuantity: 0, CategoryID: "balloons", CreatedAt: base.Add(time.Hour)},
		{ID: "bouquet", Name: "Birthday Bouquet", Description: "Helium bunch", Price: decimal.NewFromInt(499), StockQuantity: 10, CategoryID: "balloons", CreatedAt: base.Add(2 * time.Hour)},
	}
}

func ids(ps []models.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func dec(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func TestApply_DefaultsToNewest(t *testing.T) {
	assert.Equal(t, []string{"bouquet", "star", "arch"}, ids(Apply(fixture(), Criteria{})))
}

func TestApply_Predicates(t *testing.T) {
	cases := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"category", Criteria{CategoryID: "balloons", Sort: SortName}, []string{"bouquet", "star"}},
		{"search name case-insensitive", Criteria{Search: "BALLOON"}, []string{"star", "arch"}},
		{"search description", Criteria{Search: "helium"}, []string{"bouquet"}},
		{"price range", Criteria{MinPrice: dec(100), MaxPrice: dec(500)}, []string{"bouquet"}},
		{"in stock", Criteria{InStockOnly: true, Sort: SortPriceAsc}, []string{"bouquet", "arch"}},
		{"combined AND", Criteria{CategoryID: "balloons", InStockOnly: true, Search: "star"}, []string{}},
		{"price desc", Criteria{Sort: SortPriceDesc}, []string{"arch", "bouquet", "star"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Apply(fixture(), tc.c)))
		})
	}
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSort("price_asc"))
	assert.Equal(t, SortNewest, ParseSort("bogus"))
}

func TestFetchProducts_OnlyActive(t *testing.T) {
	ctx := context.Background()
	db := tables.NewMemory()
	db.Seed(tables.Products,
		tables.Row{"id": "a", "name": "A", "price": "10", "is_active": true},
		tables.Row{"id": "b", "name": "B", "price": "10", "is_active": false},
	)
	db.Seed(tables.Categories, tables.Row{"id": "c2", "name": "Zebra"}, tables.Row{"id": "c1", "name": "Arches"})

	products, err := FetchProducts(ctx, db, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(products))

	_, err = FetchProduct(ctx, db, "b")
	assert.Error(t, err)

	cats, err := FetchCategories(ctx, db)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Arches", cats[0].Name)
}

func TestFetchProducts_SkipsMalformedRows(t *testing.T) {
	ctx := context.Background()
	db := tables.NewMemory()
	db.Seed(tables.Products,
		tables.Row{"id": "good", "name": "Good", "price": "10", "is_active": true},
		tables.Row{"id": "bad", "name": "Bad", "price": "ten", "is_active": true},
	)

	products, err := FetchProducts(ctx, db, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, ids(products))
}
