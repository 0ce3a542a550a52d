// Package catalog fetches the active product list and narrows it in memory.
// Everything is filtered client side, which only works for a small catalog.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"balloonshop/models"
	"balloonshop/tables"
)

type Sort string

const (
	SortNewest    Sort = "newest"
	SortName      Sort = "name"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
)

func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortName, SortPriceAsc, SortPriceDesc:
		return Sort(s)
	}
	return SortNewest
}

// Criteria are ANDed together; zero values disable a predicate.
type Criteria struct {
	CategoryID  string
	Search      string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	InStockOnly bool
	Sort        Sort
}

// FetchProducts returns the active products. Rows that cannot be read are
// logged and skipped so one bad row never empties the storefront.
func FetchProducts(ctx context.Context, c tables.Client, log *zap.Logger) ([]models.Product, error) {
	if log == nil {
		log = zap.NewNop()
	}
	rows, err := c.Select(ctx, tables.Products, tables.Query{
		Filters: []tables.Filter{tables.Where("is_active", tables.Eq, true)},
	})
	if err != nil {
		return nil, errors.Annotate(err, "fetching products")
	}
	out := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		p, err := models.ProductFromRow(r)
		if err != nil {
			log.Warn("skipping malformed product row", zap.Any("id", r["id"]), zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func FetchProduct(ctx context.Context, c tables.Client, id string) (models.Product, error) {
	row, err := tables.SelectOne(ctx, c, tables.Products, tables.ByID(id), tables.Where("is_active", tables.Eq, true))
	if err != nil {
		return models.Product{}, errors.Trace(err)
	}
	return models.ProductFromRow(row)
}

func FetchCategories(ctx context.Context, c tables.Client) ([]models.Category, error) {
	rows, err := c.Select(ctx, tables.Categories, tables.Query{
		Order: []tables.OrderBy{{Column: "name"}},
	})
	if err != nil {
		return nil, errors.Annotate(err, "fetching categories")
	}
	out := make([]models.Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.CategoryFromRow(r))
	}
	return out, nil
}

// Apply returns the products matching every criterion, sorted. The input
// slice is left untouched.
func Apply(products []models.Product, c Criteria) []models.Product {
	search := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if c.CategoryID != "" && p.CategoryID != c.CategoryID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if c.MinPrice != nil && p.Price.LessThan(*c.MinPrice) {
			continue
		}
		if c.MaxPrice != nil && p.Price.GreaterThan(*c.MaxPrice) {
			continue
		}
		if c.InStockOnly && !p.InStock() {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, less(out, c.Sort))
	return out
}

func less(ps []models.Product, s Sort) func(i, j int) bool {
	switch s {
	case SortName:
		return func(i, j int) bool { return strings.ToLower(ps[i].Name) < strings.ToLower(ps[j].Name) }
	case SortPriceAsc:
		return func(i, j int) bool { return ps[i].Price.LessThan(ps[j].Price) }
	case SortPriceDesc:
		return func(i, j int) bool { return ps[i].Price.GreaterThan(ps[j].Price) }
	default:
		return func(i, j int) bool { return ps[i].CreatedAt.After(ps[j].CreatedAt) }
	}
}
