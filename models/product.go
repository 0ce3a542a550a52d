package models

import (
	"time"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"

	"balloonshop/tables"
)

type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"imageUrl"`
	StockQuantity int             `json:"stockQuantity"`
	CategoryID    string          `json:"categoryId"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

func ProductFromRow(r tables.Row) (Product, error) {
	price, err := asDecimal(r["price"])
	if err != nil {
		return Product{}, errors.Annotatef(err, "product %v price", r["id"])
	}
	return Product{
		ID:            asString(r["id"]),
		Name:          asString(r["name"]),
		Description:   asString(r["description"]),
		Price:         price,
		ImageURL:      asString(r["image_url"]),
		StockQuantity: asInt(r["stock_quantity"]),
		CategoryID:    asString(r["category_id"]),
		IsActive:      asBool(r["is_active"]),
		CreatedAt:     asTime(r["created_at"]),
	}, nil
}

func (p Product) Row() tables.Row {
	r := tables.Row{
		"name":           p.Name,
		"description":    p.Description,
		"price":          p.Price,
		"image_url":      p.ImageURL,
		"stock_quantity": p.StockQuantity,
		"category_id":    p.CategoryID,
		"is_active":      p.IsActive,
	}
	if p.ID != "" {
		r["id"] = p.ID
	}
	if !p.CreatedAt.IsZero() {
		r["created_at"] = p.CreatedAt
	}
	return r
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func CategoryFromRow(r tables.Row) Category {
	return Category{
		ID:   asString(r["id"]),
		Name: asString(r["name"]),
		Slug: asString(r["slug"]),
	}
}
