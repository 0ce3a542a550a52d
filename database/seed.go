package database

import (
	"time"

	"github.com/shopspring/decimal"

	"balloonshop/models"
	"balloonshop/tables"
)

// SeedDemo fills an in-memory store with a small catalog so a local server
// has something to show.
func SeedDemo(m *tables.Memory) {
	m.Seed(tables.Categories,
		tables.Row{"id": "birthday", "name": "Birthday"},
		tables.Row{"id": "wedding", "name": "Wedding"},
		tables.Row{"id": "props", "name": "Event Props"},
	)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	products := []models.Product{
		{ID: "gold-arch", Name: "Gold Balloon Arch", Description: "Six foot arch in metallic gold", Price: decimal.NewFromInt(199), StockQuantity: 5, CategoryID: "wedding"},
		{ID: "number-foil", Name: "Number Foil Balloon", Description: "32 inch rose gold numerals", Price: decimal.RequireFromString("49.50"), StockQuantity: 40, CategoryID: "birthday"},
		{ID: "confetti-pack", Name: "Confetti Balloon Pack", Description: "Twelve clear balloons with confetti", Price: decimal.NewFromInt(25), StockQuantity: 100, CategoryID: "birthday"},
		{ID: "neon-sign", Name: "Neon Sign Rental", Description: "Custom text, one night", Price: decimal.NewFromInt(350), StockQuantity: 2, CategoryID: "props"},
		{ID: "backdrop", Name: "Floral Backdrop", Description: "Out of season", Price: decimal.NewFromInt(120), StockQuantity: 0, CategoryID: "props"},
	}
	for i, p := range products {
		p.IsActive = true
		p.CreatedAt = base.Add(time.Duration(i) * 24 * time.Hour)
		m.Seed(tables.Products, p.Row())
	}
}
