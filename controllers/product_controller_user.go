package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"balloonshop/catalog"
)

func (e *Env) GetProducts(c *gin.Context) {
	criteria := catalog.Criteria{
		CategoryID: c.Query("category"),
		Search:     c.Query("q"),
		Sort:       catalog.ParseSort(c.Query("sort")),
	}
	for param, dst := range map[string]**decimal.Decimal{"min_price": &criteria.MinPrice, "max_price": &criteria.MaxPrice} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param})
			return
		}
		*dst = &d
	}
	if raw := c.Query("in_stock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid in_stock"})
			return
		}
		criteria.InStockOnly = inStock
	}

	ctx, cancel := e.context(c)
	defer cancel()

	products, err := catalog.FetchProducts(ctx, e.Tables, e.Logger)
	if err != nil {
		e.Logger.Error("fetching products", zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": "Failed to fetch products"})
		return
	}

	filtered := catalog.Apply(products, criteria)
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "count": len(filtered), "data": filtered})
}

func (e *Env) GetCategories(c *gin.Context) {
	ctx, cancel := e.context(c)
	defer cancel()

	categories, err := catalog.FetchCategories(ctx, e.Tables)
	if err != nil {
		e.Logger.Error("fetching categories", zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": categories})
}
