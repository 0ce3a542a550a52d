package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"balloonshop/cart"
	"balloonshop/catalog"
	"balloonshop/notify"
)

func cartView(store *cart.Store) gin.H {
	totals := store.Totals()
	return gin.H{
		"items":      store.Items(),
		"totalItems": totals.TotalItems,
		"totalPrice": totals.TotalPrice,
	}
}

func (e *Env) GetCart(c *gin.Context) {
	e.withCart(c, func(_ context.Context, store *cart.Store, _ *notify.Recorder) {
		c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": cartView(store)})
	})
}

func (e *Env) AddToCart(c *gin.Context) {
	var body struct {
		ProductID string `json:"productId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	e.withCart(c, func(ctx context.Context, store *cart.Store, rec *notify.Recorder) {
		product, err := catalog.FetchProduct(ctx, e.Tables, body.ProductID)
		if errors.Is(err, errors.NotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if err != nil {
			e.Logger.Error("looking up product", zap.String("product_id", body.ProductID), zap.Error(err))
			c.JSON(statusFor(err), gin.H{"error": "Failed to add to cart"})
			return
		}

		added := store.Add(ctx, product)
		c.JSON(http.StatusOK, gin.H{
			"message":       "Cart updated",
			"added":         added,
			"data":          cartView(store),
			"notifications": rec.All(),
		})
	})
}

func (e *Env) UpdateCart(c *gin.Context) {
	productID := c.Param("productId")

	var body struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}

	e.withCart(c, func(ctx context.Context, store *cart.Store, rec *notify.Recorder) {
		store.UpdateQuantity(ctx, productID, *body.Quantity)
		c.JSON(http.StatusOK, gin.H{"message": "Cart updated", "data": cartView(store), "notifications": rec.All()})
	})
}

func (e *Env) ClearCart(c *gin.Context) {
	e.withCart(c, func(ctx context.Context, store *cart.Store, _ *notify.Recorder) {
		store.Clear(ctx)
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared", "data": cartView(store)})
	})
}
