package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"

	"balloonshop/cart"
	"balloonshop/checkout"
	"balloonshop/notify"
)

// Checkout opens checkout on the caller's cart and submits the form in one
// request. Validation problems come back as 400 with the notification the
// customer should see; store failures as 502 with the cart untouched.
func (e *Env) Checkout(c *gin.Context) {
	var form checkout.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	e.withCart(c, func(ctx context.Context, store *cart.Store, rec *notify.Recorder) {
		flow := checkout.NewFlow(store, checkout.Deps{
			Tables:   e.Tables,
			Notifier: rec,
			Mailer:   e.Mailer,
			Logger:   e.Logger,
		})
		if err := flow.Proceed(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		}

		order, err := flow.Submit(ctx, form)
		if errors.Is(err, errors.NotValid) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":         err.Error(),
				"notifications": rec.All(),
			})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":         checkout.MsgOrderFailed,
				"data":          cartView(store),
				"notifications": rec.All(),
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":       "Order placed",
			"data":          order,
			"notifications": rec.All(),
		})
	})
}
