package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"balloonshop/models"
	"balloonshop/tables"
)

func (e *Env) GetOrdersAdmin(c *gin.Context) {
	q := tables.Query{Order: []tables.OrderBy{{Column: "created_at", Desc: true}}}
	if status := c.Query("status"); status != "" {
		if !models.OrderStatus(status).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
			return
		}
		q.Filters = append(q.Filters, tables.Where("status", tables.Eq, status))
	}

	ctx, cancel := e.context(c)
	defer cancel()

	rows, err := e.Tables.Select(ctx, tables.Orders, q)
	if err != nil {
		e.Logger.Error("listing orders", zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": "Failed to fetch orders"})
		return
	}

	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		o, err := models.OrderFromRow(row)
		if err != nil {
			e.Logger.Warn("skipping malformed order row", zap.Any("id", row["id"]), zap.Error(err))
			continue
		}
		orders = append(orders, o)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": orders})
}

func (e *Env) GetOrderByIDAdmin(c *gin.Context) {
	orderID := c.Param("id")

	ctx, cancel := e.context(c)
	defer cancel()

	row, err := tables.SelectOne(ctx, e.Tables, tables.Orders, tables.ByID(orderID))
	if errors.Is(err, errors.NotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		e.Logger.Error("fetching order", zap.String("order_id", orderID), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": "Failed to fetch order"})
		return
	}
	order, err := models.OrderFromRow(row)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Malformed order"})
		return
	}

	itemRows, err := e.Tables.Select(ctx, tables.OrderItems, tables.Query{
		Filters: []tables.Filter{tables.Where("order_id", tables.Eq, orderID)},
	})
	if err != nil {
		e.Logger.Error("fetching order items", zap.String("order_id", orderID), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": "Failed to fetch order items"})
		return
	}
	for _, r := range itemRows {
		item, err := models.OrderItemFromRow(r)
		if err != nil {
			e.Logger.Warn("skipping malformed order item", zap.Any("id", r["id"]), zap.Error(err))
			continue
		}
		order.Items = append(order.Items, item)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": order})
}

func (e *Env) UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")

	var body struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !body.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}

	ctx, cancel := e.context(c)
	defer cancel()

	row, err := tables.SelectOne(ctx, e.Tables, tables.Orders, tables.ByID(orderID))
	if errors.Is(err, errors.NotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": "Failed to fetch order"})
		return
	}
	existing, err := models.OrderFromRow(row)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Malformed order"})
		return
	}

	if !existing.Status.CanTransitionTo(body.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Cannot change status from %s to %s", existing.Status, body.Status),
		})
		return
	}

	// Matching on the current status as well keeps two admins from both
	// applying a transition from the same starting point.
	n, err := e.Tables.Update(ctx, tables.Orders, tables.Row{"status": string(body.Status)},
		tables.ByID(orderID),
		tables.Where("status", tables.Eq, string(existing.Status)))
	if err != nil {
		e.Logger.Error("updating order status", zap.String("order_id", orderID), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": "Failed to update order"})
		return
	}
	if n == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Order changed, reload and try again"})
		return
	}

	existing.Status = body.Status
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "data": existing})
}
