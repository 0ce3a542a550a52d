package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"balloonshop/models"
	"balloonshop/tables"
)

func (e *Env) SubmitContact(c *gin.Context) {
	var form models.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all required fields"})
		return
	}

	ctx, cancel := e.context(c)
	defer cancel()

	if _, err := e.Tables.Insert(ctx, tables.ContactForms, form.Row()); err != nil {
		e.Logger.Error("storing contact form", zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": "Failed to send message. Please try again."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Thanks! We will get back to you soon."})
}
