package controllers

import (
	"net/http"

	"wholesale-backend/middleware"
	"wholesale-backend/models"
	"wholesale-backend/repository"
	"wholesale-backend/services"

	"github.com/gin-gonic/gin"
)

// ShippingController quotes shipping options for the caller's current cart
// without touching the checkout session.
type ShippingController struct {
	calculator *services.ShippingCalculator
	carts      repository.CartRepository
}

// NewShippingController creates a new ShippingController.
func NewShippingController(calculator *services.ShippingCalculator, carts repository.CartRepository) *ShippingController {
	return &ShippingController{calculator: calculator, carts: carts}
}

// QuoteOptions handles POST /shipping/quote
func (ctl *ShippingController) QuoteOptions(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var address models.ShippingAddress
	if err := c.ShouldBindJSON(&address); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address: " + err.Error()})
		return
	}

	cart, err := ctl.carts.GetCart(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	if cart == nil || len(cart.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	options, svcErr := ctl.calculator.CalculateOptions(c.Request.Context(), cart.TotalWeightKg(), address, cart.Items)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": options})
}
