package controllers

import (
	"net/http"
	"strconv"

	"wholesale-backend/middleware"
	"wholesale-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PricingController exposes buyer price previews and the admin tier surface.
type PricingController struct {
	pricingService services.PricingService
	productService services.ProductService
}

// NewPricingController creates a new PricingController.
func NewPricingController(pricingService services.PricingService, productService services.ProductService) *PricingController {
	return &PricingController{pricingService: pricingService, productService: productService}
}

type tierRequest struct {
	Name               string  `json:"name"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

type productPriceRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	TierID    string  `json:"tier_id" binding:"required"`
	Price     float64 `json:"price"`
}

type assignTierRequest struct {
	UserID string `json:"user_id" binding:"required"`
	TierID string `json:"tier_id" binding:"required"`
}

// GetProductPrice handles GET /pricing/products/:productId — the price the
// calling user would pay, with per-unit savings against the base price.
func (ctl *PricingController) GetProductPrice(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
	if err != nil || quantity < 1 {
		quantity = 1
	}

	product, svcErr := ctl.productService.GetProduct(c.Request.Context(), c.Param("productId"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	tierID, svcErr := ctl.pricingService.TierFor(c.Request.Context(), userID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	effective, svcErr := ctl.pricingService.EffectivePrice(c.Request.Context(), product, tierID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	savings, svcErr := ctl.pricingService.Savings(c.Request.Context(), product, tierID, quantity)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id":      product.ID,
		"base_price":      product.Price,
		"effective_price": effective,
		"quantity":        quantity,
		"savings":         savings,
	})
}

// ListTiers handles GET /admin/pricing/tiers
func (ctl *PricingController) ListTiers(c *gin.Context) {
	tiers, svcErr := ctl.pricingService.ListTiers(c.Request.Context())
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tiers": tiers})
}

// CreateTier handles POST /admin/pricing/tiers
func (ctl *PricingController) CreateTier(c *gin.Context) {
	var req tierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	tier, svcErr := ctl.pricingService.CreateTier(c.Request.Context(), req.Name, req.DiscountPercentage)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, tier)
}

// UpdateTier handles PUT /admin/pricing/tiers/:tierId
func (ctl *PricingController) UpdateTier(c *gin.Context) {
	tierID, err := uuid.Parse(c.Param("tierId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier ID format"})
		return
	}
	var req tierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	tier, svcErr := ctl.pricingService.UpdateTier(c.Request.Context(), tierID, req.Name, req.DiscountPercentage)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, tier)
}

// DeleteTier handles DELETE /admin/pricing/tiers/:tierId
func (ctl *PricingController) DeleteTier(c *gin.Context) {
	tierID, err := uuid.Parse(c.Param("tierId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier ID format"})
		return
	}
	if svcErr := ctl.pricingService.DeleteTier(c.Request.Context(), tierID); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tier deleted"})
}

// SetProductPrice handles PUT /admin/pricing/prices
func (ctl *PricingController) SetProductPrice(c *gin.Context) {
	var req productPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}
	tierID, err := uuid.Parse(req.TierID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier ID format"})
		return
	}

	if svcErr := ctl.pricingService.SetProductPrice(c.Request.Context(), productID, tierID, req.Price); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product price saved"})
}

// RemoveProductPrice handles DELETE /admin/pricing/prices/:productId/:tierId
func (ctl *PricingController) RemoveProductPrice(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}
	tierID, err := uuid.Parse(c.Param("tierId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier ID format"})
		return
	}

	if svcErr := ctl.pricingService.RemoveProductPrice(c.Request.Context(), productID, tierID); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product price removed"})
}

// AssignUserTier handles PUT /admin/pricing/users
func (ctl *PricingController) AssignUserTier(c *gin.Context) {
	var req assignTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	tierID, err := uuid.Parse(req.TierID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier ID format"})
		return
	}

	if svcErr := ctl.pricingService.AssignUserTier(c.Request.Context(), req.UserID, tierID); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tier assigned"})
}

// UnassignUserTier handles DELETE /admin/pricing/users/:userId
func (ctl *PricingController) UnassignUserTier(c *gin.Context) {
	if svcErr := ctl.pricingService.UnassignUserTier(c.Request.Context(), c.Param("userId")); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tier unassigned"})
}
