package controllers

import (
	"net/http"

	"wholesale-backend/middleware"
	"wholesale-backend/services"

	"github.com/gin-gonic/gin"
)

// OrderController handles buyer and admin order endpoints.
type OrderController struct {
	orderService services.OrderService
}

// NewOrderController creates a new OrderController.
func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// GetMyOrders handles GET /orders
func (ctl *OrderController) GetMyOrders(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	page, limit := parsePaginationParams(c)

	resp, svcErr := ctl.orderService.GetUserOrders(c.Request.Context(), userID, page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMyOrder handles GET /orders/:orderId
func (ctl *OrderController) GetMyOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	order, svcErr := ctl.orderService.GetOrder(c.Request.Context(), c.Param("orderId"), userID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetAllOrders handles GET /admin/orders
func (ctl *OrderController) GetAllOrders(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	resp, svcErr := ctl.orderService.GetAllOrders(c.Request.Context(), page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetOrder handles GET /admin/orders/:orderId
func (ctl *OrderController) GetOrder(c *gin.Context) {
	order, svcErr := ctl.orderService.GetOrder(c.Request.Context(), c.Param("orderId"), "")
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, order)
}

// CreateOrder handles POST /admin/orders
func (ctl *OrderController) CreateOrder(c *gin.Context) {
	var req services.ManualOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	order, svcErr := ctl.orderService.CreateManualOrder(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, order)
}

// UpdateOrder handles PUT /admin/orders/:orderId
func (ctl *OrderController) UpdateOrder(c *gin.Context) {
	var req services.OrderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	order, svcErr := ctl.orderService.UpdateOrder(c.Request.Context(), c.Param("orderId"), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder handles DELETE /admin/orders/:orderId
func (ctl *OrderController) DeleteOrder(c *gin.Context) {
	if svcErr := ctl.orderService.DeleteOrder(c.Request.Context(), c.Param("orderId")); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

// AddTracking handles POST /admin/orders/:orderId/tracking
func (ctl *OrderController) AddTracking(c *gin.Context) {
	var req services.TrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	order, svcErr := ctl.orderService.AddTracking(c.Request.Context(), c.Param("orderId"), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, order)
}
