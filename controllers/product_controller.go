package controllers

import (
	"net/http"

	"wholesale-backend/services"

	"github.com/gin-gonic/gin"
)

// ProductController handles catalog endpoints.
type ProductController struct {
	productService services.ProductService
}

// NewProductController creates a new ProductController.
func NewProductController(productService services.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// ListProducts handles GET /products
func (ctl *ProductController) ListProducts(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	resp, svcErr := ctl.productService.ListProducts(c.Request.Context(), page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetProduct handles GET /products/:productId
func (ctl *ProductController) GetProduct(c *gin.Context) {
	product, svcErr := ctl.productService.GetProduct(c.Request.Context(), c.Param("productId"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListCategories handles GET /categories
func (ctl *ProductController) ListCategories(c *gin.Context) {
	categories, svcErr := ctl.productService.ListCategories(c.Request.Context())
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateProduct handles POST /admin/products
func (ctl *ProductController) CreateProduct(c *gin.Context) {
	var req services.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	product, svcErr := ctl.productService.CreateProduct(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /admin/products/:productId
func (ctl *ProductController) UpdateProduct(c *gin.Context) {
	var req services.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	product, svcErr := ctl.productService.UpdateProduct(c.Request.Context(), c.Param("productId"), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /admin/products/:productId
func (ctl *ProductController) DeleteProduct(c *gin.Context) {
	if svcErr := ctl.productService.DeleteProduct(c.Request.Context(), c.Param("productId")); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
