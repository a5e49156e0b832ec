package services

import (
	"context"
	"encoding/json"
	"errors"

	"wholesale-backend/models"
	"wholesale-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductListResponse is a page of products.
type ProductListResponse struct {
	Products []models.Product `json:"products"`
	Meta     MetaData         `json:"meta"`
}

// ProductRequest creates or updates a catalog product.
type ProductRequest struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description"`
	Price       float64     `json:"price" binding:"required,gt=0"`
	Stock       int         `json:"stock"`
	MinQuantity int         `json:"min_quantity"`
	WeightKg    *float64    `json:"weight_kg,omitempty"`
	ImageURL    string      `json:"image_url,omitempty"`
	CategoryID  *uuid.UUID  `json:"category_id,omitempty"`
	Nutrition   interface{} `json:"nutrition,omitempty"`
}

// ProductService is the catalog surface: buyer-facing reads plus the admin
// write paths.
type ProductService interface {
	ListProducts(ctx context.Context, page, limit int) (*ProductListResponse, *ServiceError)
	GetProduct(ctx context.Context, productID string) (*models.Product, *ServiceError)
	ListCategories(ctx context.Context) ([]models.Category, *ServiceError)
	CreateProduct(ctx context.Context, req *ProductRequest) (*models.Product, *ServiceError)
	UpdateProduct(ctx context.Context, productID string, req *ProductRequest) (*models.Product, *ServiceError)
	DeleteProduct(ctx context.Context, productID string) *ServiceError
}

type productServiceImpl struct {
	repo   repository.ProductRepository
	logger *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repository.ProductRepository, logger *zap.Logger) ProductService {
	return &productServiceImpl{repo: repo, logger: logger}
}

func (s *productServiceImpl) ListProducts(ctx context.Context, page, limit int) (*ProductListResponse, *ServiceError) {
	products, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch products"}
	}
	return &ProductListResponse{
		Products: products,
		Meta: MetaData{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: calculateTotalPages(total, limit),
			HasMore:    total > int64(page*limit),
		},
	}, nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, productID string) (*models.Product, *ServiceError) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid product ID format"}
	}
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
	}
	if err != nil {
		s.logger.Error("Failed to fetch product", zap.String("product_id", productID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch product"}
	}
	return product, nil
}

func (s *productServiceImpl) ListCategories(ctx context.Context) ([]models.Category, *ServiceError) {
	categories, err := s.repo.FindCategories(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch categories"}
	}
	return categories, nil
}

func (s *productServiceImpl) apply(product *models.Product, req *ProductRequest) *ServiceError {
	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Stock = req.Stock
	product.MinQuantity = req.MinQuantity
	if product.MinQuantity < 1 {
		product.MinQuantity = 1
	}
	product.WeightKg = req.WeightKg
	product.ImageURL = req.ImageURL
	product.CategoryID = req.CategoryID
	if req.Nutrition != nil {
		b, err := json.Marshal(req.Nutrition)
		if err != nil {
			return &ServiceError{StatusCode: 400, Message: "Invalid nutrition metadata"}
		}
		product.Nutrition = string(b)
	}
	return nil
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, req *ProductRequest) (*models.Product, *ServiceError) {
	product := &models.Product{}
	if svcErr := s.apply(product, req); svcErr != nil {
		return nil, svcErr
	}
	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create product"}
	}
	s.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("name", product.Name))
	return product, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, productID string, req *ProductRequest) (*models.Product, *ServiceError) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid product ID format"}
	}
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
	}
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch product"}
	}

	if svcErr := s.apply(product, req); svcErr != nil {
		return nil, svcErr
	}
	if err := s.repo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", zap.String("product_id", productID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update product"}
	}
	return product, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, productID string) *ServiceError {
	id, err := uuid.Parse(productID)
	if err != nil {
		return &ServiceError{StatusCode: 400, Message: "Invalid product ID format"}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete product", zap.String("product_id", productID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete product"}
	}
	return nil
}
