package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/fintrack-backend/internal/domain"
	"github.com/simaogato/fintrack-backend/internal/usecase/pricing"
	"github.com/simaogato/fintrack-backend/internal/usecase/product"
)

// ProductService is the product use case surface served over HTTP
type ProductService interface {
	RegisterProduct(ctx context.Context, cmd product.RegisterProductCommand) (*product.RegisterProductResponse, error)
	GetProductByID(ctx context.Context, query product.GetProductByIDQuery) (*product.ProductDetails, error)
	ListProducts(ctx context.Context) ([]product.ProductDetails, error)
}

// PricingService is the pricing use case surface served over HTTP
type PricingService interface {
	RecordPrice(ctx context.Context, cmd pricing.RecordPriceCommand) (*pricing.PriceEntry, error)
	RefreshPrice(ctx context.Context, productID uuid.UUID) (*pricing.PriceEntry, error)
	ListPriceHistory(ctx context.Context, productID uuid.UUID) ([]pricing.PriceEntry, error)
}

// ProductHandler serves /api/products
type ProductHandler struct {
	products ProductService
	pricing  PricingService
	errors   errorWriter
}

// NewProductHandler creates a new ProductHandler. With development set,
// internal error details are included in 500 responses.
func NewProductHandler(products ProductService, pricing PricingService, logger logrus.FieldLogger, development bool) *ProductHandler {
	return &ProductHandler{
		products: products,
		pricing:  pricing,
		errors:   errorWriter{logger: logger, development: development},
	}
}

// RegisterRoutes binds the handler to router
func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api/products")
	{
		api.POST("", h.RegisterProduct)
		api.GET("", h.ListProducts)
		api.GET("/:id", h.GetProduct)
		api.POST("/:id/prices", h.RecordPrice)
		api.GET("/:id/prices", h.ListPriceHistory)
		api.POST("/:id/prices/refresh", h.RefreshPrice)
	}
}

// RegisterProduct handles POST /api/products
func (h *ProductHandler) RegisterProduct(c *gin.Context) {
	var cmd product.RegisterProductCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.errors.badRequest(c, err)
		return
	}

	resp, err := h.products.RegisterProduct(c.Request.Context(), cmd)
	if err != nil {
		h.errors.write(c, err)
		return
	}

	c.Header("Location", "/api/products/"+resp.ID.String())
	c.JSON(http.StatusCreated, resp)
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	list, err := h.products.ListProducts(c.Request.Context())
	if err != nil {
		h.errors.write(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetProduct handles GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	details, err := h.products.GetProductByID(c.Request.Context(), product.GetProductByIDQuery{ID: id})
	if err != nil {
		h.errors.write(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// RecordPrice handles POST /api/products/:id/prices
func (h *ProductHandler) RecordPrice(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	var cmd pricing.RecordPriceCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.errors.badRequest(c, err)
		return
	}
	cmd.ProductID = id

	entry, err := h.pricing.RecordPrice(c.Request.Context(), cmd)
	if err != nil {
		h.errors.write(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListPriceHistory handles GET /api/products/:id/prices
func (h *ProductHandler) ListPriceHistory(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	entries, err := h.pricing.ListPriceHistory(c.Request.Context(), id)
	if err != nil {
		h.errors.write(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// RefreshPrice handles POST /api/products/:id/prices/refresh
func (h *ProductHandler) RefreshPrice(c *gin.Context) {
	id, ok := h.productID(c)
	if !ok {
		return
	}

	entry, err := h.pricing.RefreshPrice(c.Request.Context(), id)
	if err != nil {
		h.errors.write(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// productID parses the :id segment. Anything that is not a UUID cannot name
// a product, so it is answered as not found.
func (h *ProductHandler) productID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.errors.write(c, domain.NewNotFoundError())
		return uuid.Nil, false
	}
	return id, true
}
