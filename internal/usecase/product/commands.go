package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/fintrack-backend/internal/domain"
)

// RegisterProductCommand is the input for registering a product
type RegisterProductCommand struct {
	Name         string                 `json:"name"`
	Ticker       string                 `json:"ticker"`
	Type         domain.ProductType     `json:"type"`
	Category     domain.ProductCategory `json:"category"`
	CurrencyCode string                 `json:"currencyCode"`
}

// RegisterProductResponse is returned after a product is registered
type RegisterProductResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Ticker string    `json:"ticker"`
}

// GetProductByIDQuery asks for a single product
type GetProductByIDQuery struct {
	ID uuid.UUID
}

// ProductDetails is the read-only projection of a product
type ProductDetails struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Ticker       string          `json:"ticker"`
	Type         string          `json:"type"`
	Category     string          `json:"category"`
	CurrencyCode string          `json:"currencyCode"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// NewProductDetails maps a domain product onto its projection
func NewProductDetails(p *domain.Product) ProductDetails {
	return ProductDetails{
		ID:           p.ID(),
		Name:         p.Name(),
		Ticker:       p.Ticker(),
		Type:         p.Type().String(),
		Category:     p.Category().String(),
		CurrencyCode: p.Currency().Code(),
		CurrentPrice: p.CurrentPrice(),
		CreatedAt:    p.CreatedAt(),
	}
}
