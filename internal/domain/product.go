package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// now is the wall clock used by constructors. Tests in this package replace it.
var now = func() time.Time { return time.Now().UTC() }

// ProductType is the closed set of product kinds.
// Values match the integers accepted on the wire.
type ProductType int

const (
	ProductTypeStock       ProductType = 1
	ProductTypeFixedIncome ProductType = 2
	ProductTypeETF         ProductType = 3
	ProductTypeFund        ProductType = 4
	ProductTypeCrypto      ProductType = 5
)

var productTypeNames = map[ProductType]string{
	ProductTypeStock:       "Stock",
	ProductTypeFixedIncome: "FixedIncome",
	ProductTypeETF:         "ETF",
	ProductTypeFund:        "Fund",
	ProductTypeCrypto:      "Crypto",
}

// ParseProductType maps a wire integer onto a ProductType
func ParseProductType(v int) (ProductType, error) {
	t := ProductType(v)
	if !t.IsValid() {
		return 0, invariant(CodeInvalidProduct, MsgInvalidProductType)
	}
	return t, nil
}

// IsValid reports whether t is one of the defined variants
func (t ProductType) IsValid() bool {
	_, ok := productTypeNames[t]
	return ok
}

func (t ProductType) String() string {
	if name, ok := productTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// ProductCategory groups products by risk/return profile
type ProductCategory int

const (
	CategoryVariableIncome ProductCategory = 1
	CategoryFixedIncome    ProductCategory = 2
	CategoryMultimarket    ProductCategory = 3
	CategoryCurrency       ProductCategory = 4
)

var productCategoryNames = map[ProductCategory]string{
	CategoryVariableIncome: "VariableIncome",
	CategoryFixedIncome:    "FixedIncome",
	CategoryMultimarket:    "Multimarket",
	CategoryCurrency:       "Currency",
}

// ParseProductCategory maps a wire integer onto a ProductCategory
func ParseProductCategory(v int) (ProductCategory, error) {
	c := ProductCategory(v)
	if !c.IsValid() {
		return 0, invariant(CodeInvalidProduct, MsgInvalidCategory)
	}
	return c, nil
}

// IsValid reports whether c is one of the defined variants
func (c ProductCategory) IsValid() bool {
	_, ok := productCategoryNames[c]
	return ok
}

func (c ProductCategory) String() string {
	if name, ok := productCategoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Product is a registered financial product (stock, fund, crypto...).
// Fields are read through accessors; CurrentPrice is the only state that
// changes after construction.
type Product struct {
	id           uuid.UUID
	name         string
	ticker       string
	productType  ProductType
	category     ProductCategory
	currency     Currency
	currentPrice decimal.Decimal
	createdAt    time.Time
}

// NewProduct builds a product with a fresh ID, CreatedAt = now (UTC) and a
// zero price.
func NewProduct(name, ticker string, productType ProductType, category ProductCategory, currency Currency) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invariant(CodeInvalidProduct, MsgNameRequired)
	}
	if strings.TrimSpace(ticker) == "" {
		return nil, invariant(CodeInvalidProduct, MsgTickerRequired)
	}
	if currency.IsZero() {
		return nil, invariant(CodeInvalidProduct, MsgCurrencyRequired)
	}
	if !productType.IsValid() {
		return nil, invariant(CodeInvalidProduct, MsgInvalidProductType)
	}
	if !category.IsValid() {
		return nil, invariant(CodeInvalidProduct, MsgInvalidCategory)
	}

	return &Product{
		id:           uuid.New(),
		name:         name,
		ticker:       ticker,
		productType:  productType,
		category:     category,
		currency:     currency,
		currentPrice: decimal.Zero,
		createdAt:    now(),
	}, nil
}

// ProductSnapshot carries persisted product state back into the domain.
// Only repositories should use it.
type ProductSnapshot struct {
	ID           uuid.UUID
	Name         string
	Ticker       string
	Type         ProductType
	Category     ProductCategory
	CurrencyCode string
	CurrentPrice decimal.Decimal
	CreatedAt    time.Time
}

// RestoreProduct rebuilds a product from storage. Stored rows were valid when
// written, but the currency code is re-checked so a corrupt row surfaces as an
// error instead of a zero currency.
func RestoreProduct(s ProductSnapshot) (*Product, error) {
	currency, err := NewCurrency(s.CurrencyCode)
	if err != nil {
		return nil, err
	}
	return &Product{
		id:           s.ID,
		name:         s.Name,
		ticker:       s.Ticker,
		productType:  s.Type,
		category:     s.Category,
		currency:     currency,
		currentPrice: s.CurrentPrice,
		createdAt:    s.CreatedAt,
	}, nil
}

// Snapshot exports the product state for persistence
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:           p.id,
		Name:         p.name,
		Ticker:       p.ticker,
		Type:         p.productType,
		Category:     p.category,
		CurrencyCode: p.currency.Code(),
		CurrentPrice: p.currentPrice,
		CreatedAt:    p.createdAt,
	}
}

// UpdatePrice replaces the current price. Non-positive prices are rejected and
// leave the previous price in place.
func (p *Product) UpdatePrice(newPrice decimal.Decimal) error {
	if newPrice.LessThanOrEqual(decimal.Zero) {
		return invariant(CodeInvalidPrice, MsgInvalidPrice)
	}
	p.currentPrice = newPrice
	return nil
}

func (p *Product) ID() uuid.UUID { return p.id }
func (p *Product) Name() string { return p.name }
func (p *Product) Ticker() string { return p.ticker }
func (p *Product) Type() ProductType { return p.productType }
func (p *Product) Category() ProductCategory { return p.category }
func (p *Product) Currency() Currency { return p.currency }
func (p *Product) CurrentPrice() decimal.Decimal { return p.currentPrice }
func (p *Product) CreatedAt() time.Time { return p.createdAt }
