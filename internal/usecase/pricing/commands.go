package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/fintrack-backend/internal/domain"
)

// RecordPriceCommand registers a manually observed price. Date defaults to now.
type RecordPriceCommand struct {
	ProductID uuid.UUID       `json:"-"`
	Price     decimal.Decimal `json:"price"`
	Date      *time.Time      `json:"date,omitempty"`
	Source    string          `json:"source"`
}

// PriceEntry is the read projection of a price history row
type PriceEntry struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Date      time.Time       `json:"date"`
	Price     decimal.Decimal `json:"price"`
	Source    string          `json:"source"`
}

func newPriceEntry(h *domain.PriceHistory) PriceEntry {
	return PriceEntry{
		ID:        h.ID,
		ProductID: h.ProductID,
		Date:      h.Date,
		Price:     h.Price,
		Source:    h.Source,
	}
}
