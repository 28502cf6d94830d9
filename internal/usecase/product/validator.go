package product

import (
	"github.com/go-playground/validator/v10"

	"github.com/simaogato/fintrack-backend/internal/domain"
	"github.com/simaogato/fintrack-backend/internal/validation"
)

// Field names as they appear on the wire
const (
	FieldName         = "name"
	FieldTicker       = "ticker"
	FieldCurrencyCode = "currencyCode"
	FieldType         = "type"
	FieldCategory     = "category"
)

// NewRegisterProductValidator returns the field rules for RegisterProductCommand
func NewRegisterProductValidator(engine *validator.Validate) validation.Validator[RegisterProductCommand] {
	name := func(c RegisterProductCommand) any { return c.Name }
	ticker := func(c RegisterProductCommand) any { return c.Ticker }
	currency := func(c RegisterProductCommand) any { return c.CurrencyCode }

	return validation.NewRuleSet(engine,
		validation.Rule[RegisterProductCommand]{Field: FieldName, Tag: "notblank", Value: name,
			Message: "O nome do produto é obrigatório."},
		validation.Rule[RegisterProductCommand]{Field: FieldName, Tag: "max=100", Value: name,
			Message: "O nome do produto deve ter no máximo 100 caracteres."},

		validation.Rule[RegisterProductCommand]{Field: FieldTicker, Tag: "notblank", Value: ticker,
			Message: "O ticker é obrigatório."},
		validation.Rule[RegisterProductCommand]{Field: FieldTicker, Tag: "max=20", Value: ticker,
			Message: "O ticker deve ter no máximo 20 caracteres."},
		validation.Rule[RegisterProductCommand]{Field: FieldTicker, Tag: "alphanum", Value: ticker,
			Message: "O ticker deve conter apenas letras e números, sem espaços ou caracteres especiais."},

		validation.Rule[RegisterProductCommand]{Field: FieldCurrencyCode, Tag: "notblank", Value: currency,
			Message: "O código da moeda é obrigatório."},
		validation.Rule[RegisterProductCommand]{Field: FieldCurrencyCode, Tag: "len=3", Value: currency,
			Message: "O código da moeda deve conter 3 letras."},
		validation.Rule[RegisterProductCommand]{Field: FieldCurrencyCode, Tag: "alpha", Value: currency,
			Message: "O código da moeda deve conter apenas letras."},

		validation.Rule[RegisterProductCommand]{Field: FieldType, Tag: "product_type",
			Value:   func(c RegisterProductCommand) any { return c.Type },
			Message: domain.MsgInvalidProductType},
		validation.Rule[RegisterProductCommand]{Field: FieldCategory, Tag: "product_category",
			Value:   func(c RegisterProductCommand) any { return c.Category },
			Message: domain.MsgInvalidCategory},
	)
}
