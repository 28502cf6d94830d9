package pricing

import (
	"github.com/go-playground/validator/v10"

	"github.com/simaogato/fintrack-backend/internal/domain"
	"github.com/simaogato/fintrack-backend/internal/validation"
)

// Field names as they appear on the wire
const (
	FieldPrice  = "price"
	FieldSource = "source"
)

// Price precision messages
const (
	MsgPriceScale    = "O preço deve ter no máximo 2 casas decimais."
	MsgPriceTooLarge = "O preço deve ter no máximo 16 dígitos inteiros."
)

// NewRecordPriceValidator returns the field rules for RecordPriceCommand
func NewRecordPriceValidator(engine *validator.Validate) validation.Validator[RecordPriceCommand] {
	price := func(c RecordPriceCommand) any { return c.Price }
	source := func(c RecordPriceCommand) any { return c.Source }

	// Prices are stored as NUMERIC(18,2)
	return validation.NewRuleSet(engine,
		validation.Rule[RecordPriceCommand]{Field: FieldPrice, Tag: "decimal_gt0", Message: domain.MsgInvalidPrice,
			Value: price},
		validation.Rule[RecordPriceCommand]{Field: FieldPrice, Tag: "decimal_scale=2", Message: MsgPriceScale,
			Value: price},
		validation.Rule[RecordPriceCommand]{Field: FieldPrice, Tag: "decimal_int_digits=16", Message: MsgPriceTooLarge,
			Value: price},
		validation.Rule[RecordPriceCommand]{Field: FieldSource, Tag: "notblank", Message: domain.MsgSourceRequired,
			Value: source},
		validation.Rule[RecordPriceCommand]{Field: FieldSource, Tag: "max=100", Message: "A fonte deve ter no máximo 100 caracteres.",
			Value: source},
	)
}
