package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorKind classifies a failure so the boundaries can translate it without
// inspecting messages.
type ErrorKind int

const (
	// KindInfrastructure is the zero value: anything unclassified is treated as
	// a server-side failure.
	KindInfrastructure ErrorKind = iota
	KindValidation
	KindInvariant
	KindBusinessRule
	KindNotFound
	KindUpstream
)

// String returns the lower-case label used in logs and metrics
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvariant:
		return "invariant"
	case KindBusinessRule:
		return "business_rule"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	default:
		return "infrastructure"
	}
}

// Error codes
const (
	CodeInvalidCurrencyCode = "INVALID_CURRENCY_CODE"
	CodeInvalidProduct      = "INVALID_PRODUCT"
	CodeInvalidPrice        = "INVALID_PRICE"
	CodeInvalidSource       = "INVALID_SOURCE"
	CodeFutureDate          = "FUTURE_DATE"
	CodeDuplicateTicker     = "DUPLICATE_TICKER"
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION_FAILED"
	CodeInfrastructure      = "INFRASTRUCTURE"
	CodeQuoteUnavailable    = "QUOTE_UNAVAILABLE"
)

// User facing messages
const (
	MsgInvalidCurrencyCode = "Informe um código de moeda válido com 3 letras."
	MsgNameRequired        = "Nome do produto é obrigatório."
	MsgTickerRequired      = "Ticker do produto é obrigatório."
	MsgCurrencyRequired    = "Moeda do produto é obrigatória."
	MsgInvalidProductType  = "Tipo de produto inválido."
	MsgInvalidCategory     = "Categoria de produto inválida."
	MsgInvalidPrice        = "O preço deve ser maior que zero."
	MsgSourceRequired      = "A fonte do histórico de preço deve ser informada."
	MsgFutureDate          = "A data do histórico não pode ser no futuro."
	MsgProductNotFound     = "Produto não encontrado."
	MsgValidationFailed    = "Um ou mais erros de validação ocorreram."
	MsgInternal            = "Erro interno inesperado. Tente novamente mais tarde."
	MsgQuoteUnavailable    = "Não foi possível obter a cotação do produto."
)

// Error is the single error type returned by the domain and the use cases.
// Two errors match under errors.Is when their codes are equal, so the
// sentinels below can be used as targets.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Fields  map[string][]string // only set for KindValidation
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinels for errors.Is
var (
	ErrInvalidCurrencyCode = &Error{Kind: KindInvariant, Code: CodeInvalidCurrencyCode}
	ErrInvalidProduct      = &Error{Kind: KindInvariant, Code: CodeInvalidProduct}
	ErrInvalidPrice        = &Error{Kind: KindInvariant, Code: CodeInvalidPrice}
	ErrInvalidSource       = &Error{Kind: KindInvariant, Code: CodeInvalidSource}
	ErrFutureDate          = &Error{Kind: KindInvariant, Code: CodeFutureDate}
	ErrDuplicateTicker     = &Error{Kind: KindBusinessRule, Code: CodeDuplicateTicker}
	ErrProductNotFound     = &Error{Kind: KindNotFound, Code: CodeNotFound}
	ErrValidation          = &Error{Kind: KindValidation, Code: CodeValidation}
	ErrInfrastructure      = &Error{Kind: KindInfrastructure, Code: CodeInfrastructure}
	ErrQuoteUnavailable    = &Error{Kind: KindUpstream, Code: CodeQuoteUnavailable}
)

func invariant(code, message string) *Error {
	return &Error{Kind: KindInvariant, Code: code, Message: message}
}

// NewDuplicateTickerError reports that ticker is already registered
func NewDuplicateTickerError(ticker string) *Error {
	return &Error{
		Kind:    KindBusinessRule,
		Code:    CodeDuplicateTicker,
		Message: fmt.Sprintf("Já existe um produto registrado com o ticker '%s'.", ticker),
	}
}

// NewNotFoundError reports a missing product
func NewNotFoundError() *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: MsgProductNotFound}
}

// NewValidationError wraps a set of field failures
func NewValidationError(fields map[string][]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeValidation,
		Message: MsgValidationFailed,
		Fields:  fields,
	}
}

// NewInfrastructureError wraps a storage or transport failure. The cause is
// kept for logging and never shown to clients.
func NewInfrastructureError(op string, err error) *Error {
	return &Error{
		Kind:    KindInfrastructure,
		Code:    CodeInfrastructure,
		Message: op,
		Err:     err,
	}
}

// NewQuoteUnavailableError wraps a price feed failure
func NewQuoteUnavailableError(err error) *Error {
	return &Error{
		Kind:    KindUpstream,
		Code:    CodeQuoteUnavailable,
		Message: MsgQuoteUnavailable,
		Err:     err,
	}
}

// KindOf returns the kind of err, KindInfrastructure for foreign errors
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInfrastructure
}

// FieldSummary renders validation fields deterministically, e.g. for gRPC
// status messages.
func (e *Error) FieldSummary() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return e.Message + " " + strings.Join(parts, "; ")
}
