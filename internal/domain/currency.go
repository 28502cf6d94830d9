package domain

import (
	"strings"
)

// Currency is an ISO-style three letter currency code (e.g. BRL, USD).
// It is immutable; the zero value means "no currency".
type Currency struct {
	code string
}

// NewCurrency validates and normalizes code to upper case.
// Surrounding whitespace is ignored; anything other than exactly three ASCII
// letters is rejected.
func NewCurrency(code string) (Currency, error) {
	trimmed := strings.TrimSpace(code)
	if len(trimmed) != 3 {
		return Currency{}, invariant(CodeInvalidCurrencyCode, MsgInvalidCurrencyCode)
	}
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return Currency{}, invariant(CodeInvalidCurrencyCode, MsgInvalidCurrencyCode)
		}
	}

	return Currency{code: strings.ToUpper(trimmed)}, nil
}

// MustCurrency is NewCurrency for constants and tests
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the normalized code
func (c Currency) Code() string {
	return c.code
}

// IsZero reports whether c was never constructed
func (c Currency) IsZero() bool {
	return c.code == ""
}

// Equals compares two currencies by normalized code
func (c Currency) Equals(other Currency) bool {
	return c.code == other.code
}

func (c Currency) String() string {
	return c.code
}
