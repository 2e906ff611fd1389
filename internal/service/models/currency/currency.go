package currency

import (
	"database/sql/driver"
	"errors"
	"strings"
)

type Currency string

const (
	CurrencyMXN Currency = "MXN"
	CurrencyUSD Currency = "USD"
)

// Default is used whenever neither the ticket nor the order carries a currency.
const Default = CurrencyMXN

var ErrInvalidCurrency = errors.New("invalid currency")

func (c Currency) String() string {
	return string(c)
}

func (c Currency) Value() (driver.Value, error) {
	return c.String(), nil
}

// ParseCurrency accepts any three-letter alphabetic ISO 4217 style code.
func ParseCurrency(s string) (Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if len(code) != 3 {
		return "", ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", ErrInvalidCurrency
		}
	}

	return Currency(code), nil
}

// OrDefault parses s and falls back to Default on any error.
func OrDefault(s *string) Currency {
	return First(Default, s)
}

// First returns the first candidate that parses, or fallback.
func First(fallback Currency, candidates ...*string) Currency {
	for _, s := range candidates {
		if s == nil {
			continue
		}
		if c, err := ParseCurrency(*s); err == nil {
			return c
		}
	}

	return fallback
}
