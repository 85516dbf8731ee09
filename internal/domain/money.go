package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// minorUnits maps ISO 4217 currency codes to their canonical number of
// decimal places. Codes not listed default to 2.
var minorUnits = map[string]int32{
	"BIF": 0,
	"CLP": 0,
	"DJF": 0,
	"GNF": 0,
	"ISK": 0,
	"JPY": 0,
	"KMF": 0,
	"KRW": 0,
	"PYG": 0,
	"RWF": 0,
	"UGX": 0,
	"VND": 0,
	"VUV": 0,
	"XAF": 0,
	"XOF": 0,
	"XPF": 0,
	"BHD": 3,
	"IQD": 3,
	"JOD": 3,
	"KWD": 3,
	"LYD": 3,
	"OMR": 3,
	"TND": 3,
}

// Money is an immutable amount tagged with a currency. Construction rounds
// the amount to the currency's minor units, half up. Arithmetic and
// comparison require both operands to share a currency.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney builds a Money value, rounding amount to the currency's canonical
// decimal places (round half up, the way decimal.Round behaves for positive
// amounts).
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if len(code) != 3 {
		return Money{}, fmt.Errorf("%w: currency %q", ErrCurrencyMismatch, currency)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return Money{}, fmt.Errorf("%w: currency %q", ErrCurrencyMismatch, currency)
		}
	}
	places, ok := minorUnits[code]
	if !ok {
		places = 2
	}
	return Money{amount: amount.Round(places), currency: code}, nil
}

// MoneyFromFloat is a convenience constructor for literals.
func MoneyFromFloat(v float64, currency string) (Money, error) {
	return NewMoney(decimal.NewFromFloat(v), currency)
}

// MoneyFromString parses a decimal string amount.
func MoneyFromString(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return NewMoney(d, currency)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }

// IsSet reports whether the value was built through a constructor, as
// opposed to being a zero Money.
func (m Money) IsSet() bool { return m.currency != "" }

func (m Money) Add(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Add(o.amount), m.currency)
}

func (m Money) Sub(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Sub(o.amount), m.currency)
}

func (m Money) Mul(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Mul(o.amount), m.currency)
}

func (m Money) Div(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	if o.amount.IsZero() {
		return Money{}, fmt.Errorf("divide %s by zero", m)
	}
	return NewMoney(m.amount.Div(o.amount), m.currency)
}

// Cmp returns -1, 0 or 1 comparing amounts of same-currency values.
func (m Money) Cmp(o Money) (int, error) {
	if err := m.sameCurrency(o); err != nil {
		return 0, err
	}
	return m.amount.Cmp(o.amount), nil
}

func (m Money) GreaterThan(o Money) (bool, error) {
	c, err := m.Cmp(o)
	return c > 0, err
}

func (m Money) GreaterOrEqual(o Money) (bool, error) {
	c, err := m.Cmp(o)
	return c >= 0, err
}

func (m Money) LessThan(o Money) (bool, error) {
	c, err := m.Cmp(o)
	return c < 0, err
}

func (m Money) LessOrEqual(o Money) (bool, error) {
	c, err := m.Cmp(o)
	return c <= 0, err
}

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// Equal reports whether both currency and amount match.
func (m Money) Equal(o Money) bool {
	return m.currency == o.currency && m.amount.Equal(o.amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.currency, m.amount.String())
}

func (m Money) sameCurrency(o Money) error {
	if !m.IsSet() || !o.IsSet() {
		return fmt.Errorf("%w: operand without currency", ErrCurrencyMismatch)
	}
	if m.currency != o.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, o.currency)
	}
	return nil
}
