package types

import "github.com/shopspring/decimal"

// Rubles is a whole-ruble amount. Catalog prices carry no fractional part.
type Rubles int64

// Kopecks is a minor-unit amount (1 ruble = 100 kopecks). Card-style
// gateways bill in kopecks; mixing the two units invalidates a signed
// request, so conversions are explicit.
type Kopecks int64

// ToKopecks converts a ruble amount into minor units.
func (r Rubles) ToKopecks() Kopecks {
	return Kopecks(int64(r) * 100)
}

// DecimalString renders the amount as a two-decimal string ("150.00"),
// the wire format REST aggregators expect for major units.
func (r Rubles) DecimalString() string {
	return decimal.NewFromInt(int64(r)).StringFixed(2)
}

// Int64 returns the raw minor-unit value.
func (k Kopecks) Int64() int64 {
	return int64(k)
}

// Int64 returns the raw whole-ruble value.
func (r Rubles) Int64() int64 {
	return int64(r)
}
