// Package currency defines the closed set of currencies the tracker
// supports, the daily rate table shape, and pure conversion between
// currencies given such a table.
package currency

import "strings"

// Code is an ISO 4217 currency code from the supported set.
type Code string

// The supported currency set. Every currency field in the system must
// validate against these before persistence.
const (
	USD Code = "USD"
	EUR Code = "EUR"
	GBP Code = "GBP"
	TND Code = "TND"
	JPY Code = "JPY"
	CAD Code = "CAD"
	AUD Code = "AUD"
)

var supported = []Code{USD, EUR, GBP, TND, JPY, CAD, AUD}

// Supported returns the supported currency codes in a stable order.
func Supported() []Code {
	out := make([]Code, len(supported))
	copy(out, supported)
	return out
}

// IsSupported reports whether code belongs to the supported set.
func IsSupported(code Code) bool {
	for _, c := range supported {
		if c == code {
			return true
		}
	}
	return false
}

// Parse normalizes a raw string to a supported Code.
func Parse(raw string) (Code, bool) {
	code := Code(strings.ToUpper(strings.TrimSpace(raw)))
	if !IsSupported(code) {
		return "", false
	}
	return code, true
}

// SupportedList returns the supported codes as a comma-separated string
// for validation error messages.
func SupportedList() string {
	parts := make([]string, len(supported))
	for i, c := range supported {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
