package currency

// RateTable maps currency codes to their rate relative to a base
// currency. A table with base USD holds, for example, EUR -> 0.92,
// meaning 1 USD buys 0.92 EUR.
type RateTable map[Code]float64

// FallbackRates returns the static last-resort rate table, USD-based.
// Used when neither live nor persisted rate data is available, and to
// supplement partial tables so callers always see all supported codes.
func FallbackRates() RateTable {
	return RateTable{
		USD: 1,
		EUR: 0.92,
		GBP: 0.78,
		TND: 3.1,
		JPY: 146.5,
		CAD: 1.39,
		AUD: 1.54,
	}
}

// Missing returns the supported codes absent from the table or present
// with a zero rate.
func (t RateTable) Missing() []Code {
	var missing []Code
	for _, c := range supported {
		if t[c] == 0 {
			missing = append(missing, c)
		}
	}
	return missing
}

// Supplement fills any missing supported codes from the fallback table
// and returns the codes that were filled in. The table is modified in
// place.
func (t RateTable) Supplement() []Code {
	missing := t.Missing()
	fallback := FallbackRates()
	for _, c := range missing {
		t[c] = fallback[c]
	}
	return missing
}

// Clone returns a shallow copy of the table.
func (t RateTable) Clone() RateTable {
	out := make(RateTable, len(t))
	for c, r := range t {
		out[c] = r
	}
	return out
}
