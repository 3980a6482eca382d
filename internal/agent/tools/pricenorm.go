package tools

import "strings"

// PriceResult is the output of the price normalization tool boundary.
type PriceResult struct {
	PriceSAR float64 `json:"price_sar"`
	Currency string  `json:"currency"`
}

// Fixed conversion rates to SAR. Unknown currencies are not converted but keep
// their uppercased code so the oracle can see the ambiguity.
var sarRates = map[string]float64{
	"USD": 3.75,
	"EUR": 4.1,
}

// NormalizePrice converts a raw price to SAR. A missing or already-SAR
// currency passes the price through unchanged with the currency fixed to SAR.
func NormalizePrice(price float64, currency string) PriceResult {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" || code == "SAR" {
		return PriceResult{PriceSAR: price, Currency: "SAR"}
	}

	factor, ok := sarRates[code]
	if !ok {
		factor = 1.0
	}
	return PriceResult{PriceSAR: price * factor, Currency: code}
}
