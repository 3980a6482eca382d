package model

import "strings"

// trustedKSA is the fixed allow-list of retailers preferred for the Saudi
// market. Matching is case-insensitive on the trimmed retailer string.
var trustedKSA = map[string]struct{}{
	"amazon.sa":           {},
	"amazon saudi arabia": {},
	"noon":                {},
	"noon.com":            {},
	"jarir":               {},
	"jarir bookstore":     {},
	"extra":               {},
	"extra stores":        {},
	"lulu hypermarket":    {},
	"stc store":           {},
}

// IsTrustedRetailer reports whether the retailer is on the KSA allow-list.
func IsTrustedRetailer(retailer string) bool {
	_, ok := trustedKSA[strings.ToLower(strings.TrimSpace(retailer))]
	return ok
}
