package tools

import "strings"

// SpecResult is the output of the spec normalization tool boundary.
type SpecResult struct {
	Model     string `json:"model,omitempty"`
	Storage   string `json:"storage,omitempty"`
	Condition string `json:"condition"`
}

// Token maps are ordered most-specific first so "15 pro max" is not shadowed
// by "15 pro". Arabic variants cover the common KSA listing spellings.
var modelTokenMap = []struct {
	label  string
	tokens []string
}{
	{"iPhone 15 Pro Max", []string{"15 pro max", "15promax", "promax", "برو ماكس", "ماكس"}},
	{"iPhone 15 Pro", []string{"15 pro", "15pro", "برو"}},
	{"iPhone 15 Plus", []string{"15 plus", "15+", "بلاس", "بلس"}},
	{"iPhone 15", []string{"iphone 15", "ايفون 15", "آيفون 15"}},
	{"iPhone 14 Pro Max", []string{"14 pro max", "14promax"}},
	{"iPhone 14 Pro", []string{"14 pro"}},
	{"iPhone 14 Plus", []string{"14 plus"}},
	{"iPhone 14", []string{"iphone 14", "ايفون 14", "آيفون 14"}},
}

var storageTokenMap = []struct {
	label  string
	tokens []string
}{
	{"1TB", []string{"1tb", "١ تيرابايت", "1024"}},
	{"512GB", []string{"512", "٥١٢"}},
	{"256GB", []string{"256", "٢٥٦"}},
	{"128GB", []string{"128", "١٢٨"}},
}

// InferModel matches a canonical model label inside free text (lower-cased by
// the caller). Empty when nothing matches.
func InferModel(txt string) string {
	for _, entry := range modelTokenMap {
		for _, token := range entry.tokens {
			if strings.Contains(txt, token) {
				return entry.label
			}
		}
	}
	return ""
}

// InferStorage matches a canonical storage label inside free text.
func InferStorage(txt string) string {
	for _, entry := range storageTokenMap {
		for _, token := range entry.tokens {
			if strings.Contains(txt, token) {
				return entry.label
			}
		}
	}
	return ""
}

// NormalizeSpec derives model, storage and a canonical condition from the raw
// free-text fields of one offer.
func NormalizeSpec(name, retailer, condition string) SpecResult {
	txt := strings.ToLower(name + " " + retailer + " " + condition)

	condRaw := strings.TrimSpace(condition)
	cl := strings.ToLower(condRaw)

	var cond string
	switch {
	case cl == "new" || cl == "brand new" || cl == "جديد":
		cond = "New"
	case strings.Contains(cl, "refurb") || cl == "مجدَّد" || cl == "منتَجات مجدَّدة":
		cond = "Refurbished"
	case strings.HasPrefix(cl, "used"):
		cond = "Used"
	case condRaw != "":
		cond = condRaw
	default:
		cond = "Unknown"
	}

	return SpecResult{
		Model:     InferModel(txt),
		Storage:   InferStorage(txt),
		Condition: cond,
	}
}
