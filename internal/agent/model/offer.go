package model

// Offer is a single retailer listing flowing through every loop stage. It is
// created by the search adapter and mutated in place by the normalization
// adapters; the link is its identity for deduplication.
type Offer struct {
	Name     string  `json:"name"`
	Retailer string  `json:"retailer"`
	Link     string  `json:"link"`
	Image    string  `json:"image,omitempty"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency,omitempty"`

	// Set by price normalization; nil until that stage runs.
	PriceSAR *float64 `json:"price_sar,omitempty"`

	// Set by spec normalization, optionally refined by page-fetch enrichment.
	Model     string `json:"model,omitempty"`
	Storage   string `json:"storage,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// EffectivePrice returns the normalized SAR price when available, falling back
// to the raw price. The second return reports whether any price is present.
func (o *Offer) EffectivePrice() (float64, bool) {
	if o.PriceSAR != nil {
		return *o.PriceSAR, true
	}
	if o.Price > 0 {
		return o.Price, true
	}
	return 0, false
}

// SlimOffer is the bounded candidate shape handed to the ranking oracle.
type SlimOffer struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Retailer  string  `json:"retailer"`
	Link      string  `json:"link"`
	Condition string  `json:"condition,omitempty"`
	Image     string  `json:"image,omitempty"`
	Model     string  `json:"model,omitempty"`
	Storage   string  `json:"storage,omitempty"`
	IsTrusted bool    `json:"is_trusted"`
}

// Slim converts an offer to its oracle candidate shape.
func (o *Offer) Slim() SlimOffer {
	price, _ := o.EffectivePrice()
	currency := o.Currency
	if currency == "" {
		currency = "SAR"
	}
	return SlimOffer{
		Name:      o.Name,
		Price:     price,
		Currency:  currency,
		Retailer:  o.Retailer,
		Link:      o.Link,
		Condition: o.Condition,
		Image:     o.Image,
		Model:     o.Model,
		Storage:   o.Storage,
		IsTrusted: IsTrustedRetailer(o.Retailer),
	}
}

// RankedItem is one oracle selection with a short justification.
type RankedItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Retailer string  `json:"retailer"`
	Link     string  `json:"link"`
	Image    string  `json:"image,omitempty"`
	Reason   string  `json:"reason"`
}

// Result is the terminal response shape. Items is never nil so the service
// always serializes a well-formed object even on degraded paths.
type Result struct {
	Items []RankedItem `json:"items"`
	Notes *string      `json:"notes"`
}

// NewResult builds an empty result with an optional note.
func NewResult(note string) *Result {
	r := &Result{Items: []RankedItem{}}
	if note != "" {
		r.Notes = &note
	}
	return r
}
