package model

// ================ Config ================

// IntentModelConfig tunes the Gemini model used for intent extraction.
type IntentModelConfig struct {
	Model       string  `envconfig:"INTENT_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"INTENT_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"INTENT_TEMPERATURE" default:"0"`
}

// RankModelConfig tunes the Gemini model used for final offer ranking.
type RankModelConfig struct {
	Model       string  `envconfig:"RANK_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RANK_MAX_TOKENS" default:"4000"`
	Temperature float32 `envconfig:"RANK_TEMPERATURE" default:"0"`
	TopK        int     `envconfig:"RANK_TOP_K" default:"4"`
	MaxOffers   int     `envconfig:"RANK_MAX_OFFERS" default:"20"`
}

// SearchConfig tunes the SearchAPI.io google_shopping call for the KSA market.
type SearchConfig struct {
	Limit        int    `envconfig:"SEARCH_LIMIT" default:"40"`
	Country      string `envconfig:"SEARCH_GL" default:"sa"`
	Language     string `envconfig:"SEARCH_HL" default:"ar"`
	GoogleDomain string `envconfig:"SEARCH_GOOGLE_DOMAIN" default:"google.com.sa"`
	Location     string `envconfig:"SEARCH_LOCATION" default:"Riyadh, Saudi Arabia"`
	TimeoutSec   int    `envconfig:"SEARCH_TIMEOUT_SEC" default:"30"`
	CacheTTL     string `envconfig:"SEARCH_CACHE_TTL" default:"10m"`
}

// FetchConfig tunes product page enrichment.
type FetchConfig struct {
	TimeoutSec int `envconfig:"FETCH_TIMEOUT_SEC" default:"15"`
	MaxPages   int `envconfig:"FETCH_MAX_PAGES" default:"3"`
}
