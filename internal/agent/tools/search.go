package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ksa-shopping-ranker/server/internal/agent/model"
	logx "github.com/ksa-shopping-ranker/server/pkg/logger"
)

const searchAPIEndpoint = "https://www.searchapi.io/api/v1/search"

// SearchCache is a read-through cache for search results. Implementations must
// degrade silently: a miss or a cache failure always falls back to a live call.
type SearchCache interface {
	Get(ctx context.Context, query string, limit int) ([]*model.Offer, bool)
	Put(ctx context.Context, query string, limit int, offers []*model.Offer)
}

// SearchClient calls the SearchAPI.io google_shopping engine for the KSA
// market and maps raw shopping results into offers.
type SearchClient struct {
	apiKey string
	cfg    model.SearchConfig
	httpc  *http.Client
	cache  SearchCache
}

// NewSearchClient builds the search adapter. cache may be nil.
func NewSearchClient(apiKey string, cfg model.SearchConfig, cache SearchCache) *SearchClient {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SearchClient{
		apiKey: apiKey,
		cfg:    cfg,
		httpc:  &http.Client{Timeout: timeout},
		cache:  cache,
	}
}

type shoppingResult struct {
	Title          string  `json:"title"`
	Seller         string  `json:"seller"`
	Source         string  `json:"source"`
	Link           string  `json:"link"`
	ProductLink    string  `json:"product_link"`
	Price          string  `json:"price"`
	ExtractedPrice float64 `json:"extracted_price"`
	Currency       string  `json:"currency"`
	Thumbnail      string  `json:"thumbnail"`
	Condition      string  `json:"condition"`
}

type searchResponse struct {
	ShoppingResults []shoppingResult `json:"shopping_results"`
}

// Search returns up to limit offers for the query. Cached results are reused
// when a cache is configured.
func (s *SearchClient) Search(ctx context.Context, query string, limit int) ([]*model.Offer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	if limit <= 0 {
		limit = s.cfg.Limit
	}

	if s.cache != nil {
		if offers, ok := s.cache.Get(ctx, query, limit); ok {
			logx.Debug().Str("component", "shopping_search").Str("query", query).
				Int("offers", len(offers)).Msg("cache hit")
			return offers, nil
		}
	}

	params := url.Values{}
	params.Set("engine", "google_shopping")
	params.Set("q", query)
	params.Set("api_key", s.apiKey)
	params.Set("gl", s.cfg.Country)
	params.Set("hl", s.cfg.Language)
	params.Set("google_domain", s.cfg.GoogleDomain)
	params.Set("location", s.cfg.Location)
	params.Set("num", fmt.Sprintf("%d", limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchAPIEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("searchapi status %d", resp.StatusCode)
	}

	var raw searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode searchapi response: %w", err)
	}

	offers := make([]*model.Offer, 0, len(raw.ShoppingResults))
	for i, r := range raw.ShoppingResults {
		if i >= limit {
			break
		}
		offers = append(offers, r.toOffer())
	}

	logx.Debug().Str("component", "shopping_search").Str("query", query).
		Int("offers", len(offers)).Msg("search completed")

	if s.cache != nil && len(offers) > 0 {
		s.cache.Put(ctx, query, limit, offers)
	}
	return offers, nil
}

func (r shoppingResult) toOffer() *model.Offer {
	retailer := r.Seller
	if retailer == "" {
		retailer = r.Source
	}
	link := r.ProductLink
	if link == "" {
		link = r.Link
	}
	return &model.Offer{
		Name:      r.Title,
		Retailer:  retailer,
		Link:      link,
		Image:     r.Thumbnail,
		Price:     r.ExtractedPrice,
		Currency:  sniffCurrency(r.Currency, r.Price),
		Condition: r.Condition,
	}
}

// sniffCurrency prefers the explicit currency field and otherwise guesses from
// the formatted price string.
func sniffCurrency(explicit, priceText string) string {
	if explicit != "" {
		return strings.ToUpper(explicit)
	}
	switch {
	case strings.Contains(priceText, "SAR"), strings.Contains(priceText, "ر.س"):
		return "SAR"
	case strings.Contains(priceText, "$"), strings.Contains(priceText, "USD"):
		return "USD"
	case strings.Contains(priceText, "€"), strings.Contains(priceText, "EUR"):
		return "EUR"
	default:
		return ""
	}
}
