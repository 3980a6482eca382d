package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"

	"github.com/ksa-shopping-ranker/server/internal/agent/model"
	logx "github.com/ksa-shopping-ranker/server/pkg/logger"
)

// maxExtractChars bounds the readable text inspected for spec tokens.
const maxExtractChars = 4000

// FetchResult is the per-URL output of the page-fetch tool boundary.
type FetchResult struct {
	OK      bool   `json:"ok"`
	Model   string `json:"model,omitempty"`
	Storage string `json:"storage,omitempty"`
}

// PageFetcher enriches offers by pulling their product pages and inferring
// model/storage tokens from the readable content.
type PageFetcher struct {
	httpc *http.Client
}

func NewPageFetcher(cfg model.FetchConfig) *PageFetcher {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PageFetcher{httpc: &http.Client{Timeout: timeout}}
}

// FetchBatch fetches every URL concurrently and returns a result per URL.
// Individual failures never fail the batch; they surface as ok=false so the
// actor can skip enrichment for that offer.
func (f *PageFetcher) FetchBatch(ctx context.Context, urls []string) map[string]FetchResult {
	results := make([]FetchResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = f.fetch(gctx, u)
			return nil
		})
	}
	// Goroutines only record into their own slot and never return an error.
	_ = g.Wait()

	out := make(map[string]FetchResult, len(urls))
	for i, u := range urls {
		out[u] = results[i]
	}
	return out
}

func (f *PageFetcher) fetch(ctx context.Context, pageURL string) FetchResult {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return FetchResult{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return FetchResult{}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; shopping-ranker/0.1)")

	resp, err := f.httpc.Do(req)
	if err != nil {
		logx.Debug().Str("component", "product_page_fetch").Str("url", pageURL).
			Err(err).Msg("fetch failed")
		return FetchResult{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logx.Debug().Str("component", "product_page_fetch").Str("url", pageURL).
			Int("status", resp.StatusCode).Msg("non-200 page response")
		return FetchResult{}
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return FetchResult{}
	}

	text := strings.ToLower(fmt.Sprintf("%s %s", article.Title, article.TextContent))
	if len(text) > maxExtractChars {
		text = text[:maxExtractChars]
	}

	return FetchResult{
		OK:      true,
		Model:   InferModel(text),
		Storage: InferStorage(text),
	}
}
