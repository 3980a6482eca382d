package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksa-shopping-ranker/server/internal/agent/model"
	errx "github.com/ksa-shopping-ranker/server/internal/core/error"
)

type stubRanker struct {
	result      *model.Result
	err         error
	query       string
	trustedOnly bool
}

func (s *stubRanker) Run(ctx context.Context, query string, trustedOnly bool) (*model.Result, error) {
	s.query = query
	s.trustedOnly = trustedOnly
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.e.ServeHTTP(rec, req)
	return rec
}

func TestHealthAllKeysConfigured(t *testing.T) {
	srv := New(&stubRanker{}, HealthInfo{GeminiConfigured: true, SearchAPIConfigured: true})

	rec := doJSON(t, srv, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHealthReportsMissingKeys(t *testing.T) {
	srv := New(&stubRanker{}, HealthInfo{GeminiConfigured: true, SearchAPIConfigured: false})

	rec := doJSON(t, srv, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "SEARCHAPI_KEY is missing", body["message"])
}

func TestHealthJoinsMultipleMissingKeys(t *testing.T) {
	srv := New(&stubRanker{}, HealthInfo{})

	rec := doJSON(t, srv, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "GEMINI_API_KEY is missing; SEARCHAPI_KEY is missing", body["message"])
}

func TestRankHappyPath(t *testing.T) {
	ranker := &stubRanker{result: &model.Result{Items: []model.RankedItem{{
		Name: "iPhone 15 Pro", Price: 4199, Currency: "SAR",
		Retailer: "Noon", Link: "https://noon.com/a", Reason: "best trusted price",
	}}}}
	srv := New(ranker, HealthInfo{GeminiConfigured: true, SearchAPIConfigured: true})

	rec := doJSON(t, srv, http.MethodPost, "/v1/rank", `{"query": "ايفون 15 برو", "trusted_only": true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ايفون 15 برو", ranker.query)
	assert.True(t, ranker.trustedOnly)

	var res model.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Items, 1)
	assert.Equal(t, "iPhone 15 Pro", res.Items[0].Name)
}

func TestRankRejectsEmptyQuery(t *testing.T) {
	srv := New(&stubRanker{}, HealthInfo{})

	rec := doJSON(t, srv, http.MethodPost, "/v1/rank", `{"query": ""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "query is required")
}

func TestRankRejectsMalformedBody(t *testing.T) {
	srv := New(&stubRanker{}, HealthInfo{})

	rec := doJSON(t, srv, http.MethodPost, "/v1/rank", `{"query": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRankAppErrorStatusPropagates(t *testing.T) {
	ranker := &stubRanker{err: errx.New(errors.New("model overloaded"), http.StatusBadGateway, errx.OracleErrorMessage)}
	srv := New(ranker, HealthInfo{})

	rec := doJSON(t, srv, http.MethodPost, "/v1/rank", `{"query": "iphone"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), errx.OracleErrorMessage)
}

func TestRankUnknownErrorCollapsesTo500(t *testing.T) {
	ranker := &stubRanker{err: errors.New("boom")}
	srv := New(ranker, HealthInfo{})

	rec := doJSON(t, srv, http.MethodPost, "/v1/rank", `{"query": "iphone"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom", "internal detail never leaks")
}
