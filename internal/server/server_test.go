package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/regenesis/internal/engine"
	"github.com/rshade/regenesis/internal/refdata"
	"github.com/rshade/regenesis/internal/server"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func loadedStore() *refdata.Store {
	store := refdata.NewStore("", "")
	store.Set(refdata.NewSnapshot(
		refdata.NewMarketTable([]refdata.MarketEntry{
			{Category: "PET", AvgPricePerKgUSD: 2, DemandScore: 8},
			{Category: "HDPE", AvgPricePerKgUSD: 0.6, DemandScore: 7},
		}),
		refdata.NewCountryTable([]refdata.CountryEntry{
			{Country: "Testland", Mismanaged: 50},
			{Country: "Bigland", Mismanaged: 200},
		}),
	))
	return store
}

func newTestServer(store *refdata.Store, origins ...string) *server.Server {
	e := engine.New(store, engine.Options{})
	return server.New(e, server.Config{AllowedOrigins: origins, BatchConcurrency: 2}, zerolog.Nop())
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) server.ErrorResponse {
	t.Helper()
	var resp server.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(loadedStore()).Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))

	rec = do(t, newTestServer(refdata.NewStore("", "")).Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTraceIDIsEchoed(t *testing.T) {
	h := newTestServer(loadedStore()).Handler()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Trace-ID", "trace-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "trace-123", rec.Header().Get("X-Trace-ID"))
}

func TestReferenceLists(t *testing.T) {
	h := newTestServer(loadedStore()).Handler()

	rec := do(t, h, http.MethodGet, "/api/v1/reference/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cats server.ReferenceList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	assert.Equal(t, []string{"HDPE", "PET"}, cats.Items)
	assert.Equal(t, 2, cats.Count)

	rec = do(t, h, http.MethodGet, "/api/v1/reference/countries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var countries server.ReferenceList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &countries))
	assert.Equal(t, []string{"bigland", "testland"}, countries.Items)

	notLoaded := newTestServer(refdata.NewStore("", "")).Handler()
	rec = do(t, notLoaded, http.MethodGet, "/api/v1/reference/categories", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, server.KindNotLoaded, decodeError(t, rec).Kind)
}

func TestAssess(t *testing.T) {
	h := newTestServer(loadedStore()).Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/assess",
		`{"waste_type":"PET","quantity_kg":100,"country":"Testland"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var a engine.Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.InDelta(t, 33.6, a.Feasibility.FeasibilityScore, 1e-9)
	assert.Equal(t, "Moderate Opportunity", string(a.Feasibility.Status))
	assert.InDelta(t, 352000.0, a.Impact.MonthlyRevenue, 1e-9)
	assert.Len(t, a.Roadmap.Tasks, 12)
}

func TestAssessErrors(t *testing.T) {
	h := newTestServer(loadedStore()).Handler()

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantKind string
	}{
		{"unknown category", `{"waste_type":"Glass","quantity_kg":100}`, http.StatusNotFound, server.KindUnknownCategory},
		{"quantity below minimum", `{"waste_type":"PET","quantity_kg":0.5}`, http.StatusBadRequest, server.KindInvalidQuantity},
		{"quantity too large", `{"waste_type":"PET","quantity_kg":1e307}`, http.StatusBadRequest, server.KindInvalidQuantity},
		{"quantity missing", `{"waste_type":"PET"}`, http.StatusBadRequest, server.KindValidation},
		{"waste type missing", `{"quantity_kg":10}`, http.StatusBadRequest, server.KindValidation},
		{"negative weeks", `{"waste_type":"PET","quantity_kg":10,"weeks":-1}`, http.StatusBadRequest, server.KindValidation},
		{"unknown scenario", `{"waste_type":"PET","quantity_kg":10,"scenario":"reckless"}`, http.StatusBadRequest, server.KindUnknownScenario},
		{"malformed json", `{"waste_type":`, http.StatusBadRequest, server.KindInvalidRequest},
		{"quantity as text", `{"waste_type":"PET","quantity_kg":"lots"}`, http.StatusBadRequest, server.KindInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/assess", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantKind, decodeError(t, rec).Kind)
		})
	}

	t.Run("unknown category lists known ones", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/assess", `{"waste_type":"Glass","quantity_kg":100}`)
		assert.Contains(t, rec.Body.String(), "known_categories")
	})
}

func TestAssessBatch(t *testing.T) {
	h := newTestServer(loadedStore()).Handler()

	body := `{"requests":[
		{"waste_type":"PET","quantity_kg":100,"country":"testland"},
		{"waste_type":"Glass","quantity_kg":100}
	]}`
	rec := do(t, h, http.MethodPost, "/api/v1/assess/batch", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp server.BatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, engine.BatchSummary{Total: 2, Succeeded: 1, Failed: 1}, resp.Summary)
	require.Len(t, resp.Items, 2)
	assert.NotNil(t, resp.Items[0].Assessment)
	assert.Contains(t, resp.Items[1].Error, "Glass")

	t.Run("overflowing quantity fails only its row", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/assess/batch", `{"requests":[
			{"waste_type":"PET","quantity_kg":1e307},
			{"waste_type":"HDPE","quantity_kg":100,"country":"bigland"}
		]}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp server.BatchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, engine.BatchSummary{Total: 2, Succeeded: 1, Failed: 1}, resp.Summary)
		assert.Contains(t, resp.Items[0].Error, "must be at most")
		assert.NotNil(t, resp.Items[1].Assessment)
	})

	rec = do(t, h, http.MethodPost, "/api/v1/assess/batch", `{"requests":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, server.KindValidation, decodeError(t, rec).Kind)
}

func TestRoadmapExport(t *testing.T) {
	h := newTestServer(loadedStore()).Handler()
	body := `{"waste_type":"PET","quantity_kg":100,"country":"testland","weeks":5}`

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"", "text/markdown", "# ReGenesis Roadmap: PET in testland"},
		{"markdown", "text/markdown", "| Week | Task |"},
		{"html", "text/html", "<table>"},
		{"json", "application/json", `"duration_weeks"`},
	}
	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/roadmap/export?format="+tt.format, body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Header().Get("Content-Type"), tt.contentType)
			assert.Contains(t, rec.Header().Get("Content-Disposition"), "roadmap-")
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/roadmap/export?format=pdf", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, server.KindUnknownFormat, decodeError(t, rec).Kind)
	})
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	market := filepath.Join(dir, "market.csv")
	country := filepath.Join(dir, "country.csv")
	require.NoError(t, os.WriteFile(market, []byte("category,avg_price_per_kg_usd,demand_score_1_to_10\nPET,2,8\n"), 0o600))
	require.NoError(t, os.WriteFile(country, []byte("country,mismanaged\nindia,50\nchina,200\n"), 0o600))

	h := newTestServer(refdata.NewStore(market, country)).Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/reference/reload", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp server.ReloadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Categories)
	assert.Equal(t, 2, resp.Countries)

	require.NoError(t, os.Remove(country))
	rec = do(t, h, http.MethodPost, "/api/v1/reference/reload", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, server.KindDataLoad, decodeError(t, rec).Kind)

	// The previous tables are still served.
	rec = do(t, h, http.MethodPost, "/api/v1/assess", `{"waste_type":"PET","quantity_kg":100,"country":"india"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExplain(t *testing.T) {
	rec := do(t, newTestServer(loadedStore()).Handler(), http.MethodGet, "/api/v1/explain", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lines")
}

func TestCORS(t *testing.T) {
	t.Run("allow list", func(t *testing.T) {
		h := newTestServer(loadedStore(), "http://app.example").Handler()
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/assess", bytes.NewReader(nil))
		req.Header.Set("Origin", "http://app.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "http://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard", func(t *testing.T) {
		h := newTestServer(loadedStore(), "*").Handler()
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "http://anywhere.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
