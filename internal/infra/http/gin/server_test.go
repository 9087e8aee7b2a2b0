package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agentapp "tripquote/internal/app/handlers/agents"
	catalogapp "tripquote/internal/app/handlers/catalogq"
	quoteapp "tripquote/internal/app/handlers/quotes"
	rateapp "tripquote/internal/app/handlers/rates"
	domainagent "tripquote/internal/domain/agent"
	domaincatalog "tripquote/internal/domain/catalog"
	domainseason "tripquote/internal/domain/season"
	"tripquote/internal/infra/config"
	"tripquote/internal/infra/obs"
	"tripquote/internal/infra/storage/memory"
	"tripquote/internal/infra/storage/s3"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()

	catalog := memory.NewCatalogRepository()
	agents := memory.NewAgentRepository()
	quotes := memory.NewQuoteRepository()
	box := memory.NewOutbox()
	factory := memory.Factory{CatalogRepo: catalog, AgentRepo: agents, QuoteRepo: quotes}

	require.NoError(t, catalog.SaveItem(ctx, &domaincatalog.SellableItem{
		ID: "deluxe-double", Name: "Deluxe Double", Kind: domaincatalog.KindRoom,
		BasePrice: decimal.NewFromInt(100), Active: true,
		Rates: []domaincatalog.SeasonalRate{
			{
				ID: "xmas", SeasonName: "Christmas", Season: domainseason.Peak,
				StartDate: time.Date(2025, time.December, 20, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
				Multiplier: decimal.RequireFromString("1.5"), Active: true,
				CreatedAt: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
			},
		},
	}))
	require.NoError(t, agents.Save(ctx, &domainagent.Agent{
		ID: "sunrise-travel", CompanyName: "Sunrise Travel",
		Tier: domainagent.TierGold, TotalPax: 240,
	}))

	handlers := Handlers{
		Quote: QuoteHandler{
			BuildItemized: &quoteapp.BuildItemizedQuoteHandler{UoWFactory: factory, Outbox: box},
			BuildPackage:  &quoteapp.BuildPackageQuoteHandler{UoWFactory: factory, Outbox: box},
			Reprice:       &quoteapp.RepriceQuoteHandler{UoWFactory: factory, Outbox: box},
			Transition:    &quoteapp.TransitionQuoteHandler{UoWFactory: factory, Outbox: box},
			Duplicate:     &quoteapp.DuplicateQuoteHandler{UoWFactory: factory, Outbox: box},
			Delete:        &quoteapp.DeleteQuoteHandler{UoWFactory: factory},
			List:          &quoteapp.ListQuotesHandler{UoWFactory: factory},
			Get:           &quoteapp.GetQuoteHandler{UoWFactory: factory},
			Document:      &quoteapp.ExportDocumentHandler{UoWFactory: factory, Store: s3.NoopUploader{}},
		},
		Pricing: PricingHandler{
			Calculate: &quoteapp.CalculateQuoteHandler{UoWFactory: factory},
			PriceItem: &catalogapp.PriceItemHandler{UoWFactory: factory},
		},
		Rate: RateHandler{
			Create:     &rateapp.CreateRateHandler{UoWFactory: factory},
			List:       &rateapp.ListRatesHandler{UoWFactory: factory},
			Deactivate: &rateapp.DeactivateRateHandler{UoWFactory: factory},
		},
		Catalog: CatalogHandler{ListItems: &catalogapp.ListItemsHandler{UoWFactory: factory}},
		Agent:   AgentHandler{GetTier: &agentapp.GetTierHandler{UoWFactory: factory}},
	}
	srv := NewServer(config.Config{Env: "test", HTTPAddr: ":0"}, obs.Middleware{}, obs.HealthHandlers{}, handlers)
	return srv.Handler
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func createQuotePayload() map[string]any {
	return map[string]any{
		"agent_id":     "sunrise-travel",
		"client_name":  "Alice Brown",
		"client_email": "alice@example.com",
		"start_date":   "2025-12-22",
		"end_date":     "2025-12-24",
		"pax":          map[string]any{"adults": 2},
		"items":        []map[string]any{{"item_id": "deluxe-double", "quantity": 1}},
		"markup":       map[string]any{"type": "percentage", "value": "10"},
	}
}

func TestQuoteEndpoints(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/quotes", createQuotePayload())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "DRAFT", created["status"])

	totals, _ := created["totals"].(map[string]any)
	require.NotNil(t, totals)
	assert.Equal(t, "300.00", totals["subtotal"], "amounts cross the wire as strings rounded to cents")
	assert.Equal(t, "280.50", totals["total"])
	assert.Equal(t, "2.55", totals["commission"])

	t.Run("get by id", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/v1/quotes/"+id, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, created["number"], decodeBody(t, rec)["number"])

		rec = doJSON(t, h, http.MethodGet, "/api/v1/quotes/nope", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/v1/quotes?agent_id=sunrise-travel", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(1), body["total"])
	})

	t.Run("lifecycle actions", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/quotes/"+id+"/actions/send", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "SENT", decodeBody(t, rec)["status"])

		rec = doJSON(t, h, http.MethodPost, "/api/v1/quotes/"+id+"/actions/send", nil)
		assert.Equal(t, http.StatusConflict, rec.Code, "double send conflicts")

		rec = doJSON(t, h, http.MethodPost, "/api/v1/quotes/"+id+"/actions/archive", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown action")

		rec = doJSON(t, h, http.MethodPost, "/api/v1/quotes/"+id+"/actions/reject",
			map[string]any{"reason": "too expensive"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "REJECTED", decodeBody(t, rec)["status"])
	})

	t.Run("reprice after rejection conflicts", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPut, "/api/v1/quotes/"+id, map[string]any{
			"items": []map[string]any{{"item_id": "deluxe-double", "quantity": 2}},
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("duplicate restarts as draft", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/quotes/"+id+"/duplicate", nil)
		require.Equal(t, http.StatusCreated, rec.Code)
		dup := decodeBody(t, rec)
		assert.Equal(t, "DRAFT", dup["status"])
		assert.NotEqual(t, created["number"], dup["number"])

		t.Run("draft deletes with 204", func(t *testing.T) {
			rec := doJSON(t, h, http.MethodDelete, "/api/v1/quotes/"+dup["id"].(string), nil)
			assert.Equal(t, http.StatusNoContent, rec.Code)
		})
	})

	t.Run("non-draft delete conflicts", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodDelete, "/api/v1/quotes/"+id, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("document export without object storage", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/quotes/"+id+"/document", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("bad dates are rejected up front", func(t *testing.T) {
		payload := createQuotePayload()
		payload["start_date"] = "22/12/2025"
		rec := doJSON(t, h, http.MethodPost, "/api/v1/quotes", payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPricingEndpoints(t *testing.T) {
	h := newTestServer(t)

	t.Run("calculate", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/pricing/calculate", map[string]any{
			"agent_id":   "sunrise-travel",
			"start_date": "2025-12-22",
			"end_date":   "2025-12-24",
			"pax":        map[string]any{"adults": 2},
			"items":      []map[string]any{{"item_id": "deluxe-double"}},
			"markup":     map[string]any{"type": "percentage", "value": "10"},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decodeBody(t, rec)
		totals, _ := body["totals"].(map[string]any)
		require.NotNil(t, totals)
		assert.Equal(t, "280.50", totals["total"])

		// A calculation is a dry run; nothing may appear in the quote list.
		rec = doJSON(t, h, http.MethodGet, "/api/v1/quotes", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(0), decodeBody(t, rec)["total"])
	})

	t.Run("item point price", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/v1/pricing/items/deluxe-double?date=2025-12-25&pax=2&nights=3", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "150.00", body["seasonal_price"])
		assert.Equal(t, "450.00", body["final_price"])
		assert.Equal(t, "PEAK", body["season"])

		rec = doJSON(t, h, http.MethodGet, "/api/v1/pricing/items/ghost", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRateEndpoints(t *testing.T) {
	h := newTestServer(t)

	create := map[string]any{
		"item_id":     "deluxe-double",
		"season_name": "Summer",
		"season":      "PEAK",
		"start_date":  "2026-07-01",
		"end_date":    "2026-08-31",
		"multiplier":  "1.25",
	}
	rec := doJSON(t, h, http.MethodPost, "/api/v1/rates", create)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rateID, _ := decodeBody(t, rec)["id"].(string)
	require.NotEmpty(t, rateID)

	t.Run("overlap conflicts", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/rates", create)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("list with filters", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/v1/rates?item_id=deluxe-double&on_date=2026-07-15", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		items, _ := decodeBody(t, rec)["items"].([]any)
		assert.Len(t, items, 1)

		rec = doJSON(t, h, http.MethodGet, "/api/v1/rates", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target required")
	})

	t.Run("deactivate", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/rates/"+rateID+"/deactivate?item_id=deluxe-double", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, h, http.MethodGet, "/api/v1/rates?item_id=deluxe-double&active_only=true", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		items, _ := decodeBody(t, rec)["items"].([]any)
		assert.Len(t, items, 1, "only the seeded christmas rate stays active")
	})
}

func TestCatalogAndAgentEndpoints(t *testing.T) {
	h := newTestServer(t)

	t.Run("catalog listing", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/v1/items?kind=room", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		items, _ := decodeBody(t, rec)["items"].([]any)
		require.Len(t, items, 1)

		rec = doJSON(t, h, http.MethodGet, "/api/v1/items?kind=activity", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		items, _ = decodeBody(t, rec)["items"].([]any)
		assert.Empty(t, items)
	})

	t.Run("agent tier", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/v1/agents/sunrise-travel/tier", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "GOLD", body["tier"])

		rec = doJSON(t, h, http.MethodGet, "/api/v1/agents/ghost/tier", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/livez", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
