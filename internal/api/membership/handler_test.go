package membership

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zzik-backend/internal/common/database"
	"zzik-backend/internal/common/errors"
	"zzik-backend/internal/common/logger"
)

// ==========================
// Test Setup
// ==========================

func newTestApp(t *testing.T, cache *database.RedisClient) *fiber.App {
	t.Helper()

	log := logger.NewTestLogger(t)
	errorHandler := errors.NewErrorHandler(log)
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler.Handle})

	service := NewService(LoadConfig(), cache, log)
	handler := NewHandler(service, log)
	handler.RegisterRoutes(app.Group("/api"))

	return app
}

func decodeBody(t *testing.T, body io.Reader, out interface{}) {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

// ==========================
// GET /api/membership/pricing
// ==========================

func TestGetPricing_SupportedCombinations(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantAmount   float64
		wantCurrency string
		wantDisplay  string
	}{
		{
			name:         "silver KR monthly",
			query:        "tier=silver&region=KR&period=monthly",
			wantAmount:   9900,
			wantCurrency: "KRW",
			wantDisplay:  "9,900",
		},
		{
			name:         "gold JP yearly rounds to ten yen",
			query:        "tier=gold&region=JP&period=yearly",
			wantAmount:   20990,
			wantCurrency: "JPY",
			wantDisplay:  "20,990",
		},
		{
			name:         "silver US monthly carries the cent offset",
			query:        "tier=silver&region=US&period=monthly",
			wantAmount:   7.42,
			wantCurrency: "USD",
			wantDisplay:  "7.42",
		},
		{
			name:         "free tier is zero KRW in every region",
			query:        "tier=free&region=US&period=yearly",
			wantAmount:   0,
			wantCurrency: "KRW",
			wantDisplay:  "0",
		},
	}

	app := newTestApp(t, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/membership/pricing?"+tt.query, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			var out PricingOutput
			decodeBody(t, resp.Body, &out)
			assert.Equal(t, tt.wantAmount, out.Amount)
			assert.Equal(t, tt.wantCurrency, out.Currency)
			assert.Equal(t, tt.wantDisplay, out.Display)
		})
	}
}

func TestGetPricing_InvalidInputs(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCode string
	}{
		{name: "unknown tier", query: "tier=bronze&region=KR&period=monthly", wantCode: "INVALID_TIER"},
		{name: "unknown region", query: "tier=silver&region=FR&period=monthly", wantCode: "INVALID_REGION"},
		{name: "unknown period", query: "tier=silver&region=KR&period=weekly", wantCode: "INVALID_PERIOD"},
		{name: "uppercase tier is not normalized", query: "tier=SILVER&region=KR&period=monthly", wantCode: "INVALID_TIER"},
	}

	app := newTestApp(t, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/membership/pricing?"+tt.query, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var out errors.ErrorResponse
			decodeBody(t, resp.Body, &out)
			assert.Equal(t, tt.wantCode, out.Code)
			assert.False(t, out.Retryable)
		})
	}
}

func TestGetPricing_MissingParameters(t *testing.T) {
	app := newTestApp(t, nil)

	req := httptest.NewRequest("GET", "/api/membership/pricing?tier=silver", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out errors.ErrorResponse
	decodeBody(t, resp.Body, &out)
	assert.Equal(t, "VALIDATION_FAILED", out.Code)
	assert.Contains(t, out.Details, "region")
	assert.Contains(t, out.Details, "period")
}

// ==========================
// GET /api/membership/tiers
// ==========================

func TestGetTiers_BuildsCatalogAndCaches(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := &database.RedisClient{Client: rdb}

	mock.ExpectGet("pricing:tiers:US").RedisNil()
	mock.Regexp().ExpectSet("pricing:tiers:US", `.+`, 10*time.Minute).SetVal("OK")

	app := newTestApp(t, cache)

	req := httptest.NewRequest("GET", "/api/membership/tiers?region=US", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out TiersOutput
	decodeBody(t, resp.Body, &out)
	assert.Equal(t, "US", out.Region)
	require.Len(t, out.Tiers, 5)

	assert.Equal(t, "free", out.Tiers[0].Tier)
	assert.Equal(t, float64(0), out.Tiers[0].Monthly.Amount)
	assert.Equal(t, "KRW", out.Tiers[0].Monthly.Currency)

	assert.Equal(t, "silver", out.Tiers[1].Tier)
	assert.Equal(t, 7.42, out.Tiers[1].Monthly.Amount)
	assert.Equal(t, "USD", out.Tiers[1].Monthly.Currency)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTiers_ServesFromCache(t *testing.T) {
	cached := TiersOutput{
		Region: "KR",
		Tiers:  []TierEntry{{Tier: "free"}},
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	rdb, mock := redismock.NewClientMock()
	cache := &database.RedisClient{Client: rdb}
	mock.ExpectGet("pricing:tiers:KR").SetVal(string(payload))

	app := newTestApp(t, cache)

	req := httptest.NewRequest("GET", "/api/membership/tiers", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out TiersOutput
	decodeBody(t, resp.Body, &out)
	assert.Equal(t, "KR", out.Region)
	require.Len(t, out.Tiers, 1)
	assert.Equal(t, "free", out.Tiers[0].Tier)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTiers_UnknownRegion(t *testing.T) {
	app := newTestApp(t, nil)

	req := httptest.NewRequest("GET", "/api/membership/tiers?region=XX", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out errors.ErrorResponse
	decodeBody(t, resp.Body, &out)
	assert.Equal(t, "INVALID_REGION", out.Code)
}
