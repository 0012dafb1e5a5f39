package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zzik-backend/internal/common/auth"
	"zzik-backend/internal/common/database"
	"zzik-backend/internal/common/errors"
	"zzik-backend/internal/common/logger"
)

// ==========================
// Test Setup
// ==========================

type stubVerifier struct{}

func (s *stubVerifier) VerifyToken(_ context.Context, token string) (*auth.AuthUser, error) {
	if token == "valid-token" {
		return &auth.AuthUser{ID: "user-1"}, nil
	}
	return nil, errors.NewUnauthorizedError("bad token")
}

func newTestApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	log := logger.NewTestLogger(t)
	service := NewService(&database.PostgresClient{DB: sqlDB}, log)
	service.now = func() time.Time {
		return time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	}

	errorHandler := errors.NewErrorHandler(log)
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler.Handle})

	handler := NewHandler(service, log)
	handler.RegisterRoutes(app.Group("/api"), auth.Middleware(&stubVerifier{}))

	return app, mock
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) ([]byte, int) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer valid-token")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return raw, resp.StatusCode
}

func expectBalance(m sqlmock.Sqlmock, balance int64) {
	m.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM wallet_entries`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(balance))
}

// ==========================
// GET /api/wallet
// ==========================

func TestBalance_SumsLedger(t *testing.T) {
	app, mock := newTestApp(t)

	expectBalance(mock, 45)
	mock.ExpectQuery(`SELECT id, user_id, kind, amount`).
		WithArgs("user-1", 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "kind", "amount", "ref_id", "created_at"}).
			AddRow("we-2", "user-1", "spend", -5, "", "2026-08-25T10:00:00Z").
			AddRow("we-1", "user-1", "earn", 50, "ci-1", "2026-08-24T10:00:00Z"))

	body, status := doJSON(t, app, "GET", "/api/wallet/", nil)
	require.Equal(t, fiber.StatusOK, status)

	var out BalanceOutput
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, int64(45), out.Balance)
	require.Len(t, out.Entries, 2)
	assert.Equal(t, "spend", out.Entries[0].Kind)
	assert.Equal(t, int64(-5), out.Entries[0].Amount)
	assert.Equal(t, "ci-1", out.Entries[1].Reference)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalance_EmptyLedgerIsZero(t *testing.T) {
	app, mock := newTestApp(t)

	expectBalance(mock, 0)
	mock.ExpectQuery(`SELECT id, user_id, kind, amount`).
		WithArgs("user-1", 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "kind", "amount", "ref_id", "created_at"}))

	body, status := doJSON(t, app, "GET", "/api/wallet/", nil)
	require.Equal(t, fiber.StatusOK, status)

	var out BalanceOutput
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, int64(0), out.Balance)
	assert.Empty(t, out.Entries)
}

// ==========================
// POST /api/wallet/earn
// ==========================

func TestEarn_AppendsEntry(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectExec(`INSERT INTO wallet_entries`).
		WithArgs(sqlmock.AnyArg(), "user-1", "earn", int64(30), "promo-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	expectBalance(mock, 30)

	body, status := doJSON(t, app, "POST", "/api/wallet/earn", EarnInput{Amount: 30, Reference: "promo-1"})
	require.Equal(t, fiber.StatusCreated, status)

	var out EntryOutput
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, int64(30), out.Entry.Amount)
	assert.Equal(t, "earn", out.Entry.Kind)
	assert.Equal(t, int64(30), out.Balance)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEarn_RejectsNonPositiveAmount(t *testing.T) {
	app, _ := newTestApp(t)

	body, status := doJSON(t, app, "POST", "/api/wallet/earn", EarnInput{Amount: 0})
	require.Equal(t, fiber.StatusBadRequest, status)

	var out errors.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "VALIDATION_FAILED", out.Code)
}

// ==========================
// POST /api/wallet/spend
// ==========================

func TestSpend_DebitsWithinBalance(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectBegin()
	expectBalance(mock, 100)
	mock.ExpectExec(`INSERT INTO wallet_entries`).
		WithArgs(sqlmock.AnyArg(), "user-1", "spend", int64(-40), nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body, status := doJSON(t, app, "POST", "/api/wallet/spend", SpendInput{Amount: 40})
	require.Equal(t, fiber.StatusCreated, status)

	var out EntryOutput
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, int64(-40), out.Entry.Amount)
	assert.Equal(t, int64(60), out.Balance)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpend_RejectsInsufficientBalance(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectBegin()
	expectBalance(mock, 10)
	mock.ExpectRollback()

	body, status := doJSON(t, app, "POST", "/api/wallet/spend", SpendInput{Amount: 40})
	require.Equal(t, fiber.StatusUnprocessableEntity, status)

	var out errors.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "WALLET_INSUFFICIENT_BALANCE", out.Code)
	assert.Contains(t, out.Details, "balance: 10")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWallet_RequiresAuth(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/wallet/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
