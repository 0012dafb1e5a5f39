package reviews

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
	"zzik-backend/internal/models"
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
	service := NewService(LoadConfig(), &database.PostgresClient{DB: sqlDB}, log)
	service.now = func() time.Time {
		return time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	}

	errorHandler := errors.NewErrorHandler(log)
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler.Handle})

	handler := NewHandler(service, log)
	handler.RegisterRoutes(app.Group("/api"), auth.Middleware(&stubVerifier{}))

	return app, mock
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) ([]byte, int) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
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

func expectExperienceExists(m sqlmock.Sqlmock, exists bool) {
	m.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM experiences`).
		WithArgs("exp-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func expectNoExistingReview(m sqlmock.Sqlmock, duplicate bool) {
	m.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM reviews`).
		WithArgs("user-1", "exp-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(duplicate))
}

// ==========================
// POST /api/experiences/:id/reviews
// ==========================

func TestCreateReview_Succeeds(t *testing.T) {
	app, mock := newTestApp(t)

	expectExperienceExists(mock, true)
	expectNoExistingReview(mock, false)
	mock.ExpectExec(`INSERT INTO reviews`).
		WithArgs(sqlmock.AnyArg(), "user-1", "exp-1", 5, "Amazing popup, queue moved fast.", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body, status := doJSON(t, app, "POST", "/api/experiences/exp-1/reviews", "valid-token",
		CreateInput{Rating: 5, Body: "Amazing popup, queue moved fast."})
	require.Equal(t, fiber.StatusCreated, status)

	var out models.Review
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, 5, out.Rating)
	assert.Equal(t, "exp-1", out.ExperienceID)
	assert.NotEmpty(t, out.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReview_RejectsOutOfRangeRating(t *testing.T) {
	tests := []struct {
		name   string
		rating int
	}{
		{name: "zero", rating: 0},
		{name: "too high", rating: 6},
		{name: "negative", rating: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)

			body, status := doJSON(t, app, "POST", "/api/experiences/exp-1/reviews", "valid-token",
				CreateInput{Rating: tt.rating, Body: "x"})
			require.Equal(t, fiber.StatusBadRequest, status)

			var out errors.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &out))
			assert.Equal(t, "REVIEW_INVALID_RATING", out.Code)
		})
	}
}

func TestCreateReview_RejectsDuplicate(t *testing.T) {
	app, mock := newTestApp(t)

	expectExperienceExists(mock, true)
	expectNoExistingReview(mock, true)

	body, status := doJSON(t, app, "POST", "/api/experiences/exp-1/reviews", "valid-token",
		CreateInput{Rating: 4, Body: "second attempt"})
	require.Equal(t, fiber.StatusConflict, status)

	var out errors.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "REVIEW_DUPLICATE", out.Code)
}

func TestCreateReview_RejectsUnknownExperience(t *testing.T) {
	app, mock := newTestApp(t)

	expectExperienceExists(mock, false)

	body, status := doJSON(t, app, "POST", "/api/experiences/exp-1/reviews", "valid-token",
		CreateInput{Rating: 4})
	require.Equal(t, fiber.StatusNotFound, status)

	var out errors.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "EXPERIENCE_NOT_FOUND", out.Code)
}

func TestCreateReview_RequiresAuth(t *testing.T) {
	app, _ := newTestApp(t)

	_, status := doJSON(t, app, "POST", "/api/experiences/exp-1/reviews", "", CreateInput{Rating: 4})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

// ==========================
// GET /api/experiences/:id/reviews
// ==========================

func TestListReviews_ReturnsPageWithAverage(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\), AVG\(rating\) FROM reviews`).
		WithArgs("exp-1").
		WillReturnRows(sqlmock.NewRows([]string{"count", "avg"}).AddRow(2, 4.5))
	mock.ExpectQuery(`SELECT id, user_id, experience_id, rating, body`).
		WithArgs("exp-1", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "experience_id", "rating", "body", "created_at"}).
			AddRow("r-2", "user-2", "exp-1", 5, "Loved it", "2026-08-25T10:00:00Z").
			AddRow("r-1", "user-1", "exp-1", 4, "Solid", "2026-08-24T10:00:00Z"))

	body, status := doJSON(t, app, "GET", "/api/experiences/exp-1/reviews", "", nil)
	require.Equal(t, fiber.StatusOK, status)

	var out ListOutput
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, int64(2), out.Total)
	assert.Equal(t, 4.5, out.AverageRating)
	require.Len(t, out.Reviews, 2)
	assert.Equal(t, "r-2", out.Reviews[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReviews_EmptyExperience(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\), AVG\(rating\) FROM reviews`).
		WithArgs("exp-1").
		WillReturnRows(sqlmock.NewRows([]string{"count", "avg"}).AddRow(0, nil))
	mock.ExpectQuery(`SELECT id, user_id, experience_id, rating, body`).
		WithArgs("exp-1", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "experience_id", "rating", "body", "created_at"}))

	body, status := doJSON(t, app, "GET", "/api/experiences/exp-1/reviews", "", nil)
	require.Equal(t, fiber.StatusOK, status)

	var out ListOutput
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, int64(0), out.Total)
	assert.Equal(t, float64(0), out.AverageRating)
	assert.Empty(t, out.Reviews)
}
