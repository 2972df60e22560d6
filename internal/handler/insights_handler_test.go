package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"linkboard/internal/guard"
	"linkboard/internal/handler"
	"linkboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

func setupClickRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)
	gormDB, mock := setupMockDB(t)

	h := handler.NewInsightsHandler(
		repository.NewEventRepository(gormDB),
		repository.NewBoardRepository(gormDB),
		guard.NewClickGuard(guard.DefaultClickWindow),
	)

	r := gin.New()
	r.POST("/api/click/:card_id", h.RecordClick)
	return r, mock
}

func postClick(r *gin.Engine, cardID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/click/"+cardID, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecordClick_UnknownBoard(t *testing.T) {
	r, mock := setupClickRouter(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "boards" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	w := postClick(r, "github", `{"boardId":"missing"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Board not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordClick_CardNotOnBoard(t *testing.T) {
	r, mock := setupClickRouter(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "boards" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards" WHERE board_id = .* AND id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	w := postClick(r, "rogue", `{"boardId":"default"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "card does not belong to board: rogue")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordClick_AcceptsThenThrottlesRepeat(t *testing.T) {
	r, mock := setupClickRouter(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "boards" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards" WHERE board_id = .* AND id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "click_events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	// Second request passes the board and card checks but is stopped by the
	// guard before any insert happens.
	mock.ExpectQuery(`SELECT count\(\*\) FROM "boards" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards" WHERE board_id = .* AND id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	first := postClick(r, "github", `{"boardId":"default"}`)
	second := postClick(r, "github", `{"boardId":"default"}`)

	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "Too many click events. Try again shortly.")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordClick_DistinctCardsNotThrottled(t *testing.T) {
	r, mock := setupClickRouter(t)

	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`SELECT count\(\*\) FROM "boards" WHERE id = .*`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "cards" WHERE board_id = .* AND id = .*`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "click_events"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectCommit()
	}

	first := postClick(r, "github", `{"boardId":"default"}`)
	second := postClick(r, "linkedin", `{"boardId":"default"}`)

	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, http.StatusNoContent, second.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordClick_InsertFailureDoesNotThrottleRetry(t *testing.T) {
	r, mock := setupClickRouter(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "boards" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards" WHERE board_id = .* AND id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "click_events"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	// The failed request left no click behind, so the immediate retry must be
	// accepted instead of hitting the suppression window.
	mock.ExpectQuery(`SELECT count\(\*\) FROM "boards" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "cards" WHERE board_id = .* AND id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "click_events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	first := postClick(r, "github", `{"boardId":"default"}`)
	second := postClick(r, "github", `{"boardId":"default"}`)

	assert.Equal(t, http.StatusInternalServerError, first.Code)
	assert.Equal(t, http.StatusNoContent, second.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNormalizeSource(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"", "direct"},
		{"   ", "direct"},
		{"Instagram", "instagram"},
		{" QR-Code ", "qr-code"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, handler.NormalizeSource(tt.source))
	}
}

func TestResolveDeviceType(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		{"blank", "", "unknown"},
		{"ipad", "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)", "tablet"},
		{"android tablet carries mobile marker", "Mozilla/5.0 (Linux; Android 13; Tablet) Mobile Safari", "tablet"},
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X)", "mobile"},
		{"android phone", "Mozilla/5.0 (Linux; Android 13; Pixel 7)", "mobile"},
		{"desktop", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0", "desktop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, handler.ResolveDeviceType(tt.userAgent))
		})
	}
}
