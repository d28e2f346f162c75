package router_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"portfolio_backend/internal/app/di"
	"portfolio_backend/internal/app/router"
	platformdb "portfolio_backend/internal/platform/db"
	platformhandler "portfolio_backend/internal/platform/http/handler"
	"portfolio_backend/internal/platform/http/middleware"
	jwtmw "portfolio_backend/internal/platform/jwt"
	"portfolio_backend/internal/platform/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, platformdb.Migrate(db))
	return db
}

func newServer(t *testing.T, mutate func(*router.Options)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	opts := router.Options{
		Trades: di.NewTradeHandler(db, nil, 0),
		Health: platformhandler.NewHealthHandler(sqlDB),
		Logger: logger.New("error", "text", io.Discard),
	}
	if mutate != nil {
		mutate(&opts)
	}
	return router.NewRouter(opts)
}

func do(r http.Handler, method, url, body string, header ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type tradeJSON struct {
	ID         uint      `json:"id"`
	Symbol     string    `json:"symbol"`
	TradeType  string    `json:"trade_type"`
	Quantity   int64     `json:"quantity"`
	Price      string    `json:"price"`
	TotalValue string    `json:"total_value"`
	TradeDate  time.Time `json:"trade_date"`
	Notes      *string   `json:"notes"`
}

var sampleBodies = []string{
	`{"symbol":"AAPL","trade_type":"BUY","quantity":10,"price":150.50,"notes":"Initial Apple position"}`,
	`{"symbol":"GOOGL","trade_type":"BUY","quantity":5,"price":2800.00,"notes":"Google stock purchase"}`,
	`{"symbol":"AAPL","trade_type":"SELL","quantity":3,"price":160.00,"notes":"Partial profit taking"}`,
	`{"symbol":"MSFT","trade_type":"BUY","quantity":8,"price":300.00,"notes":"Microsoft position"}`,
}

// TestRouter_TradeLifecycle は実DB(sqlite)を使ってAPI全体の流れを確認します。
func TestRouter_TradeLifecycle(t *testing.T) {
	r := newServer(t, nil)

	created := make([]tradeJSON, 0, len(sampleBodies))
	for _, body := range sampleBodies {
		w := do(r, http.MethodPost, "/api/trades/", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var tr tradeJSON
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tr))
		created = append(created, tr)
	}
	assert.Equal(t, "1505.00", created[0].TotalValue)
	assert.Equal(t, "14000.00", created[1].TotalValue)

	t.Run("summary", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/trades/summary/", "")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `"total_trades":4`)
		assert.Contains(t, body, `"total_buy_value":17905.00`)
		assert.Contains(t, body, `"total_sell_value":480.00`)
		assert.Contains(t, body, `"net_value":17425.00`)
		assert.Contains(t, body, `"symbols":["AAPL","GOOGL","MSFT"]`)
		assert.Contains(t, body, `{"symbol":"AAPL","buy_quantity":10,"sell_quantity":3,"net_quantity":7,"total_buy_value":1505.00,"total_sell_value":480.00}`)
	})

	t.Run("filter by lower-case symbol", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/trades?symbol=aapl", "")
		require.Equal(t, http.StatusOK, w.Code)
		var page struct {
			Count   int64       `json:"count"`
			Results []tradeJSON `json:"results"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.EqualValues(t, 2, page.Count)
		require.Len(t, page.Results, 2)
		// 新しい順
		assert.Equal(t, created[2].ID, page.Results[0].ID)
		assert.Equal(t, created[0].ID, page.Results[1].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/trades/?page_size=3", "")
		require.Equal(t, http.StatusOK, w.Code)
		// c.JSONは&を\u0026にエスケープするため、デコードしてから比較する
		var page struct {
			Count    int64   `json:"count"`
			Next     *string `json:"next"`
			Previous *string `json:"previous"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.EqualValues(t, 4, page.Count)
		require.NotNil(t, page.Next)
		assert.Equal(t, "http://example.com/api/trades/?page=2&page_size=3", *page.Next)
		assert.Nil(t, page.Previous)

		w = do(r, http.MethodGet, "/api/trades/?page_size=3&page=2", "")
		require.Equal(t, http.StatusOK, w.Code)
		page.Next, page.Previous = nil, nil
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Nil(t, page.Next)
		require.NotNil(t, page.Previous)
		assert.Equal(t, "http://example.com/api/trades/?page_size=3", *page.Previous)

		w = do(r, http.MethodGet, "/api/trades/?page_size=3&page=3", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"invalid page"}`, w.Body.String())
	})

	t.Run("patch recomputes total", func(t *testing.T) {
		w := do(r, http.MethodPatch, "/api/trades/1/", `{"quantity":20}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var tr tradeJSON
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tr))
		assert.Equal(t, "3010.00", tr.TotalValue)
		assert.Equal(t, "150.50", tr.Price)
		assert.True(t, created[0].TradeDate.Equal(tr.TradeDate))

		// 元に戻す
		w = do(r, http.MethodPatch, "/api/trades/1", `{"quantity":10}`)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("validation", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/trades/", `{"symbol":"AAPL","trade_type":"HOLD","quantity":0,"price":"-1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp struct {
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Fields, "trade_type")
		assert.Contains(t, resp.Fields, "quantity")
		assert.Contains(t, resp.Fields, "price")
	})

	t.Run("delete is strict", func(t *testing.T) {
		w := do(r, http.MethodDelete, "/api/trades/4/", "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = do(r, http.MethodDelete, "/api/trades/4/", "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = do(r, http.MethodGet, "/api/trades/4/", "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = do(r, http.MethodGet, "/api/trades/symbols/", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"symbols":["AAPL","GOOGL"]}`, w.Body.String())
	})
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	r := newServer(t, nil)

	w := do(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok"}`, w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

	w = do(r, http.MethodHead, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	r := newServer(t, func(o *router.Options) {
		o.Metrics = middleware.NewMetrics("portfolio_test")
	})

	do(r, http.MethodGet, "/api/trades/", "")
	w := do(r, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `portfolio_test_http_requests_total{method="GET",route="/api/trades/",status="200"} 1`)
}

func TestRouter_JWT(t *testing.T) {
	t.Parallel()

	const secret = "router-test-secret"
	r := newServer(t, func(o *router.Options) {
		o.JWTSecret = secret
	})

	w := do(r, http.MethodGet, "/api/trades/", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := jwtmw.NewGenerator(secret, time.Hour).GenerateToken("router-test")
	require.NoError(t, err)
	w = do(r, http.MethodGet, "/api/trades/", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	// ヘルスチェックは認証不要
	w = do(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	r := newServer(t, func(o *router.Options) {
		o.RateLimiter = middleware.NewRateLimiter(0.001, 1)
	})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/trades/", "").Code)
	w := do(r, http.MethodGet, "/api/trades/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// /api以外は制限しない
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/healthz", "").Code)
}

func TestRouter_CORS(t *testing.T) {
	t.Parallel()

	r := newServer(t, func(o *router.Options) {
		o.CORSEnabled = true
		o.CORSOrigins = []string{"https://app.example"}
	})

	w := do(r, http.MethodOptions, "/api/trades/", "",
		"Origin", "https://app.example",
		"Access-Control-Request-Method", http.MethodPost)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
}
