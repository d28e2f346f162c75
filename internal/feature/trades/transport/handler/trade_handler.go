// Package handler はtradesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio_backend/internal/api"
	"portfolio_backend/internal/feature/trades/domain/entity"
	"portfolio_backend/internal/feature/trades/transport/http/dto"
	"portfolio_backend/internal/feature/trades/usecase"
)

// maxBodyBytes はリクエストボディの上限サイズです。
const maxBodyBytes = 1 << 20

// TradeUsecase は取引操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type TradeUsecase interface {
	Create(ctx context.Context, in usecase.TradeInput) (*entity.Trade, error)
	Get(ctx context.Context, id uint) (*entity.Trade, error)
	Update(ctx context.Context, id uint, in usecase.TradeInput, partial bool) (*entity.Trade, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, f entity.TradeFilter, page entity.Page) (*entity.TradePage, error)
	Summary(ctx context.Context, f entity.TradeFilter) (entity.Summary, error)
	DistinctSymbols(ctx context.Context) ([]string, error)
}

// TradeHandler は取引APIのHTTPリクエストを処理します。
type TradeHandler struct {
	uc TradeUsecase
}

// NewTradeHandler はTradeHandlerの新しいインスタンスを生成します。
func NewTradeHandler(uc TradeUsecase) *TradeHandler {
	return &TradeHandler{uc: uc}
}

// Register は取引APIのルートをrgに登録します。末尾スラッシュの有無どちらでも受け付けます。
func (h *TradeHandler) Register(rg *gin.RouterGroup) {
	both := func(method, path string, fn gin.HandlerFunc) {
		rg.Handle(method, path, fn)
		rg.Handle(method, path+"/", fn)
	}
	both(http.MethodGet, "/trades", h.List)
	both(http.MethodPost, "/trades", h.Create)
	both(http.MethodGet, "/trades/summary", h.Summary)
	both(http.MethodGet, "/trades/symbols", h.Symbols)
	both(http.MethodGet, "/trades/:id", h.Get)
	both(http.MethodPut, "/trades/:id", h.Replace)
	both(http.MethodPatch, "/trades/:id", h.Patch)
	both(http.MethodDelete, "/trades/:id", h.Delete)
}

// List は取引一覧をページ単位で返します。
//
// エンドポイント例:
// GET /api/trades/?symbol=AAPL&trade_type=BUY&start_date=2024-01-01&page=2
func (h *TradeHandler) List(c *gin.Context) {
	params, err := bindListParams(c.Request.URL.Query())
	if err != nil {
		h.fail(c, err)
		return
	}

	page, err := h.uc.List(c.Request.Context(), params.filter(), params.page())
	if err != nil {
		h.fail(c, err)
		return
	}

	out := dto.TradeListResponse{
		Count:   page.Total,
		Results: make([]dto.TradeListItem, 0, len(page.Trades)),
	}
	for i := range page.Trades {
		out.Results = append(out.Results, dto.NewTradeListItem(&page.Trades[i]))
	}
	if page.HasNext() {
		out.Next = pageURL(c, page.Page.Number+1)
	}
	if page.HasPrevious() {
		out.Previous = pageURL(c, page.Page.Number-1)
	}
	c.JSON(http.StatusOK, out)
}

// Create は取引を登録し、201と登録内容を返します。
func (h *TradeHandler) Create(c *gin.Context) {
	in, ok := h.bindInput(c)
	if !ok {
		return
	}
	t, err := h.uc.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	slog.Info("trade created", "id", t.ID, "trade", t.String(), "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewTradeResponse(t))
}

// Get は取引を1件返します。
func (h *TradeHandler) Get(c *gin.Context) {
	id, ok := h.tradeID(c)
	if !ok {
		return
	}
	t, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTradeResponse(t))
}

// Replace はPUTで取引全体を置き換えます。
func (h *TradeHandler) Replace(c *gin.Context) {
	h.update(c, false)
}

// Patch はPATCHで指定されたフィールドのみ更新します。
func (h *TradeHandler) Patch(c *gin.Context) {
	h.update(c, true)
}

func (h *TradeHandler) update(c *gin.Context, partial bool) {
	id, ok := h.tradeID(c)
	if !ok {
		return
	}
	in, ok := h.bindInput(c)
	if !ok {
		return
	}
	t, err := h.uc.Update(c.Request.Context(), id, in, partial)
	if err != nil {
		h.fail(c, err)
		return
	}
	slog.Info("trade updated", "id", t.ID, "partial", partial, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.NewTradeResponse(t))
}

// Delete は取引を削除し、204を返します。
func (h *TradeHandler) Delete(c *gin.Context) {
	id, ok := h.tradeID(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	slog.Info("trade deleted", "id", id, "remote_addr", c.ClientIP())
	c.Status(http.StatusNoContent)
}

// Summary はフィルタに一致する取引の集計を返します。
func (h *TradeHandler) Summary(c *gin.Context) {
	params, err := bindListParams(c.Request.URL.Query())
	if err != nil {
		h.fail(c, err)
		return
	}
	s, err := h.uc.Summary(c.Request.Context(), params.filter())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSummaryResponse(s))
}

// Symbols は登録済みの銘柄コード一覧を返します。
func (h *TradeHandler) Symbols(c *gin.Context) {
	symbols, err := h.uc.DistinctSymbols(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SymbolsResponse{Symbols: symbols})
}

// tradeID はパスパラメータ:idを解析します。正の整数以外は404を返します。
func (h *TradeHandler) tradeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: usecase.ErrTradeNotFound.Error()})
		return 0, false
	}
	return uint(id), true
}

// bindInput はJSONボディをユースケースの入力に変換します。失敗時は400を書き込みます。
func (h *TradeHandler) bindInput(c *gin.Context) (usecase.TradeInput, bool) {
	var req dto.TradeRequest
	dec := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		slog.Warn("trade request rejected", "error", err, "remote_addr", c.ClientIP())
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{
				Error:  "validation failed",
				Fields: map[string]string{typeErr.Field: typeMessage(typeErr.Field)},
			})
		case errors.Is(err, io.EOF):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "request body is required"})
		default:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "malformed JSON"})
		}
		return usecase.TradeInput{}, false
	}

	in, err := req.ToInput()
	if err != nil {
		h.fail(c, err)
		return usecase.TradeInput{}, false
	}
	return in, true
}

func typeMessage(field string) string {
	switch field {
	case "quantity":
		return "A valid integer is required."
	default:
		return "Not a valid string."
	}
}

// fail はユースケースのエラーをHTTPレスポンスに変換します。
// 想定外のエラーはログにのみ出力し、クライアントには詳細を返しません。
func (h *TradeHandler) fail(c *gin.Context, err error) {
	var vErr *usecase.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{Error: "validation failed", Fields: vErr.Fields})
	case errors.Is(err, usecase.ErrTradeNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: usecase.ErrTradeNotFound.Error()})
	case errors.Is(err, usecase.ErrInvalidPage):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: usecase.ErrInvalidPage.Error()})
	default:
		slog.Error("trade request failed", "error", err, "method", c.Request.Method, "path", c.Request.URL.Path)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}

// pageURL は現在のリクエストのpageをnに置き換えた絶対URLを返します。
// 1ページ目はpageパラメータを付けません。
func pageURL(c *gin.Context, n int) *string {
	u := url.URL{
		Scheme: "http",
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	if c.Request.TLS != nil {
		u.Scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		u.Scheme = proto
	}

	q := c.Request.URL.Query()
	if n <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(n))
	}
	u.RawQuery = q.Encode()

	s := u.String()
	return &s
}
