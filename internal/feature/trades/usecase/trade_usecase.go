package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/trades/domain/entity"
)

const (
	// DefaultPageSize is the number of trades per listing page when none is requested.
	DefaultPageSize = 20
	// MaxPageSize caps the page size a client may request.
	MaxPageSize = 100
)

// TradeRepository abstracts the persistence layer for trades.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type TradeRepository interface {
	// Create persists t and sets its generated ID.
	Create(ctx context.Context, t *entity.Trade) error

	// FindByID returns the trade with the given ID, or ErrTradeNotFound.
	FindByID(ctx context.Context, id uint) (*entity.Trade, error)

	// Update overwrites the writable columns of an existing trade, or returns ErrTradeNotFound.
	// ID and TradeDate are never changed.
	Update(ctx context.Context, t *entity.Trade) error

	// Delete removes the trade with the given ID, or returns ErrTradeNotFound.
	Delete(ctx context.Context, id uint) error

	// Find returns trades matching f, newest first. A limit of 0 returns every match.
	Find(ctx context.Context, f entity.TradeFilter, limit, offset int) ([]entity.Trade, error)

	// Count returns the number of trades matching f.
	Count(ctx context.Context, f entity.TradeFilter) (int64, error)

	// DistinctSymbols returns every recorded symbol in ascending order.
	DistinctSymbols(ctx context.Context) ([]string, error)
}

// TradeInput carries caller-supplied trade fields. Nil fields were not supplied.
type TradeInput struct {
	Symbol   *string
	Side     *string
	Quantity *int64
	Price    *decimal.Decimal
	Notes    *string

	// ReadOnly names server-controlled fields (id, trade_date, total_value) present in the request.
	ReadOnly []string
}

// TradeUsecase validates, normalizes and persists trades, and summarizes them.
type TradeUsecase struct {
	repo TradeRepository
	now  func() time.Time
}

// NewTradeUsecase creates a TradeUsecase backed by repo.
func NewTradeUsecase(repo TradeRepository) *TradeUsecase {
	return &TradeUsecase{repo: repo, now: time.Now}
}

// WithClock replaces the clock used to stamp new trades.
func (u *TradeUsecase) WithClock(now func() time.Time) *TradeUsecase {
	u.now = now
	return u
}

// Create validates in, computes the total and trade date, and stores a new trade.
func (u *TradeUsecase) Create(ctx context.Context, in TradeInput) (*entity.Trade, error) {
	t := &entity.Trade{}
	if err := applyInput(t, in, false); err != nil {
		return nil, err
	}
	// Stored timestamps keep microsecond precision so reads match what was returned here.
	t.TradeDate = u.now().UTC().Truncate(time.Microsecond)

	if err := u.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns a single trade.
func (u *TradeUsecase) Get(ctx context.Context, id uint) (*entity.Trade, error) {
	return u.repo.FindByID(ctx, id)
}

// Update applies in to an existing trade. With partial false (full replacement)
// symbol, side, quantity and price are required. TotalValue is recomputed from the
// merged quantity and price; ID and TradeDate never change.
func (u *TradeUsecase) Update(ctx context.Context, id uint, in TradeInput, partial bool) (*entity.Trade, error) {
	t, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyInput(t, in, partial); err != nil {
		return nil, err
	}
	if err := u.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a trade. Deleting an unknown or already deleted trade returns ErrTradeNotFound.
func (u *TradeUsecase) Delete(ctx context.Context, id uint) error {
	return u.repo.Delete(ctx, id)
}

// List returns one page of trades matching f.
func (u *TradeUsecase) List(ctx context.Context, f entity.TradeFilter, page entity.Page) (*entity.TradePage, error) {
	f, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	if page.Number < 1 {
		page.Number = 1
	}
	if page.Size <= 0 {
		page.Size = DefaultPageSize
	}
	if page.Size > MaxPageSize {
		page.Size = MaxPageSize
	}

	total, err := u.repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	// The first page always exists, even when empty.
	if page.Number > 1 && int64(page.Offset()) >= total {
		return nil, ErrInvalidPage
	}

	trades, err := u.repo.Find(ctx, f, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	return &entity.TradePage{Trades: trades, Total: total, Page: page}, nil
}

// Summary aggregates every trade matching f.
func (u *TradeUsecase) Summary(ctx context.Context, f entity.TradeFilter) (entity.Summary, error) {
	f, err := normalizeFilter(f)
	if err != nil {
		return entity.Summary{}, err
	}
	trades, err := u.repo.Find(ctx, f, 0, 0)
	if err != nil {
		return entity.Summary{}, err
	}
	return Summarize(trades), nil
}

// DistinctSymbols returns every symbol ever recorded, sorted.
func (u *TradeUsecase) DistinctSymbols(ctx context.Context) ([]string, error) {
	symbols, err := u.repo.DistinctSymbols(ctx)
	if err != nil {
		return nil, err
	}
	if symbols == nil {
		symbols = []string{}
	}
	return symbols, nil
}
