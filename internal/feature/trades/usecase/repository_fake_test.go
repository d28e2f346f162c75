package usecase_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"portfolio_backend/internal/feature/trades/domain/entity"
	"portfolio_backend/internal/feature/trades/usecase"
)

// memoryTradeRepository はテスト用のインメモリTradeRepository実装です。
type memoryTradeRepository struct {
	mu     sync.Mutex
	nextID uint
	trades map[uint]entity.Trade
}

var _ usecase.TradeRepository = (*memoryTradeRepository)(nil)

func newMemoryTradeRepository() *memoryTradeRepository {
	return &memoryTradeRepository{nextID: 1, trades: map[uint]entity.Trade{}}
}

func (m *memoryTradeRepository) Create(ctx context.Context, t *entity.Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.nextID
	m.nextID++
	m.trades[t.ID] = *t
	return nil
}

func (m *memoryTradeRepository) FindByID(ctx context.Context, id uint) (*entity.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trades[id]
	if !ok {
		return nil, usecase.ErrTradeNotFound
	}
	return &t, nil
}

func (m *memoryTradeRepository) Update(ctx context.Context, t *entity.Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.trades[t.ID]
	if !ok {
		return usecase.ErrTradeNotFound
	}
	next := *t
	next.TradeDate = old.TradeDate
	m.trades[t.ID] = next
	return nil
}

func (m *memoryTradeRepository) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trades[id]; !ok {
		return usecase.ErrTradeNotFound
	}
	delete(m.trades, id)
	return nil
}

func (m *memoryTradeRepository) matching(f entity.TradeFilter) []entity.Trade {
	var out []entity.Trade
	for _, t := range m.trades {
		if f.Symbol != "" && !strings.EqualFold(t.Symbol, f.Symbol) {
			continue
		}
		if f.Side != "" && t.Side != f.Side {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *memoryTradeRepository) Find(ctx context.Context, f entity.TradeFilter, limit, offset int) ([]entity.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.matching(f)
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryTradeRepository) Count(ctx context.Context, f entity.TradeFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.matching(f))), nil
}

func (m *memoryTradeRepository) DistinctSymbols(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]struct{}{}
	var out []string
	for _, t := range m.trades {
		if _, ok := seen[t.Symbol]; !ok {
			seen[t.Symbol] = struct{}{}
			out = append(out, t.Symbol)
		}
	}
	sort.Strings(out)
	return out, nil
}

// mockTradeRepository は関数フィールドで振る舞いを差し替えられるモックです。
type mockTradeRepository struct {
	*memoryTradeRepository
	CreateFunc          func(ctx context.Context, t *entity.Trade) error
	UpdateFunc          func(ctx context.Context, t *entity.Trade) error
	FindFunc            func(ctx context.Context, f entity.TradeFilter, limit, offset int) ([]entity.Trade, error)
	CountFunc           func(ctx context.Context, f entity.TradeFilter) (int64, error)
	DistinctSymbolsFunc func(ctx context.Context) ([]string, error)
}

func newMockTradeRepository() *mockTradeRepository {
	return &mockTradeRepository{memoryTradeRepository: newMemoryTradeRepository()}
}

func (m *mockTradeRepository) Create(ctx context.Context, t *entity.Trade) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return m.memoryTradeRepository.Create(ctx, t)
}

func (m *mockTradeRepository) Update(ctx context.Context, t *entity.Trade) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	return m.memoryTradeRepository.Update(ctx, t)
}

func (m *mockTradeRepository) Find(ctx context.Context, f entity.TradeFilter, limit, offset int) ([]entity.Trade, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, f, limit, offset)
	}
	return m.memoryTradeRepository.Find(ctx, f, limit, offset)
}

func (m *mockTradeRepository) Count(ctx context.Context, f entity.TradeFilter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, f)
	}
	return m.memoryTradeRepository.Count(ctx, f)
}

func (m *mockTradeRepository) DistinctSymbols(ctx context.Context) ([]string, error) {
	if m.DistinctSymbolsFunc != nil {
		return m.DistinctSymbolsFunc(ctx)
	}
	return m.memoryTradeRepository.DistinctSymbols(ctx)
}
