// Package adapters はtradesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"portfolio_backend/internal/feature/trades/domain/entity"
	"portfolio_backend/internal/feature/trades/usecase"
)

// バリデーションエラーとして扱うPostgreSQLのSQLSTATEコードです。
const (
	pgCheckViolation  = "23514"
	pgNumericOverflow = "22003"
)

// constraintFields はCHECK制約名から対応するリクエストフィールド名への対応表です。
var constraintFields = map[string]string{
	"chk_trades_trade_type": "trade_type",
	"chk_trades_quantity":   "quantity",
	"chk_trades_price":      "price",
}

// tradePostgres はTradeRepositoryインターフェースのGORM実装です。
// 本番はPostgreSQL、テストとローカル開発はSQLiteで動作します。
type tradePostgres struct {
	db *gorm.DB
}

// tradePostgresがTradeRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.TradeRepository = (*tradePostgres)(nil)

// NewTradeRepository は指定されたDB接続でtradePostgresの新しいインスタンスを生成します。
func NewTradeRepository(db *gorm.DB) *tradePostgres {
	return &tradePostgres{db: db}
}

// Create は取引を追加し、採番されたIDをtに設定します。
func (r *tradePostgres) Create(ctx context.Context, t *entity.Trade) error {
	m := TradeModelFromEntity(t)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	t.ID = m.ID
	return nil
}

// FindByID はIDで取引を取得します。
// 存在しない場合、usecase.ErrTradeNotFoundを返します。
func (r *tradePostgres) FindByID(ctx context.Context, id uint) (*entity.Trade, error) {
	var m TradeModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrTradeNotFound
		}
		return nil, err
	}
	t := m.ToEntity()
	return &t, nil
}

// Update は書き込み可能なカラムのみを更新します。trade_dateは変更しません。
func (r *tradePostgres) Update(ctx context.Context, t *entity.Trade) error {
	res := r.db.WithContext(ctx).
		Model(&TradeModel{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"symbol":      t.Symbol,
			"trade_type":  string(t.Side),
			"quantity":    t.Quantity,
			"price":       t.Price,
			"total_value": t.TotalValue,
			"notes":       t.Notes,
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return usecase.ErrTradeNotFound
	}
	return nil
}

// Delete は取引を削除します。対象が無ければusecase.ErrTradeNotFoundを返します。
func (r *tradePostgres) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&TradeModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrTradeNotFound
	}
	return nil
}

// Find はフィルタに一致する取引を新しい順に返します。limitが0なら全件です。
func (r *tradePostgres) Find(ctx context.Context, f entity.TradeFilter, limit, offset int) ([]entity.Trade, error) {
	q := r.db.WithContext(ctx).
		Scopes(filterScope(f)).
		Order("trade_date DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var rows []TradeModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Trade, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToEntity())
	}
	return out, nil
}

// Count はフィルタに一致する取引の件数を返します。
func (r *tradePostgres) Count(ctx context.Context, f entity.TradeFilter) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&TradeModel{}).
		Scopes(filterScope(f)).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// DistinctSymbols は登録済みの銘柄コードを昇順で返します。
func (r *tradePostgres) DistinctSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	if err := r.db.WithContext(ctx).
		Model(&TradeModel{}).
		Distinct().
		Order("symbol ASC").
		Pluck("symbol", &symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// filterScope はfのうち値が設定されている条件のみを適用します。
// 日付はUTCの日単位で、[開始日 00:00, 終了日の翌日 00:00) の範囲です。
func filterScope(f entity.TradeFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Symbol != "" {
			db = db.Where("UPPER(symbol) = ?", strings.ToUpper(f.Symbol))
		}
		if f.Side != "" {
			db = db.Where("trade_type = ?", string(f.Side))
		}
		if f.StartDate != nil {
			db = db.Where("trade_date >= ?", startOfDay(*f.StartDate))
		}
		if f.EndDate != nil {
			db = db.Where("trade_date < ?", startOfDay(*f.EndDate).AddDate(0, 0, 1))
		}
		if f.Search != "" {
			pattern := "%" + escapeLike(strings.ToUpper(f.Search)) + "%"
			db = db.Where(
				"(UPPER(symbol) LIKE ? ESCAPE '!' OR UPPER(COALESCE(notes, '')) LIKE ? ESCAPE '!')",
				pattern, pattern,
			)
		}
		return db
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// translateError はPostgreSQLが報告した制約違反をバリデーションエラーに変換します。
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgCheckViolation:
		field, ok := constraintFields[pgErr.ConstraintName]
		if !ok {
			field = "non_field_errors"
		}
		return usecase.NewValidationError(field, pgErr.Message)
	case pgNumericOverflow:
		return usecase.NewValidationError("non_field_errors", pgErr.Message)
	}
	return err
}
