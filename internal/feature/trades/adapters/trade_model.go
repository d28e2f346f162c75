package adapters

import (
	"time"

	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/trades/domain/entity"
)

// TradeModel is the GORM model for the trades table.
// Column widths and checks match the limits enforced in the usecase layer.
type TradeModel struct {
	ID         uint            `gorm:"primaryKey"`
	Symbol     string          `gorm:"size:10;not null;index"`
	TradeType  string          `gorm:"size:4;not null;check:chk_trades_trade_type,trade_type IN ('BUY','SELL')"`
	Quantity   int64           `gorm:"not null;check:chk_trades_quantity,quantity >= 1"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_trades_price,price > 0"`
	TotalValue decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TradeDate  time.Time       `gorm:"not null;index"`
	Notes      *string         `gorm:"type:text"`
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM.
func (TradeModel) TableName() string {
	return "trades"
}

// ToEntity converts the GORM model to a domain entity.
func (m *TradeModel) ToEntity() entity.Trade {
	return entity.Trade{
		ID:         m.ID,
		Symbol:     m.Symbol,
		Side:       entity.Side(m.TradeType),
		Quantity:   m.Quantity,
		Price:      m.Price,
		TotalValue: m.TotalValue,
		TradeDate:  m.TradeDate.UTC(),
		Notes:      m.Notes,
	}
}

// TradeModelFromEntity converts a domain entity to a GORM model.
func TradeModelFromEntity(t *entity.Trade) *TradeModel {
	return &TradeModel{
		ID:         t.ID,
		Symbol:     t.Symbol,
		TradeType:  string(t.Side),
		Quantity:   t.Quantity,
		Price:      t.Price,
		TotalValue: t.TotalValue,
		TradeDate:  t.TradeDate.UTC(),
		Notes:      t.Notes,
	}
}
