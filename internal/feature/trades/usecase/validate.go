package usecase

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/trades/domain/entity"
)

const (
	// MaxSymbolLength is the longest accepted ticker.
	MaxSymbolLength = 10
	// MaxQuantity is the largest share count a single trade may record.
	MaxQuantity = math.MaxInt32
	// PriceDecimalPlaces is the number of fractional digits kept for prices.
	PriceDecimalPlaces = 2
	// maxPriceIntegerDigits and maxTotalIntegerDigits mirror numeric(10,2) and numeric(12,2).
	maxPriceIntegerDigits = 8
	maxTotalIntegerDigits = 10
)

const (
	msgRequired = "This field is required."
	msgReadOnly = "This field is read-only and set by the server."
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-]+$`)

// normalizeSymbol trims and uppercases s. The message is empty when the result is a plausible ticker.
func normalizeSymbol(s string) (sym, msg string) {
	sym = strings.ToUpper(strings.TrimSpace(s))
	switch {
	case sym == "":
		return sym, "This field may not be blank."
	case len(sym) > MaxSymbolLength:
		return sym, fmt.Sprintf("Ensure this field has no more than %d characters.", MaxSymbolLength)
	case !symbolPattern.MatchString(sym):
		return sym, "Symbol may only contain letters, digits, '.' and '-'."
	}
	return sym, ""
}

func checkQuantity(q int64) string {
	if q < 1 {
		return "Quantity must be greater than zero."
	}
	if q > MaxQuantity {
		return fmt.Sprintf("Ensure this value is less than or equal to %d.", MaxQuantity)
	}
	return ""
}

func checkPrice(p decimal.Decimal) string {
	if !p.IsPositive() {
		return "Price must be greater than zero."
	}
	if !p.Equal(p.Truncate(PriceDecimalPlaces)) {
		return fmt.Sprintf("Ensure that there are no more than %d decimal places.", PriceDecimalPlaces)
	}
	if integerDigits(p) > maxPriceIntegerDigits {
		return fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", maxPriceIntegerDigits)
	}
	return ""
}

// integerDigits counts the digits left of the decimal point of a non-negative d.
func integerDigits(d decimal.Decimal) int {
	return len(d.Truncate(0).Abs().String())
}

// applyInput merges in onto t. With partial false every writable field is required.
// On success the trade's symbol is normalized and TotalValue recomputed;
// on failure t is left untouched.
func applyInput(t *entity.Trade, in TradeInput, partial bool) error {
	vErr := &ValidationError{}
	next := *t

	for _, f := range in.ReadOnly {
		vErr.add(f, msgReadOnly)
	}

	if in.Symbol != nil {
		sym, msg := normalizeSymbol(*in.Symbol)
		if msg != "" {
			vErr.add("symbol", msg)
		}
		next.Symbol = sym
	} else if !partial {
		vErr.add("symbol", msgRequired)
	}

	if in.Side != nil {
		side, ok := entity.ParseSide(*in.Side)
		if !ok {
			vErr.add("trade_type", fmt.Sprintf("%q is not a valid choice.", *in.Side))
		}
		next.Side = side
	} else if !partial {
		vErr.add("trade_type", msgRequired)
	}

	if in.Quantity != nil {
		if msg := checkQuantity(*in.Quantity); msg != "" {
			vErr.add("quantity", msg)
		}
		next.Quantity = *in.Quantity
	} else if !partial {
		vErr.add("quantity", msgRequired)
	}

	if in.Price != nil {
		if msg := checkPrice(*in.Price); msg != "" {
			vErr.add("price", msg)
		}
		next.Price = *in.Price
	} else if !partial {
		vErr.add("price", msgRequired)
	}

	if in.Notes != nil {
		notes := *in.Notes
		next.Notes = &notes
	}

	if err := vErr.errOrNil(); err != nil {
		return err
	}

	next.TotalValue = next.ComputeTotal()
	if integerDigits(next.TotalValue) > maxTotalIntegerDigits {
		return NewValidationError("total_value",
			fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", maxTotalIntegerDigits))
	}

	*t = next
	return nil
}

// normalizeFilter uppercases the symbol and side constraints and rejects unknown sides.
func normalizeFilter(f entity.TradeFilter) (entity.TradeFilter, error) {
	f.Symbol = strings.ToUpper(strings.TrimSpace(f.Symbol))
	f.Search = strings.TrimSpace(f.Search)
	if f.Side != "" {
		side, ok := entity.ParseSide(string(f.Side))
		if !ok {
			return f, NewValidationError("trade_type", fmt.Sprintf("%q is not a valid choice.", string(f.Side)))
		}
		f.Side = side
	}
	return f, nil
}
