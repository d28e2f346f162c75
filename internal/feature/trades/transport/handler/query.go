package handler

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/oapi-codegen/runtime"
	"github.com/oapi-codegen/runtime/types"

	"portfolio_backend/internal/feature/trades/domain/entity"
	"portfolio_backend/internal/feature/trades/usecase"
)

const msgBadDate = "Date has wrong format. Use YYYY-MM-DD."

// listParams are the query parameters accepted by the list and summary endpoints.
type listParams struct {
	Symbol    *string
	TradeType *string
	StartDate *types.Date
	EndDate   *types.Date
	Search    *string
	Page      *int
	PageSize  *int
}

// nonEmpty drops blank values so "?symbol=" behaves like an absent filter.
func nonEmpty(q url.Values) url.Values {
	out := url.Values{}
	for k, vs := range q {
		for _, v := range vs {
			if strings.TrimSpace(v) != "" {
				out.Add(k, v)
			}
		}
	}
	return out
}

// bindListParams parses q. Malformed filters yield a *usecase.ValidationError;
// a malformed page yields usecase.ErrInvalidPage; a malformed page_size is ignored.
func bindListParams(q url.Values) (listParams, error) {
	q = nonEmpty(q)
	var p listParams
	fields := map[string]string{}

	bind := func(name string, dest any, msg string) {
		if err := runtime.BindQueryParameter("form", true, false, name, q, dest); err != nil {
			fields[name] = msg
		}
	}
	bind("symbol", &p.Symbol, "Not a valid string.")
	bind("trade_type", &p.TradeType, "Not a valid string.")
	bind("start_date", &p.StartDate, msgBadDate)
	bind("end_date", &p.EndDate, msgBadDate)
	bind("search", &p.Search, "Not a valid string.")

	if p.TradeType != nil {
		if _, ok := entity.ParseSide(*p.TradeType); !ok {
			fields["trade_type"] = "Select a valid choice. " + strconv.Quote(*p.TradeType) + " is not one of the available choices."
		}
	}
	if len(fields) > 0 {
		return p, &usecase.ValidationError{Fields: fields}
	}

	if err := runtime.BindQueryParameter("form", true, false, "page", q, &p.Page); err != nil || (p.Page != nil && *p.Page < 1) {
		return p, usecase.ErrInvalidPage
	}
	if err := runtime.BindQueryParameter("form", true, false, "page_size", q, &p.PageSize); err != nil {
		p.PageSize = nil
	}
	return p, nil
}

// filter converts the bound parameters into a domain filter.
func (p listParams) filter() entity.TradeFilter {
	var f entity.TradeFilter
	if p.Symbol != nil {
		f.Symbol = *p.Symbol
	}
	if p.TradeType != nil {
		f.Side = entity.Side(*p.TradeType)
	}
	if p.StartDate != nil {
		d := p.StartDate.Time
		f.StartDate = &d
	}
	if p.EndDate != nil {
		d := p.EndDate.Time
		f.EndDate = &d
	}
	if p.Search != nil {
		f.Search = *p.Search
	}
	return f
}

// page converts the bound parameters into a page request. Zero values select the defaults.
func (p listParams) page() entity.Page {
	var pg entity.Page
	if p.Page != nil {
		pg.Number = *p.Page
	}
	if p.PageSize != nil {
		pg.Size = *p.PageSize
	}
	return pg
}
