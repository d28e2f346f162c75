package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/subcommands"

	"portfolio_backend/internal/feature/trades/domain/entity"
	"portfolio_backend/internal/feature/trades/usecase"
	jwtmw "portfolio_backend/internal/platform/jwt"
)

// TradeService is the part of the trade usecase the admin commands need.
type TradeService interface {
	Create(ctx context.Context, in usecase.TradeInput) (*entity.Trade, error)
	List(ctx context.Context, f entity.TradeFilter, page entity.Page) (*entity.TradePage, error)
	Summary(ctx context.Context, f entity.TradeFilter) (entity.Summary, error)
	DistinctSymbols(ctx context.Context) ([]string, error)
}

// Opener connects to the trade store on demand, so commands that need no
// database (token) never open one.
type Opener func(ctx context.Context) (TradeService, error)

// Env is what every command shares.
type Env struct {
	Open      Opener
	Out       io.Writer
	Err       io.Writer
	JWTSecret string
}

// Commands returns the tradectl subcommands bound to env.
func Commands(env *Env) []subcommands.Command {
	return []subcommands.Command{
		&seedCmd{env: env},
		&listCmd{env: env},
		&summaryCmd{env: env},
		&symbolsCmd{env: env},
		&tokenCmd{env: env},
	}
}

func (e *Env) fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(e.Err, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// filterFlags binds the list/summary filters to a flag set.
type filterFlags struct {
	symbol, side, start, end, search string
}

func (f *filterFlags) set(fs *flag.FlagSet) {
	fs.StringVar(&f.symbol, "symbol", "", "only trades of this symbol")
	fs.StringVar(&f.side, "type", "", "only BUY or SELL trades")
	fs.StringVar(&f.start, "start", "", "first trade date, YYYY-MM-DD")
	fs.StringVar(&f.end, "end", "", "last trade date, YYYY-MM-DD")
	fs.StringVar(&f.search, "q", "", "substring of symbol or notes")
}

func (f *filterFlags) filter() (entity.TradeFilter, error) {
	out := entity.TradeFilter{
		Symbol: f.symbol,
		Side:   entity.Side(f.side),
		Search: f.search,
	}
	for _, d := range []struct {
		name string
		raw  string
		dst  **time.Time
	}{
		{"start", f.start, &out.StartDate},
		{"end", f.end, &out.EndDate},
	} {
		if d.raw == "" {
			continue
		}
		t, err := time.Parse(time.DateOnly, d.raw)
		if err != nil {
			return out, fmt.Errorf("-%s: want YYYY-MM-DD, got %q", d.name, d.raw)
		}
		*d.dst = &t
	}
	return out, nil
}

type seedCmd struct {
	env *Env
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "record the demo portfolio (four trades)" }
func (*seedCmd) Usage() string {
	return `tradectl seed

  Records AAPL, GOOGL and MSFT demo trades.
`
}
func (*seedCmd) SetFlags(*flag.FlagSet) {}

func (c *seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := c.env.Open(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	for _, in := range SampleTrades() {
		t, err := svc.Create(ctx, in)
		if err != nil {
			return c.env.fail(err)
		}
		fmt.Fprintf(c.env.Out, "created #%d %s\n", t.ID, t)
	}
	return subcommands.ExitSuccess
}

type listCmd struct {
	env     *Env
	filters filterFlags
	limit   int
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list recent trades" }
func (*listCmd) Usage() string {
	return `tradectl list [-symbol <sym>] [-type BUY|SELL] [-start <date>] [-end <date>] [-q <text>] [-n <count>]

  Lists trades, newest first.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	c.filters.set(f)
	f.IntVar(&c.limit, "n", usecase.DefaultPageSize, "number of trades to show")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := c.filters.filter()
	if err != nil {
		fmt.Fprintf(c.env.Err, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	svc, err := c.env.Open(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	page, err := svc.List(ctx, filter, entity.Page{Number: 1, Size: c.limit})
	if err != nil {
		return c.env.fail(err)
	}
	fmt.Fprint(c.env.Out, TradesMarkdown(page.Trades))
	if shown := int64(len(page.Trades)); shown < page.Total {
		fmt.Fprintf(c.env.Out, "(%d of %d)\n", shown, page.Total)
	}
	return subcommands.ExitSuccess
}

type summaryCmd struct {
	env     *Env
	filters filterFlags
	style   string
	plain   bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio summary" }
func (*summaryCmd) Usage() string {
	return `tradectl summary [-symbol <sym>] [-type BUY|SELL] [-start <date>] [-end <date>] [-style <style>] [-plain]

  Displays totals and per-symbol positions of the matching trades.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	c.filters.set(f)
	f.StringVar(&c.style, "style", "auto", "glamour style (auto, dark, light, notty, ascii)")
	f.BoolVar(&c.plain, "plain", false, "print raw markdown")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter, err := c.filters.filter()
	if err != nil {
		fmt.Fprintf(c.env.Err, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	svc, err := c.env.Open(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	s, err := svc.Summary(ctx, filter)
	if err != nil {
		return c.env.fail(err)
	}

	title := "Portfolio Summary"
	if filter.Symbol != "" {
		title += " " + strings.ToUpper(filter.Symbol)
	}
	style := c.style
	if c.plain {
		style = ""
	}
	out, err := renderMarkdown(SummaryMarkdown(title, s), style)
	if err != nil {
		return c.env.fail(err)
	}
	fmt.Fprint(c.env.Out, out)
	return subcommands.ExitSuccess
}

type symbolsCmd struct {
	env *Env
}

func (*symbolsCmd) Name() string           { return "symbols" }
func (*symbolsCmd) Synopsis() string       { return "list every traded symbol" }
func (*symbolsCmd) Usage() string          { return "tradectl symbols\n" }
func (*symbolsCmd) SetFlags(*flag.FlagSet) {}

func (c *symbolsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := c.env.Open(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	symbols, err := svc.DistinctSymbols(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	for _, s := range symbols {
		fmt.Fprintln(c.env.Out, s)
	}
	return subcommands.ExitSuccess
}

type tokenCmd struct {
	env     *Env
	subject string
	ttl     time.Duration
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "issue a bearer token for the API" }
func (*tokenCmd) Usage() string {
	return `tradectl token [-sub <client>] [-ttl <duration>]

  Prints a JWT signed with JWT_SECRET, for the Authorization header.
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.subject, "sub", "tradectl", "client name stored in the sub claim")
	f.DurationVar(&c.ttl, "ttl", 24*time.Hour, "token lifetime")
}

func (c *tokenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.env.JWTSecret == "" {
		fmt.Fprintf(c.env.Err, "Error: %s is not set\n", jwtmw.EnvKeyJWTSecret)
		return subcommands.ExitUsageError
	}
	if c.ttl <= 0 {
		fmt.Fprintln(c.env.Err, "Error: -ttl must be positive")
		return subcommands.ExitUsageError
	}
	token, err := jwtmw.NewGenerator(c.env.JWTSecret, c.ttl).GenerateToken(c.subject)
	if err != nil {
		return c.env.fail(err)
	}
	fmt.Fprintln(c.env.Out, token)
	return subcommands.ExitSuccess
}
