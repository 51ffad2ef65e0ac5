package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/stocklots"
	"github.com/etnz/stocklots/date"
	"github.com/etnz/stocklots/renderer"
	"github.com/etnz/stocklots/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// --- Create Command ---

type createCmd struct {
	kind string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create an empty portfolio" }
func (*createCmd) Usage() string {
	return `create [-k simple|flexible] <name>

  Creates an empty portfolio. Stocks are added to simple portfolios at their
  latest price with 'add', flexible portfolios record dated trades with 'buy'
  and 'sell'.
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", string(stocklots.Flexible), "Kind of portfolio: simple or flexible")
}

func (c *createCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError(f, "missing portfolio name")
	}
	name := f.Arg(0)
	if err := store.ValidateName(name); err != nil {
		return usageError(f, err.Error())
	}
	return run(func(a *app) error {
		if _, err := a.store.Load(name); !errors.Is(err, store.ErrNotFound) {
			if err != nil {
				return err
			}
			return fmt.Errorf("portfolio %q already exists", name)
		}
		var r stocklots.Record
		switch stocklots.Kind(strings.ToLower(c.kind)) {
		case stocklots.Simple:
			r = stocklots.NewPortfolio(name, a.market).Record()
		case stocklots.Flexible:
			r = stocklots.NewSuperPortfolio(name, a.market).Record()
		default:
			return fmt.Errorf("%w: unknown portfolio kind %q", stocklots.ErrInvalidArgument, c.kind)
		}
		if err := a.store.Save(r); err != nil {
			return err
		}
		fmt.Printf("Created %s portfolio %q\n", r.Kind, name)
		return nil
	})
}

// --- List Command ---

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list portfolios" }
func (*listCmd) Usage() string {
	return `list

  Lists the saved portfolios.
`
}

func (*listCmd) SetFlags(f *flag.FlagSet) {}

func (*listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(func(a *app) error {
		names, err := a.store.List()
		if err != nil {
			return err
		}
		printMarkdown(renderer.List(names))
		return nil
	})
}

// --- Show Command ---

type showCmd struct {
	update bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display a portfolio and its lots" }
func (*showCmd) Usage() string {
	return `show [-u] <name>

  Displays the value and the lots of a portfolio. With -u, the portfolio is
  valued with the latest prices first, and saved.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.update, "u", false, "update with latest prices before displaying the portfolio")
}

func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError(f, "missing portfolio name")
	}
	return run(func(a *app) error {
		p, err := a.load(f.Arg(0))
		if err != nil {
			return err
		}
		if c.update && !p.Record().Sold {
			if err := p.Update(); err != nil {
				// a simple portfolio is still updated when some symbols are stale.
				if _, simple := p.(*stocklots.Portfolio); !simple {
					return err
				}
				log.Warn().Err(err).Msg("some stocks were not updated")
			}
			if err := a.store.Save(p.Record()); err != nil {
				return err
			}
		}
		var costBasis *stocklots.Money
		if sp, ok := p.(*stocklots.SuperPortfolio); ok {
			cb := sp.CostBasis(a.market.Today())
			costBasis = &cb
		}
		printMarkdown(renderer.Portfolio(p.Record(), costBasis))
		return nil
	})
}

// --- Delete Command ---

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a portfolio" }
func (*deleteCmd) Usage() string {
	return `delete <name>

  Deletes a portfolio and all its lots.
`
}

func (*deleteCmd) SetFlags(f *flag.FlagSet) {}

func (*deleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError(f, "missing portfolio name")
	}
	return run(func(a *app) error {
		if err := a.store.Delete(f.Arg(0)); err != nil {
			return err
		}
		fmt.Printf("Deleted portfolio %q\n", f.Arg(0))
		return nil
	})
}

// --- Add Command ---

type addCmd struct{}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add stocks to a simple portfolio at their latest price" }
func (*addCmd) Usage() string {
	return `add <name> <symbol> <shares>

  Adds shares of a stock to a simple portfolio, priced at the latest close.
`
}

func (*addCmd) SetFlags(f *flag.FlagSet) {}

func (*addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		return usageError(f, "want a portfolio name, a symbol and a number of shares")
	}
	name, symbol := f.Arg(0), strings.ToUpper(f.Arg(1))
	shares, err := parseShares(f.Arg(2))
	if err != nil {
		return usageError(f, err.Error())
	}
	return run(func(a *app) error {
		p, err := a.loadSimple(name)
		if err != nil {
			return err
		}
		if p.Sold() {
			return fmt.Errorf("portfolio %q is sold", name)
		}
		lot, err := p.AddStock(symbol, shares)
		if err != nil {
			return err
		}
		if err := a.store.Save(p.Record()); err != nil {
			return err
		}
		fmt.Printf("Added %s to %q, portfolio value is now %s\n", lot, name, p.Value())
		return nil
	})
}

// --- Close Command ---

type closeCmd struct{}

func (*closeCmd) Name() string     { return "close" }
func (*closeCmd) Synopsis() string { return "sell a whole portfolio and report the profit" }
func (*closeCmd) Usage() string {
	return `close <name>

  Values a portfolio with the latest prices, marks it sold and prints the
  profit.
`
}

func (*closeCmd) SetFlags(f *flag.FlagSet) {}

func (*closeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError(f, "missing portfolio name")
	}
	return run(func(a *app) error {
		p, err := a.load(f.Arg(0))
		if err != nil {
			return err
		}
		if p.Record().Sold {
			return fmt.Errorf("portfolio %q is already sold", f.Arg(0))
		}
		var profit stocklots.Money
		switch p := p.(type) {
		case *stocklots.Portfolio:
			profit, err = p.Sell()
			if err != nil {
				log.Warn().Err(err).Msg("some stocks were sold at their last known price")
			}
		case *stocklots.SuperPortfolio:
			if profit, err = p.Close(); err != nil {
				return err
			}
		}
		if err := a.store.Save(p.Record()); err != nil {
			return err
		}
		fmt.Printf("Sold portfolio %q, profit: %s\n", f.Arg(0), profit)
		return nil
	})
}

// --- Value Command ---

type valueCmd struct {
	date string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "value of a portfolio on a date" }
func (*valueCmd) Usage() string {
	return `value [-d <date>] <name>

  Prints the value of a portfolio on a date. Simple portfolios can only be
  valued on trading days.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Valuation date")
}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError(f, "missing portfolio name")
	}
	on, err := date.Parse(c.date)
	if err != nil {
		return usageError(f, err.Error())
	}
	return run(func(a *app) error {
		p, err := a.load(f.Arg(0))
		if err != nil {
			return err
		}
		var value stocklots.Money
		switch p := p.(type) {
		case *stocklots.Portfolio:
			v, ok := p.ValueAt(on)
			if !ok {
				return fmt.Errorf("%w: cannot value %q on %s, not a trading day for all its stocks", stocklots.ErrNoSuchDate, f.Arg(0), on)
			}
			value = v
		case *stocklots.SuperPortfolio:
			if value, err = p.ValueAt(on); err != nil {
				return err
			}
		}
		fmt.Printf("Value of %q on %s: %s\n", f.Arg(0), on, value)
		return nil
	})
}

// --- Chart Command ---

type chartCmd struct {
	start  string
	end    string
	symbol string
	png    string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "chart the performance of a portfolio or a stock" }
func (*chartCmd) Usage() string {
	return `chart [-start <date>] [-end <date>] [-png <file>] <name>
chart [-start <date>] [-end <date>] [-png <file>] -s <symbol>

  Prints daily, monthly and yearly bar charts of the value of a portfolio,
  or of the closing price of a stock with -s. With -png, the daily values are
  also drawn as a line chart into a PNG file.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "-1y", "Start of the chart")
	f.StringVar(&c.end, "end", date.Today().String(), "End of the chart")
	f.StringVar(&c.symbol, "s", "", "Chart a stock instead of a portfolio")
	f.StringVar(&c.png, "png", "", "Write a PNG line chart to this file")
}

func (c *chartCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (c.symbol == "") == (f.NArg() == 0) {
		return usageError(f, "want either a portfolio name or -s <symbol>")
	}
	start, end, err := parseDates(c.start, c.end)
	if err != nil {
		return usageError(f, err.Error())
	}
	return run(func(a *app) error {
		var (
			chart stocklots.Chart
			title string
		)
		if c.symbol != "" {
			title = strings.ToUpper(c.symbol)
			chart, err = a.market.StockChart(title, start, end)
		} else {
			title = f.Arg(0)
			var p portfolio
			if p, err = a.load(title); err != nil {
				return err
			}
			chart, err = p.Chart(start, end)
		}
		if err != nil {
			return err
		}
		text, err := chart.Render(a.chartOptions())
		if err != nil {
			return err
		}
		fmt.Print(text)

		if c.png == "" {
			return nil
		}
		data, err := renderer.ChartPNG(title, chart.Daily)
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.png, data, 0o644); err != nil {
			return fmt.Errorf("cannot write chart: %w", err)
		}
		fmt.Printf("Chart written to %s\n", c.png)
		return nil
	})
}
