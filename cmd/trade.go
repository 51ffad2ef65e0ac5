package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/stocklots"
	"github.com/etnz/stocklots/date"
	"github.com/etnz/stocklots/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// --- Buy Command ---

type buyCmd struct {
	date   string
	symbol string
	shares string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy shares of a stock in a flexible portfolio" }
func (*buyCmd) Usage() string {
	return `buy -d <date> -s <symbol> -q <shares> <name>

  Buys shares of a stock at its closing price on a trading day. Buying the
  same stock again on the same day adds to the same lot.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Trading day")
	f.StringVar(&c.symbol, "s", "", "Stock symbol")
	f.StringVar(&c.shares, "q", "", "Number of shares, fractions are allowed")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || c.symbol == "" {
		return usageError(f, "want a portfolio name and -s <symbol>")
	}
	symbol := strings.ToUpper(c.symbol)
	shares, err := parseShares(c.shares)
	if err != nil {
		return usageError(f, err.Error())
	}
	on, err := date.Parse(c.date)
	if err != nil {
		return usageError(f, err.Error())
	}
	return run(func(a *app) error {
		p, err := a.loadFlexible(f.Arg(0))
		if err != nil {
			return err
		}
		if !a.market.Has(symbol) {
			return fmt.Errorf("%w: unknown symbol %s", stocklots.ErrInvalidArgument, symbol)
		}
		warnVolume(a.market, symbol, shares, on)
		lot, err := p.Buy(symbol, shares, on)
		if err != nil {
			return err
		}
		if err := a.store.Save(p.Record()); err != nil {
			return err
		}
		fmt.Printf("Bought %s, %s lot is now %s\n", shares, symbol, lot)
		return nil
	})
}

// warnVolume warns when buying more shares than the market traded that day.
func warnVolume(m *stocklots.Market, symbol string, shares stocklots.Quantity, on date.Date) {
	volume, err := m.VolumeOnDate(symbol, on)
	if err != nil {
		return
	}
	if shares.GreaterThan(stocklots.Q(volume)) {
		log.Warn().Str("symbol", symbol).Stringer("date", on).Int64("volume", volume).Stringer("shares", shares).
			Msg("buying more shares than were traded that day")
	}
}

// --- Sell Command ---

type sellCmd struct {
	date   string
	symbol string
	shares string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares of a stock from a flexible portfolio" }
func (*sellCmd) Usage() string {
	return `sell -d <date> -s <symbol> -q <shares> <name>

  Sells shares of a stock at its closing price on a trading day. A sale that
  would leave a negative position, at any date, is rejected.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Trading day")
	f.StringVar(&c.symbol, "s", "", "Stock symbol")
	f.StringVar(&c.shares, "q", "", "Number of shares, fractions are allowed")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || c.symbol == "" {
		return usageError(f, "want a portfolio name and -s <symbol>")
	}
	symbol := strings.ToUpper(c.symbol)
	shares, err := parseShares(c.shares)
	if err != nil {
		return usageError(f, err.Error())
	}
	on, err := date.Parse(c.date)
	if err != nil {
		return usageError(f, err.Error())
	}
	return run(func(a *app) error {
		p, err := a.loadFlexible(f.Arg(0))
		if err != nil {
			return err
		}
		lot, err := p.Sell(symbol, shares, on)
		if err != nil {
			return err
		}
		if err := a.store.Save(p.Record()); err != nil {
			return err
		}
		fmt.Printf("Sold %s for %s\n", lot, lot.Cost().Neg())
		return nil
	})
}

// --- Cost Basis Command ---

type costBasisCmd struct {
	date string
}

func (*costBasisCmd) Name() string     { return "costbasis" }
func (*costBasisCmd) Synopsis() string { return "money invested in a flexible portfolio up to a date" }
func (*costBasisCmd) Usage() string {
	return `costbasis [-d <date>] <name>

  Prints the total amount spent buying stocks up to a date. Sales do not
  reduce the cost basis.
`
}

func (c *costBasisCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Date of the cost basis")
}

func (c *costBasisCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError(f, "missing portfolio name")
	}
	on, err := date.Parse(c.date)
	if err != nil {
		return usageError(f, err.Error())
	}
	return run(func(a *app) error {
		p, err := a.loadFlexible(f.Arg(0))
		if err != nil {
			return err
		}
		fmt.Printf("Cost basis of %q on %s: %s\n", f.Arg(0), on, p.CostBasis(on))
		return nil
	})
}

// --- Invest Command ---

type investCmd struct {
	date    string
	amount  string
	weights string
}

func (*investCmd) Name() string     { return "invest" }
func (*investCmd) Synopsis() string { return "invest an amount across stocks by weight on a day" }
func (*investCmd) Usage() string {
	return `invest -d <date> -a <amount> -w <SYMBOL=PERCENT,...> <name>

  Splits an amount across stocks according to weights, and buys them at
  their closing price on a trading day. Nothing is bought if any stock
  cannot be priced that day.

Usage Examples:
$ stocklots invest -d 2024-03-12 -a 2000 -w AAPL=60,MSFT=40 retirement
`
}

func (c *investCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Trading day")
	f.StringVar(&c.amount, "a", "", "Amount to invest")
	f.StringVar(&c.weights, "w", "", "Weights as percentages adding up to 100, e.g. AAPL=60,MSFT=40")
}

func (c *investCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError(f, "missing portfolio name")
	}
	amount, err := parseAmount(c.amount)
	if err != nil {
		return usageError(f, err.Error())
	}
	weights, err := parseWeights(c.weights)
	if err != nil {
		return usageError(f, err.Error())
	}
	on, err := date.Parse(c.date)
	if err != nil {
		return usageError(f, err.Error())
	}
	return run(func(a *app) error {
		p, err := a.loadFlexible(f.Arg(0))
		if err != nil {
			return err
		}
		lots, err := p.WeightedInvest(weights, on, amount)
		if err != nil {
			return err
		}
		if err := a.store.Save(p.Record()); err != nil {
			return err
		}
		printMarkdown(renderer.Lots(fmt.Sprintf("Invested %s on %s", amount, on), lots))
		return nil
	})
}

// --- Dollar Cost Averaging Command ---

type dcaCmd struct {
	start   string
	end     string
	period  int
	amount  string
	weights string
}

func (*dcaCmd) Name() string     { return "dca" }
func (*dcaCmd) Synopsis() string { return "invest an amount periodically across stocks by weight" }
func (*dcaCmd) Usage() string {
	return `dca -start <date> [-end <date>] [-p <days>] -a <amount> -w <SYMBOL=PERCENT,...> <name>

  Invests an amount across stocks according to weights every period of days
  between two dates. When stocks cannot be priced on a day, typically a week
  end or a holiday, the investment is made on the next trading day.
`
}

func (c *dcaCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "First investment day")
	f.StringVar(&c.end, "end", date.Today().String(), "Last possible investment day")
	f.IntVar(&c.period, "p", 30, "Days between two investments")
	f.StringVar(&c.amount, "a", "", "Amount to invest each time")
	f.StringVar(&c.weights, "w", "", "Weights as percentages adding up to 100, e.g. AAPL=60,MSFT=40")
}

func (c *dcaCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || c.start == "" {
		return usageError(f, "want a portfolio name and -start <date>")
	}
	amount, err := parseAmount(c.amount)
	if err != nil {
		return usageError(f, err.Error())
	}
	weights, err := parseWeights(c.weights)
	if err != nil {
		return usageError(f, err.Error())
	}
	start, end, err := parseDates(c.start, c.end)
	if err != nil {
		return usageError(f, err.Error())
	}
	return run(func(a *app) error {
		p, err := a.loadFlexible(f.Arg(0))
		if err != nil {
			return err
		}
		days, err := p.DollarCostAverage(weights, start, end, amount, c.period)
		if err != nil {
			return err
		}
		if err := a.store.Save(p.Record()); err != nil {
			return err
		}
		fmt.Printf("Invested %s in %q on %d days:\n", amount, f.Arg(0), len(days))
		for _, d := range days {
			fmt.Printf("  %s\n", d)
		}
		return nil
	})
}
