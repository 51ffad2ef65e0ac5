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
)

// --- Price Command ---

type priceCmd struct {
	date  string
	exact bool
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "closing price of a stock on a date" }
func (*priceCmd) Usage() string {
	return `price [-d <date>] [-exact] <symbol>

  Prints the closing price of a stock on a date. Without -exact, the latest
  trading day on or before the date is used.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Date of the price. See the user manual for supported date formats.")
	f.BoolVar(&c.exact, "exact", false, "fail if the date is not a trading day")
}

func (c *priceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError(f, "missing symbol")
	}
	symbol := strings.ToUpper(f.Arg(0))
	on, err := date.Parse(c.date)
	if err != nil {
		return usageError(f, err.Error())
	}
	return run(func(a *app) error {
		var price float64
		if c.exact {
			price, err = a.market.PriceOnExactDate(symbol, on)
		} else {
			price, err = a.market.PriceOnOrBefore(symbol, on)
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s %s: %.2f\n", symbol, on, price)
		return nil
	})
}

// --- Volume Command ---

type volumeCmd struct {
	date string
}

func (*volumeCmd) Name() string     { return "volume" }
func (*volumeCmd) Synopsis() string { return "traded volume of a stock on a trading day" }
func (*volumeCmd) Usage() string {
	return `volume [-d <date>] <symbol>

  Prints the number of shares of a stock traded on a trading day.
`
}

func (c *volumeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Trading day")
}

func (c *volumeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError(f, "missing symbol")
	}
	symbol := strings.ToUpper(f.Arg(0))
	on, err := date.Parse(c.date)
	if err != nil {
		return usageError(f, err.Error())
	}
	return run(func(a *app) error {
		volume, err := a.market.VolumeOnDate(symbol, on)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s: %d\n", symbol, on, volume)
		return nil
	})
}

// --- Gain Command ---

type gainCmd struct {
	date  string
	start string
	end   string
}

func (*gainCmd) Name() string     { return "gain" }
func (*gainCmd) Synopsis() string { return "gain or loss of a stock on a day or over a period" }
func (*gainCmd) Usage() string {
	return `gain [-d <date>] [-start <date> -end <date>] <symbol>

  Prints the change between the open and the close of a stock on a trading
  day or, when -start is given, the change of its closing price between two
  dates.
`
}

func (c *gainCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Trading day")
	f.StringVar(&c.start, "start", "", "Start of the period")
	f.StringVar(&c.end, "end", date.Today().String(), "End of the period")
}

func (c *gainCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError(f, "missing symbol")
	}
	symbol := strings.ToUpper(f.Arg(0))
	if c.start != "" {
		start, end, err := parseDates(c.start, c.end)
		if err != nil {
			return usageError(f, err.Error())
		}
		return run(func(a *app) error {
			change, err := a.market.GainOrLoseOverPeriod(symbol, start, end)
			if err != nil {
				return err
			}
			printMarkdown(renderer.PeriodChange(change))
			return nil
		})
	}
	on, err := date.Parse(c.date)
	if err != nil {
		return usageError(f, err.Error())
	}
	return run(func(a *app) error {
		change, err := a.market.GainOrLoseOnDay(symbol, on)
		if err != nil {
			return err
		}
		printMarkdown(renderer.DayChange(change))
		return nil
	})
}

// --- Moving Average Command ---

type maCmd struct {
	date   string
	window int
}

func (*maCmd) Name() string     { return "ma" }
func (*maCmd) Synopsis() string { return "moving average of a stock closing price" }
func (*maCmd) Usage() string {
	return `ma [-d <date>] [-w <days>] <symbol>

  Prints the average closing price of a stock over the last trading days
  on or before a date.
`
}

func (c *maCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Last day of the window")
	f.IntVar(&c.window, "w", stocklots.CrossoverWindow, "Number of trading days in the window")
}

func (c *maCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError(f, "missing symbol")
	}
	symbol := strings.ToUpper(f.Arg(0))
	on, err := date.Parse(c.date)
	if err != nil {
		return usageError(f, err.Error())
	}
	return run(func(a *app) error {
		avg, err := a.market.MovingAverage(symbol, on, c.window)
		if err != nil {
			return err
		}
		fmt.Printf("%s %d-day moving average on %s: %.2f\n", symbol, c.window, on, avg)
		return nil
	})
}

// --- Crossover Command ---

type crossoverCmd struct {
	start string
	end   string
	x, y  int
}

func (*crossoverCmd) Name() string     { return "crossover" }
func (*crossoverCmd) Synopsis() string { return "buy and sell signals from moving average crossovers" }
func (*crossoverCmd) Usage() string {
	return `crossover -start <date> [-end <date>] [-x <days> -y <days>] <symbol>

  Lists the days where the closing price of a stock crosses its 30-day moving
  average. With -x and -y, lists the days where the x-day moving average
  crosses the y-day one.
`
}

func (c *crossoverCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "-1y", "Start of the period")
	f.StringVar(&c.end, "end", date.Today().String(), "End of the period")
	f.IntVar(&c.x, "x", 0, "Fast moving average window")
	f.IntVar(&c.y, "y", 0, "Slow moving average window")
}

func (c *crossoverCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError(f, "missing symbol")
	}
	symbol := strings.ToUpper(f.Arg(0))
	start, end, err := parseDates(c.start, c.end)
	if err != nil {
		return usageError(f, err.Error())
	}
	return run(func(a *app) error {
		var events stocklots.Crossovers
		if c.x != 0 || c.y != 0 {
			events, err = a.market.MovingCrossovers(symbol, start, end, c.x, c.y)
		} else {
			events, err = a.market.Crossovers(symbol, start, end)
		}
		if err != nil {
			return err
		}
		printMarkdown(renderer.Crossovers(events))
		return nil
	})
}
