// Package cmd implements the CLI application to track stock portfolios.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/stocklots"
	"github.com/etnz/stocklots/alphavantage"
	"github.com/etnz/stocklots/config"
	"github.com/etnz/stocklots/date"
	"github.com/etnz/stocklots/logging"
	"github.com/etnz/stocklots/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for group, cmds := range Commands() {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}

// Commands returns the subcommands by group.
func Commands() map[string][]subcommands.Command {
	return map[string][]subcommands.Command{
		"market": {
			&priceCmd{}, &volumeCmd{}, &gainCmd{}, &maCmd{}, &crossoverCmd{},
		},
		"portfolios": {
			&createCmd{}, &listCmd{}, &showCmd{}, &deleteCmd{}, &addCmd{}, &closeCmd{},
			&valueCmd{}, &chartCmd{},
		},
		"help": {
			&topicCmd{},
		},
		"trading": {
			&buyCmd{}, &sellCmd{}, &costBasisCmd{}, &investCmd{}, &dcaCmd{},
		},
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to a TOML configuration file, read after "+config.DefaultPath())
var logLevel = flag.String("log-level", "", "Log level (debug, info, warn, error), overrides the configuration")
var plain = flag.Bool("plain", false, "Print raw markdown instead of rendering it for the terminal")

// app holds what a command needs: the configuration, the market and the portfolio store.
type app struct {
	cfg    *config.Config
	market *stocklots.Market
	store  store.Store
}

// openApp loads the configuration and opens the market and the store.
func openApp() (*app, error) {
	cfg, err := config.LoadConfig(config.DefaultPath(), *configFile)
	if err != nil {
		return nil, err
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	logging.Setup(cfg.Logging.Level)

	provider := alphavantage.New(alphavantage.Options{
		APIKey:   cfg.AlphaVantage.APIKey,
		BaseURL:  cfg.AlphaVantage.BaseURL,
		Timeout:  cfg.AlphaVantage.TimeoutDuration(),
		CacheDir: cfg.AlphaVantage.CacheDir,
	})
	s, err := store.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("driver", cfg.Store.Driver).Str("path", cfg.Store.Path).Msg("store opened")
	return &app{
		cfg:    cfg,
		market: stocklots.NewMarket(provider, stocklots.MarketOptions{StaleDays: cfg.Market.StaleDays}),
		store:  s,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("cannot close store")
	}
}

func (a *app) chartOptions() stocklots.ChartOptions {
	return stocklots.ChartOptions{Buckets: a.cfg.Chart.Buckets, MinPoints: a.cfg.Chart.MinPoints, Width: a.cfg.Chart.Width}
}

// portfolio is what commands need from both portfolio kinds.
type portfolio interface {
	Record() stocklots.Record
	Update() error
	Chart(start, end date.Date) (stocklots.Chart, error)
}

// load restores the portfolio named name, of either kind.
func (a *app) load(name string) (portfolio, error) {
	r, err := a.store.Load(name)
	if err != nil {
		return nil, err
	}
	if r.Kind == stocklots.Simple {
		return stocklots.RestorePortfolio(r, a.market)
	}
	return stocklots.RestoreSuperPortfolio(r, a.market)
}

// loadFlexible restores the portfolio named name, failing if it is not flexible.
func (a *app) loadFlexible(name string) (*stocklots.SuperPortfolio, error) {
	r, err := a.store.Load(name)
	if err != nil {
		return nil, err
	}
	p, err := stocklots.RestoreSuperPortfolio(r, a.market)
	if err != nil {
		return nil, fmt.Errorf("%w, use 'add' on simple portfolios", err)
	}
	return p, nil
}

// loadSimple restores the portfolio named name, failing if it is not simple.
func (a *app) loadSimple(name string) (*stocklots.Portfolio, error) {
	r, err := a.store.Load(name)
	if err != nil {
		return nil, err
	}
	p, err := stocklots.RestorePortfolio(r, a.market)
	if err != nil {
		return nil, fmt.Errorf("%w, use 'buy' on flexible portfolios", err)
	}
	return p, nil
}

// run opens the app, runs f and closes it, printing errors.
func run(f func(a *app) error) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	if err := f(a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, stocklots.ErrInvalidArgument) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// usageError prints msg and the usage of the command.
func usageError(f *flag.FlagSet, msg string) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	f.Usage()
	return subcommands.ExitUsageError
}

// printMarkdown renders md for the terminal.
func printMarkdown(md string) {
	if *plain {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// parseDates parses the values of a -start and -end pair.
func parseDates(start, end string) (from, to date.Date, err error) {
	if from, err = date.Parse(start); err != nil {
		return
	}
	to, err = date.Parse(end)
	return
}

// parseShares parses a positive number of shares.
func parseShares(s string) (stocklots.Quantity, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return stocklots.Quantity{}, fmt.Errorf("%w: invalid number of shares %q", stocklots.ErrInvalidArgument, s)
	}
	if !d.IsPositive() {
		return stocklots.Quantity{}, fmt.Errorf("%w: number of shares must be positive, got %s", stocklots.ErrInvalidArgument, s)
	}
	return stocklots.Q(d), nil
}

// parseAmount parses a positive amount of money.
func parseAmount(s string) (stocklots.Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return stocklots.Money{}, fmt.Errorf("%w: invalid amount %q", stocklots.ErrInvalidArgument, s)
	}
	if !d.IsPositive() {
		return stocklots.Money{}, fmt.Errorf("%w: amount must be positive, got %s", stocklots.ErrInvalidArgument, s)
	}
	return stocklots.M(d), nil
}

// parseWeights parses weights given as percentages: "AAPL=60,MSFT=40".
// Percentages must add up to 100.
func parseWeights(s string) (stocklots.Weights, error) {
	weights := make(stocklots.Weights)
	total := decimal.Zero
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		symbol, value, ok := strings.Cut(part, "=")
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if !ok || symbol == "" {
			return nil, fmt.Errorf("%w: invalid weight %q, want SYMBOL=PERCENT", stocklots.ErrInvalidArgument, part)
		}
		if _, dup := weights[symbol]; dup {
			return nil, fmt.Errorf("%w: duplicated weight for %s", stocklots.ErrInvalidArgument, symbol)
		}
		percent, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || percent < 0 {
			return nil, fmt.Errorf("%w: invalid percentage %q for %s", stocklots.ErrInvalidArgument, value, symbol)
		}
		weights[symbol] = stocklots.ParseWeight(percent)
		total = total.Add(decimal.NewFromFloat(percent))
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: no weights", stocklots.ErrInvalidArgument)
	}
	if !total.Equal(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: weights add up to %s%%, want 100%%", stocklots.ErrInvalidArgument, total)
	}
	return weights, nil
}
