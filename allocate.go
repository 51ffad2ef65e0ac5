package stocklots

import (
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/stocklots/date"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Weights maps symbols to the fraction of an amount invested in each.
type Weights map[string]float64

// Symbols returns the symbols in sorted order.
func (w Weights) Symbols() []string { return slices.Sorted(maps.Keys(w)) }

// WeightedInvest buys, on day, total money split across symbols according to
// weights. Each symbol gets round2(total * weight / price) shares, priced at
// the close of day. A day without a record for every symbol, such as a
// weekend or a holiday, fails with ErrPricingUnavailable.
//
// All prices are resolved before any lot is written: if a symbol cannot be
// priced the ledger is left unchanged and the first error, in symbol order,
// is returned.
func (p *SuperPortfolio) WeightedInvest(weights Weights, day date.Date, total Money) ([]Lot, error) {
	if err := checkInvestment(weights, total); err != nil {
		return nil, err
	}
	symbols := weights.Symbols()
	prices := make([]Money, len(symbols))
	for i, symbol := range symbols {
		price, err := p.tradePrice(symbol, day)
		if err != nil {
			return nil, err
		}
		prices[i] = price
	}

	lots := make([]Lot, 0, len(symbols))
	for i, symbol := range symbols {
		amount := total.MulFloat(weights[symbol])
		shares := Quantity{value: amount.DivPrice(prices[i]).value.Round(2)}
		if !shares.IsPositive() {
			log.Debug().Str("symbol", symbol).Stringer("date", day).Msg("weight too small to buy a share")
			continue
		}
		lots = append(lots, p.ledger.add(Lot{Symbol: symbol, Shares: shares, Date: day, Price: prices[i], InitialPrice: prices[i]}))
	}
	return lots, nil
}

// DollarCostAverage invests total money according to weights every period
// days between start and end inclusive.
//
// A day where the investment fails, typically a non trading day, is retried
// on the next day until an investment succeeds; it is not an error. It
// returns the days an investment was made.
func (p *SuperPortfolio) DollarCostAverage(weights Weights, start, end date.Date, total Money, period int) ([]date.Date, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start date %s is after end date %s", ErrInvalidArgument, start, end)
	}
	if period <= 0 {
		return nil, fmt.Errorf("%w: period must be positive, got %d days", ErrInvalidArgument, period)
	}
	if err := checkInvestment(weights, total); err != nil {
		return nil, err
	}

	var invested []date.Date
	for day := start; !day.After(end); {
		if _, err := p.WeightedInvest(weights, day, total); err != nil {
			log.Debug().Str("portfolio", p.name).Stringer("date", day).Err(err).Msg("investment skipped")
			day = day.Add(1)
			continue
		}
		invested = append(invested, day)
		day = day.Add(period)
	}
	return invested, nil
}

func checkInvestment(weights Weights, total Money) error {
	if len(weights) == 0 {
		return fmt.Errorf("%w: no symbol to invest in", ErrInvalidArgument)
	}
	if !total.IsPositive() {
		return fmt.Errorf("%w: amount to invest must be positive, got %s", ErrInvalidArgument, total)
	}
	for symbol, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: negative weight %v for %s", ErrInvalidArgument, w, symbol)
		}
	}
	return nil
}

// ParseWeight converts a percentage like 25 or 12.5 into a weight.
func ParseWeight(percent float64) float64 {
	w, _ := decimal.NewFromFloat(percent).Div(decimal.NewFromInt(100)).Float64()
	return w
}
