package stocklots

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/etnz/stocklots/date"
	"gonum.org/v1/gonum/stat"
)

// CrossoverWindow is the moving average window used by Crossovers.
const CrossoverWindow = 30

// round2 rounds half up to 2 decimals.
func round2(v float64) float64 { return math.Floor(v*100+0.5) / 100 }

// formatFloat prints v with the minimum number of digits.
func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// MovingAverage returns the average closing price of symbol over the window
// most recent records dated on or before end, rounded to 2 decimals. An end
// after today fails with ErrNoSuchDate.
func (m *Market) MovingAverage(symbol string, end date.Date, window int) (float64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("%w: moving average window must be positive, got %d", ErrInvalidArgument, window)
	}
	if end.After(m.today()) {
		return 0, fmt.Errorf("%w: cannot get future moving average of %s on %s", ErrNoSuchDate, symbol, end)
	}
	s, err := m.get(symbol)
	if err != nil {
		return 0, err
	}
	i := s.asOf(end)
	if i+1 < window {
		return 0, fmt.Errorf("%w: not enough data for %d day moving average of %s on %s, only %d records", ErrInsufficientData, window, symbol, end, i+1)
	}
	return windowMean(s.closes(), i, window), nil
}

// windowMean is the mean of the window values ending at index i, rounded to
// 2 decimals.
func windowMean(values []float64, i, window int) float64 {
	return round2(stat.Mean(values[i+1-window:i+1], nil))
}

// Trend classifies a price change.
type Trend int

const (
	Equal Trend = iota
	Gain
	Lose
)

func (t Trend) String() string {
	switch t {
	case Gain:
		return "gain"
	case Lose:
		return "lose"
	default:
		return "equal"
	}
}

func trendOf(delta float64) Trend {
	switch {
	case delta > 0:
		return Gain
	case delta < 0:
		return Lose
	default:
		return Equal
	}
}

// DayChange is the intraday change of a symbol.
type DayChange struct {
	Symbol      string
	Date        date.Date
	Open, Close float64
	Delta       float64 // Close - Open, rounded to 2 decimals
}

// Trend classifies the change.
func (c DayChange) Trend() Trend { return trendOf(c.Delta) }

func (c DayChange) String() string {
	switch c.Trend() {
	case Gain:
		return "Gain:" + formatFloat(c.Delta)
	case Lose:
		return "Lose:" + formatFloat(-c.Delta)
	default:
		return "Equal 0"
	}
}

// GainOrLoseOnDay returns the change between the open and the close of
// symbol on day. There must be a record on that exact day.
func (m *Market) GainOrLoseOnDay(symbol string, day date.Date) (DayChange, error) {
	r, err := m.recordOn(symbol, day)
	if err != nil {
		return DayChange{}, err
	}
	return DayChange{
		Symbol: symbol,
		Date:   day,
		Open:   r.Open,
		Close:  r.Close,
		Delta:  round2(r.Close - r.Open),
	}, nil
}

// PeriodChange is the change of a symbol's closing price over a period.
type PeriodChange struct {
	Symbol               string
	Start, End           date.Date
	StartPrice, EndPrice float64
	Delta                float64 // EndPrice - StartPrice, rounded to 2 decimals
}

// Trend classifies the change.
func (c PeriodChange) Trend() Trend { return trendOf(c.Delta) }

func (c PeriodChange) String() string {
	prices := ",start price:" + formatFloat(c.StartPrice) + ",end price:" + formatFloat(c.EndPrice)
	switch c.Trend() {
	case Gain:
		return "Gain: " + formatFloat(c.Delta) + prices
	case Lose:
		return "Lose: " + formatFloat(c.Delta) + prices
	default:
		return "Equal 0 profit" + prices
	}
}

// GainOrLoseOverPeriod returns the change of symbol's closing price between
// start and end, both resolved on or before.
func (m *Market) GainOrLoseOverPeriod(symbol string, start, end date.Date) (PeriodChange, error) {
	if start.After(end) {
		return PeriodChange{}, fmt.Errorf("%w: start date %s is after end date %s", ErrInvalidArgument, start, end)
	}
	startPrice, err := m.PriceOnOrBefore(symbol, start)
	if err != nil {
		return PeriodChange{}, fmt.Errorf("start of period: %w", err)
	}
	endPrice, err := m.PriceOnOrBefore(symbol, end)
	if err != nil {
		return PeriodChange{}, fmt.Errorf("end of period: %w", err)
	}
	return PeriodChange{
		Symbol:     symbol,
		Start:      start,
		End:        end,
		StartPrice: startPrice,
		EndPrice:   endPrice,
		Delta:      round2(endPrice - startPrice),
	}, nil
}

// CrossoverKind tells the direction of a crossover.
type CrossoverKind int

const (
	// Positive crossover: the fast signal moves from below to above the slow one.
	Positive CrossoverKind = iota
	// Negative crossover: the fast signal moves from above to below the slow one.
	Negative
)

func (k CrossoverKind) String() string {
	if k == Negative {
		return "negative"
	}
	return "positive"
}

// Crossover is a single crossover event.
type Crossover struct {
	Date date.Date
	Kind CrossoverKind
}

// Crossovers is the result of a crossover scan.
type Crossovers struct {
	Symbol string
	// Fast is the fast moving average window, 0 when the fast signal is the closing price.
	Fast int
	// Slow is the slow moving average window.
	Slow int
	// Range is the scanned range, after clamping to the available records.
	Range date.Range
	// Events are sorted newest first.
	Events []Crossover
}

func (c Crossovers) String() string {
	name := "crossover"
	if c.Fast > 0 {
		name = "moving crossover"
	}
	if len(c.Events) == 0 {
		return "No " + name + "s for given period."
	}
	var b strings.Builder
	for _, e := range c.Events {
		fmt.Fprintf(&b, "%s %s for:%s\n", e.Kind, name, e.Date)
	}
	return b.String()
}

// Crossovers detects the days in [start, end] where symbol's closing price
// crosses its 30-day moving average.
func (m *Market) Crossovers(symbol string, start, end date.Date) (Crossovers, error) {
	return m.crossovers(symbol, start, end, 0, CrossoverWindow)
}

// MovingCrossovers detects the days in [start, end] where symbol's x-day
// moving average crosses its y-day moving average. x must be less than y.
func (m *Market) MovingCrossovers(symbol string, start, end date.Date, x, y int) (Crossovers, error) {
	if x >= y {
		return Crossovers{}, fmt.Errorf("%w: x cannot be bigger than or equal to y, x:%d, y:%d", ErrInvalidArgument, x, y)
	}
	if x <= 0 {
		return Crossovers{}, fmt.Errorf("%w: moving average window must be positive, got %d", ErrInvalidArgument, x)
	}
	return m.crossovers(symbol, start, end, x, y)
}

// crossovers scans from end to start comparing the fast signal (closing
// price when fast is 0) to the slow moving average, today and yesterday.
func (m *Market) crossovers(symbol string, start, end date.Date, fast, slow int) (Crossovers, error) {
	if start.After(end) {
		return Crossovers{}, fmt.Errorf("%w: start date %s is after end date %s", ErrInvalidArgument, start, end)
	}
	s, err := m.get(symbol)
	if err != nil {
		return Crossovers{}, err
	}
	// every scanned day needs a slow average for itself and the day before.
	if len(s) < slow+1 {
		return Crossovers{}, fmt.Errorf("%w: %s does not have %d days of data for two days", ErrInsufficientData, symbol, slow)
	}

	r := date.Range{From: start, To: end}
	first, last := s[slow].Date, s[len(s)-1].Date
	if last.Before(r.To) {
		if last.Before(r.From) {
			return Crossovers{}, fmt.Errorf("%w: no data for %s in range %v", ErrInsufficientRange, symbol, r)
		}
		r.To = last
	}
	if first.After(r.From) {
		if first.After(r.To) {
			return Crossovers{}, fmt.Errorf("%w: no data for %s in range %v", ErrInsufficientRange, symbol, r)
		}
		r.From = first
	}

	closes := s.closes()
	slowMA := movingAverages(closes, slow)
	fastSignal := closes
	if fast > 0 {
		fastSignal = movingAverages(closes, fast)
	}

	result := Crossovers{Symbol: symbol, Fast: fast, Slow: slow, Range: r}
	lo, _ := s.search(r.From)
	for i := s.asOf(r.To); i >= lo; i-- {
		today, yesterday := fastSignal[i], fastSignal[i-1]
		switch {
		case today > slowMA[i] && yesterday < slowMA[i-1]:
			result.Events = append(result.Events, Crossover{Date: s[i].Date, Kind: Positive})
		case today < slowMA[i] && yesterday > slowMA[i-1]:
			result.Events = append(result.Events, Crossover{Date: s[i].Date, Kind: Negative})
		}
	}
	return result, nil
}

// movingAverages returns, for each index, the moving average of the window
// values ending there, rounded to 2 decimals, as MovingAverage computes it.
// The first window-1 values are zero.
func movingAverages(values []float64, window int) []float64 {
	ma := make([]float64, len(values))
	for i := window - 1; i < len(values); i++ {
		ma[i] = windowMean(values, i, window)
	}
	return ma
}
