package stocklots

import (
	"fmt"
	"math"
	"strings"

	"github.com/etnz/stocklots/date"
	"gonum.org/v1/gonum/floats"
)

// Point is a dated value of a Series.
type Point struct {
	Date  date.Date
	Value float64
}

// Series is a chronological list of points.
type Series []Point

// Values returns the values of s.
func (s Series) Values() []float64 {
	v := make([]float64, len(s))
	for i, p := range s {
		v[i] = p.Value
	}
	return v
}

// Chart holds the daily, monthly and yearly series of a value over a range.
type Chart struct {
	Range   date.Range
	Daily   Series
	Monthly Series
	Yearly  Series
}

// Series returns the series of the given granularity.
func (c Chart) Series(p date.Period) Series {
	switch p {
	case date.Monthly:
		return c.Monthly
	case date.Yearly:
		return c.Yearly
	default:
		return c.Daily
	}
}

// BuildSeries walks every calendar day from start to end and values it with
// valuer. Days valuer cannot value are skipped.
//
// The monthly (resp. yearly) series holds, for each month (resp. year) whose
// last day is in the range, the last value resolved in that month (resp. year).
func BuildSeries(start, end date.Date, valuer func(date.Date) (float64, bool)) (Chart, error) {
	if start.After(end) {
		return Chart{}, fmt.Errorf("%w: start date %s is after end date %s", ErrInvalidArgument, start, end)
	}
	c := Chart{Range: date.Range{From: start, To: end}}
	var month, year *Point
	for day := start; !day.After(end); day = day.Add(1) {
		if v, ok := valuer(day); ok {
			p := Point{Date: day, Value: v}
			c.Daily = append(c.Daily, p)
			month, year = &p, &p
		}
		if month != nil && date.Monthly.IsLast(day) {
			c.Monthly = append(c.Monthly, *month)
			month = nil
		}
		if year != nil && date.Yearly.IsLast(day) {
			c.Yearly = append(c.Yearly, *year)
			year = nil
		}
	}
	return c, nil
}

// StockChart builds the closing price chart of symbol between start and end.
// Every calendar day is priced on or before itself, so weekends and holidays
// carry the previous close.
func (m *Market) StockChart(symbol string, start, end date.Date) (Chart, error) {
	if _, err := m.get(symbol); err != nil {
		return Chart{}, err
	}
	return BuildSeries(start, end, func(day date.Date) (float64, bool) {
		price, err := m.PriceOnOrBefore(symbol, day)
		return price, err == nil
	})
}

// Default chart rendering settings.
const (
	DefaultChartBuckets   = 29
	DefaultChartMinPoints = 5
	DefaultChartWidth     = 50
)

// ChartOptions tunes the text rendering of a chart.
type ChartOptions struct {
	// Buckets is the number of lines a long series is sampled down to.
	Buckets int
	// MinPoints is the number of points under which monthly and yearly
	// series are not rendered.
	MinPoints int
	// Width is the number of stars of the largest value.
	Width int
}

// DefaultChartOptions returns the default settings.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{Buckets: DefaultChartBuckets, MinPoints: DefaultChartMinPoints, Width: DefaultChartWidth}
}

func (o ChartOptions) withDefaults() ChartOptions {
	d := DefaultChartOptions()
	if o.Buckets <= 0 {
		o.Buckets = d.Buckets
	}
	if o.MinPoints <= 0 {
		o.MinPoints = d.MinPoints
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	return o
}

// interval returns the sampling step for a series of n points.
func (o ChartOptions) interval(n int) int {
	switch {
	case n <= o.Buckets+1:
		return 1
	case n%o.Buckets == 1:
		return n / o.Buckets
	default:
		return n/o.Buckets + 1
	}
}

// Render draws s as a bar chart of stars, one line per sampled point.
//
// Monthly and yearly series with fewer than MinPoints points render to an
// empty string. An empty daily series is an error.
func Render(s Series, period date.Period, opts ChartOptions) (string, error) {
	opts = opts.withDefaults()
	if period != date.Daily && len(s) < opts.MinPoints {
		return "", nil
	}
	if len(s) == 0 {
		return "", fmt.Errorf("%w: no value in the date range", ErrInsufficientData)
	}

	var b strings.Builder
	first, last := s[0].Date, s[len(s)-1].Date
	fmt.Fprintf(&b, "Performance of Portfolio/Stock from %s to %s\n", period.HeaderLabel(first), period.HeaderLabel(last))

	scale := floats.Max(s.Values()) / float64(opts.Width)
	step := opts.interval(len(s))
	for i := 0; i < len(s); i += step {
		stars := 0
		if scale > 0 {
			stars = int(math.Round(s[i].Value / scale))
		}
		fmt.Fprintf(&b, "%s: %s\n", period.Label(s[i].Date), strings.Repeat("*", max(stars, 0)))
	}
	fmt.Fprintf(&b, "Scale: * = %s units\n\n", formatFloat(scale))
	return b.String(), nil
}

// Render draws the daily, monthly and yearly charts one after the other.
func (c Chart) Render(opts ChartOptions) (string, error) {
	var b strings.Builder
	for _, p := range []date.Period{date.Daily, date.Monthly, date.Yearly} {
		s, err := Render(c.Series(p), p, opts)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}
