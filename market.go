package stocklots

import (
	"fmt"
	"slices"
	"sync"

	"github.com/etnz/stocklots/date"
	"github.com/rs/zerolog/log"
)

// DefaultStaleDays is the number of calendar days after which a symbol
// without a new record is presumed delisted.
const DefaultStaleDays = 10

// DailyRecord is the end of day summary of a symbol on a trading day.
type DailyRecord struct {
	Date   date.Date
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Provider returns the daily records of a symbol, in any order.
type Provider interface {
	Fetch(symbol string) ([]DailyRecord, error)
}

// MarketOptions configures a Market.
type MarketOptions struct {
	// StaleDays overrides DefaultStaleDays when positive.
	StaleDays int
	// Today overrides date.Today, mostly for tests.
	Today func() date.Date
}

// Market answers calendar queries for symbols using the records of a Provider.
//
// Records are fetched once per symbol and kept for the life of the Market.
type Market struct {
	provider  Provider
	staleDays int
	today     func() date.Date

	mu     sync.Mutex
	series map[string]series
}

// NewMarket returns a Market reading records from p.
func NewMarket(p Provider, opts MarketOptions) *Market {
	m := &Market{
		provider:  p,
		staleDays: DefaultStaleDays,
		today:     date.Today,
		series:    make(map[string]series),
	}
	if opts.StaleDays > 0 {
		m.staleDays = opts.StaleDays
	}
	if opts.Today != nil {
		m.today = opts.Today
	}
	return m
}

// Today returns the current date as seen by the market.
func (m *Market) Today() date.Date { return m.today() }

// StaleDays returns the staleness threshold in calendar days.
func (m *Market) StaleDays() int { return m.staleDays }

// Has reports whether the provider knows symbol.
func (m *Market) Has(symbol string) bool {
	_, err := m.get(symbol)
	return err == nil
}

// Records returns the records of symbol in chronological order.
func (m *Market) Records(symbol string) ([]DailyRecord, error) {
	s, err := m.get(symbol)
	if err != nil {
		return nil, err
	}
	return slices.Clone(s), nil
}

// Forget drops the cached records of symbol so that the next query fetches them again.
func (m *Market) Forget(symbol string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.series, symbol)
}

// get returns the normalized series of symbol, fetching it if needed.
func (m *Market) get(symbol string) (series, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.series[symbol]; ok {
		return s, nil
	}
	records, err := m.provider.Fetch(symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, symbol, err)
	}
	s := newSeries(records)
	log.Debug().Str("symbol", symbol).Int("records", len(s)).Msg("market data loaded")
	m.series[symbol] = s
	return s, nil
}

// series is a chronologically sorted list of daily records with unique dates.
type series []DailyRecord

// newSeries sorts records and removes duplicated dates, the last one wins.
func newSeries(records []DailyRecord) series {
	s := slices.Clone(records)
	slices.SortStableFunc(s, func(a, b DailyRecord) int { return a.Date.Compare(b.Date) })
	// compact duplicates keeping the last occurrence of each date.
	out := s[:0]
	for i, r := range s {
		if i+1 < len(s) && s[i+1].Date == r.Date {
			continue
		}
		out = append(out, r)
	}
	return out
}

// search returns the index of day in s and whether it was found. When not
// found, the index is where day would be inserted.
func (s series) search(day date.Date) (int, bool) {
	return slices.BinarySearchFunc(s, day, func(r DailyRecord, t date.Date) int { return r.Date.Compare(t) })
}

// exact returns the index of the record on day, or -1.
func (s series) exact(day date.Date) int {
	i, found := s.search(day)
	if !found {
		return -1
	}
	return i
}

// asOf returns the index of the latest record on or before day, or -1.
func (s series) asOf(day date.Date) int {
	i, found := s.search(day)
	if found {
		return i
	}
	// i is the insertion point, the previous record is the latest before day.
	return i - 1
}

// latest returns the most recent record.
func (s series) latest() (DailyRecord, bool) {
	if len(s) == 0 {
		return DailyRecord{}, false
	}
	return s[len(s)-1], true
}

// closes returns the closing prices of s.
func (s series) closes() []float64 {
	c := make([]float64, len(s))
	for i, r := range s {
		c[i] = r.Close
	}
	return c
}
