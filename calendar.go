package stocklots

import (
	"fmt"

	"github.com/etnz/stocklots/date"
)

// PriceOnOrBefore returns the closing price of the latest record of symbol
// dated on or before day.
//
// It fails with ErrNoSuchDate when day is in the future, when there is no
// such record, or when the symbol had no new record for more than StaleDays
// before day (the symbol may have quit the market).
func (m *Market) PriceOnOrBefore(symbol string, day date.Date) (float64, error) {
	r, err := m.recordOnOrBefore(symbol, day)
	if err != nil {
		return 0, err
	}
	return r.Close, nil
}

func (m *Market) recordOnOrBefore(symbol string, day date.Date) (DailyRecord, error) {
	if day.After(m.today()) {
		return DailyRecord{}, fmt.Errorf("%w: cannot get future price of %s on %s", ErrNoSuchDate, symbol, day)
	}
	s, err := m.get(symbol)
	if err != nil {
		return DailyRecord{}, err
	}
	latest, ok := s.latest()
	if !ok {
		return DailyRecord{}, fmt.Errorf("%w: no record for %s", ErrNoSuchDate, symbol)
	}
	if m.isStale(latest.Date, day) {
		return DailyRecord{}, fmt.Errorf("%w: %s may have quit the market before %s, no price update for more than %d days", ErrNoSuchDate, symbol, day, m.staleDays)
	}
	i := s.asOf(day)
	if i < 0 {
		return DailyRecord{}, fmt.Errorf("%w: no record for %s on or before %s", ErrNoSuchDate, symbol, day)
	}
	if m.isStale(s[i].Date, day) {
		return DailyRecord{}, fmt.Errorf("%w: latest price of %s before %s is from %s, more than %d days old", ErrNoSuchDate, symbol, day, s[i].Date, m.staleDays)
	}
	return s[i], nil
}

// isStale reports whether a record on 'on' is too old to price 'day'.
func (m *Market) isStale(on, day date.Date) bool { return on.Add(m.staleDays).Before(day) }

// PriceOnExactDate returns the closing price of symbol on day, failing with
// ErrNoSuchDate if there is no record on that exact day.
func (m *Market) PriceOnExactDate(symbol string, day date.Date) (float64, error) {
	r, err := m.recordOn(symbol, day)
	if err != nil {
		return 0, err
	}
	return r.Close, nil
}

func (m *Market) recordOn(symbol string, day date.Date) (DailyRecord, error) {
	s, err := m.get(symbol)
	if err != nil {
		return DailyRecord{}, err
	}
	i := s.exact(day)
	if i < 0 {
		return DailyRecord{}, fmt.Errorf("%w: no record for %s on %s", ErrNoSuchDate, symbol, day)
	}
	return s[i], nil
}

// VolumeOnDate returns the volume traded for symbol on day, failing with
// ErrNoSuchDate if there is no record on that exact day.
func (m *Market) VolumeOnDate(symbol string, day date.Date) (int64, error) {
	r, err := m.recordOn(symbol, day)
	if err != nil {
		return 0, err
	}
	return r.Volume, nil
}

// LatestClose returns the most recent closing price of symbol as of today.
// It fails with ErrStaleData if that record is StaleDays old or older.
func (m *Market) LatestClose(symbol string) (float64, error) {
	s, err := m.get(symbol)
	if err != nil {
		return 0, err
	}
	today := m.today()
	i := s.asOf(today)
	if i < 0 {
		return 0, fmt.Errorf("%w: no record for %s", ErrStaleData, symbol)
	}
	latest := s[i]
	if !latest.Date.Add(m.staleDays).After(today) {
		return 0, fmt.Errorf("%w: %s may have quit the market, no price update since %s", ErrStaleData, symbol, latest.Date)
	}
	return latest.Close, nil
}
