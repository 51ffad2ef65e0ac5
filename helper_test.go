package stocklots

import (
	"time"

	"github.com/etnz/stocklots/date"
)

// day is a short helper for tests.
func day(s string) date.Date { return date.MustParse(s) }

// weekdays generates a record for every Monday to Friday from 'from' to
// 'to' inclusive. close gives the closing price of the i-th record; open is
// one less than close.
func weekdays(from, to string, close func(i int, d date.Date) float64) []DailyRecord {
	var records []DailyRecord
	for d, i := day(from), 0; !d.After(day(to)); d = d.Add(1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		c := close(i, d)
		records = append(records, DailyRecord{Date: d, Open: c - 1, High: c + 1, Low: c - 2, Close: c, Volume: 1000})
		i++
	}
	return records
}

// constant returns a close function for weekdays that always returns v.
func constant(v float64) func(int, date.Date) float64 {
	return func(int, date.Date) float64 { return v }
}

// newTestMarket returns a market over p where today is the given day.
func newTestMarket(today string, p Provider) *Market {
	t := day(today)
	return NewMarket(p, MarketOptions{Today: func() date.Date { return t }})
}

// aaplAndMSFT is a market with AAPL and MSFT trading every weekday in March
// and April 2024. AAPL closes at 150 on 2024-03-12, 160 on 2024-03-20 and
// 170 from 2024-03-25 on, 155 otherwise. MSFT always closes at 400.
func aaplAndMSFT() StaticProvider {
	aapl := func(_ int, d date.Date) float64 {
		switch {
		case d == day("2024-03-12"):
			return 150
		case d == day("2024-03-20"):
			return 160
		case !d.Before(day("2024-03-25")):
			return 170
		default:
			return 155
		}
	}
	return StaticProvider{
		"AAPL": weekdays("2024-03-01", "2024-04-30", aapl),
		"MSFT": weekdays("2024-03-01", "2024-04-30", constant(400)),
	}
}
