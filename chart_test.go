package stocklots

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/etnz/stocklots/date"
)

// weekdayValuer values weekdays at their day of month.
func weekdayValuer(d date.Date) (float64, bool) {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return 0, false
	}
	return float64(d.Day()), true
}

func TestBuildSeries(t *testing.T) {
	c, err := BuildSeries(day("2024-01-01"), day("2024-06-30"), weekdayValuer)
	if err != nil {
		t.Fatalf("BuildSeries() unexpected error: %v", err)
	}
	// every weekday of the first half of 2024.
	if len(c.Daily) != 130 {
		t.Errorf("len(Daily) = %d, want 130", len(c.Daily))
	}
	wantMonths := []string{"2024-01-31", "2024-02-29", "2024-03-29", "2024-04-30", "2024-05-31", "2024-06-28"}
	if len(c.Monthly) != len(wantMonths) {
		t.Fatalf("Monthly = %v, want %d points", c.Monthly, len(wantMonths))
	}
	for i, w := range wantMonths {
		if c.Monthly[i].Date != day(w) {
			t.Errorf("Monthly[%d] = %v, want %s", i, c.Monthly[i], w)
		}
	}
	if len(c.Yearly) != 0 {
		t.Errorf("Yearly = %v, want nothing before the end of the year", c.Yearly)
	}

	if _, err := BuildSeries(day("2024-06-30"), day("2024-01-01"), weekdayValuer); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("BuildSeries(inverted) error = %v, want %v", err, ErrInvalidArgument)
	}
}

func TestBuildSeries_Yearly(t *testing.T) {
	c, err := BuildSeries(day("2019-06-01"), day("2024-01-15"), weekdayValuer)
	if err != nil {
		t.Fatalf("BuildSeries() unexpected error: %v", err)
	}
	want := []string{"2019-12-31", "2020-12-31", "2021-12-31", "2022-12-30", "2023-12-29"}
	if len(c.Yearly) != len(want) {
		t.Fatalf("Yearly = %v, want %d points", c.Yearly, len(want))
	}
	for i, w := range want {
		if c.Yearly[i].Date != day(w) {
			t.Errorf("Yearly[%d] = %v, want %s", i, c.Yearly[i], w)
		}
	}
}

func TestRender(t *testing.T) {
	s := Series{
		{Date: day("2024-01-01"), Value: 10},
		{Date: day("2024-01-02"), Value: 20.5},
		{Date: day("2024-01-03"), Value: 50},
	}
	got, err := Render(s, date.Daily, ChartOptions{})
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	want := "Performance of Portfolio/Stock from 2024-01-01 to 2024-01-03\n" +
		"2024-01-01: **********\n" +
		"2024-01-02: *********************\n" +
		"2024-01-03: **************************************************\n" +
		"Scale: * = 1 units\n\n"
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRender_Monthly(t *testing.T) {
	var s Series
	for _, d := range []string{"2024-01-31", "2024-02-29", "2024-03-29", "2024-04-30", "2024-05-31"} {
		s = append(s, Point{Date: day(d), Value: 100})
	}
	got, err := Render(s, date.Monthly, ChartOptions{Width: 10})
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	wantLines := []string{
		"Performance of Portfolio/Stock from 2024 JANUARY to 2024 MAY",
		"2024 JAN: **********",
		"2024 MAY: **********",
		"Scale: * = 10 units",
	}
	for _, w := range wantLines {
		if !strings.Contains(got, w+"\n") {
			t.Errorf("Render() =\n%s\nwant line %q", got, w)
		}
	}

	got, err = Render(s[:4], date.Monthly, ChartOptions{})
	if err != nil || got != "" {
		t.Errorf("Render(4 months) = %q, %v, want nothing", got, err)
	}
	got, err = Render(nil, date.Yearly, ChartOptions{})
	if err != nil || got != "" {
		t.Errorf("Render(no year) = %q, %v, want nothing", got, err)
	}
	if _, err := Render(nil, date.Daily, ChartOptions{}); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Render(no day) error = %v, want %v", err, ErrInsufficientData)
	}
}

func TestRender_Sampling(t *testing.T) {
	testCases := []struct {
		points, lines int
	}{
		{points: 1, lines: 1},
		{points: 30, lines: 30},
		{points: 31, lines: 16},  // every 2nd point
		{points: 59, lines: 30},  // 59 % 29 == 1: every 2nd point
		{points: 58, lines: 20},  // every 3rd point
		{points: 300, lines: 28}, // every 11th point
	}
	for _, tc := range testCases {
		var s Series
		for i := range tc.points {
			s = append(s, Point{Date: day("2024-01-01").Add(i), Value: float64(i + 1)})
		}
		got, err := Render(s, date.Daily, ChartOptions{})
		if err != nil {
			t.Fatalf("Render(%d points) unexpected error: %v", tc.points, err)
		}
		// header and footer plus the trailing empty line.
		if lines := strings.Count(got, "\n") - 3; lines != tc.lines {
			t.Errorf("Render(%d points) has %d lines, want %d", tc.points, lines, tc.lines)
		}
	}
}

func TestChart_Render(t *testing.T) {
	m := newTestMarket("2024-04-30", aaplAndMSFT())
	c, err := m.StockChart("MSFT", day("2024-03-01"), day("2024-04-30"))
	if err != nil {
		t.Fatalf("StockChart() unexpected error: %v", err)
	}
	if len(c.Daily) != 61 || len(c.Monthly) != 2 {
		t.Errorf("StockChart() has %d days and %d months, want 61 and 2", len(c.Daily), len(c.Monthly))
	}
	got, err := c.Render(DefaultChartOptions())
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	// monthly and yearly sections have too few points.
	if n := strings.Count(got, "Performance of"); n != 1 {
		t.Errorf("Render() has %d sections, want 1:\n%s", n, got)
	}
	if !strings.HasSuffix(got, "Scale: * = 8 units\n\n") {
		t.Errorf("Render() =\n%s\nwant a scale of 8", got)
	}

	if _, err := m.StockChart("ZZZZ", day("2024-03-01"), day("2024-04-30")); !errors.Is(err, ErrUnavailable) {
		t.Errorf("StockChart(ZZZZ) error = %v, want %v", err, ErrUnavailable)
	}
}

func TestStockChart_Weekend(t *testing.T) {
	m := newTestMarket("2024-04-30", aaplAndMSFT())
	// Friday to Monday.
	c, err := m.StockChart("AAPL", day("2024-03-22"), day("2024-03-25"))
	if err != nil {
		t.Fatalf("StockChart() unexpected error: %v", err)
	}
	want := Series{
		{Date: day("2024-03-22"), Value: 155},
		{Date: day("2024-03-23"), Value: 155},
		{Date: day("2024-03-24"), Value: 155},
		{Date: day("2024-03-25"), Value: 170},
	}
	if fmt.Sprint(c.Daily) != fmt.Sprint(want) {
		t.Errorf("StockChart() = %v, want %v", c.Daily, want)
	}

	// days before the first record are skipped.
	c, err = m.StockChart("AAPL", day("2024-02-28"), day("2024-03-01"))
	if err != nil {
		t.Fatalf("StockChart() unexpected error: %v", err)
	}
	if len(c.Daily) != 1 || c.Daily[0].Date != day("2024-03-01") {
		t.Errorf("StockChart() = %v, want only 2024-03-01", c.Daily)
	}
}

func TestSuperPortfolio_Chart(t *testing.T) {
	m := newTestMarket("2024-04-30", aaplAndMSFT())
	p := NewSuperPortfolio("p", m)
	if _, err := p.Buy("MSFT", Q(2), day("2024-03-04")); err != nil {
		t.Fatalf("Buy() unexpected error: %v", err)
	}
	c, err := p.Chart(day("2024-03-01"), day("2024-03-10"))
	if err != nil {
		t.Fatalf("Chart() unexpected error: %v", err)
	}
	// every day can be valued, before the buy the value is 0.
	if len(c.Daily) != 10 || c.Daily[0].Value != 0 || c.Daily[9].Value != 800 {
		t.Errorf("Chart() = %v, want 10 days from 0 to 800", c.Daily)
	}
}
