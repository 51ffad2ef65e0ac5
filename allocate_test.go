package stocklots

import (
	"errors"
	"slices"
	"testing"

	"github.com/etnz/stocklots/date"
)

func TestWeightedInvest(t *testing.T) {
	m := newTestMarket("2024-04-30", aaplAndMSFT())
	p := NewSuperPortfolio("p", m)

	lots, err := p.WeightedInvest(Weights{"MSFT": 0.4, "AAPL": 0.6}, day("2024-03-12"), M(1000))
	if err != nil {
		t.Fatalf("WeightedInvest() unexpected error: %v", err)
	}
	want := []struct {
		symbol string
		shares float64
		price  float64
	}{
		{"AAPL", 4, 150},
		{"MSFT", 1, 400},
	}
	if len(lots) != len(want) {
		t.Fatalf("WeightedInvest() = %v, want %d lots", lots, len(want))
	}
	for i, w := range want {
		if lots[i].Symbol != w.symbol || !lots[i].Shares.Equal(Q(w.shares)) || !lots[i].Price.Equal(M(w.price)) {
			t.Errorf("WeightedInvest() lot #%d = %v, want %s %v @ %v", i, lots[i], w.symbol, w.shares, w.price)
		}
	}
}

func TestWeightedInvest_RoundsShares(t *testing.T) {
	m := newTestMarket("2024-04-30", aaplAndMSFT())
	p := NewSuperPortfolio("p", m)

	lots, err := p.WeightedInvest(Weights{"MSFT": 1}, day("2024-03-12"), M(1000.5))
	if err != nil {
		t.Fatalf("WeightedInvest() unexpected error: %v", err)
	}
	// 1000.5 / 400 = 2.50125
	if len(lots) != 1 || !lots[0].Shares.Equal(Q(2.5)) {
		t.Errorf("WeightedInvest() = %v, want 2.5 shares", lots)
	}
}

func TestWeightedInvest_Atomic(t *testing.T) {
	m := newTestMarket("2024-04-30", aaplAndMSFT())

	testCases := []struct {
		name    string
		weights Weights
		day     string
		total   Money
		wantErr error
	}{
		{name: "unknown symbol", weights: Weights{"AAPL": 0.3, "MSFT": 0.3, "ZZZZ": 0.4}, day: "2024-03-12", total: M(1000), wantErr: ErrPricingUnavailable},
		{name: "non trading day", weights: Weights{"AAPL": 0.5, "MSFT": 0.5}, day: "2024-03-17", total: M(1000), wantErr: ErrPricingUnavailable},
		{name: "no weights", weights: Weights{}, day: "2024-03-12", total: M(1000), wantErr: ErrInvalidArgument},
		{name: "no money", weights: Weights{"AAPL": 1}, day: "2024-03-12", total: M(0), wantErr: ErrInvalidArgument},
		{name: "negative weight", weights: Weights{"AAPL": 1.5, "MSFT": -0.5}, day: "2024-03-12", total: M(1000), wantErr: ErrInvalidArgument},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewSuperPortfolio("p", m)
			_, err := p.WeightedInvest(tc.weights, day(tc.day), tc.total)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("WeightedInvest() error = %v, want %v", err, tc.wantErr)
			}
			if p.Ledger().Len() != 0 {
				t.Errorf("failed WeightedInvest() wrote %v", p.Ledger().Lots())
			}
		})
	}
}

func TestDollarCostAverage(t *testing.T) {
	m := newTestMarket("2024-04-30", aaplAndMSFT())
	p := NewSuperPortfolio("p", m)

	// 2024-03-17 and 2024-03-23 are weekends: the next trading day is used
	// and the period restarts from there.
	got, err := p.DollarCostAverage(Weights{"AAPL": 0.5, "MSFT": 0.5}, day("2024-03-12"), day("2024-04-01"), M(800), 5)
	if err != nil {
		t.Fatalf("DollarCostAverage() unexpected error: %v", err)
	}
	want := []date.Date{day("2024-03-12"), day("2024-03-18"), day("2024-03-25"), day("2024-04-01")}
	if !slices.Equal(got, want) {
		t.Errorf("DollarCostAverage() = %v, want %v", got, want)
	}
	if p.Ledger().Len() != 2*len(want) {
		t.Errorf("DollarCostAverage() wrote %d lots, want %d", p.Ledger().Len(), 2*len(want))
	}
	if got := p.Ledger().Position("MSFT", day("2024-04-01")); !got.Equal(Q(4)) {
		t.Errorf("Position(MSFT) = %s, want 4", got)
	}
}

func TestDollarCostAverage_Errors(t *testing.T) {
	m := newTestMarket("2024-04-30", aaplAndMSFT())
	w := Weights{"AAPL": 1}

	testCases := []struct {
		name       string
		start, end string
		period     int
		wantErr    error
	}{
		{name: "inverted range", start: "2024-04-01", end: "2024-03-12", period: 5, wantErr: ErrInvalidArgument},
		{name: "zero period", start: "2024-03-12", end: "2024-04-01", period: 0, wantErr: ErrInvalidArgument},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewSuperPortfolio("p", m)
			if _, err := p.DollarCostAverage(w, day(tc.start), day(tc.end), M(100), tc.period); !errors.Is(err, tc.wantErr) {
				t.Errorf("DollarCostAverage() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestDollarCostAverage_NothingToInvest(t *testing.T) {
	m := newTestMarket("2024-04-30", aaplAndMSFT())
	p := NewSuperPortfolio("p", m)

	got, err := p.DollarCostAverage(Weights{"ZZZZ": 1}, day("2024-03-12"), day("2024-03-20"), M(100), 2)
	if err != nil {
		t.Fatalf("DollarCostAverage() unexpected error: %v", err)
	}
	if len(got) != 0 || p.Ledger().Len() != 0 {
		t.Errorf("DollarCostAverage() = %v with %d lots, want nothing", got, p.Ledger().Len())
	}
}
