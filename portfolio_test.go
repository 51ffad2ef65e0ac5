package stocklots

import (
	"errors"
	"testing"
)

func TestPortfolio_AddStock(t *testing.T) {
	m := newTestMarket("2024-03-15", aaplAndMSFT())
	p := NewPortfolio("simple", m)

	lot, err := p.AddStock("AAPL", Q(10))
	if err != nil {
		t.Fatalf("AddStock() unexpected error: %v", err)
	}
	if lot.Date != day("2024-03-15") || !lot.Price.Equal(M(155)) || !lot.InitialPrice.Equal(M(155)) {
		t.Errorf("AddStock() = %v, want 10 AAPL at 155 on 2024-03-15", lot)
	}
	if _, err := p.AddStock("MSFT", Q(2)); err != nil {
		t.Fatalf("AddStock() unexpected error: %v", err)
	}
	if want := M(10*155 + 2*400); !p.Value().Equal(want) || !p.InitialValue().Equal(want) {
		t.Errorf("value = %s, initial value = %s, want %s", p.Value(), p.InitialValue(), want)
	}
	if !p.HasSymbol("MSFT") || p.HasSymbol("IBM") {
		t.Errorf("HasSymbol() does not match the added stocks")
	}
}

func TestPortfolio_AddStockErrors(t *testing.T) {
	m := newTestMarket("2024-06-01", aaplAndMSFT())
	p := NewPortfolio("simple", m)

	if _, err := p.AddStock("AAPL", Q(1)); !errors.Is(err, ErrStaleData) {
		t.Errorf("AddStock(stale) error = %v, want %v", err, ErrStaleData)
	}
	if _, err := p.AddStock("AAPL", Q(0)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("AddStock(0) error = %v, want %v", err, ErrInvalidArgument)
	}
	if p.Ledger().Len() != 0 {
		t.Errorf("failed AddStock() wrote %v", p.Ledger().Lots())
	}
}

func TestPortfolio_UpdateAndSell(t *testing.T) {
	p := NewPortfolio("simple", newTestMarket("2024-03-15", aaplAndMSFT()))
	if _, err := p.AddStock("AAPL", Q(10)); err != nil {
		t.Fatalf("AddStock() unexpected error: %v", err)
	}

	// two weeks later AAPL closes at 170.
	later, err := RestorePortfolio(p.Record(), newTestMarket("2024-03-29", aaplAndMSFT()))
	if err != nil {
		t.Fatalf("RestorePortfolio() unexpected error: %v", err)
	}
	if err := later.Update(); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if !later.Value().Equal(M(1700)) || !later.InitialValue().Equal(M(1550)) {
		t.Errorf("Update() value = %s, initial = %s, want 1700 and 1550", later.Value(), later.InitialValue())
	}
	if lot := later.Ledger().Lots()[0]; !lot.Price.Equal(M(170)) || !lot.InitialPrice.Equal(M(155)) {
		t.Errorf("Update() lot = %v, want price 170 and initial price 155", lot)
	}

	profit, err := later.Sell()
	if err != nil {
		t.Fatalf("Sell() unexpected error: %v", err)
	}
	if !profit.Equal(M(150)) || !later.Sold() {
		t.Errorf("Sell() = %s, sold = %v, want 150 and sold", profit, later.Sold())
	}
}

func TestPortfolio_UpdateSkipsStale(t *testing.T) {
	provider := StaticProvider{
		"AAPL": weekdays("2024-03-01", "2024-04-30", constant(100)),
		"GONE": weekdays("2024-03-01", "2024-03-15", constant(10)),
	}
	p := NewPortfolio("simple", newTestMarket("2024-03-15", provider))
	for _, s := range []string{"AAPL", "GONE"} {
		if _, err := p.AddStock(s, Q(1)); err != nil {
			t.Fatalf("AddStock(%s) unexpected error: %v", s, err)
		}
	}

	later, err := RestorePortfolio(p.Record(), newTestMarket("2024-04-30", provider))
	if err != nil {
		t.Fatalf("RestorePortfolio() unexpected error: %v", err)
	}
	if err := later.Update(); !errors.Is(err, ErrStaleData) {
		t.Errorf("Update() error = %v, want %v", err, ErrStaleData)
	}
	if !later.Value().Equal(M(100)) {
		t.Errorf("Update() value = %s, want 100", later.Value())
	}
}

func TestPortfolio_ValueAt(t *testing.T) {
	p := NewPortfolio("simple", newTestMarket("2024-03-15", aaplAndMSFT()))
	if _, err := p.AddStock("AAPL", Q(10)); err != nil {
		t.Fatalf("AddStock() unexpected error: %v", err)
	}

	got, ok := p.ValueAt(day("2024-03-12"))
	if !ok || !got.Equal(M(1500)) {
		t.Errorf("ValueAt(2024-03-12) = %s, %v, want 1500", got, ok)
	}
	if _, ok := p.ValueAt(day("2024-03-10")); ok {
		t.Errorf("ValueAt(sunday) succeeded, want false")
	}
}

func TestRestore_Kind(t *testing.T) {
	m := newTestMarket("2024-03-15", aaplAndMSFT())
	if _, err := RestorePortfolio(NewSuperPortfolio("f", m).Record(), m); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("RestorePortfolio(flexible) error = %v, want %v", err, ErrInvalidArgument)
	}
	if _, err := RestoreSuperPortfolio(NewPortfolio("s", m).Record(), m); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("RestoreSuperPortfolio(simple) error = %v, want %v", err, ErrInvalidArgument)
	}
}
