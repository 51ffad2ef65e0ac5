package stocklots

import (
	"errors"
	"fmt"

	"github.com/etnz/stocklots/date"
	"github.com/rs/zerolog/log"
)

// Kind tells how a portfolio can be traded.
type Kind string

const (
	// Simple portfolios hold stocks added at the latest price, without dated trading.
	Simple Kind = "simple"
	// Flexible portfolios record dated buys and sells.
	Flexible Kind = "flexible"
)

// Record is the plain state of a portfolio, as exchanged with a store.
type Record struct {
	Name         string `json:"name"`
	Kind         Kind   `json:"kind"`
	Sold         bool   `json:"sold"`
	Value        Money  `json:"value"`
	InitialValue Money  `json:"initialValue"`
	Lots         []Lot  `json:"-"`
}

// book holds what both portfolio kinds share: a name, a lot ledger and the
// last computed valuation.
type book struct {
	name         string
	sold         bool
	value        Money
	initialValue Money
	ledger       *LotLedger
	market       *Market
}

func newBook(name string, m *Market) book {
	return book{name: name, ledger: new(LotLedger), market: m}
}

func restoreBook(r Record, want Kind, m *Market) (book, error) {
	if r.Kind != want {
		return book{}, fmt.Errorf("%w: portfolio %q is %s, not %s", ErrInvalidArgument, r.Name, r.Kind, want)
	}
	return book{
		name:         r.Name,
		sold:         r.Sold,
		value:        r.Value,
		initialValue: r.InitialValue,
		ledger:       NewLotLedger(r.Lots...),
		market:       m,
	}, nil
}

// Name returns the portfolio name.
func (b *book) Name() string { return b.name }

// Sold reports whether the portfolio has been sold.
func (b *book) Sold() bool { return b.sold }

// Value returns the value computed by the last update.
func (b *book) Value() Money { return b.value }

// InitialValue returns the reference value profits are computed against.
func (b *book) InitialValue() Money { return b.initialValue }

// Ledger returns the portfolio lots.
func (b *book) Ledger() *LotLedger { return b.ledger }

// HasSymbol reports whether the portfolio holds any lot of symbol.
func (b *book) HasSymbol(symbol string) bool { return b.ledger.Has(symbol) }

func (b *book) record(kind Kind) Record {
	return Record{
		Name:         b.name,
		Kind:         kind,
		Sold:         b.sold,
		Value:        b.value,
		InitialValue: b.initialValue,
		Lots:         b.ledger.Lots(),
	}
}

// Portfolio is a simple portfolio: stocks are added at their latest closing
// price and the portfolio can only be revalued or sold as a whole.
type Portfolio struct {
	book
}

// NewPortfolio returns an empty simple portfolio priced with m.
func NewPortfolio(name string, m *Market) *Portfolio {
	return &Portfolio{book: newBook(name, m)}
}

// RestorePortfolio rebuilds a simple portfolio from its record.
func RestorePortfolio(r Record, m *Market) (*Portfolio, error) {
	b, err := restoreBook(r, Simple, m)
	if err != nil {
		return nil, err
	}
	return &Portfolio{book: b}, nil
}

// Record returns the portfolio state.
func (p *Portfolio) Record() Record { return p.record(Simple) }

// AddStock adds shares of symbol, priced at its latest close and dated today.
// The initial value is reset to the new value.
func (p *Portfolio) AddStock(symbol string, shares Quantity) (Lot, error) {
	if !shares.IsPositive() {
		return Lot{}, fmt.Errorf("%w: shares must be positive, got %s", ErrInvalidArgument, shares)
	}
	price, err := p.market.LatestClose(symbol)
	if err != nil {
		return Lot{}, err
	}
	lot := Lot{
		Symbol:       symbol,
		Shares:       shares,
		Date:         p.market.Today(),
		Price:        M(price).Round(),
		InitialPrice: M(price).Round(),
	}
	p.ledger.insert(lot)
	p.value = p.value.Add(lot.Cost()).Round()
	p.initialValue = p.value
	return lot, nil
}

// Update reprices every lot at its symbol's latest close and recomputes the
// value. Lots whose symbol has stale data keep their price and are left out
// of the value; their errors are joined in the returned error.
func (p *Portfolio) Update() error {
	var total Money
	var errs []error
	for i := range p.ledger.lots {
		lot := &p.ledger.lots[i]
		price, err := p.market.LatestClose(lot.Symbol)
		if err != nil {
			log.Debug().Str("portfolio", p.name).Str("symbol", lot.Symbol).Err(err).Msg("lot not repriced")
			errs = append(errs, err)
			continue
		}
		lot.Price = M(price).Round()
		total = total.Add(lot.Cost())
	}
	p.value = total.Round()
	return errors.Join(errs...)
}

// ValueAt returns the value of the portfolio using the closing prices on
// day. It returns false when a symbol has no record on that exact day.
func (p *Portfolio) ValueAt(day date.Date) (Money, bool) {
	var total Money
	for _, lot := range p.ledger.lots {
		price, err := p.market.PriceOnExactDate(lot.Symbol, day)
		if err != nil {
			return Money{}, false
		}
		total = total.Add(M(price).Round().Mul(lot.Shares))
	}
	return total.Round(), true
}

// Sell updates the portfolio, marks it sold and returns the profit against
// its initial value.
func (p *Portfolio) Sell() (Money, error) {
	err := p.Update()
	p.sold = true
	return p.value.Sub(p.initialValue).Round(), err
}

// Chart builds the value chart of the portfolio between start and end.
// Days where it cannot be valued are skipped.
func (p *Portfolio) Chart(start, end date.Date) (Chart, error) {
	return BuildSeries(start, end, func(day date.Date) (float64, bool) {
		v, ok := p.ValueAt(day)
		return v.Float64(), ok
	})
}
