package stocklots

import (
	"fmt"

	"github.com/etnz/stocklots/date"
	"github.com/rs/zerolog/log"
)

// SuperPortfolio is a flexible portfolio: an ordered ledger of dated buy and
// sell lots priced at their trade date.
//
// A SuperPortfolio is not safe for concurrent mutation.
type SuperPortfolio struct {
	book
}

// NewSuperPortfolio returns an empty flexible portfolio priced with m.
func NewSuperPortfolio(name string, m *Market) *SuperPortfolio {
	return &SuperPortfolio{book: newBook(name, m)}
}

// RestoreSuperPortfolio rebuilds a flexible portfolio from its record.
func RestoreSuperPortfolio(r Record, m *Market) (*SuperPortfolio, error) {
	b, err := restoreBook(r, Flexible, m)
	if err != nil {
		return nil, err
	}
	return &SuperPortfolio{book: b}, nil
}

// Record returns the portfolio state.
func (p *SuperPortfolio) Record() Record { return p.record(Flexible) }

// tradePrice returns the closing price of symbol on day, rounded to cents.
func (p *SuperPortfolio) tradePrice(symbol string, day date.Date) (Money, error) {
	price, err := p.market.PriceOnExactDate(symbol, day)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %s on %s: %w", ErrPricingUnavailable, symbol, day, err)
	}
	return M(price).Round(), nil
}

// Buy records a purchase of shares of symbol on day, priced at that day's
// close. A buy of the same symbol on the same day is merged into the
// existing buy lot.
func (p *SuperPortfolio) Buy(symbol string, shares Quantity, day date.Date) (Lot, error) {
	if !shares.IsPositive() {
		return Lot{}, fmt.Errorf("%w: shares must be positive, got %s", ErrInvalidArgument, shares)
	}
	price, err := p.tradePrice(symbol, day)
	if err != nil {
		return Lot{}, err
	}
	lot := p.ledger.add(Lot{Symbol: symbol, Shares: shares, Date: day, Price: price, InitialPrice: price})
	if !lot.Shares.Equal(shares) {
		log.Debug().Str("portfolio", p.name).Str("symbol", symbol).Stringer("date", day).Stringer("shares", lot.Shares).Msg("merged same day buy")
	}
	return lot, nil
}

// Sell records a sale of shares of symbol on day, priced at that day's close.
//
// The sale is rejected, and the ledger left unchanged, if it would make the
// position in symbol negative at any point in time; the error is then an
// *InsufficientSharesError.
func (p *SuperPortfolio) Sell(symbol string, shares Quantity, day date.Date) (Lot, error) {
	if !shares.IsPositive() {
		return Lot{}, fmt.Errorf("%w: shares must be positive, got %s", ErrInvalidArgument, shares)
	}
	if !p.ledger.Has(symbol) {
		return Lot{}, fmt.Errorf("%w: no shares of %s to sell", ErrNoPosition, symbol)
	}
	price, err := p.tradePrice(symbol, day)
	if err != nil {
		return Lot{}, err
	}
	lot := Lot{Symbol: symbol, Shares: shares.Neg(), Date: day, Price: price, InitialPrice: price}
	i := p.ledger.insert(lot)
	if err := p.ledger.checkPosition(symbol); err != nil {
		p.ledger.remove(i)
		return Lot{}, err
	}
	return lot, nil
}

// CostBasis returns the total cost of the buys dated on or before day.
func (p *SuperPortfolio) CostBasis(day date.Date) Money { return p.ledger.CostBasis(day) }

// Proceeds returns the total amount received from the sells dated on or
// before day.
func (p *SuperPortfolio) Proceeds(day date.Date) Money {
	var total Money
	for _, lot := range p.ledger.lots {
		if lot.Date.After(day) {
			break
		}
		if !lot.IsBuy() {
			total = total.Sub(lot.Cost())
		}
	}
	return total.Round()
}

// ValueAt returns the value of the lots dated on or before day. It fails
// with ErrPricingUnavailable if any of them cannot be priced.
func (p *SuperPortfolio) ValueAt(day date.Date) (Money, error) {
	return p.ledger.ValueAt(p.market, day)
}

// Update values the portfolio as of today and sets its initial value to the
// cost basis.
func (p *SuperPortfolio) Update() error {
	today := p.market.Today()
	v, err := p.ValueAt(today)
	if err != nil {
		return err
	}
	p.value = v
	p.initialValue = p.CostBasis(today)
	return nil
}

// Close updates the portfolio, marks it sold, and returns the profit: the
// current value plus the sell proceeds minus the cost basis.
func (p *SuperPortfolio) Close() (Money, error) {
	if err := p.Update(); err != nil {
		return Money{}, err
	}
	p.sold = true
	today := p.market.Today()
	return p.value.Add(p.Proceeds(today)).Sub(p.initialValue).Round(), nil
}

// Chart builds the value chart of the portfolio between start and end.
// Days where it cannot be valued are skipped.
func (p *SuperPortfolio) Chart(start, end date.Date) (Chart, error) {
	return BuildSeries(start, end, func(day date.Date) (float64, bool) {
		v, err := p.ValueAt(day)
		if err != nil {
			return 0, false
		}
		return v.Float64(), true
	})
}
