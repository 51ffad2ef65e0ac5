package stocklots

import (
	"fmt"
	"slices"

	"github.com/etnz/stocklots/date"
)

// Lot is a single dated buy (positive shares) or sell (negative shares) of a symbol.
type Lot struct {
	Symbol       string    `json:"symbol"`
	Shares       Quantity  `json:"shares"`
	Date         date.Date `json:"date"`
	Price        Money     `json:"price"`        // price at trade
	InitialPrice Money     `json:"initialPrice"` // price when the lot was first recorded
}

// IsBuy reports whether the lot adds shares.
func (l Lot) IsBuy() bool { return l.Shares.IsPositive() }

// Cost returns shares times price at trade.
func (l Lot) Cost() Money { return l.Price.Mul(l.Shares) }

func (l Lot) String() string {
	return fmt.Sprintf("%s price:%s shares:%s initial price:%s trade time:%s", l.Symbol, l.Price, l.Shares, l.InitialPrice, l.Date)
}

// compareLots orders lots by date, then by shares descending so that, on
// the same day, buys come before sells and larger buys before smaller ones.
func compareLots(a, b Lot) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return b.Shares.Cmp(a.Shares)
}

// LotLedger is an ordered list of lots.
//
// Lots are kept sorted by compareLots; the zero value is an empty ledger.
type LotLedger struct {
	lots []Lot
}

// NewLotLedger returns a ledger holding lots, sorted.
func NewLotLedger(lots ...Lot) *LotLedger {
	l := new(LotLedger)
	for _, lot := range lots {
		l.insert(lot)
	}
	return l
}

// Len returns the number of lots.
func (l *LotLedger) Len() int { return len(l.lots) }

// Lots returns a copy of the lots in ledger order.
func (l *LotLedger) Lots() []Lot { return slices.Clone(l.lots) }

// Symbols returns the distinct symbols, in order of first appearance.
func (l *LotLedger) Symbols() []string {
	var symbols []string
	for _, lot := range l.lots {
		if !slices.Contains(symbols, lot.Symbol) {
			symbols = append(symbols, lot.Symbol)
		}
	}
	return symbols
}

// Has reports whether the ledger holds any lot of symbol.
func (l *LotLedger) Has(symbol string) bool {
	return slices.ContainsFunc(l.lots, func(lot Lot) bool { return lot.Symbol == symbol })
}

// insert adds lot at its position and returns its index. A lot equal to
// existing ones (same date and shares) goes after them.
func (l *LotLedger) insert(lot Lot) int {
	i, found := slices.BinarySearchFunc(l.lots, lot, compareLots)
	for found && i < len(l.lots) && compareLots(l.lots[i], lot) == 0 {
		i++
	}
	l.lots = slices.Insert(l.lots, i, lot)
	return i
}

// remove deletes the lot at index i.
func (l *LotLedger) remove(i int) { l.lots = slices.Delete(l.lots, i, i+1) }

// findBuy returns the index of the buy lot of symbol on day, or -1.
func (l *LotLedger) findBuy(symbol string, day date.Date) int {
	return slices.IndexFunc(l.lots, func(lot Lot) bool {
		return lot.Symbol == symbol && lot.Date == day && lot.IsBuy()
	})
}

// add inserts a buy lot, merging it into an existing buy lot of the same
// symbol and day if any. It returns the resulting lot.
func (l *LotLedger) add(lot Lot) Lot {
	if i := l.findBuy(lot.Symbol, lot.Date); i >= 0 {
		merged := l.lots[i]
		merged.Shares = merged.Shares.Add(lot.Shares)
		l.remove(i)
		l.insert(merged)
		return merged
	}
	l.insert(lot)
	return lot
}

// Position returns the number of shares of symbol held at the end of day.
func (l *LotLedger) Position(symbol string, day date.Date) Quantity {
	var total Quantity
	for _, lot := range l.lots {
		if lot.Date.After(day) {
			break
		}
		if lot.Symbol == symbol {
			total = total.Add(lot.Shares)
		}
	}
	return total
}

// checkPosition scans the lots of symbol in ledger order and returns an
// *InsufficientSharesError at the first lot where the running position
// becomes negative.
func (l *LotLedger) checkPosition(symbol string) error {
	var total Quantity
	for _, lot := range l.lots {
		if lot.Symbol != symbol {
			continue
		}
		next := total.Add(lot.Shares)
		if next.IsNegative() {
			return &InsufficientSharesError{Symbol: symbol, Shares: lot.Shares, Cumulative: total, Date: lot.Date}
		}
		total = next
	}
	return nil
}

// CostBasis returns the total cost of the buy lots dated on or before day,
// rounded to cents. Sell lots do not contribute.
func (l *LotLedger) CostBasis(day date.Date) Money {
	var total Money
	for _, lot := range l.lots {
		if lot.Date.After(day) {
			break
		}
		if lot.IsBuy() {
			total = total.Add(lot.Cost())
		}
	}
	return total.Round()
}

// ValueAt returns the value of the lots dated on or before day, each priced
// at the symbol's closing price on or before day, rounded to cents.
//
// It fails with ErrPricingUnavailable, wrapping the market error, as soon as
// a symbol cannot be priced.
func (l *LotLedger) ValueAt(m *Market, day date.Date) (Money, error) {
	var total Money
	for _, lot := range l.lots {
		if lot.Date.After(day) {
			break
		}
		price, err := m.PriceOnOrBefore(lot.Symbol, day)
		if err != nil {
			return Money{}, fmt.Errorf("%w: some stocks may have already quit the market, no price for %s on %s: %w", ErrPricingUnavailable, lot.Symbol, day, err)
		}
		total = total.Add(M(price).Mul(lot.Shares))
	}
	return total.Round(), nil
}
