package stocklots

import (
	"fmt"
	"slices"
)

// StaticProvider is an in-memory Provider, indexed by symbol.
type StaticProvider map[string][]DailyRecord

// Fetch returns a copy of the records of symbol.
func (p StaticProvider) Fetch(symbol string) ([]DailyRecord, error) {
	records, ok := p[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown symbol %q", symbol)
	}
	return slices.Clone(records), nil
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(symbol string) ([]DailyRecord, error)

// Fetch calls f(symbol).
func (f ProviderFunc) Fetch(symbol string) ([]DailyRecord, error) { return f(symbol) }
