// Package stocklots tracks investment portfolios built from dated stock lots
// and answers analytical questions against a sparse daily trading calendar.
//
// The core functionalities include:
//   - Market: calendar queries over the daily records returned by a Provider,
//     with on-or-before and exact-date lookups, and staleness detection for
//     symbols that stopped trading.
//   - Indicators: moving averages, daily and periodic gains, and crossover
//     signals between a price and its moving average, or between two moving
//     averages.
//   - Portfolios: simple portfolios, priced at the latest close, and flexible
//     portfolios (SuperPortfolio), an ordered ledger of dated buy and sell lots
//     with cost basis and date-boundary valuation. A sell can never make a
//     position negative.
//   - Allocation: weighted investment on a single day, all or nothing, and
//     dollar cost averaging over a period.
//   - Charts: daily, monthly and yearly series of a stock or a portfolio,
//     rendered as text bar charts.
//
// Portfolios are exchanged with stores as a plain Record, encoded in JSONL by
// EncodeRecord and DecodeRecord.
package stocklots
