package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/etnz/stocklots"
	md "github.com/nao1215/markdown"
)

func price(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// Crossovers renders crossover events, newest first.
func Crossovers(c stocklots.Crossovers) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	title := fmt.Sprintf("Crossovers of %s with its %d-day moving average", c.Symbol, c.Slow)
	if c.Fast > 0 {
		title = fmt.Sprintf("Crossovers of %s %d-day and %d-day moving averages", c.Symbol, c.Fast, c.Slow)
	}
	doc.H1(title)
	doc.PlainText(fmt.Sprintf("From %s to %s.", c.Range.From, c.Range.To))
	if len(c.Events) == 0 {
		doc.PlainText("No crossovers for given period.")
		return doc.String()
	}
	table := md.TableSet{
		Header:    []string{"Date", "Signal"},
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft},
	}
	for _, e := range c.Events {
		signal := "buy"
		if e.Kind == stocklots.Negative {
			signal = "sell"
		}
		table.Rows = append(table.Rows, []string{e.Date.String(), fmt.Sprintf("%s (%s)", e.Kind, signal)})
	}
	doc.Table(table)
	return doc.String()
}

// PeriodChange renders the change of a stock's closing price over a period.
func PeriodChange(c stocklots.PeriodChange) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("%s from %s to %s", c.Symbol, c.Start, c.End))
	doc.Table(md.TableSet{
		Header:    []string{"Start Price", "End Price", "Change", "Trend"},
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignRight, md.AlignRight, md.AlignLeft},
		Rows:      [][]string{{price(c.StartPrice), price(c.EndPrice), fmt.Sprintf("%+.2f", c.Delta), c.Trend().String()}},
	})
	return doc.String()
}

// DayChange renders the intraday change of a stock.
func DayChange(c stocklots.DayChange) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("%s on %s", c.Symbol, c.Date))
	doc.Table(md.TableSet{
		Header:    []string{"Open", "Close", "Change", "Trend"},
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignRight, md.AlignRight, md.AlignLeft},
		Rows:      [][]string{{price(c.Open), price(c.Close), fmt.Sprintf("%+.2f", c.Delta), c.Trend().String()}},
	})
	return doc.String()
}
