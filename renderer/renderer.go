// Package renderer formats portfolios, lots and indicators as markdown,
// and charts as PNG images.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/stocklots"
	md "github.com/nao1215/markdown"
)

// Portfolio renders the state of a portfolio: its valuation and its lots.
//
// costBasis is only rendered when it is not nil, flexible portfolios have one.
func Portfolio(r stocklots.Record, costBasis *stocklots.Money) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio %s", r.Name))
	status := "active"
	if r.Sold {
		status = "sold"
	}
	doc.PlainText(fmt.Sprintf("A %s portfolio, %s.", r.Kind, status))
	rows := [][]string{
		{"Value", r.Value.String()},
		{"Initial Value", r.InitialValue.String()},
		{"Gain", r.Value.Sub(r.InitialValue).String()},
	}
	if costBasis != nil {
		rows = append(rows, []string{"Cost Basis", costBasis.String()})
	}
	doc.Table(md.TableSet{
		Header:    []string{"", "Amount"},
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Rows:      rows,
	})

	if len(r.Lots) > 0 {
		doc.H2("Lots")
		doc.Table(lotsTable(r.Lots))
	}
	return doc.String()
}

// Lots renders lots as a table under title.
func Lots(title string, lots []stocklots.Lot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2(title)
	if len(lots) == 0 {
		doc.PlainText("No lots.")
		return doc.String()
	}
	doc.Table(lotsTable(lots))
	return doc.String()
}

func lotsTable(lots []stocklots.Lot) md.TableSet {
	table := md.TableSet{
		Header:    []string{"Date", "Symbol", "Shares", "Price", "Initial Price", "Amount"},
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
	}
	for _, lot := range lots {
		table.Rows = append(table.Rows, []string{
			lot.Date.String(),
			lot.Symbol,
			lot.Shares.String(),
			lot.Price.String(),
			lot.InitialPrice.String(),
			lot.Cost().String(),
		})
	}
	return table
}

// List renders the names of the saved portfolios.
func List(names []string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Portfolios")
	if len(names) == 0 {
		doc.PlainText("No portfolios yet, create one with `stocklots create`.")
		return doc.String()
	}
	doc.BulletList(names...)
	return doc.String()
}

// Topics renders the index of documentation topics, titles[i] describing
// names[i].
func Topics(names, titles []string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Topics")
	items := make([]string, len(names))
	for i, name := range names {
		items[i] = fmt.Sprintf("%s: %s", md.Code(name), titles[i])
	}
	doc.BulletList(items...)
	doc.PlainText("Read one with `stocklots topic <topic>`, or all of them with `stocklots topic '*'`.")
	return doc.String()
}
