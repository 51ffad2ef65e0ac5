package stocklots

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// A record is persisted as JSONL: a header line describing the portfolio
// followed by one line per lot, in ledger order. Each line carries a
// "command" used to identify it.
const (
	cmdPortfolio = "portfolio"
	cmdLot       = "lot"
)

// EncodeRecord writes r to w as JSONL.
func EncodeRecord(w io.Writer, r Record) error {
	header := struct {
		Command string `json:"command"`
		Record
	}{cmdPortfolio, r}
	if err := writeLine(w, header); err != nil {
		return fmt.Errorf("could not encode portfolio %q: %w", r.Name, err)
	}
	for _, lot := range r.Lots {
		line := struct {
			Command string `json:"command"`
			Lot
		}{cmdLot, lot}
		if err := writeLine(w, line); err != nil {
			return fmt.Errorf("could not encode lot %v: %w", lot, err)
		}
	}
	return nil
}

func writeLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// DecodeRecord reads a record written by EncodeRecord.
func DecodeRecord(r io.Reader) (Record, error) {
	var rec Record
	header := false
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}
		var identifier struct {
			Command string `json:"command"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return Record{}, fmt.Errorf("could not identify command on line %d %q: %w", n, string(line), err)
		}

		switch identifier.Command {
		case cmdPortfolio:
			if header {
				return Record{}, fmt.Errorf("duplicated portfolio header on line %d", n)
			}
			if err := json.Unmarshal(line, &rec); err != nil {
				return Record{}, fmt.Errorf("invalid portfolio header on line %d: %w", n, err)
			}
			header = true
		case cmdLot:
			if !header {
				return Record{}, fmt.Errorf("lot before portfolio header on line %d", n)
			}
			var lot Lot
			if err := json.Unmarshal(line, &lot); err != nil {
				return Record{}, fmt.Errorf("invalid lot on line %d: %w", n, err)
			}
			rec.Lots = append(rec.Lots, lot)
		default:
			return Record{}, fmt.Errorf("unknown command %q on line %d", identifier.Command, n)
		}
	}
	if err := scanner.Err(); err != nil {
		return Record{}, err
	}
	if !header {
		return Record{}, fmt.Errorf("missing portfolio header")
	}
	if rec.Kind != Simple && rec.Kind != Flexible {
		return Record{}, fmt.Errorf("unknown portfolio kind %q", rec.Kind)
	}
	return rec, nil
}
