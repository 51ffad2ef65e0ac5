package stocklots

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeRecord(t *testing.T) {
	m := newTestMarket("2024-04-30", aaplAndMSFT())
	p := NewSuperPortfolio("retirement", m)
	if _, err := p.Buy("AAPL", Q(100), day("2024-03-12")); err != nil {
		t.Fatalf("Buy() unexpected error: %v", err)
	}
	if _, err := p.Sell("AAPL", Q(30), day("2024-03-20")); err != nil {
		t.Fatalf("Sell() unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodeRecord(&buf, p.Record()); err != nil {
		t.Fatalf("EncodeRecord() unexpected error: %v", err)
	}
	want := `{"command":"portfolio","name":"retirement","kind":"flexible","sold":false,"value":0,"initialValue":0}
{"command":"lot","symbol":"AAPL","shares":100,"date":"2024-03-12","price":150,"initialPrice":150}
{"command":"lot","symbol":"AAPL","shares":-30,"date":"2024-03-20","price":160,"initialPrice":160}
`
	if buf.String() != want {
		t.Errorf("EncodeRecord() =\n%s\nwant\n%s", buf.String(), want)
	}

	rec, err := DecodeRecord(&buf)
	if err != nil {
		t.Fatalf("DecodeRecord() unexpected error: %v", err)
	}
	restored, err := RestoreSuperPortfolio(rec, m)
	if err != nil {
		t.Fatalf("RestoreSuperPortfolio() unexpected error: %v", err)
	}
	if got := restored.CostBasis(day("2024-03-25")); !got.Equal(M(15000)) {
		t.Errorf("restored CostBasis() = %s, want 15000", got)
	}
	if got := restored.Ledger().Position("AAPL", day("2024-03-25")); !got.Equal(Q(70)) {
		t.Errorf("restored Position() = %s, want 70", got)
	}
}

func TestDecodeRecord_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "lot first", input: `{"command":"lot","symbol":"AAPL","shares":1,"date":"2024-03-12","price":1,"initialPrice":1}`},
		{name: "unknown command", input: `{"command":"portfolio","name":"p","kind":"simple"}` + "\n" + `{"command":"dividend"}`},
		{name: "unknown kind", input: `{"command":"portfolio","name":"p","kind":"margin"}`},
		{name: "two headers", input: `{"command":"portfolio","name":"p","kind":"simple"}` + "\n" + `{"command":"portfolio","name":"q","kind":"simple"}`},
		{name: "bad date", input: `{"command":"portfolio","name":"p","kind":"simple"}` + "\n" + `{"command":"lot","symbol":"AAPL","shares":1,"date":"12/03/2024"}`},
		{name: "not json", input: "name=p"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeRecord(strings.NewReader(tc.input)); err == nil {
				t.Errorf("DecodeRecord(%q) succeeded, want an error", tc.input)
			}
		})
	}
}
