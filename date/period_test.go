package date

import "testing"

func TestParsePeriod(t *testing.T) {
	for in, want := range map[string]Period{
		"day":     Daily,
		"Monthly": Monthly,
		"y":       Yearly,
	} {
		got, err := ParsePeriod(in)
		if err != nil {
			t.Fatalf("ParsePeriod(%q) unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParsePeriod(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParsePeriod("weekly"); err == nil {
		t.Errorf("ParsePeriod(weekly) want error")
	}
}

func TestPeriodLabel(t *testing.T) {
	d := MustParse("2024-03-12")
	testCases := []struct {
		p      Period
		label  string
		header string
	}{
		{Daily, "2024-03-12", "2024-03-12"},
		{Monthly, "2024 MAR", "2024 MARCH"},
		{Yearly, "2024", "2024"},
	}
	for _, tc := range testCases {
		if got := tc.p.Label(d); got != tc.label {
			t.Errorf("%v.Label() = %q, want %q", tc.p, got, tc.label)
		}
		if got := tc.p.HeaderLabel(d); got != tc.header {
			t.Errorf("%v.HeaderLabel() = %q, want %q", tc.p, got, tc.header)
		}
	}
}

func TestPeriodIsLast(t *testing.T) {
	testCases := []struct {
		p    Period
		on   string
		want bool
	}{
		{Daily, "2024-03-12", true},
		{Monthly, "2024-03-12", false},
		{Monthly, "2024-02-29", true},
		{Monthly, "2024-12-31", true},
		{Yearly, "2024-11-30", false},
		{Yearly, "2024-12-31", true},
	}
	for _, tc := range testCases {
		if got := tc.p.IsLast(MustParse(tc.on)); got != tc.want {
			t.Errorf("%v.IsLast(%s) = %v, want %v", tc.p, tc.on, got, tc.want)
		}
	}
}
