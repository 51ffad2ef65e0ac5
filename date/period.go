package date

import (
	"fmt"
	"strings"
)

// Period is the granularity of a date series.
type Period int

const (
	Daily Period = iota
	Monthly
	Yearly
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

func ParsePeriod(p string) (Period, error) {
	p = strings.ToLower(p)
	switch p {
	case "daily", "day", "d":
		return Daily, nil
	case "monthly", "month", "m":
		return Monthly, nil
	case "yearly", "year", "y":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("unknown period %s", p)
	}
}

// Label formats d the way a series of this granularity names its points:
// "2024-03-12" for daily, "2024 MAR" for monthly and "2024" for yearly.
func (p Period) Label(d Date) string {
	switch p {
	case Monthly:
		return fmt.Sprintf("%d %s", d.Year(), strings.ToUpper(d.Month().String()[:3]))
	case Yearly:
		return fmt.Sprintf("%d", d.Year())
	default:
		return d.String()
	}
}

// HeaderLabel formats d for a chart header: like Label, except monthly
// headers spell the month in full upper case.
func (p Period) HeaderLabel(d Date) string {
	if p == Monthly {
		return fmt.Sprintf("%d %s", d.Year(), strings.ToUpper(d.Month().String()))
	}
	return p.Label(d)
}

// IsLast reports whether d is the last day of its period, i.e. the next
// calendar day belongs to another month (Monthly) or year (Yearly).
// Every day is the last of its Daily period.
func (p Period) IsLast(d Date) bool {
	next := d.Add(1)
	switch p {
	case Monthly:
		return next.Month() != d.Month()
	case Yearly:
		return next.Year() != d.Year()
	default:
		return true
	}
}
