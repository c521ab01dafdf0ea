package date

import (
	"fmt"
	"strings"
	"time"
)

// Period is the granularity used to bucket dated amounts.
type Period int

const (
	Monthly Period = iota
	Yearly
)

func (p Period) String() string {
	switch p {
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

// ParsePeriod reads a period name, "month" and "year" are accepted too.
func ParsePeriod(p string) (Period, error) {
	switch strings.ToLower(p) {
	case "monthly", "month":
		return Monthly, nil
	case "yearly", "year":
		return Yearly, nil
	default:
		return Monthly, fmt.Errorf("unknown period %q", p)
	}
}

// StartOf returns the first day of the period containing d.
func (d Date) StartOf(p Period) Date {
	switch p {
	case Monthly:
		return New(d.y, d.m, 1)
	case Yearly:
		return New(d.y, time.January, 1)
	default:
		panic("unknown period")
	}
}

// EndOf returns the last day of the period containing d.
func (d Date) EndOf(p Period) Date {
	switch p {
	case Monthly:
		return New(d.y, d.m+1, 0)
	case Yearly:
		return New(d.y, time.December, 31)
	default:
		panic("unknown period")
	}
}

// Key returns the bucket identifier of d for the period: "2006-01" for
// months and "2006" for years. Keys sort chronologically as strings.
func (d Date) Key(p Period) string {
	switch p {
	case Monthly:
		return d.Format("2006-01")
	case Yearly:
		return d.Format("2006")
	default:
		panic("unknown period")
	}
}

// ParseKey parses a bucket identifier produced by Key and returns the
// first day of that bucket.
func ParseKey(key string, p Period) (Date, error) {
	layout := "2006-01"
	if p == Yearly {
		layout = "2006"
	}
	on, err := time.Parse(layout, key)
	if err != nil {
		return Date{}, fmt.Errorf("invalid %s key %q: %w", p, key, err)
	}
	return New(on.Date()), nil
}

// EndOfYear returns December 31st of year.
func EndOfYear(year int) Date { return New(year, time.December, 31) }
