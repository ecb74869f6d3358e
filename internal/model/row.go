package model

import (
	"sort"
	"time"
)

// DefaultTicker is assigned to every row when the input has no Ticker column.
const DefaultTicker = "SINGLE"

// Row is a single normalized (date, ticker, price) observation.
type Row struct {
	Date   time.Time `json:"date"`
	Ticker string    `json:"ticker"`
	Price  float64   `json:"price"`
}

// Table is the normalized input, sorted by (ticker, date) ascending.
type Table struct {
	PriceColumn string
	Rows        []Row
	Notices     []Notice
	Dropped     int // rows discarded for an unparseable date
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Tickers returns the distinct tickers in ascending order.
func (t *Table) Tickers() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range t.Rows {
		if _, ok := seen[r.Ticker]; ok {
			continue
		}
		seen[r.Ticker] = struct{}{}
		out = append(out, r.Ticker)
	}
	sort.Strings(out)
	return out
}

// Span returns the earliest and latest date in the table.
// ok is false for an empty table.
func (t *Table) Span() (first, last time.Time, ok bool) {
	if len(t.Rows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = t.Rows[0].Date, t.Rows[0].Date
	for _, r := range t.Rows[1:] {
		if r.Date.Before(first) {
			first = r.Date
		}
		if r.Date.After(last) {
			last = r.Date
		}
	}
	return first, last, true
}

// Prices extracts the price column of rows.
func Prices(rows []Row) []float64 {
	prices := make([]float64, len(rows))
	for i, r := range rows {
		prices[i] = r.Price
	}
	return prices
}

// Dates extracts the date column of rows.
func Dates(rows []Row) []time.Time {
	dates := make([]time.Time, len(rows))
	for i, r := range rows {
		dates[i] = r.Date
	}
	return dates
}

// CalendarDate truncates t to midnight UTC of its own calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
