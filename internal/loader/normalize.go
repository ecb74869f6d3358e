package loader

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"

	"github.com/seannamartin08/stock-market-dashboard/internal/model"
)

const (
	dateColumn   = "Date"
	tickerColumn = "Ticker"
	priceMarker  = "Close"
)

// NormalizeColumnName trims whitespace and title-cases name: a letter is
// upper-cased when the preceding rune is not a letter, lower-cased otherwise.
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	b.Grow(len(name))
	prevLetter := false
	for _, r := range name {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// PriceColumn returns the index of the first column containing "Close".
// The first match in column order wins, so "Close" and "Adj Close" are
// chosen by position only.
func PriceColumn(columns []string) int {
	for i, c := range columns {
		if strings.Contains(c, priceMarker) {
			return i
		}
	}
	return -1
}

func indexOf(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Normalize resolves the Date, Ticker and price columns of raw and builds a
// Table sorted by (ticker, date). Rows with unparseable dates are dropped.
func Normalize(raw *RawTable) (*model.Table, error) {
	columns := make([]string, len(raw.Columns))
	for i, c := range raw.Columns {
		columns[i] = NormalizeColumnName(c)
	}

	priceIdx := PriceColumn(columns)
	if priceIdx < 0 {
		return nil, ErrMissingPriceColumn
	}
	dateIdx := indexOf(columns, dateColumn)
	if dateIdx < 0 {
		return nil, ErrMissingDateColumn
	}

	table := &model.Table{PriceColumn: columns[priceIdx]}

	tickerIdx := indexOf(columns, tickerColumn)
	if tickerIdx < 0 {
		table.Notices = append(table.Notices, model.Noticef(model.NoticeDataQuality,
			"No Ticker column found, added default Ticker=%q for single-stock data", model.DefaultTicker))
	}

	var badDates, badPrices int
	rows := make([]model.Row, 0, len(raw.Rows))
	for _, rec := range raw.Rows {
		date, ok := ParseDate(raw.Cell(rec, dateIdx))
		if !ok {
			badDates++
			continue
		}
		ticker := model.DefaultTicker
		if tickerIdx >= 0 {
			ticker = strings.TrimSpace(raw.Cell(rec, tickerIdx))
		}
		price := ParsePrice(raw.Cell(rec, priceIdx))
		if math.IsNaN(price) {
			badPrices++
		}
		rows = append(rows, model.Row{Date: date, Ticker: ticker, Price: price})
	}

	if badDates > 0 {
		table.Notices = append(table.Notices, model.Noticef(model.NoticeDataQuality,
			"dropped %d row(s) with unparseable dates", badDates))
	}
	if badPrices > 0 {
		table.Notices = append(table.Notices, model.Noticef(model.NoticeDataQuality,
			"%d row(s) have a missing or non-numeric %s value", badPrices, table.PriceColumn))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Ticker != rows[j].Ticker {
			return rows[i].Ticker < rows[j].Ticker
		}
		return rows[i].Date.Before(rows[j].Date)
	})
	table.Rows = rows
	table.Dropped = badDates
	return table, nil
}

// ParseDate parses s in any common layout and truncates it to a calendar date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return model.CalendarDate(t), true
}

// ParsePrice parses a numeric cell, tolerating thousands separators and a
// leading currency sign. Blank or non-numeric cells yield NaN.
func ParsePrice(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
