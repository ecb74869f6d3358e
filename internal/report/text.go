package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/seannamartin08/stock-market-dashboard/internal/calculator"
	"github.com/seannamartin08/stock-market-dashboard/internal/dashboard"
)

const (
	recentRows = 10
	barWidth   = 40
)

func num(f float64, format string) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "n/a"
	}
	return fmt.Sprintf(format, f)
}

// FormatText renders products as a plain-text report for the terminal.
func FormatText(p *dashboard.Products) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Price history | %s | %s .. %s\n", p.Ticker, formatDate(p, true), formatDate(p, false)))
	b.WriteString(fmt.Sprintf("Tickers: %s | price column: %s\n\n", strings.Join(p.Tickers, ", "), p.PriceColumn))

	if p.Empty() {
		b.WriteString("No data for selected ticker/date range.\n\n")
	} else {
		writeSummary(&b, p)
		writeRecent(&b, p)
		writeHistogram(&b, p)
	}
	writeCorrelation(&b, p)

	if len(p.Notices) > 0 {
		b.WriteString("Notices:\n")
		for _, n := range p.Notices {
			b.WriteString("  " + n.String() + "\n")
		}
	}
	return b.String()
}

func writeSummary(b *strings.Builder, p *dashboard.Products) {
	s := p.Summary
	if s == nil {
		return
	}
	b.WriteString(fmt.Sprintf("Last: %s | High: %s | Low: %s | Position: %s\n",
		num(s.Last, "%.2f"), num(s.High, "%.2f"), num(s.Low, "%.2f"), num(s.Position*100, "%.0f%%")))
	b.WriteString(fmt.Sprintf("Total return: %s over %d rows\n\n", num(s.TotalReturn*100, "%+.2f%%"), len(p.Selection)))
}

func writeRecent(b *strings.Builder, p *dashboard.Products) {
	s := p.Series
	b.WriteString(fmt.Sprintf("Moving average (window %d), rolling volatility (%d-day, annualized)\n",
		p.MAWindow, calculator.VolatilityWindow))
	b.WriteString(fmt.Sprintf("  %-10s %12s %12s %9s %9s\n", "Date", p.PriceColumn, "MA", "Return", "Vol"))
	start := s.Len() - recentRows
	if start < 0 {
		start = 0
	}
	for i := start; i < s.Len(); i++ {
		b.WriteString(fmt.Sprintf("  %-10s %12s %12s %9s %9s\n",
			s.Dates[i].Format(dateLayout),
			num(s.Price[i], "%.2f"),
			num(s.MovingAverage[i], "%.2f"),
			num(s.Return[i]*100, "%+.2f%%"),
			num(s.Volatility[i]*100, "%.1f%%")))
	}
	b.WriteString("\n")
}

func writeHistogram(b *strings.Builder, p *dashboard.Products) {
	b.WriteString(fmt.Sprintf("Return distribution (%d samples)\n", len(p.ReturnSample)))
	peak := 0
	for _, bin := range p.Histogram {
		if bin.Count > peak {
			peak = bin.Count
		}
	}
	for _, bin := range p.Histogram {
		if bin.Count == 0 {
			continue
		}
		bar := strings.Repeat("#", int(math.Ceil(float64(bin.Count)/float64(peak)*barWidth)))
		b.WriteString(fmt.Sprintf("  [%+.4f, %+.4f) %-*s %d\n", bin.Lower, bin.Upper, barWidth, bar, bin.Count))
	}
	b.WriteString("\n")
}

func writeCorrelation(b *strings.Builder, p *dashboard.Products) {
	b.WriteString("Correlation (returns across tickers)\n")
	m := p.Correlation.Matrix
	if m == nil {
		if f := p.Correlation.Failure; f != nil {
			b.WriteString("  " + f.Message + "\n\n")
		}
		return
	}
	b.WriteString(fmt.Sprintf("  %-8s", ""))
	for _, t := range m.Tickers {
		b.WriteString(fmt.Sprintf(" %8s", t))
	}
	b.WriteString("\n")
	for i, row := range m.Values {
		b.WriteString(fmt.Sprintf("  %-8s", m.Tickers[i]))
		for _, v := range row {
			b.WriteString(fmt.Sprintf(" %8s", num(v, "%.2f")))
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("  (%d dates)\n\n", m.Observations))
}
