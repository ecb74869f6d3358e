package selector

import (
	"sort"
	"time"

	"github.com/seannamartin08/stock-market-dashboard/internal/model"
)

// Select returns the rows of ticker whose date lies in [start, end],
// compared as calendar dates, sorted by date. An inverted range yields an
// empty result. The table is not modified.
func Select(table *model.Table, ticker string, start, end time.Time) []model.Row {
	lo, hi := model.CalendarDate(start), model.CalendarDate(end)
	view := make([]model.Row, 0)
	for _, r := range table.Rows {
		if r.Ticker != ticker {
			continue
		}
		if r.Date.Before(lo) || r.Date.After(hi) {
			continue
		}
		view = append(view, r)
	}
	sort.SliceStable(view, func(i, j int) bool { return view[i].Date.Before(view[j].Date) })
	return view
}
