// Package timeseries turns irregular sale records into dense daily demand
// series and slices them into fixed-length training windows.
package timeseries

import (
	"math"
	"sort"
	"time"

	"demandcast/models"
)

const day = 24 * time.Hour

// DailySeries is a gap-free daily quantity series: Values[i] is the demand
// on Start + i days. Built once per pipeline invocation and treated as
// immutable afterwards.
type DailySeries struct {
	Start  time.Time
	Values []float64
}

// Len returns the number of days in the series.
func (s *DailySeries) Len() int {
	return len(s.Values)
}

// Date returns the calendar day of index i.
func (s *DailySeries) Date(i int) time.Time {
	return s.Start.AddDate(0, 0, i)
}

// End returns the last calendar day of the series.
func (s *DailySeries) End() time.Time {
	return s.Date(len(s.Values) - 1)
}

// Tail returns the trailing n days as a sub-series sharing no storage with
// the original. If n exceeds the length the whole series is returned.
func (s *DailySeries) Tail(n int) *DailySeries {
	if n >= len(s.Values) {
		n = len(s.Values)
	}
	start := len(s.Values) - n
	out := &DailySeries{Start: s.Date(start), Values: make([]float64, n)}
	copy(out.Values, s.Values[start:])
	return out
}

// Dates renders every calendar day as YYYY-MM-DD, in order.
func (s *DailySeries) Dates() []string {
	out := make([]string, len(s.Values))
	for i := range s.Values {
		out[i] = s.Date(i).Format("2006-01-02")
	}
	return out
}

// DailyTable is the dense per-(day, product) quantity table: every product
// series spans the same observed [min, max] calendar range, with zeros on
// days a product had no sales.
type DailyTable struct {
	products []string
	series   map[string]*DailySeries
}

// BuildDailyTable groups records by (calendar day, product) summing
// quantities, then fills the cartesian product of the full date range and
// the distinct products with zeros. Dates are normalized to midnight UTC;
// NaN or negative quantities are coerced to 0. A product with an all-zero
// history is legal. An empty record set yields an empty table.
func BuildDailyTable(records []models.Sale) *DailyTable {
	grouped := make(map[string]map[time.Time]float64)
	var minDay, maxDay time.Time
	seen := false

	for _, rec := range records {
		d := Normalize(rec.SaleDate)
		q := rec.Quantity
		if math.IsNaN(q) || q < 0 {
			q = 0
		}

		byDay, ok := grouped[rec.ProductCode]
		if !ok {
			byDay = make(map[time.Time]float64)
			grouped[rec.ProductCode] = byDay
		}
		byDay[d] += q

		if !seen || d.Before(minDay) {
			minDay = d
		}
		if !seen || d.After(maxDay) {
			maxDay = d
		}
		seen = true
	}

	table := &DailyTable{series: make(map[string]*DailySeries)}
	if !seen {
		return table
	}

	days := int(maxDay.Sub(minDay)/day) + 1
	for code, byDay := range grouped {
		values := make([]float64, days)
		for d, q := range byDay {
			values[int(d.Sub(minDay)/day)] = q
		}
		table.series[code] = &DailySeries{Start: minDay, Values: values}
		table.products = append(table.products, code)
	}
	sort.Strings(table.products)
	return table
}

// Products returns the distinct product codes in sorted order.
func (t *DailyTable) Products() []string {
	return t.products
}

// Series returns the dense daily series for one product, or nil when the
// product does not appear in the table.
func (t *DailyTable) Series(code string) *DailySeries {
	return t.series[code]
}

// Normalize strips the time-of-day from a timestamp, pinning it to midnight
// UTC so records from different timezones land on one calendar day.
func Normalize(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
