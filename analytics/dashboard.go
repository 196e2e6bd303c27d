package analytics

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"demandcast/models"
	"demandcast/pkg/errors"
	"demandcast/timeseries"
)

// SaleRangeSource reads sale records whose date falls in [start, end].
type SaleRangeSource interface {
	GetAllByRange(ctx context.Context, start, end time.Time) ([]models.Sale, error)
}

// RangeSummary aggregates the sales of one period.
type RangeSummary struct {
	Records  int     `json:"records"`
	Invoices int     `json:"invoices"`
	Amount   float64 `json:"amount"`
}

// SummarizeRange counts records and distinct invoice numbers and sums the
// sale amounts.
func SummarizeRange(sales []models.Sale) RangeSummary {
	invoices := make(map[string]struct{}, len(sales))
	out := RangeSummary{Records: len(sales)}
	for _, s := range sales {
		invoices[s.InvoiceNumber] = struct{}{}
		out.Amount += s.Total
	}
	out.Invoices = len(invoices)
	return out
}

// Variation returns the percentage change from previous to current, rounded
// to two decimals, or nil when the baseline is zero and the rate is
// undefined.
func Variation(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	v := math.Round(100*(current-previous)/previous*100) / 100
	return &v
}

// PeriodReport is one period's summary with its variation against the
// period before it. Variation pointers are nil when the earlier period had
// a zero baseline.
type PeriodReport struct {
	Label       string   `json:"label"`
	TotalSales  float64  `json:"total_sales"`
	SaleRatePct *float64 `json:"sale_rate_pct"`
	Invoices    int      `json:"total_invoices"`
	InvoiceRate *float64 `json:"invoice_rate_pct"`
}

// DailyInvoices compares distinct invoice counts on one calendar day with
// the same month/day one year earlier.
type DailyInvoices struct {
	Date        string `json:"date"`
	CurrentYear int    `json:"current_year"`
	LastYear    int    `json:"last_year"`
}

// Dashboard is the sales dashboard payload.
type Dashboard struct {
	CurrentQuarter PeriodReport    `json:"current_quarter"`
	LastQuarter    PeriodReport    `json:"last_quarter"`
	Sales          []DailyInvoices `json:"sales"`
}

// Service computes dashboards from a range-queryable sale source.
type Service struct {
	sales SaleRangeSource
	log   zerolog.Logger
	now   func() time.Time
}

// NewService creates an analytics service. now is the clock, injectable for
// tests; nil means time.Now.
func NewService(sales SaleRangeSource, log zerolog.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{sales: sales, log: log, now: now}
}

// DashboardSummary reports the current and previous quarter, each with its
// variation against the quarter before it, plus a daily distinct-invoice
// series for the trailing three months compared against the same span one
// year earlier.
func (s *Service) DashboardSummary(ctx context.Context) (*Dashboard, error) {
	today := timeseries.Normalize(s.now())

	current := PeriodOf(today, Quarter)
	last := current.Previous()
	baseline := last.Previous()

	sales, err := s.sales.GetAllByRange(ctx, baseline.Start, current.End)
	if err != nil {
		return nil, errors.Wrap(err, "dashboard: loading quarter sales")
	}

	sumCur := SummarizeRange(filterPeriod(sales, current))
	sumLast := SummarizeRange(filterPeriod(sales, last))
	sumBase := SummarizeRange(filterPeriod(sales, baseline))

	out := &Dashboard{
		CurrentQuarter: PeriodReport{
			Label:       current.Label(),
			TotalSales:  sumCur.Amount,
			SaleRatePct: Variation(sumCur.Amount, sumLast.Amount),
			Invoices:    sumCur.Invoices,
			InvoiceRate: Variation(float64(sumCur.Invoices), float64(sumLast.Invoices)),
		},
		LastQuarter: PeriodReport{
			Label:       last.Label(),
			TotalSales:  sumLast.Amount,
			SaleRatePct: Variation(sumLast.Amount, sumBase.Amount),
			Invoices:    sumLast.Invoices,
			InvoiceRate: Variation(float64(sumLast.Invoices), float64(sumBase.Invoices)),
		},
	}

	curStart := today.AddDate(0, -3, 0)
	prevStart := today.AddDate(-1, -3, 0)
	prevEnd := today.AddDate(-1, 0, 0)

	currentSales, err := s.sales.GetAllByRange(ctx, curStart, today)
	if err != nil {
		return nil, errors.Wrap(err, "dashboard: loading current-year sales")
	}
	lastSales, err := s.sales.GetAllByRange(ctx, prevStart, prevEnd)
	if err != nil {
		return nil, errors.Wrap(err, "dashboard: loading last-year sales")
	}
	out.Sales = CompareDailyInvoices(currentSales, lastSales, curStart, today)

	s.log.Info().Int("days", len(out.Sales)).Msg("dashboard assembled")
	return out, nil
}

func filterPeriod(sales []models.Sale, p Period) []models.Sale {
	out := make([]models.Sale, 0, len(sales))
	for _, s := range sales {
		if p.Contains(s.SaleDate) {
			out = append(out, s)
		}
	}
	return out
}

// CompareDailyInvoices walks every calendar day in [start, end] and pairs
// the distinct invoice count of that day with the count on the same
// month/day in the last-year records. Days absent from either side count 0.
func CompareDailyInvoices(current, lastYear []models.Sale, start, end time.Time) []DailyInvoices {
	cur := groupDailyInvoices(current)
	last := groupDailyInvoices(lastYear)

	var out []DailyInvoices
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := monthDay{d.Month(), d.Day()}
		out = append(out, DailyInvoices{
			Date:        d.Format("2006-01-02"),
			CurrentYear: len(cur[key]),
			LastYear:    len(last[key]),
		})
	}
	return out
}

type monthDay struct {
	m time.Month
	d int
}

// groupDailyInvoices accumulates distinct invoice numbers per (month, day)
// so a day can be matched across years.
func groupDailyInvoices(sales []models.Sale) map[monthDay]map[string]struct{} {
	out := make(map[monthDay]map[string]struct{})
	for _, s := range sales {
		d := s.SaleDate.UTC()
		key := monthDay{d.Month(), d.Day()}
		if out[key] == nil {
			out[key] = make(map[string]struct{})
		}
		out[key][s.InvoiceNumber] = struct{}{}
	}
	return out
}
