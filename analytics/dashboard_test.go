package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demandcast/models"
)

type rangeSource struct {
	sales []models.Sale
	err   error
}

func (r *rangeSource) GetAllByRange(ctx context.Context, start, end time.Time) ([]models.Sale, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []models.Sale
	for _, s := range r.sales {
		d := s.SaleDate
		if !d.Before(start) && !d.After(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func sale(invoice string, date time.Time, total float64) models.Sale {
	return models.Sale{InvoiceNumber: invoice, SaleDate: date, Quantity: 1, Total: total}
}

func TestSummarizeRange(t *testing.T) {
	sales := []models.Sale{
		sale("INV-1", day(2025, time.January, 5), 100),
		sale("INV-1", day(2025, time.January, 5), 50),
		sale("INV-2", day(2025, time.January, 6), 25),
	}
	got := SummarizeRange(sales)

	assert.Equal(t, 3, got.Records)
	assert.Equal(t, 2, got.Invoices)
	assert.Equal(t, 175.0, got.Amount)
}

func TestVariation(t *testing.T) {
	up := Variation(120, 100)
	require.NotNil(t, up)
	assert.Equal(t, 20.0, *up)

	down := Variation(75, 100)
	require.NotNil(t, down)
	assert.Equal(t, -25.0, *down)

	rounded := Variation(1, 3)
	require.NotNil(t, rounded)
	assert.Equal(t, -66.67, *rounded)

	// A zero baseline has no defined rate.
	assert.Nil(t, Variation(50, 0))
}

func TestCompareDailyInvoices(t *testing.T) {
	current := []models.Sale{
		sale("C-1", day(2025, time.March, 1), 10),
		sale("C-2", day(2025, time.March, 1), 10),
		sale("C-2", day(2025, time.March, 1), 10), // same invoice, not double-counted
	}
	lastYear := []models.Sale{
		sale("L-1", day(2024, time.March, 2), 10),
	}

	got := CompareDailyInvoices(current, lastYear, day(2025, time.March, 1), day(2025, time.March, 3))
	require.Len(t, got, 3)

	assert.Equal(t, DailyInvoices{Date: "2025-03-01", CurrentYear: 2, LastYear: 0}, got[0])
	assert.Equal(t, DailyInvoices{Date: "2025-03-02", CurrentYear: 0, LastYear: 1}, got[1])
	assert.Equal(t, DailyInvoices{Date: "2025-03-03", CurrentYear: 0, LastYear: 0}, got[2])
}

func TestDashboardSummary(t *testing.T) {
	now := day(2025, time.March, 31)
	src := &rangeSource{sales: []models.Sale{
		// Current quarter: Q1 2025.
		sale("A-1", day(2025, time.January, 15), 100),
		sale("A-2", day(2025, time.February, 20), 200),
		// Last quarter: Q4 2024.
		sale("B-1", day(2024, time.November, 10), 100),
		// Quarter before that: Q3 2024.
		sale("C-1", day(2024, time.August, 1), 400),
		sale("C-2", day(2024, time.August, 2), 100),
	}}
	svc := NewService(src, zerolog.Nop(), func() time.Time { return now })

	got, err := svc.DashboardSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Quarter 1, 2025-01-01 → 2025-03-31", got.CurrentQuarter.Label)
	assert.Equal(t, 300.0, got.CurrentQuarter.TotalSales)
	assert.Equal(t, 2, got.CurrentQuarter.Invoices)
	require.NotNil(t, got.CurrentQuarter.SaleRatePct)
	assert.Equal(t, 200.0, *got.CurrentQuarter.SaleRatePct)

	assert.Equal(t, "Quarter 4, 2024-10-01 → 2024-12-31", got.LastQuarter.Label)
	assert.Equal(t, 100.0, got.LastQuarter.TotalSales)
	require.NotNil(t, got.LastQuarter.SaleRatePct)
	assert.Equal(t, -80.0, *got.LastQuarter.SaleRatePct)
	require.NotNil(t, got.LastQuarter.InvoiceRate)
	assert.Equal(t, -50.0, *got.LastQuarter.InvoiceRate)

	// Daily series spans the trailing three months inclusive.
	require.NotEmpty(t, got.Sales)
	assert.Equal(t, "2024-12-31", got.Sales[0].Date)
	assert.Equal(t, "2025-03-31", got.Sales[len(got.Sales)-1].Date)
}

func TestDashboardSummaryZeroBaseline(t *testing.T) {
	now := day(2025, time.March, 31)
	src := &rangeSource{sales: []models.Sale{
		sale("A-1", day(2025, time.January, 15), 100),
	}}
	svc := NewService(src, zerolog.Nop(), func() time.Time { return now })

	got, err := svc.DashboardSummary(context.Background())
	require.NoError(t, err)

	// No sales in the previous quarter: rates are undefined, not zero.
	assert.Nil(t, got.CurrentQuarter.SaleRatePct)
	assert.Nil(t, got.CurrentQuarter.InvoiceRate)
}

func TestDashboardSummaryPropagatesSourceFailure(t *testing.T) {
	svc := NewService(&rangeSource{err: assert.AnError}, zerolog.Nop(), nil)
	_, err := svc.DashboardSummary(context.Background())
	assert.Error(t, err)
}
