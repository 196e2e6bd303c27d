package timeseries

import (
	"math"
	"testing"
	"time"

	"demandcast/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Raw quantities on days 1, 3 and 5 of a 5-day window must yield a dense
// 5-entry series with zeros on days 2 and 4.
func TestBuildDailyTableFillsGaps(t *testing.T) {
	records := []models.Sale{
		{ProductCode: "P001", Quantity: 3, SaleDate: date(2025, 1, 1)},
		{ProductCode: "P001", Quantity: 7, SaleDate: date(2025, 1, 3)},
		{ProductCode: "P001", Quantity: 2, SaleDate: date(2025, 1, 5)},
	}

	table := BuildDailyTable(records)
	s := table.Series("P001")
	if s == nil {
		t.Fatal("missing series for P001")
	}
	want := []float64{3, 0, 7, 0, 2}
	if s.Len() != len(want) {
		t.Fatalf("series length = %d, want %d", s.Len(), len(want))
	}
	for i, w := range want {
		if s.Values[i] != w {
			t.Errorf("day %d = %f, want %f", i, s.Values[i], w)
		}
	}
	if !s.Start.Equal(date(2025, 1, 1)) || !s.End().Equal(date(2025, 1, 5)) {
		t.Errorf("range [%v, %v], want [2025-01-01, 2025-01-05]", s.Start, s.End())
	}
}

func TestBuildDailyTableSumsSameDay(t *testing.T) {
	records := []models.Sale{
		{ProductCode: "P001", Quantity: 2, SaleDate: date(2025, 3, 10)},
		{ProductCode: "P001", Quantity: 5, SaleDate: time.Date(2025, 3, 10, 18, 45, 0, 0, time.UTC)},
	}

	s := BuildDailyTable(records).Series("P001")
	if s.Len() != 1 || s.Values[0] != 7 {
		t.Errorf("expected one day with quantity 7, got %v", s.Values)
	}
}

// Every product spans the global [min, max] calendar range, zero-filled on
// days the product had no sales (the cartesian date x product construction).
func TestBuildDailyTableCartesianRange(t *testing.T) {
	records := []models.Sale{
		{ProductCode: "P002", Quantity: 1, SaleDate: date(2025, 2, 1)},
		{ProductCode: "P001", Quantity: 4, SaleDate: date(2025, 2, 3)},
	}

	table := BuildDailyTable(records)
	got := table.Products()
	if len(got) != 2 || got[0] != "P001" || got[1] != "P002" {
		t.Fatalf("products = %v, want [P001 P002]", got)
	}

	for _, code := range got {
		s := table.Series(code)
		if s.Len() != 3 {
			t.Errorf("%s length = %d, want 3", code, s.Len())
		}
		if !s.Start.Equal(date(2025, 2, 1)) {
			t.Errorf("%s start = %v, want 2025-02-01", code, s.Start)
		}
	}

	if v := table.Series("P001").Values[0]; v != 0 {
		t.Errorf("P001 day 0 = %f, want 0", v)
	}
	if v := table.Series("P002").Values[2]; v != 0 {
		t.Errorf("P002 day 2 = %f, want 0", v)
	}
}

func TestBuildDailyTableCoercesQuantities(t *testing.T) {
	records := []models.Sale{
		{ProductCode: "P001", Quantity: math.NaN(), SaleDate: date(2025, 1, 1)},
		{ProductCode: "P001", Quantity: -9, SaleDate: date(2025, 1, 2)},
	}

	s := BuildDailyTable(records).Series("P001")
	for i, v := range s.Values {
		if v != 0 {
			t.Errorf("day %d = %f, want 0 after coercion", i, v)
		}
	}
}

func TestBuildDailyTableEmpty(t *testing.T) {
	table := BuildDailyTable(nil)
	if len(table.Products()) != 0 {
		t.Errorf("expected empty table, got products %v", table.Products())
	}
	if table.Series("P001") != nil {
		t.Error("expected nil series for unknown product")
	}
}

func TestDailySeriesTail(t *testing.T) {
	s := &DailySeries{Start: date(2025, 1, 1), Values: []float64{1, 2, 3, 4, 5}}

	tail := s.Tail(2)
	if tail.Len() != 2 || tail.Values[0] != 4 || tail.Values[1] != 5 {
		t.Errorf("Tail(2) = %v", tail.Values)
	}
	if !tail.Start.Equal(date(2025, 1, 4)) {
		t.Errorf("Tail(2) start = %v, want 2025-01-04", tail.Start)
	}

	all := s.Tail(99)
	if all.Len() != 5 {
		t.Errorf("Tail(99) length = %d, want 5", all.Len())
	}

	// Tail copies must not alias the original storage.
	tail.Values[0] = -1
	if s.Values[3] == -1 {
		t.Error("Tail must copy values")
	}
}

func TestNormalize(t *testing.T) {
	ts := time.Date(2025, 6, 15, 23, 59, 59, 999, time.FixedZone("X", 3600))
	got := Normalize(ts)
	if got.Hour() != 0 || got.Minute() != 0 || got.Location() != time.UTC {
		t.Errorf("Normalize = %v, want midnight UTC", got)
	}
}
