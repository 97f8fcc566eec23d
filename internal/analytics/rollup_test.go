package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestDailySeriesZeroFillsGaps(t *testing.T) {
	from := day(2025, 3, 1)
	to := day(2025, 3, 7)
	rows := []OrderRow{
		{UserID: "u1", Total: 10, CreatedAt: day(2025, 3, 1)},
		{UserID: "u2", Total: 20, CreatedAt: day(2025, 3, 2)},
		{UserID: "u1", Total: 5, CreatedAt: day(2025, 3, 2)},
		// day 3 has no orders
		{UserID: "u3", Total: 40, CreatedAt: day(2025, 3, 4)},
	}

	series := DailySeries(rows, from, to)
	require.Len(t, series, 7)

	assert.Equal(t, "2025-03-03", series[2].Date)
	assert.Zero(t, series[2].Revenue)
	assert.Zero(t, series[2].Orders)

	assert.Equal(t, 25.0, series[1].Revenue)
	assert.Equal(t, 2, series[1].Orders)

	// trailing empty days are still present
	assert.Equal(t, "2025-03-07", series[6].Date)
	assert.Zero(t, series[6].Orders)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]DayPoint{
		{Date: "2025-03-01", Revenue: 100, Orders: 4},
		{Date: "2025-03-02"},
		{Date: "2025-03-03", Revenue: 50, Orders: 2},
	})
	assert.Equal(t, 150.0, s.TotalRevenue)
	assert.Equal(t, 6, s.TotalOrders)
	assert.InDelta(t, 50.0, s.AvgDailyRevenue, 1e-9)
	assert.InDelta(t, 2.0, s.AvgDailyOrders, 1e-9)

	assert.Zero(t, Summarize(nil).AvgDailyRevenue)
}

func TestChangePercent(t *testing.T) {
	assert.InDelta(t, 25.0, ChangePercent(125, 100), 1e-9)
	assert.InDelta(t, -50.0, ChangePercent(50, 100), 1e-9)
	// division-by-zero guard
	assert.Zero(t, ChangePercent(100, 0))
	assert.Zero(t, ChangePercent(0, 0))
}

func TestBuildOverview(t *testing.T) {
	current := []OrderRow{
		{UserID: "u1", Total: 60},
		{UserID: "u1", Total: 40},
		{UserID: "u2", Total: 100},
	}
	previous := []OrderRow{{UserID: "u3", Total: 100}}
	items := []ItemRow{
		{CoffeeID: "c1", Name: "Latte", Quantity: 5, LineTotal: 140},
		{CoffeeID: "c2", Name: "Mocha", Quantity: 2, LineTotal: 60},
		{CoffeeID: "c1", Name: "Latte", Quantity: 1, LineTotal: 28},
	}

	ov := BuildOverview(PeriodWeek, current, previous, items)
	assert.Equal(t, PeriodWeek, ov.Period)
	assert.Equal(t, 200.0, ov.Revenue.Total)
	assert.InDelta(t, 100.0, ov.Revenue.Change, 1e-9)
	assert.Equal(t, 3, ov.Orders.Total)
	assert.InDelta(t, 200.0/3, ov.Orders.AvgValue, 1e-9)
	assert.Equal(t, 2, ov.Customer.Active)

	require.NotEmpty(t, ov.TopItems)
	assert.Equal(t, "Latte", ov.TopItems[0].Name)
	assert.Equal(t, 6, ov.TopItems[0].Quantity)
	assert.Equal(t, 168.0, ov.TopItems[0].Revenue)
}

func TestProductTableSortsByRevenue(t *testing.T) {
	items := []ItemRow{
		{CoffeeID: "c1", Name: "Latte", Category: "Espresso", UnitPrice: 28, Quantity: 2, LineTotal: 56},
		{CoffeeID: "c2", Name: "Cold Brew", Category: "Cold", UnitPrice: 30, Quantity: 5, LineTotal: 150},
		{CoffeeID: "c1", Name: "Latte", Category: "Espresso", UnitPrice: 28, Quantity: 1, LineTotal: 28},
	}
	table := ProductTable(items)
	require.Len(t, table, 2)
	assert.Equal(t, "c2", table[0].ID)
	assert.Equal(t, 150.0, table[0].Revenue)
	assert.Equal(t, "c1", table[1].ID)
	assert.Equal(t, 3, table[1].Quantity)
	assert.Equal(t, 84.0, table[1].Revenue)
	assert.Equal(t, 2, table[1].Orders)
}

func TestSegmentCustomers(t *testing.T) {
	start := day(2025, 3, 1)
	rows := []CustomerRow{
		{UserID: "a", CreatedAt: day(2025, 3, 5), OrderCount: 1, TotalSpent: 30},             // new
		{UserID: "b", CreatedAt: day(2024, 1, 1), OrderCount: 4, TotalSpent: 120},            // regular
		{UserID: "c", CreatedAt: day(2024, 6, 1), OrderCount: 8, TotalSpent: 700, Points: 5}, // regular + vip
	}
	summary, seg, top := SegmentCustomers(rows, start)

	assert.Equal(t, 3, summary.TotalCustomers)
	assert.Equal(t, 1, summary.NewCustomers)
	assert.InDelta(t, 850.0/3, summary.AvgCustomerValue, 1e-9)

	assert.Equal(t, 1, seg.New)
	assert.Equal(t, 2, seg.Regular)
	assert.Equal(t, 1, seg.VIP)

	require.Len(t, top, 3)
	assert.Equal(t, "c", top[0].ID)
	assert.Equal(t, 5, top[0].RewardPoints)
	assert.InDelta(t, 87.5, top[0].AvgOrderValue, 1e-9)
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), PeriodStart(PeriodToday, now))
	assert.Equal(t, now.AddDate(0, 0, -7), PeriodStart(PeriodWeek, now))
	assert.Equal(t, now.AddDate(0, 0, -30), PeriodStart(PeriodMonth, now))
	assert.Equal(t, now.AddDate(0, 0, -365), PeriodStart(PeriodYear, now))
	// unknown period falls back to today
	assert.Equal(t, PeriodStart(PeriodToday, now), PeriodStart("quarter", now))

	prevFrom, prevTo := PreviousRange(PeriodWeek, now)
	assert.Equal(t, now.AddDate(0, 0, -7), prevFrom)
	assert.Equal(t, now, prevTo)
}
