// Package analytics computes read-side rollups for the admin
// dashboard. The repository layer loads flat rows for a window; the
// functions here aggregate them. Only COMPLETED orders are ever fed
// in, so nothing below filters by status.
package analytics

import (
	"sort"
	"time"
)

// OrderRow is one completed order as loaded for rollups.
type OrderRow struct {
	UserID    string
	Total     float64
	CreatedAt time.Time
}

// ItemRow is one completed order line joined with its coffee.
type ItemRow struct {
	CoffeeID  string
	Name      string
	Category  string
	UnitPrice float64
	Quantity  int
	LineTotal float64
}

// CustomerRow is a customer with their completed-order aggregates for
// the window plus the account creation time and points balance.
type CustomerRow struct {
	UserID     string
	Name       string
	Email      string
	CreatedAt  time.Time
	OrderCount int
	TotalSpent float64
	Points     int
}

// Known overview periods.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// PeriodStart resolves a named period to its window start. Unknown
// names fall back to today.
func PeriodStart(period string, now time.Time) time.Time {
	switch period {
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, 0, -30)
	case PeriodYear:
		return now.AddDate(0, 0, -365)
	default:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
}

// PreviousRange returns the window of equal length immediately before
// the one starting at start.
func PreviousRange(period string, start time.Time) (time.Time, time.Time) {
	switch period {
	case PeriodWeek:
		return start.AddDate(0, 0, -7), start
	case PeriodMonth:
		return start.AddDate(0, 0, -30), start
	case PeriodYear:
		return start.AddDate(0, 0, -365), start
	default:
		return start.AddDate(0, 0, -1), start
	}
}

// ChangePercent is the period-over-period change in percent, zeroed
// when the previous value is zero.
func ChangePercent(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// TopItem is one entry of the overview's best-seller list.
type TopItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// TopItems aggregates item rows by coffee name and returns the n best
// sellers by quantity.
func TopItems(items []ItemRow, n int) []TopItem {
	byName := map[string]*TopItem{}
	for _, it := range items {
		e, ok := byName[it.Name]
		if !ok {
			e = &TopItem{Name: it.Name}
			byName[it.Name] = e
		}
		e.Quantity += it.Quantity
		e.Revenue += it.LineTotal
	}
	out := make([]TopItem, 0, len(byName))
	for _, e := range byName {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Overview is the dashboard headline payload.
type Overview struct {
	Period   string           `json:"period"`
	Revenue  OverviewRevenue  `json:"revenue"`
	Orders   OverviewOrders   `json:"orders"`
	Customer OverviewCustomer `json:"customers"`
	TopItems []TopItem        `json:"topItems"`
}

type OverviewRevenue struct {
	Total    float64 `json:"total"`
	Change   float64 `json:"change"`
	Currency string  `json:"currency"`
}

type OverviewOrders struct {
	Total    int     `json:"total"`
	AvgValue float64 `json:"avgValue"`
}

type OverviewCustomer struct {
	Active int `json:"active"`
}

// BuildOverview assembles the overview from the current window's
// orders, the previous window's orders and the current window's items.
func BuildOverview(period string, current, previous []OrderRow, items []ItemRow) Overview {
	var revenue, prevRevenue float64
	customers := map[string]struct{}{}
	for _, o := range current {
		revenue += o.Total
		customers[o.UserID] = struct{}{}
	}
	for _, o := range previous {
		prevRevenue += o.Total
	}
	avg := 0.0
	if len(current) > 0 {
		avg = revenue / float64(len(current))
	}
	return Overview{
		Period: period,
		Revenue: OverviewRevenue{
			Total:    revenue,
			Change:   ChangePercent(revenue, prevRevenue),
			Currency: "USD",
		},
		Orders:   OverviewOrders{Total: len(current), AvgValue: avg},
		Customer: OverviewCustomer{Active: len(customers)},
		TopItems: TopItems(items, 5),
	}
}

// DayPoint is one day of the sales time series.
type DayPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// DailySeries buckets orders by calendar day between from and to
// (inclusive), emitting a zero point for days without orders.
func DailySeries(rows []OrderRow, from, to time.Time) []DayPoint {
	byDay := map[string]*DayPoint{}
	for _, o := range rows {
		key := o.CreatedAt.Format("2006-01-02")
		p, ok := byDay[key]
		if !ok {
			p = &DayPoint{Date: key}
			byDay[key] = p
		}
		p.Revenue += o.Total
		p.Orders++
	}
	var out []DayPoint
	for d := startOfDay(from); !d.After(startOfDay(to)); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		if p, ok := byDay[key]; ok {
			out = append(out, *p)
		} else {
			out = append(out, DayPoint{Date: key})
		}
	}
	return out
}

// SalesSummary totals a daily series.
type SalesSummary struct {
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalOrders     int     `json:"totalOrders"`
	AvgDailyRevenue float64 `json:"avgDailyRevenue"`
	AvgDailyOrders  float64 `json:"avgDailyOrders"`
}

// Summarize folds a daily series into window totals and per-day means.
func Summarize(days []DayPoint) SalesSummary {
	var s SalesSummary
	for _, d := range days {
		s.TotalRevenue += d.Revenue
		s.TotalOrders += d.Orders
	}
	if n := len(days); n > 0 {
		s.AvgDailyRevenue = s.TotalRevenue / float64(n)
		s.AvgDailyOrders = float64(s.TotalOrders) / float64(n)
	}
	return s
}

// ProductStat is one row of the product sales table.
type ProductStat struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
	Orders   int     `json:"orders"`
}

// ProductTable aggregates item rows per coffee and sorts by revenue
// descending.
func ProductTable(items []ItemRow) []ProductStat {
	byID := map[string]*ProductStat{}
	for _, it := range items {
		p, ok := byID[it.CoffeeID]
		if !ok {
			p = &ProductStat{
				ID:       it.CoffeeID,
				Name:     it.Name,
				Category: it.Category,
				Price:    it.UnitPrice,
			}
			byID[it.CoffeeID] = p
		}
		p.Quantity += it.Quantity
		p.Revenue += it.LineTotal
		p.Orders++
	}
	out := make([]ProductStat, 0, len(byID))
	for _, p := range byID {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CustomerStat is one entry of the top-customers list.
type CustomerStat struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	TotalSpent    float64 `json:"totalSpent"`
	OrderCount    int     `json:"orderCount"`
	AvgOrderValue float64 `json:"avgOrderValue"`
	RewardPoints  int     `json:"rewardPoints"`
}

// Segments counts customers per behavioural bucket. The buckets are
// not exclusive: a new customer with three orders counts in both.
type Segments struct {
	New     int `json:"new"`
	Regular int `json:"regular"`
	VIP     int `json:"vip"`
}

// CustomerSummary is the headline block of the customer report.
type CustomerSummary struct {
	TotalCustomers   int     `json:"totalCustomers"`
	NewCustomers     int     `json:"newCustomers"`
	AvgCustomerValue float64 `json:"avgCustomerValue"`
}

// SegmentCustomers buckets customers (new = account created after the
// window start, regular = at least 3 orders, vip = spend >= 500) and
// returns the top ten by spend.
func SegmentCustomers(rows []CustomerRow, periodStart time.Time) (CustomerSummary, Segments, []CustomerStat) {
	var seg Segments
	var totalSpend float64
	stats := make([]CustomerStat, 0, len(rows))
	for _, r := range rows {
		if !r.CreatedAt.Before(periodStart) {
			seg.New++
		}
		if r.OrderCount >= 3 {
			seg.Regular++
		}
		if r.TotalSpent >= 500 {
			seg.VIP++
		}
		totalSpend += r.TotalSpent
		avg := 0.0
		if r.OrderCount > 0 {
			avg = r.TotalSpent / float64(r.OrderCount)
		}
		stats = append(stats, CustomerStat{
			ID:            r.UserID,
			Name:          r.Name,
			Email:         r.Email,
			TotalSpent:    r.TotalSpent,
			OrderCount:    r.OrderCount,
			AvgOrderValue: avg,
			RewardPoints:  r.Points,
		})
	}
	summary := CustomerSummary{
		TotalCustomers: len(rows),
		NewCustomers:   seg.New,
	}
	if len(rows) > 0 {
		summary.AvgCustomerValue = totalSpend / float64(len(rows))
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalSpent != stats[j].TotalSpent {
			return stats[i].TotalSpent > stats[j].TotalSpent
		}
		return stats[i].ID < stats[j].ID
	})
	if len(stats) > 10 {
		stats = stats[:10]
	}
	return summary, seg, stats
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
