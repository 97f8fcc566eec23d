package order

import "math"

// TaxRate is the fixed sales tax applied to every order subtotal.
const TaxRate = 0.08

// Line is one priced order line: the unit price captured at order time
// and the ordered quantity.
type Line struct {
	UnitPrice float64
	Quantity  int
}

// Totals computes subtotal, tax and total for a set of lines. Money is
// rounded to two decimals after each aggregate so that stored values
// match what the customer is shown.
func Totals(lines []Line) (subtotal, tax, total float64) {
	for _, l := range lines {
		subtotal += l.UnitPrice * float64(l.Quantity)
	}
	subtotal = round2(subtotal)
	tax = round2(subtotal * TaxRate)
	total = round2(subtotal + tax)
	return subtotal, tax, total
}

// Points converts an order total into loyalty points: one point per
// whole currency unit, fractions discarded.
func Points(total float64) int {
	return int(math.Floor(total))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
