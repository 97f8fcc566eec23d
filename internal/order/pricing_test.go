package order

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTotals(t *testing.T) {
	// 2x 25.00 + 1x 30.00 -> subtotal 80.00, tax 6.40, total 86.40
	subtotal, tax, total := Totals([]Line{
		{UnitPrice: 25.00, Quantity: 2},
		{UnitPrice: 30.00, Quantity: 1},
	})
	assert.InDelta(t, 80.00, subtotal, 1e-9)
	assert.InDelta(t, 6.40, tax, 1e-9)
	assert.InDelta(t, 86.40, total, 1e-9)
}

func TestTotalsEmpty(t *testing.T) {
	subtotal, tax, total := Totals(nil)
	assert.Zero(t, subtotal)
	assert.Zero(t, tax)
	assert.Zero(t, total)
}

func TestTotalsRoundsToCents(t *testing.T) {
	subtotal, tax, total := Totals([]Line{{UnitPrice: 9.99, Quantity: 3}})
	assert.InDelta(t, 29.97, subtotal, 1e-9)
	assert.InDelta(t, 2.40, tax, 1e-9) // 2.3976 rounds up
	assert.InDelta(t, 32.37, total, 1e-9)
}

func TestPointsFloorsTotal(t *testing.T) {
	assert.Equal(t, 86, Points(86.40))
	assert.Equal(t, 86, Points(86.99))
	assert.Equal(t, 0, Points(0.99))
	assert.Equal(t, 200, Points(200))
}

func TestNumberFormats(t *testing.T) {
	at := time.Date(2025, 1, 14, 9, 30, 45, 0, time.UTC)
	assert.Equal(t, "ORD20250114093045", Number(at))
	assert.Equal(t, "RWD20250114093045", RedemptionNumber(at))
}

func TestWithSuffixKeepsBaseNumber(t *testing.T) {
	n := Number(time.Now())
	s := WithSuffix(n)
	assert.True(t, strings.HasPrefix(s, n))
	assert.Greater(t, len(s), len(n))
}
