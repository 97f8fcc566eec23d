package order

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Order-number prefixes. Redemption orders created by the rewards
// ledger carry their own prefix so they are distinguishable in lists
// and in the points history.
const (
	NumberPrefix     = "ORD"
	RedemptionPrefix = "RWD"
)

// Number derives a human-readable order number from the creation time,
// e.g. "ORD20250114093045". Second granularity can collide under
// concurrent creation; the orders table has a unique index on the
// number and callers retry with WithSuffix on a duplicate.
func Number(t time.Time) string {
	return NumberPrefix + t.Format("20060102150405")
}

// RedemptionNumber is Number for zero-price redemption orders.
func RedemptionNumber(t time.Time) string {
	return RedemptionPrefix + t.Format("20060102150405")
}

// WithSuffix appends a short random hex suffix to a colliding order
// number so the insert can be retried.
func WithSuffix(number string) string {
	buf := make([]byte, 2)
	if _, err := rand.Read(buf); err != nil {
		return number + "X"
	}
	return number + "-" + hex.EncodeToString(buf)
}
