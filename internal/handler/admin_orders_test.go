package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveOrderCounts(t *testing.T) {
	counts := activeOrderCounts(map[string]int{
		"PENDING":   3,
		"PREPARING": 1,
		"COMPLETED": 40,
		"CANCELLED": 5,
	})

	assert.Equal(t, 3, counts["pending"])
	assert.Equal(t, 0, counts["confirmed"], "missing statuses default to zero")
	assert.Equal(t, 1, counts["preparing"])
	assert.Equal(t, 0, counts["ready"])
	assert.Equal(t, 4, counts["total"])
	assert.NotContains(t, counts, "completed")
	assert.NotContains(t, counts, "cancelled")
}

func TestActiveOrderCountsEmpty(t *testing.T) {
	counts := activeOrderCounts(map[string]int{})
	assert.Equal(t, 0, counts["pending"])
	assert.Equal(t, 0, counts["total"])
}
