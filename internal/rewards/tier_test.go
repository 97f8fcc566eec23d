package rewards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierBoundaries(t *testing.T) {
	cases := []struct {
		earned   int
		tier     string
		nextTier *int
	}{
		{0, TierBronze, ptr(2000)},
		{1999, TierBronze, ptr(1)},
		{2000, TierSilver, ptr(3000)},
		{4999, TierSilver, ptr(1)},
		{5000, TierGold, nil},
		{12345, TierGold, nil},
	}
	for _, tc := range cases {
		got := TierFor(tc.earned)
		assert.Equal(t, tc.tier, got.Name, "earned=%d", tc.earned)
		if tc.nextTier == nil {
			assert.Nil(t, got.NextTierPoints, "earned=%d", tc.earned)
		} else {
			require.NotNil(t, got.NextTierPoints, "earned=%d", tc.earned)
			assert.Equal(t, *tc.nextTier, *got.NextTierPoints, "earned=%d", tc.earned)
		}
		assert.NotEmpty(t, got.Benefits)
		assert.NotEmpty(t, got.Label)
	}
}

func TestCanRedeem(t *testing.T) {
	assert.False(t, CanRedeem(0))
	assert.False(t, CanRedeem(199))
	assert.True(t, CanRedeem(200))
	assert.True(t, CanRedeem(201))
}

func ptr(n int) *int { return &n }
