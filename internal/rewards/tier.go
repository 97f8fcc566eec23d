// Package rewards holds the loyalty program's pure rules: the fixed
// redemption cost and the tier classification derived from lifetime
// earned points. Balance bookkeeping lives in the rewards repository.
package rewards

// RedeemCost is the fixed price, in points, of one free coffee.
const RedeemCost = 200

// Tier thresholds on lifetime earned points.
const (
	silverThreshold = 2000
	goldThreshold   = 5000
)

// Tier names.
const (
	TierBronze = "BRONZE"
	TierSilver = "SILVER"
	TierGold   = "GOLD"
)

// Tier describes a member's classification. NextTierPoints is nil for
// GOLD members, otherwise the points remaining to the next tier.
type Tier struct {
	Name           string   `json:"tier"`
	Label          string   `json:"tierName"`
	Benefits       []string `json:"benefits"`
	NextTierPoints *int     `json:"nextTierPoints"`
}

// TierFor classifies a member by lifetime earned points.
func TierFor(totalEarned int) Tier {
	switch {
	case totalEarned >= goldThreshold:
		return Tier{
			Name:  TierGold,
			Label: "Gold member",
			Benefits: []string{
				"1.5x points on every purchase",
				"Free coffee for 200 points",
				"Double points in your birthday month",
				"Members-only tasting events",
			},
		}
	case totalEarned >= silverThreshold:
		remaining := goldThreshold - totalEarned
		return Tier{
			Name:  TierSilver,
			Label: "Silver member",
			Benefits: []string{
				"1.2x points on every purchase",
				"Free coffee for 200 points",
				"1.5x points in your birthday month",
			},
			NextTierPoints: &remaining,
		}
	default:
		remaining := silverThreshold - totalEarned
		return Tier{
			Name:  TierBronze,
			Label: "Bronze member",
			Benefits: []string{
				"1x points on every purchase",
				"Free coffee for 200 points",
			},
			NextTierPoints: &remaining,
		}
	}
}

// CanRedeem reports whether a balance covers one redemption.
func CanRedeem(currentPoints int) bool {
	return currentPoints >= RedeemCost
}
