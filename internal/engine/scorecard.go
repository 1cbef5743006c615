package engine

import (
	"time"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/shopspring/decimal"
)

// ScorecardCalculator turns normalized metrics into a Scorecard
type ScorecardCalculator struct {
	weights Weights
	bonus   TierAmounts
}

func NewScorecardCalculator(p Policy) *ScorecardCalculator {
	return &ScorecardCalculator{weights: p.Weights, bonus: p.Bonus}
}

// OverallScore is the weighted sum rounded to 2 places, half away from zero.
// Arithmetic runs in decimal so 98.775 rounds to 98.78 rather than drifting.
func (c *ScorecardCalculator) OverallScore(m models.NormalizedMetrics) float64 {
	terms := []struct{ weight, value float64 }{
		{c.weights.OnTimePickup, m.OnTimePickup},
		{c.weights.OnTimeDelivery, m.OnTimeDelivery},
		{c.weights.Communication, m.Communication},
		{c.weights.ClaimRatio, m.InvertedClaimRatio},
		{c.weights.DocumentTimeliness, m.DocumentTimeliness},
		{c.weights.AcceptanceRate, m.AcceptanceRate},
		{c.weights.GPSCompliance, m.GPSCompliance},
	}

	sum := decimal.Zero
	for _, t := range terms {
		sum = sum.Add(decimal.NewFromFloat(t.weight).Mul(decimal.NewFromFloat(t.value)))
	}

	overall := sum.Round(2).InexactFloat64()
	return clampPercent(overall)
}

// Bonus is decided by the tier in effect for this calculation only
func (c *ScorecardCalculator) Bonus(tier models.Tier) float64 {
	return c.bonus.For(tier)
}

// Calculate builds the immutable scorecard. It never touches the carrier.
func (c *ScorecardCalculator) Calculate(carrierID, period string, m models.NormalizedMetrics, tier models.Tier, now time.Time) *models.Scorecard {
	return &models.Scorecard{
		CarrierID:          carrierID,
		Period:             period,
		OnTimePickup:       m.OnTimePickup,
		OnTimeDelivery:     m.OnTimeDelivery,
		Communication:      m.Communication,
		ClaimRatio:         m.ClaimRatio,
		DocumentTimeliness: m.DocumentTimeliness,
		AcceptanceRate:     m.AcceptanceRate,
		GPSCompliance:      m.GPSCompliance,
		OverallScore:       c.OverallScore(m),
		TierAtCalculation:  tier,
		BonusAmount:        c.Bonus(tier),
		Degraded:           m.Degraded(),
		CalculatedAt:       now.UTC(),
	}
}
