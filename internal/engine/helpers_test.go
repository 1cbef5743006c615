package engine

import (
	"fmt"
	"time"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func f(v float64) *float64 {
	return &v
}

func daysFromNow(days int) *time.Time {
	t := fixedNow.Add(time.Duration(days) * 24 * time.Hour)
	return &t
}

// approvedCarrier is fully compliant, platform sourced and matchable
func approvedCarrier(id string, tier models.Tier, equipment ...string) *models.CarrierProfile {
	return &models.CarrierProfile{
		CarrierID:        id,
		Name:             "Carrier " + id,
		Equipment:        equipment,
		Regions:          []string{RegionMidwest},
		Tier:             tier,
		HasW9:            true,
		HasInsuranceCert: true,
		HasAuthorityDoc:  true,
		InsuranceExpiry:  daysFromNow(180),
		SafetyScore:      90,
		OnboardingStatus: models.OnboardingApproved,
		Status:           models.CarrierStatusApproved,
		Source:           models.SourcePlatform,
	}
}

// history builds scorecards most recent first
func history(scores ...float64) []models.Scorecard {
	out := make([]models.Scorecard, len(scores))
	for i, s := range scores {
		out[i] = models.Scorecard{
			ID:           fmt.Sprintf("sc-%d", i),
			Period:       fmt.Sprintf("2026-W%02d", 40-i),
			OverallScore: s,
			CalculatedAt: fixedNow.Add(-time.Duration(i) * 7 * 24 * time.Hour),
		}
	}
	return out
}
