package engine

import (
	"errors"
	"fmt"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/shopspring/decimal"
)

// Policy carries every business-tunable number the engine uses. Config loads
// it from the scoring policy file; DefaultPolicy holds the reference values.
type Policy struct {
	Weights    Weights          `mapstructure:"weights" json:"weights"`
	Bonus      TierAmounts      `mapstructure:"bonus" json:"bonus"`
	Tiers      TierPolicy       `mapstructure:"tiers" json:"tiers"`
	Compliance CompliancePolicy `mapstructure:"compliance" json:"compliance"`
	Matching   MatchingPolicy   `mapstructure:"matching" json:"matching"`
}

// Weights of the scorecard linear combination; they must sum to 1.0.
// ClaimRatio weighs the inverted ratio (100 - claim ratio).
type Weights struct {
	OnTimePickup       float64 `mapstructure:"on_time_pickup" json:"on_time_pickup"`
	OnTimeDelivery     float64 `mapstructure:"on_time_delivery" json:"on_time_delivery"`
	Communication      float64 `mapstructure:"communication" json:"communication"`
	ClaimRatio         float64 `mapstructure:"claim_ratio" json:"claim_ratio"`
	DocumentTimeliness float64 `mapstructure:"document_timeliness" json:"document_timeliness"`
	AcceptanceRate     float64 `mapstructure:"acceptance_rate" json:"acceptance_rate"`
	GPSCompliance      float64 `mapstructure:"gps_compliance" json:"gps_compliance"`
}

// Sum adds the weights in decimal so 0.1+0.2 style drift never fails validation
func (w Weights) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range w.values() {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	return sum
}

func (w Weights) values() []float64 {
	return []float64{w.OnTimePickup, w.OnTimeDelivery, w.Communication, w.ClaimRatio,
		w.DocumentTimeliness, w.AcceptanceRate, w.GPSCompliance}
}

// TierAmounts is a per-tier float table (bonus amounts)
type TierAmounts struct {
	Guest    float64 `mapstructure:"guest" json:"guest"`
	Bronze   float64 `mapstructure:"bronze" json:"bronze"`
	Silver   float64 `mapstructure:"silver" json:"silver"`
	Gold     float64 `mapstructure:"gold" json:"gold"`
	Platinum float64 `mapstructure:"platinum" json:"platinum"`
}

func (a TierAmounts) For(t models.Tier) float64 {
	switch t {
	case models.TierBronze:
		return a.Bronze
	case models.TierSilver:
		return a.Silver
	case models.TierGold:
		return a.Gold
	case models.TierPlatinum:
		return a.Platinum
	case models.TierGuest:
		return a.Guest
	}
	return 0
}

// TierPoints is a per-tier match point table. Unknown or empty tiers score 0.
type TierPoints struct {
	Guest    int `mapstructure:"guest" json:"guest"`
	Bronze   int `mapstructure:"bronze" json:"bronze"`
	Silver   int `mapstructure:"silver" json:"silver"`
	Gold     int `mapstructure:"gold" json:"gold"`
	Platinum int `mapstructure:"platinum" json:"platinum"`
}

func (p TierPoints) For(t models.Tier) int {
	switch t {
	case models.TierBronze:
		return p.Bronze
	case models.TierSilver:
		return p.Silver
	case models.TierGold:
		return p.Gold
	case models.TierPlatinum:
		return p.Platinum
	case models.TierGuest:
		return p.Guest
	}
	return 0
}

// TierThreshold is what a carrier must show to hold a tier
type TierThreshold struct {
	MinAverageScore   float64 `mapstructure:"min_average_score" json:"min_average_score"`
	MinSafetyScore    float64 `mapstructure:"min_safety_score" json:"min_safety_score"`
	MinPeriods        int     `mapstructure:"min_periods" json:"min_periods"`
	RequireCompliance bool    `mapstructure:"require_compliance" json:"require_compliance"` // not RED
	RequireGreen      bool    `mapstructure:"require_green" json:"require_green"`
}

type TierThresholds struct {
	Bronze   TierThreshold `mapstructure:"bronze" json:"bronze"`
	Silver   TierThreshold `mapstructure:"silver" json:"silver"`
	Gold     TierThreshold `mapstructure:"gold" json:"gold"`
	Platinum TierThreshold `mapstructure:"platinum" json:"platinum"`
}

// For returns the threshold of a tier; GUEST has none
func (t TierThresholds) For(tier models.Tier) (TierThreshold, bool) {
	switch tier {
	case models.TierBronze:
		return t.Bronze, true
	case models.TierSilver:
		return t.Silver, true
	case models.TierGold:
		return t.Gold, true
	case models.TierPlatinum:
		return t.Platinum, true
	}
	return TierThreshold{}, false
}

type TierPolicy struct {
	// RollingWindow is how many recent scorecards the average covers
	RollingWindow int `mapstructure:"rolling_window" json:"rolling_window"`
	// DemotionConfirmPeriods consecutive below-threshold scorecards are needed
	// before a recomputation may demote on score alone
	DemotionConfirmPeriods int            `mapstructure:"demotion_confirm_periods" json:"demotion_confirm_periods"`
	Thresholds             TierThresholds `mapstructure:"thresholds" json:"thresholds"`
}

type CompliancePolicy struct {
	ExpiryWarningDays int `mapstructure:"expiry_warning_days" json:"expiry_warning_days"`
}

// MatchPoints is the integer point budget of a match score
type MatchPoints struct {
	Equipment      int        `mapstructure:"equipment" json:"equipment"`
	Region         int        `mapstructure:"region" json:"region"`
	PerformanceMax int        `mapstructure:"performance_max" json:"performance_max"`
	Compliance     int        `mapstructure:"compliance" json:"compliance"`
	SourceBonus    int        `mapstructure:"source_bonus" json:"source_bonus"`
	Availability   int        `mapstructure:"availability" json:"availability"`
	Tier           TierPoints `mapstructure:"tier" json:"tier"`
}

type MatchingPolicy struct {
	Points          MatchPoints `mapstructure:"points" json:"points"`
	TopN            int         `mapstructure:"top_n" json:"top_n"`
	SuggestDATBelow int         `mapstructure:"suggest_dat_below" json:"suggest_dat_below"`
	Workers         int         `mapstructure:"workers" json:"workers"`
}

// DefaultPolicy returns the reference business rules
func DefaultPolicy() Policy {
	return Policy{
		Weights: Weights{
			OnTimePickup:       0.20,
			OnTimeDelivery:     0.20,
			Communication:      0.10,
			ClaimRatio:         0.15,
			DocumentTimeliness: 0.10,
			AcceptanceRate:     0.10,
			GPSCompliance:      0.15,
		},
		Bonus: TierAmounts{Gold: 75, Platinum: 150},
		Tiers: TierPolicy{
			RollingWindow:          12,
			DemotionConfirmPeriods: 2,
			Thresholds: TierThresholds{
				Silver:   TierThreshold{MinAverageScore: 75, MinSafetyScore: 60, MinPeriods: 2, RequireCompliance: true},
				Gold:     TierThreshold{MinAverageScore: 85, MinSafetyScore: 75, MinPeriods: 4, RequireCompliance: true},
				Platinum: TierThreshold{MinAverageScore: 93, MinSafetyScore: 85, MinPeriods: 8, RequireCompliance: true, RequireGreen: true},
			},
		},
		Compliance: CompliancePolicy{ExpiryWarningDays: 30},
		Matching: MatchingPolicy{
			Points: MatchPoints{
				Equipment:      30,
				Region:         15,
				PerformanceMax: 25,
				Compliance:     10,
				SourceBonus:    5,
				Availability:   5,
				Tier:           TierPoints{Bronze: 2, Silver: 4, Gold: 7, Platinum: 10},
			},
			TopN:            10,
			SuggestDATBelow: 3,
			Workers:         8,
		},
	}
}

var weightTolerance = decimal.New(1, -9)

// Validate rejects policies that would break scoring invariants
func (p Policy) Validate() error {
	var errs []error

	for _, v := range p.Weights.values() {
		if v < 0 {
			errs = append(errs, fmt.Errorf("weights must not be negative, got %v", v))
			break
		}
	}
	if sum := p.Weights.Sum(); sum.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(weightTolerance) {
		errs = append(errs, fmt.Errorf("weights must sum to 1.0, got %s", sum.String()))
	}

	if p.Tiers.RollingWindow < 1 {
		errs = append(errs, errors.New("tiers.rolling_window must be at least 1"))
	}
	if p.Tiers.DemotionConfirmPeriods < 1 {
		errs = append(errs, errors.New("tiers.demotion_confirm_periods must be at least 1"))
	}
	prev := -1.0
	for _, tier := range models.Tiers[1:] {
		th, _ := p.Tiers.Thresholds.For(tier)
		if th.MinAverageScore < prev {
			errs = append(errs, fmt.Errorf("tier %s average threshold is below the tier beneath it", tier))
		}
		prev = th.MinAverageScore
	}

	if p.Compliance.ExpiryWarningDays < 0 {
		errs = append(errs, errors.New("compliance.expiry_warning_days must not be negative"))
	}

	if p.Matching.TopN < 1 {
		errs = append(errs, errors.New("matching.top_n must be at least 1"))
	}
	if p.Matching.Workers < 1 {
		errs = append(errs, errors.New("matching.workers must be at least 1"))
	}
	if p.Matching.Points.PerformanceMax < 0 {
		errs = append(errs, errors.New("matching.points.performance_max must not be negative"))
	}

	return errors.Join(errs...)
}
