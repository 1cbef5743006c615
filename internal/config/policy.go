package config

import (
	"fmt"
	"strings"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/engine"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/spf13/viper"
)

// LoadPolicy reads the scoring policy. Every key defaults to the reference
// policy; a file (when path is set) and SCORING_* variables override it.
// For example SCORING_MATCHING_TOP_N=5.
func LoadPolicy(path string) (engine.Policy, error) {
	v := viper.New()
	setPolicyDefaults(v, engine.DefaultPolicy())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return engine.Policy{}, fmt.Errorf("error reading policy file: %w", err)
		}
	}

	v.SetEnvPrefix("SCORING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var policy engine.Policy
	if err := v.Unmarshal(&policy); err != nil {
		return engine.Policy{}, fmt.Errorf("error unmarshaling policy: %w", err)
	}

	if err := policy.Validate(); err != nil {
		return engine.Policy{}, fmt.Errorf("invalid scoring policy: %w", err)
	}
	return policy, nil
}

func setPolicyDefaults(v *viper.Viper, p engine.Policy) {
	w := p.Weights
	v.SetDefault("weights.on_time_pickup", w.OnTimePickup)
	v.SetDefault("weights.on_time_delivery", w.OnTimeDelivery)
	v.SetDefault("weights.communication", w.Communication)
	v.SetDefault("weights.claim_ratio", w.ClaimRatio)
	v.SetDefault("weights.document_timeliness", w.DocumentTimeliness)
	v.SetDefault("weights.acceptance_rate", w.AcceptanceRate)
	v.SetDefault("weights.gps_compliance", w.GPSCompliance)

	for _, tier := range models.Tiers {
		key := strings.ToLower(string(tier))
		v.SetDefault("bonus."+key, p.Bonus.For(tier))
		v.SetDefault("matching.points.tier."+key, p.Matching.Points.Tier.For(tier))
	}

	v.SetDefault("tiers.rolling_window", p.Tiers.RollingWindow)
	v.SetDefault("tiers.demotion_confirm_periods", p.Tiers.DemotionConfirmPeriods)
	for _, tier := range models.Tiers {
		th, ok := p.Tiers.Thresholds.For(tier)
		if !ok {
			continue
		}
		prefix := "tiers.thresholds." + strings.ToLower(string(tier)) + "."
		v.SetDefault(prefix+"min_average_score", th.MinAverageScore)
		v.SetDefault(prefix+"min_safety_score", th.MinSafetyScore)
		v.SetDefault(prefix+"min_periods", th.MinPeriods)
		v.SetDefault(prefix+"require_compliance", th.RequireCompliance)
		v.SetDefault(prefix+"require_green", th.RequireGreen)
	}

	v.SetDefault("compliance.expiry_warning_days", p.Compliance.ExpiryWarningDays)

	pts := p.Matching.Points
	v.SetDefault("matching.points.equipment", pts.Equipment)
	v.SetDefault("matching.points.region", pts.Region)
	v.SetDefault("matching.points.performance_max", pts.PerformanceMax)
	v.SetDefault("matching.points.compliance", pts.Compliance)
	v.SetDefault("matching.points.source_bonus", pts.SourceBonus)
	v.SetDefault("matching.points.availability", pts.Availability)
	v.SetDefault("matching.top_n", p.Matching.TopN)
	v.SetDefault("matching.suggest_dat_below", p.Matching.SuggestDATBelow)
	v.SetDefault("matching.workers", p.Matching.Workers)
}
