package engine

import (
	"fmt"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
)

// TierInputs is everything the resolver looks at for one carrier.
// History is ordered most recent first.
type TierInputs struct {
	Carrier      *models.CarrierProfile
	History      []models.Scorecard
	Compliance   models.ComplianceStatus
	Verification *models.VerificationResult // nil when no FMCSA result is available
}

// TierDecision is the outcome of an evaluation; Changed is false for no-ops
type TierDecision struct {
	From    models.Tier `json:"from"`
	To      models.Tier `json:"to"`
	Changed bool        `json:"changed"`
	Average float64     `json:"rolling_average"`
	Reason  string      `json:"reason"`
}

// TierResolver applies tier thresholds to a carrier's rolling score history
type TierResolver struct {
	policy TierPolicy
}

func NewTierResolver(p Policy) *TierResolver {
	return &TierResolver{policy: p.Tiers}
}

// InitialTier is the tier assigned when a carrier is created
func InitialTier(source, onboardingStatus string) models.Tier {
	if source == models.SourceLeadImport {
		return models.TierGuest
	}
	if onboardingStatus == models.OnboardingApproved {
		return models.TierBronze
	}
	return models.TierGuest
}

// RollingAverage averages the most recent window scorecards
func (r *TierResolver) RollingAverage(history []models.Scorecard) float64 {
	window := history
	if len(window) > r.policy.RollingWindow {
		window = window[:r.policy.RollingWindow]
	}
	if len(window) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range window {
		total += s.OverallScore
	}
	return total / float64(len(window))
}

// Eligible returns the highest tier whose thresholds the carrier meets
func (r *TierResolver) Eligible(in TierInputs) models.Tier {
	avg := r.RollingAverage(in.History)

	best := models.TierGuest
	for _, tier := range models.Tiers[1:] {
		th, _ := r.policy.Thresholds.For(tier)
		if !r.meetsScore(th, in.History, avg) || !meetsProfile(th, in) {
			break
		}
		best = tier
	}

	// Without verified operating authority a carrier cannot rise past BRONZE
	if in.Verification != nil && !in.Verification.Authorized() && best.Above(models.TierBronze) {
		best = models.TierBronze
	}
	return best
}

// EvaluateAutomatic runs after a new scorecard. It only ever promotes.
func (r *TierResolver) EvaluateAutomatic(in TierInputs) TierDecision {
	current := in.Carrier.Tier
	d := TierDecision{From: current, To: current, Average: r.RollingAverage(in.History)}

	if reason, ok := r.autoEligible(in.Carrier); !ok {
		d.Reason = reason
		return d
	}

	eligible := r.Eligible(in)
	if !eligible.Above(current) {
		d.Reason = "no promotion earned"
		return d
	}

	d.To = eligible
	d.Changed = true
	d.Reason = fmt.Sprintf("rolling average %.2f meets %s thresholds", d.Average, eligible)
	return d
}

// Recompute is the explicit re-evaluation. It may promote or demote, but a
// score-driven demotion needs DemotionConfirmPeriods consecutive scorecards
// below the current tier's average threshold.
func (r *TierResolver) Recompute(in TierInputs) TierDecision {
	current := in.Carrier.Tier
	d := TierDecision{From: current, To: current, Average: r.RollingAverage(in.History)}

	if reason, ok := r.autoEligible(in.Carrier); !ok {
		d.Reason = reason
		return d
	}

	eligible := r.Eligible(in)
	switch {
	case eligible.Above(current):
		d.To = eligible
		d.Changed = true
		d.Reason = fmt.Sprintf("rolling average %.2f meets %s thresholds", d.Average, eligible)
		return d
	case eligible == current:
		d.Reason = "tier confirmed"
		return d
	}

	th, ok := r.policy.Thresholds.For(current)
	scoreDriven := ok && meetsProfile(th, in) && (in.Verification == nil || in.Verification.Authorized())
	if scoreDriven && !r.confirmedDecline(th, in.History) {
		d.Reason = "score decline not sustained; tier held"
		return d
	}

	// Approved carriers never fall back to GUEST
	if !eligible.Above(models.TierBronze) {
		eligible = models.TierBronze
	}
	if eligible == current {
		d.Reason = "tier confirmed"
		return d
	}

	d.To = eligible
	d.Changed = true
	d.Reason = fmt.Sprintf("no longer meets %s thresholds (rolling average %.2f)", current, d.Average)
	return d
}

func (r *TierResolver) autoEligible(c *models.CarrierProfile) (string, bool) {
	if c.OnboardingStatus != models.OnboardingApproved {
		return "carrier not approved", false
	}
	if c.Tier == models.TierGuest && c.Source == models.SourceLeadImport {
		return "imported lead requires manual promotion", false
	}
	return "", true
}

func (r *TierResolver) meetsScore(th TierThreshold, history []models.Scorecard, avg float64) bool {
	return len(history) >= th.MinPeriods && avg >= th.MinAverageScore
}

func meetsProfile(th TierThreshold, in TierInputs) bool {
	if in.Carrier.SafetyScore < th.MinSafetyScore {
		return false
	}
	if th.RequireCompliance && in.Compliance == models.ComplianceRed {
		return false
	}
	if th.RequireGreen && in.Compliance != models.ComplianceGreen {
		return false
	}
	return true
}

// confirmedDecline: the latest N scorecards each miss the average threshold
func (r *TierResolver) confirmedDecline(th TierThreshold, history []models.Scorecard) bool {
	n := r.policy.DemotionConfirmPeriods
	if len(history) < n {
		return false
	}
	for _, s := range history[:n] {
		if s.OverallScore >= th.MinAverageScore {
			return false
		}
	}
	return true
}
