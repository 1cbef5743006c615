package engine

import (
	"context"
	"sort"
	"time"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Candidate is one carrier with its latest scorecard (nil if it has none)
type Candidate struct {
	Carrier *models.CarrierProfile
	Latest  *models.Scorecard
}

// Matcher ranks carriers against a load
type Matcher struct {
	policy       MatchingPolicy
	gate         ComplianceGate
	availability AvailabilityScorer
}

type MatcherOption func(*Matcher)

// WithAvailability replaces the flat availability factor
func WithAvailability(a AvailabilityScorer) MatcherOption {
	return func(m *Matcher) {
		m.availability = a
	}
}

func NewMatcher(p Policy, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		policy:       p.Matching,
		gate:         NewComplianceGate(p),
		availability: FlatAvailability{Points: p.Matching.Points.Availability},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Score computes the additive breakdown of one carrier for one load
func (m *Matcher) Score(c Candidate, load *models.Load, now time.Time) models.MatchResult {
	pts := m.policy.Points
	carrier := c.Carrier

	res := models.MatchResult{
		CarrierID:        carrier.CarrierID,
		CarrierName:      carrier.Name,
		Tier:             carrier.Tier,
		ComplianceStatus: m.gate.EvaluateCarrier(carrier, now),
		EquipmentMatch:   carrier.HasEquipment(load.Equipment),
	}

	b := &res.Breakdown
	if res.EquipmentMatch {
		b.Equipment = pts.Equipment
	}
	if region, ok := RegionForState(load.OriginState); ok && carrier.OperatesIn(region) {
		b.Region = pts.Region
	}
	if c.Latest != nil {
		b.Performance = PerformancePoints(c.Latest.OverallScore, pts.PerformanceMax)
	}
	if res.ComplianceStatus != models.ComplianceRed {
		b.Compliance = pts.Compliance
	}
	b.Tier = pts.Tier.For(carrier.Tier)
	if carrier.PlatformSourced() {
		b.SourceBonus = pts.SourceBonus
	}
	b.Availability = m.availability.Score(carrier, load)

	res.MatchScore = b.Total()
	return res
}

// PerformancePoints is round(overall / 100 * max), half away from zero
func PerformancePoints(overall float64, max int) int {
	p := decimal.NewFromFloat(overall).
		Mul(decimal.NewFromInt(int64(max))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
	if p < 0 {
		return 0
	}
	if p > int64(max) {
		return max
	}
	return int(p)
}

// Match scores the pool in parallel and applies the two-pass filter:
// equipment match and not RED first; equipment match alone only when the
// first pass is empty. Ties break on carrier ID.
func (m *Matcher) Match(ctx context.Context, load *models.Load, candidates []Candidate, now time.Time) (models.MatchResponse, error) {
	pool := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Carrier != nil && c.Carrier.IsMatchable() {
			pool = append(pool, c)
		}
	}

	scored := make([]models.MatchResult, len(pool))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.policy.Workers)
	for i := range pool {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scored[i] = m.Score(pool[i], load, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.MatchResponse{}, err
	}

	matches := filterMatches(scored, func(r models.MatchResult) bool {
		return r.EquipmentMatch && r.ComplianceStatus != models.ComplianceRed
	})
	fallback := false
	if len(matches) == 0 {
		fallback = true
		matches = filterMatches(scored, func(r models.MatchResult) bool {
			return r.EquipmentMatch
		})
	}

	rank(matches)
	if len(matches) > m.policy.TopN {
		matches = matches[:m.policy.TopN]
	}

	return models.MatchResponse{
		LoadID:         load.LoadID,
		Matches:        matches,
		SuggestDAT:     len(matches) < m.policy.SuggestDATBelow,
		Fallback:       fallback,
		CandidateCount: len(pool),
	}, nil
}

func filterMatches(results []models.MatchResult, keep func(models.MatchResult) bool) []models.MatchResult {
	out := make([]models.MatchResult, 0, len(results))
	for _, r := range results {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func rank(results []models.MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MatchScore != results[j].MatchScore {
			return results[i].MatchScore > results[j].MatchScore
		}
		return results[i].CarrierID < results[j].CarrierID
	})
}
