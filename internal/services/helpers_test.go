package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/cache"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/engine"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/storage"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func f(v float64) *float64 {
	return &v
}

func daysFromNow(days int) *time.Time {
	t := fixedNow.Add(time.Duration(days) * 24 * time.Hour)
	return &t
}

// recordingNotifier keeps every message it was asked to send
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingNotifier) Notify(_ context.Context, to, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, to+": "+message)
	return nil
}

func (r *recordingNotifier) sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

type fixture struct {
	store      *storage.MemoryStore
	policy     engine.Policy
	notifier   *recordingNotifier
	carriers   *CarrierService
	tiers      *TierService
	scorecards *ScorecardService
	matches    *MatchService
	loads      *LoadService
}

func newFixture(t *testing.T, verifier Verifier) *fixture {
	t.Helper()
	fx := &fixture{
		store:    storage.NewMemoryStore(),
		policy:   engine.DefaultPolicy(),
		notifier: &recordingNotifier{},
	}
	fx.carriers = NewCarrierService(fx.store, fx.policy)
	fx.carriers.clock = clockAt(fixedNow)
	fx.tiers = NewTierService(fx.store, fx.policy, verifier, fx.notifier)
	fx.tiers.clock = clockAt(fixedNow)
	fx.scorecards = NewScorecardService(fx.store, fx.policy, fx.tiers, cache.NewLocalLocker())
	fx.scorecards.clock = clockAt(fixedNow)
	fx.matches = NewMatchService(fx.store, fx.policy)
	fx.matches.clock = clockAt(fixedNow)
	fx.loads = NewLoadService(fx.store)
	return fx
}

// addCarrier stores a compliant, approved platform carrier at the given tier
func (fx *fixture) addCarrier(t *testing.T, id string, tier models.Tier, equipment ...string) *models.CarrierProfile {
	t.Helper()
	c := &models.CarrierProfile{
		CarrierID:        id,
		Name:             "Carrier " + id,
		DOTNumber:        "DOT" + id,
		ContactPhone:     "+1555000" + id,
		Equipment:        equipment,
		Regions:          []string{engine.RegionMidwest},
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
	created, err := fx.store.CreateCarrier(context.Background(), c, nil)
	require.NoError(t, err)
	return created
}

// addHistory stores past scorecards, given most recent first, one week apart
// ending a week before fixedNow
func (fx *fixture) addHistory(t *testing.T, carrierID string, scores ...float64) {
	t.Helper()
	for i := len(scores) - 1; i >= 0; i-- {
		require.NoError(t, fx.store.CreateScorecard(context.Background(), &models.Scorecard{
			CarrierID:    carrierID,
			Period:       fmt.Sprintf("2026-W%02d", 40-i),
			OverallScore: scores[i],
			CalculatedAt: fixedNow.Add(-time.Duration(i+1) * 7 * 24 * time.Hour),
		}))
	}
}

// uniformMetrics reports every KPI at v, with a claim ratio of 100-v
func uniformMetrics(v float64) models.RawMetrics {
	return models.RawMetrics{
		OnTimePickup:       f(v),
		OnTimeDelivery:     f(v),
		Communication:      f(v),
		ClaimRatio:         f(100 - v),
		DocumentTimeliness: f(v),
		AcceptanceRate:     f(v),
		GPSCompliance:      f(v),
	}
}
