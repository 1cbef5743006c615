package services

import (
	"context"
	"sync"
	"testing"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var override = OverrideRequest{OperatorID: "ops-7", Reason: "verified carrier by phone"}

func TestForcePromote(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	c := fx.addCarrier(t, "1", models.TierGuest)

	transition, err := fx.tiers.ForcePromote(ctx, c.CarrierID, override)
	require.NoError(t, err)
	assert.Equal(t, models.TransitionForcePromote, transition.Kind)
	assert.Equal(t, models.TierGuest, transition.FromTier)
	assert.Equal(t, models.TierBronze, transition.ToTier)
	assert.Equal(t, "ops-7", transition.OperatorID)
	assert.Equal(t, "verified carrier by phone", transition.Reason)

	stored, err := fx.store.GetCarrier(ctx, c.CarrierID)
	require.NoError(t, err)
	assert.Equal(t, models.TierBronze, stored.Tier)

	history, err := fx.tiers.History(ctx, c.CarrierID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, transition.ID, history[0].ID)
}

func TestForcePromoteOnlyFromGuest(t *testing.T) {
	fx := newFixture(t, nil)
	c := fx.addCarrier(t, "1", models.TierSilver)

	_, err := fx.tiers.ForcePromote(context.Background(), c.CarrierID, override)
	assert.ErrorIs(t, err, ErrPolicyViolation)
}

func TestOverridesRequireOperatorAndReason(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	c := fx.addCarrier(t, "1", models.TierGuest)

	for _, req := range []OverrideRequest{
		{OperatorID: "ops-7"},
		{OperatorID: "ops-7", Reason: "   "},
		{Reason: "urgent"},
	} {
		_, err := fx.tiers.ForcePromote(ctx, c.CarrierID, req)
		assert.ErrorIs(t, err, ErrPolicyViolation)
		_, err = fx.tiers.EmergencyApprove(ctx, c.CarrierID, req)
		assert.ErrorIs(t, err, ErrPolicyViolation)
	}

	history, err := fx.tiers.History(ctx, c.CarrierID)
	require.NoError(t, err)
	assert.Empty(t, history, "rejected overrides leave no audit record")

	_, err = fx.tiers.ForcePromote(ctx, "CR404", override)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmergencyApprove(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	c := fx.addCarrier(t, "1", models.TierGuest)
	c.OnboardingStatus = models.OnboardingPending
	require.NoError(t, fx.store.UpdateCarrier(ctx, c))

	transition, err := fx.tiers.EmergencyApprove(ctx, c.CarrierID, override)
	require.NoError(t, err)
	assert.Equal(t, models.TransitionEmergencyApprove, transition.Kind)
	assert.Equal(t, models.OnboardingPending, transition.FromOnboarding)
	assert.Equal(t, models.OnboardingApproved, transition.ToOnboarding)
	assert.Equal(t, models.TierBronze, transition.ToTier)

	stored, err := fx.store.GetCarrier(ctx, c.CarrierID)
	require.NoError(t, err)
	assert.Equal(t, models.OnboardingApproved, stored.OnboardingStatus)
	assert.True(t, stored.IsMatchable())

	_, err = fx.tiers.EmergencyApprove(ctx, c.CarrierID, override)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestEmergencyApproveKeepsImportedLeadAtGuest(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	c := fx.addCarrier(t, "1", models.TierGuest)
	c.OnboardingStatus = models.OnboardingPending
	c.Source = models.SourceLeadImport
	require.NoError(t, fx.store.UpdateCarrier(ctx, c))

	transition, err := fx.tiers.EmergencyApprove(ctx, c.CarrierID, override)
	require.NoError(t, err)
	assert.Equal(t, models.TierGuest, transition.ToTier)
}

func TestRecomputePromotes(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	c := fx.addCarrier(t, "1", models.TierBronze)
	fx.addHistory(t, c.CarrierID, 88, 90, 86, 87)

	decision, err := fx.tiers.Recompute(ctx, c.CarrierID, "ops-7")
	require.NoError(t, err)
	assert.True(t, decision.Changed)
	assert.Equal(t, models.TierGold, decision.To)

	history, err := fx.tiers.History(ctx, c.CarrierID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.TransitionRecompute, history[0].Kind)
	assert.Equal(t, "ops-7", history[0].OperatorID)

	require.Len(t, fx.notifier.sent(), 1)
	assert.Contains(t, fx.notifier.sent()[0], "GOLD")
}

func TestRecomputeHoldsOnUnconfirmedDecline(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	c := fx.addCarrier(t, "1", models.TierGold)
	fx.addHistory(t, c.CarrierID, 70, 90, 84, 84)

	decision, err := fx.tiers.Recompute(ctx, c.CarrierID, "ops-7")
	require.NoError(t, err)
	assert.False(t, decision.Changed)
	assert.Equal(t, models.TierGold, decision.To)

	stored, err := fx.store.GetCarrier(ctx, c.CarrierID)
	require.NoError(t, err)
	assert.Equal(t, models.TierGold, stored.Tier)
	assert.Empty(t, fx.notifier.sent())
}

func TestRecomputeDemotesOnSustainedDecline(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	c := fx.addCarrier(t, "1", models.TierGold)
	fx.addHistory(t, c.CarrierID, 70, 70, 70, 70)

	decision, err := fx.tiers.Recompute(ctx, c.CarrierID, ReviewOperator)
	require.NoError(t, err)
	assert.True(t, decision.Changed)
	assert.Equal(t, models.TierBronze, decision.To, "approved carriers never fall below BRONZE")
}

func TestRecomputeCapsUnauthorizedCarrier(t *testing.T) {
	verifier := StaticVerifier{
		"DOT1": {DOTNumber: "DOT1", Verified: true, OperatingStatus: "NOT AUTHORIZED"},
	}
	fx := newFixture(t, verifier)
	ctx := context.Background()
	c := fx.addCarrier(t, "1", models.TierGold)
	fx.addHistory(t, c.CarrierID, 90, 90, 90, 90)

	decision, err := fx.tiers.Recompute(ctx, c.CarrierID, "ops-7")
	require.NoError(t, err)
	assert.True(t, decision.Changed, "losing authority demotes immediately")
	assert.Equal(t, models.TierBronze, decision.To)
}

func TestAutomaticEvaluationNeverDemotes(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	c := fx.addCarrier(t, "1", models.TierPlatinum)
	fx.addHistory(t, c.CarrierID, 40, 40, 40)

	decision, err := fx.tiers.EvaluateAfterScorecard(ctx, c, &models.Scorecard{ID: "sc-1"})
	require.NoError(t, err)
	assert.False(t, decision.Changed)
	assert.Equal(t, models.TierPlatinum, decision.To)
}

func TestHistoryLimitCoversEveryRule(t *testing.T) {
	p := newFixture(t, nil).policy.Tiers
	assert.Equal(t, 12, historyLimit(p))

	p.RollingWindow = 3
	p.DemotionConfirmPeriods = 2
	assert.Equal(t, 8, historyLimit(p), "platinum needs eight periods")
}

// barrierStore holds every GetCarrier caller until all of them have read
type barrierStore struct {
	*storage.MemoryStore
	barrier sync.WaitGroup
}

func newBarrierStore(store *storage.MemoryStore, callers int) *barrierStore {
	s := &barrierStore{MemoryStore: store}
	s.barrier.Add(callers)
	return s
}

func (s *barrierStore) GetCarrier(ctx context.Context, carrierID string) (*models.CarrierProfile, error) {
	c, err := s.MemoryStore.GetCarrier(ctx, carrierID)
	s.barrier.Done()
	s.barrier.Wait()
	return c, err
}

func racing(actions ...func() error) []error {
	errs := make([]error, len(actions))
	var wg sync.WaitGroup
	for i, action := range actions {
		wg.Add(1)
		go func(i int, action func() error) {
			defer wg.Done()
			errs[i] = action()
		}(i, action)
	}
	wg.Wait()
	return errs
}

func succeeded(errs []error) int {
	n := 0
	for _, err := range errs {
		if err == nil {
			n++
		}
	}
	return n
}

func TestConcurrentForcePromoteAppliesOnce(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	c := fx.addCarrier(t, "1", models.TierGuest)

	tiers := NewTierService(newBarrierStore(fx.store, 2), fx.policy, nil, fx.notifier)
	promote := func() error {
		_, err := tiers.ForcePromote(ctx, c.CarrierID, override)
		return err
	}

	errs := racing(promote, promote)
	assert.Equal(t, 1, succeeded(errs), "errors: %v", errs)
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrConflict)
		}
	}

	history, err := fx.store.GetTierTransitions(ctx, c.CarrierID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestConcurrentApproveAndPromoteNeverRevert(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	c := fx.addCarrier(t, "1", models.TierGuest)
	c.OnboardingStatus = models.OnboardingPending
	require.NoError(t, fx.store.UpdateCarrier(ctx, c))

	tiers := NewTierService(newBarrierStore(fx.store, 2), fx.policy, nil, fx.notifier)
	errs := racing(
		func() error {
			_, err := tiers.EmergencyApprove(ctx, c.CarrierID, override)
			return err
		},
		func() error {
			_, err := tiers.ForcePromote(ctx, c.CarrierID, override)
			return err
		},
	)
	assert.Equal(t, 1, succeeded(errs), "errors: %v", errs)

	history, err := fx.store.GetTierTransitions(ctx, c.CarrierID)
	require.NoError(t, err)
	require.Len(t, history, 1)

	stored, err := fx.store.GetCarrier(ctx, c.CarrierID)
	require.NoError(t, err)
	assert.Equal(t, history[0].ToTier, stored.Tier)
	assert.Equal(t, history[0].ToOnboarding, stored.OnboardingStatus)
}
