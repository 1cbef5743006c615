package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/cache"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/engine"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/storage"
)

// ScorecardService computes and persists weekly scorecards. One scorecard
// exists per (carrier, period); a second attempt is rejected.
type ScorecardService struct {
	store   storage.Store
	calc    *engine.ScorecardCalculator
	tiers   *TierService
	locker  cache.Locker
	lockTTL time.Duration
	clock   func() time.Time
}

func NewScorecardService(store storage.Store, policy engine.Policy, tiers *TierService, locker cache.Locker) *ScorecardService {
	if locker == nil {
		locker = cache.NewLocalLocker()
	}
	return &ScorecardService{
		store:   store,
		calc:    engine.NewScorecardCalculator(policy),
		tiers:   tiers,
		locker:  locker,
		lockTTL: cache.DefaultLockTTL,
		clock:   time.Now,
	}
}

// Compute normalizes the raw metrics, stores the scorecard and runs the
// automatic tier check. The returned decision is nil when the tier check
// could not run; the scorecard is persisted either way.
func (s *ScorecardService) Compute(ctx context.Context, carrierID string, in models.ScorecardInput) (*models.Scorecard, *engine.TierDecision, error) {
	period, err := engine.ValidatePeriod(in.Period)
	if err != nil {
		return nil, nil, ValidationError(err)
	}
	metrics, err := engine.NormalizeMetrics(in.Metrics)
	if err != nil {
		return nil, nil, ValidationError(err)
	}

	carrier, err := s.store.GetCarrier(ctx, carrierID)
	if err != nil {
		return nil, nil, lookupError(err, "carrier %s not found", carrierID)
	}

	key := cache.PeriodLockKey(carrierID, period)
	locked, err := s.locker.TryLock(ctx, key, s.lockTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("acquire period lock: %w", err)
	}
	if !locked {
		if err := s.checkExisting(ctx, carrierID, period); err != nil {
			return nil, nil, err
		}
		return nil, nil, ConflictError("scorecard for %s/%s is already being computed", carrierID, period)
	}
	defer func() {
		if err := s.locker.Unlock(context.WithoutCancel(ctx), key); err != nil {
			log.Printf("Failed to release %s: %v", key, err)
		}
	}()

	if err := s.checkExisting(ctx, carrierID, period); err != nil {
		return nil, nil, err
	}

	scorecard := s.calc.Calculate(carrierID, period, metrics, carrier.Tier, s.clock())
	if err := s.insert(ctx, scorecard); err != nil {
		return nil, nil, err
	}

	if metrics.Degraded() {
		log.Printf("⚠️  Scorecard %s/%s computed with missing metrics: %s",
			carrierID, period, strings.Join(metrics.Missing, ", "))
	}
	log.Printf("📊 Scorecard %s/%s overall=%.2f bonus=%.2f", carrierID, period, scorecard.OverallScore, scorecard.BonusAmount)

	if s.tiers == nil {
		return scorecard, nil, nil
	}
	decision, err := s.tiers.EvaluateAfterScorecard(ctx, carrier, scorecard)
	if err != nil {
		log.Printf("Tier evaluation after scorecard %s failed: %v", scorecard.ID, err)
		return scorecard, nil, nil
	}
	return scorecard, &decision, nil
}

// List returns a carrier's scorecards, most recent first
func (s *ScorecardService) List(ctx context.Context, carrierID string, limit int) ([]models.Scorecard, error) {
	if _, err := s.store.GetCarrier(ctx, carrierID); err != nil {
		return nil, lookupError(err, "carrier %s not found", carrierID)
	}
	return s.store.GetScorecards(ctx, carrierID, limit)
}

// insert retries a unique-index conflict once, after confirming no
// scorecard for the period was committed in the meantime
func (s *ScorecardService) insert(ctx context.Context, scorecard *models.Scorecard) error {
	for attempt := 0; ; attempt++ {
		err := s.store.CreateScorecard(ctx, scorecard)
		if err == nil {
			return nil
		}
		if !errors.Is(err, storage.ErrDuplicate) {
			return err
		}
		if err := s.checkExisting(ctx, scorecard.CarrierID, scorecard.Period); err != nil {
			return err
		}
		if attempt > 0 {
			return ConflictError("scorecard insert for %s/%s conflicted twice", scorecard.CarrierID, scorecard.Period)
		}
	}
}

// checkExisting returns ErrDuplicatePeriod when the period is already scored
func (s *ScorecardService) checkExisting(ctx context.Context, carrierID, period string) error {
	_, err := s.store.GetScorecard(ctx, carrierID, period)
	switch {
	case err == nil:
		return duplicatePeriod(carrierID, period)
	case errors.Is(err, storage.ErrNotFound):
		return nil
	default:
		return err
	}
}

func duplicatePeriod(carrierID, period string) error {
	return &Error{
		Kind:    KindConflict,
		Message: ErrDuplicatePeriod.Message,
		Err:     fmt.Errorf("%s/%s", carrierID, period),
	}
}
