package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/engine"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/storage"
)

// ReviewOperator is recorded on transitions made by the weekly tier review
const ReviewOperator = "system:tier-review"

// OverrideRequest is the body of a manual tier action
type OverrideRequest struct {
	OperatorID string `json:"operator_id"`
	Reason     string `json:"reason"`
}

func (r OverrideRequest) validate() error {
	if strings.TrimSpace(r.OperatorID) == "" {
		return PolicyViolationError("operator identity is required")
	}
	if strings.TrimSpace(r.Reason) == "" {
		return PolicyViolationError("a justification is required for manual overrides")
	}
	return nil
}

// TierService applies tier decisions and manual overrides, writing each
// change together with its audit record
type TierService struct {
	store    storage.Store
	resolver *engine.TierResolver
	gate     engine.ComplianceGate
	verifier Verifier
	notifier Notifier
	window   int
	clock    func() time.Time
}

func NewTierService(store storage.Store, policy engine.Policy, verifier Verifier, notifier Notifier) *TierService {
	if verifier == nil {
		verifier = UnconfiguredVerifier{}
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &TierService{
		store:    store,
		resolver: engine.NewTierResolver(policy),
		gate:     engine.NewComplianceGate(policy),
		verifier: verifier,
		notifier: notifier,
		window:   historyLimit(policy.Tiers),
		clock:    time.Now,
	}
}

// ForcePromote moves a GUEST carrier to BRONZE without consulting scores
func (s *TierService) ForcePromote(ctx context.Context, carrierID string, req OverrideRequest) (*models.TierTransition, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	carrier, err := s.carrier(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	if carrier.Tier != models.TierGuest {
		return nil, PolicyViolationError("force promotion only applies to GUEST carriers, %s is %s", carrierID, carrier.Tier)
	}

	transition := newTransition(carrier, models.TransitionForcePromote, models.TierBronze)
	transition.OperatorID = strings.TrimSpace(req.OperatorID)
	transition.Reason = strings.TrimSpace(req.Reason)
	carrier.Tier = models.TierBronze

	if err := s.apply(ctx, carrier, transition); err != nil {
		return nil, err
	}
	log.Printf("⬆️  %s force-promoted GUEST -> BRONZE by %s", carrierID, transition.OperatorID)
	return transition, nil
}

// EmergencyApprove marks onboarding APPROVED regardless of automated checks.
// A platform carrier still at GUEST gets its approved starting tier.
func (s *TierService) EmergencyApprove(ctx context.Context, carrierID string, req OverrideRequest) (*models.TierTransition, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	carrier, err := s.carrier(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	if carrier.OnboardingStatus == models.OnboardingApproved {
		return nil, ConflictError("carrier %s is already approved", carrierID)
	}

	transition := newTransition(carrier, models.TransitionEmergencyApprove, carrier.Tier)
	transition.ToOnboarding = models.OnboardingApproved
	transition.OperatorID = strings.TrimSpace(req.OperatorID)
	transition.Reason = strings.TrimSpace(req.Reason)
	carrier.OnboardingStatus = models.OnboardingApproved
	if carrier.Tier == models.TierGuest {
		transition.ToTier = engine.InitialTier(carrier.Source, carrier.OnboardingStatus)
		carrier.Tier = transition.ToTier
	}

	if err := s.apply(ctx, carrier, transition); err != nil {
		return nil, err
	}
	log.Printf("🚨 %s emergency-approved by %s: %s", carrierID, transition.OperatorID, transition.Reason)
	return transition, nil
}

// Recompute re-evaluates a carrier's tier. It may promote or demote.
func (s *TierService) Recompute(ctx context.Context, carrierID, operatorID string) (engine.TierDecision, error) {
	carrier, err := s.carrier(ctx, carrierID)
	if err != nil {
		return engine.TierDecision{}, err
	}

	in, err := s.inputs(ctx, carrier)
	if err != nil {
		return engine.TierDecision{}, err
	}

	decision := s.resolver.Recompute(in)
	if !decision.Changed {
		return decision, nil
	}

	transition := newTransition(carrier, models.TransitionRecompute, decision.To)
	transition.OperatorID = operatorID
	transition.Reason = decision.Reason
	if err := s.commit(ctx, carrier, decision, transition); err != nil {
		return engine.TierDecision{}, err
	}
	return decision, nil
}

// EvaluateAfterScorecard is the automatic check run after each new
// scorecard. It only promotes.
func (s *TierService) EvaluateAfterScorecard(ctx context.Context, carrier *models.CarrierProfile, scorecard *models.Scorecard) (engine.TierDecision, error) {
	in, err := s.inputs(ctx, carrier)
	if err != nil {
		return engine.TierDecision{}, err
	}

	decision := s.resolver.EvaluateAutomatic(in)
	if !decision.Changed {
		return decision, nil
	}

	transition := newTransition(carrier, models.TransitionAutoPromotion, decision.To)
	transition.Reason = decision.Reason
	transition.ScorecardID = scorecard.ID
	if err := s.commit(ctx, carrier, decision, transition); err != nil {
		return engine.TierDecision{}, err
	}
	return decision, nil
}

// History lists a carrier's tier transitions, oldest first
func (s *TierService) History(ctx context.Context, carrierID string) ([]models.TierTransition, error) {
	if _, err := s.carrier(ctx, carrierID); err != nil {
		return nil, err
	}
	return s.store.GetTierTransitions(ctx, carrierID)
}

func (s *TierService) commit(ctx context.Context, carrier *models.CarrierProfile, d engine.TierDecision, t *models.TierTransition) error {
	carrier.Tier = d.To
	if err := s.apply(ctx, carrier, t); err != nil {
		return err
	}

	log.Printf("🏅 %s tier %s -> %s (%s)", carrier.CarrierID, d.From, d.To, d.Reason)
	msg := fmt.Sprintf("Hi %s, your carrier tier is now %s.", carrier.Name, d.To)
	if err := s.notifier.Notify(ctx, carrier.ContactPhone, msg); err != nil {
		log.Printf("Failed to notify %s of tier change: %v", carrier.CarrierID, err)
	}
	return nil
}

// newTransition starts an audit record from the carrier state the decision
// was made on. The store only applies it if that state is still current.
func newTransition(carrier *models.CarrierProfile, kind string, to models.Tier) *models.TierTransition {
	return &models.TierTransition{
		CarrierID:      carrier.CarrierID,
		Kind:           kind,
		FromTier:       carrier.Tier,
		ToTier:         to,
		FromOnboarding: carrier.OnboardingStatus,
		ToOnboarding:   carrier.OnboardingStatus,
	}
}

func (s *TierService) apply(ctx context.Context, carrier *models.CarrierProfile, t *models.TierTransition) error {
	err := s.store.ApplyTierTransition(ctx, t)
	if errors.Is(err, storage.ErrConflict) {
		return ConflictError("carrier %s changed while its tier was being updated", carrier.CarrierID)
	}
	if err != nil {
		return lookupError(err, "carrier %s not found", carrier.CarrierID)
	}
	return nil
}

func (s *TierService) carrier(ctx context.Context, carrierID string) (*models.CarrierProfile, error) {
	carrier, err := s.store.GetCarrier(ctx, carrierID)
	if err != nil {
		return nil, lookupError(err, "carrier %s not found", carrierID)
	}
	return carrier, nil
}

// inputs gathers history, compliance and FMCSA status for the resolver
func (s *TierService) inputs(ctx context.Context, carrier *models.CarrierProfile) (engine.TierInputs, error) {
	history, err := s.store.GetScorecards(ctx, carrier.CarrierID, s.window)
	if err != nil {
		return engine.TierInputs{}, fmt.Errorf("load scorecard history: %w", err)
	}

	in := engine.TierInputs{
		Carrier:    carrier,
		History:    history,
		Compliance: s.gate.EvaluateCarrier(carrier, s.clock()),
	}

	if carrier.DOTNumber != "" {
		result, err := s.verifier.Verify(ctx, carrier.DOTNumber)
		switch {
		case errors.Is(err, ErrVerifierNotConfigured):
		case err != nil:
			log.Printf("FMCSA verification failed for %s: %v", carrier.CarrierID, err)
		default:
			in.Verification = result
		}
	}
	return in, nil
}

// historyLimit is how many recent scorecards any tier rule can look at
func historyLimit(p engine.TierPolicy) int {
	limit := max(p.RollingWindow, p.DemotionConfirmPeriods)
	for _, tier := range models.Tiers {
		if th, ok := p.Thresholds.For(tier); ok {
			limit = max(limit, th.MinPeriods)
		}
	}
	return limit
}
