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

// CarrierService owns the carrier directory: onboarding, lookup,
// deactivation and compliance status
type CarrierService struct {
	store storage.Store
	gate  engine.ComplianceGate
	clock func() time.Time
}

func NewCarrierService(store storage.Store, policy engine.Policy) *CarrierService {
	return &CarrierService{
		store: store,
		gate:  engine.NewComplianceGate(policy),
		clock: time.Now,
	}
}

// ComplianceReport is the compliance view of one carrier
type ComplianceReport struct {
	CarrierID       string                  `json:"carrier_id"`
	Status          models.ComplianceStatus `json:"status"`
	InsuranceExpiry *time.Time              `json:"insurance_expiry"`
	DaysUntilExpiry *int                    `json:"days_until_expiry,omitempty"`
	MissingDocs     []string                `json:"missing_docs,omitempty"`
}

// Register creates a carrier with its initial tier and the INITIAL audit row
func (s *CarrierService) Register(ctx context.Context, reg models.CarrierRegistration) (*models.CarrierProfile, error) {
	if err := validateRegistration(reg); err != nil {
		return nil, ValidationError(err)
	}

	carrier := &models.CarrierProfile{
		OwnerUserID:      reg.OwnerUserID,
		Name:             strings.TrimSpace(reg.Name),
		MCNumber:         reg.MCNumber,
		DOTNumber:        reg.DOTNumber,
		ContactPhone:     reg.ContactPhone,
		Equipment:        reg.Equipment,
		Regions:          reg.Regions,
		HasW9:            reg.HasW9,
		HasInsuranceCert: reg.HasInsuranceCert,
		HasAuthorityDoc:  reg.HasAuthorityDoc,
		InsuranceExpiry:  reg.InsuranceExpiry,
		SafetyScore:      reg.SafetyScore,
		OnboardingStatus: strings.ToUpper(reg.OnboardingStatus),
		Source:           strings.ToUpper(reg.Source),
	}
	carrier.Normalize()
	carrier.Tier = engine.InitialTier(carrier.Source, carrier.OnboardingStatus)

	initial := &models.TierTransition{
		Kind:         models.TransitionInitial,
		ToTier:       carrier.Tier,
		ToOnboarding: carrier.OnboardingStatus,
		Reason:       fmt.Sprintf("initial tier for %s carrier", strings.ToLower(carrier.Source)),
	}

	created, err := s.store.CreateCarrier(ctx, carrier, initial)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ConflictError("carrier %s already exists", carrier.CarrierID)
		}
		return nil, err
	}

	log.Printf("🚚 Carrier registered: %s (%s) tier=%s", created.CarrierID, created.Name, created.Tier)
	return created, nil
}

func (s *CarrierService) Get(ctx context.Context, carrierID string) (*models.CarrierProfile, error) {
	carrier, err := s.store.GetCarrier(ctx, carrierID)
	if err != nil {
		return nil, lookupError(err, "carrier %s not found", carrierID)
	}
	return carrier, nil
}

// Deactivate takes a carrier out of the match pool. Carriers are never deleted.
func (s *CarrierService) Deactivate(ctx context.Context, carrierID string) (*models.CarrierProfile, error) {
	carrier, err := s.Get(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	carrier.Deactivate()
	if err := s.store.SetCarrierStatus(ctx, carrierID, carrier.Status); err != nil {
		return nil, lookupError(err, "carrier %s not found", carrierID)
	}
	log.Printf("Carrier %s deactivated", carrierID)
	return carrier, nil
}

// Compliance evaluates the carrier against the current clock
func (s *CarrierService) Compliance(ctx context.Context, carrierID string) (*ComplianceReport, error) {
	carrier, err := s.Get(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	return BuildComplianceReport(s.gate, carrier, s.clock()), nil
}

// BuildComplianceReport is shared with the compliance sweep job
func BuildComplianceReport(gate engine.ComplianceGate, c *models.CarrierProfile, now time.Time) *ComplianceReport {
	report := &ComplianceReport{
		CarrierID:       c.CarrierID,
		Status:          gate.EvaluateCarrier(c, now),
		InsuranceExpiry: c.InsuranceExpiry,
	}
	if c.InsuranceExpiry != nil {
		days := engine.DaysUntilExpiry(*c.InsuranceExpiry, now)
		report.DaysUntilExpiry = &days
	}
	if !c.HasW9 {
		report.MissingDocs = append(report.MissingDocs, "W9")
	}
	if !c.HasInsuranceCert {
		report.MissingDocs = append(report.MissingDocs, "INSURANCE_CERTIFICATE")
	}
	if !c.HasAuthorityDoc {
		report.MissingDocs = append(report.MissingDocs, "OPERATING_AUTHORITY")
	}
	return report
}

func validateRegistration(reg models.CarrierRegistration) error {
	var errs []error
	if strings.TrimSpace(reg.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	switch strings.ToUpper(reg.Source) {
	case "", models.SourcePlatform, models.SourceLeadImport:
	default:
		errs = append(errs, fmt.Errorf("unknown source %q", reg.Source))
	}
	switch strings.ToUpper(reg.OnboardingStatus) {
	case "", models.OnboardingPending, models.OnboardingApproved, models.OnboardingRejected:
	default:
		errs = append(errs, fmt.Errorf("unknown onboarding status %q", reg.OnboardingStatus))
	}
	if reg.SafetyScore < 0 || reg.SafetyScore > 100 {
		errs = append(errs, errors.New("safety_score must be between 0 and 100"))
	}
	return errors.Join(errs...)
}

// lookupError turns storage.ErrNotFound into a NotFoundError
func lookupError(err error, format string, args ...any) error {
	if errors.Is(err, storage.ErrNotFound) {
		return NotFoundError(format, args...)
	}
	return err
}
