package engine

import (
	"math"
	"time"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
)

// ComplianceDocs are the three required onboarding documents
type ComplianceDocs struct {
	W9            bool
	InsuranceCert bool
	AuthorityDoc  bool
}

func (d ComplianceDocs) Complete() bool {
	return d.W9 && d.InsuranceCert && d.AuthorityDoc
}

// ComplianceGate derives RED/AMBER/GREEN. It holds no state and must be
// called fresh each time since the answer moves with the clock.
type ComplianceGate struct {
	warning time.Duration
}

func NewComplianceGate(p Policy) ComplianceGate {
	return ComplianceGate{warning: time.Duration(p.Compliance.ExpiryWarningDays) * 24 * time.Hour}
}

// Evaluate: RED when insurance is missing or expired or a document is missing,
// AMBER when insurance lapses within the warning window, GREEN otherwise.
func (g ComplianceGate) Evaluate(expiry *time.Time, docs ComplianceDocs, now time.Time) models.ComplianceStatus {
	if expiry == nil || !expiry.After(now) || !docs.Complete() {
		return models.ComplianceRed
	}
	if !expiry.After(now.Add(g.warning)) {
		return models.ComplianceAmber
	}
	return models.ComplianceGreen
}

// EvaluateCarrier reads the gate inputs off a carrier profile
func (g ComplianceGate) EvaluateCarrier(c *models.CarrierProfile, now time.Time) models.ComplianceStatus {
	return g.Evaluate(c.InsuranceExpiry, DocsOf(c), now)
}

func DocsOf(c *models.CarrierProfile) ComplianceDocs {
	return ComplianceDocs{W9: c.HasW9, InsuranceCert: c.HasInsuranceCert, AuthorityDoc: c.HasAuthorityDoc}
}

// DaysUntilExpiry rounds down to whole days; negative once expired
func DaysUntilExpiry(expiry time.Time, now time.Time) int {
	return int(math.Floor(expiry.Sub(now).Hours() / 24))
}
