package models

import (
	"strings"
	"time"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/utils"
	"gorm.io/gorm"
)

// Onboarding statuses
const (
	OnboardingPending  = "PENDING"
	OnboardingApproved = "APPROVED"
	OnboardingRejected = "REJECTED"
)

// Active statuses
const (
	CarrierStatusNew       = "NEW"
	CarrierStatusApproved  = "APPROVED"
	CarrierStatusSuspended = "SUSPENDED"
	CarrierStatusInactive  = "INACTIVE"
)

// Acquisition sources
const (
	SourcePlatform   = "PLATFORM"    // carrier joined through our own network
	SourceLeadImport = "LEAD_IMPORT" // imported from an external lead list
)

// CarrierProfile represents a motor carrier in the brokerage network
type CarrierProfile struct {
	gorm.Model

	CarrierID    string `json:"carrier_id" gorm:"uniqueIndex"`
	OwnerUserID  string `json:"owner_user_id" gorm:"index"`
	Name         string `json:"name"`
	MCNumber     string `json:"mc_number" gorm:"index"`
	DOTNumber    string `json:"dot_number" gorm:"index"`
	ContactPhone string `json:"contact_phone"`

	// Capability sets, stored as JSON arrays
	Equipment []string `json:"equipment" gorm:"serializer:json"`
	Regions   []string `json:"regions" gorm:"serializer:json"`

	Tier Tier `json:"tier" gorm:"type:varchar(16);default:GUEST"`

	// Compliance documents
	HasW9            bool       `json:"has_w9" gorm:"default:false"`
	HasInsuranceCert bool       `json:"has_insurance_cert" gorm:"default:false"`
	HasAuthorityDoc  bool       `json:"has_authority_doc" gorm:"default:false"`
	InsuranceExpiry  *time.Time `json:"insurance_expiry"`

	SafetyScore      float64 `json:"safety_score"`
	OnboardingStatus string  `json:"onboarding_status" gorm:"default:PENDING"`
	Status           string  `json:"status" gorm:"index;default:NEW"`
	Source           string  `json:"source" gorm:"default:PLATFORM"`
}

// BeforeCreate generates CarrierID and normalizes capability sets
func (c *CarrierProfile) BeforeCreate(tx *gorm.DB) error {
	c.Normalize()
	return nil
}

// Normalize fills generated fields and upper-cases capability codes
func (c *CarrierProfile) Normalize() {
	if c.CarrierID == "" {
		c.CarrierID = utils.GenerateSecureID("CR")
	}
	c.Equipment = normalizeCodes(c.Equipment)
	c.Regions = normalizeCodes(c.Regions)
	if c.OnboardingStatus == "" {
		c.OnboardingStatus = OnboardingPending
	}
	if c.Status == "" {
		c.Status = CarrierStatusNew
	}
	if c.Source == "" {
		c.Source = SourcePlatform
	}
}

// HasEquipment reports whether the carrier runs the given equipment type
func (c *CarrierProfile) HasEquipment(equipment string) bool {
	return containsCode(c.Equipment, equipment)
}

// OperatesIn reports whether the carrier covers the given region
func (c *CarrierProfile) OperatesIn(region string) bool {
	return containsCode(c.Regions, region)
}

// IsMatchable checks onboarding and active status for the match pool
func (c *CarrierProfile) IsMatchable() bool {
	if c.OnboardingStatus != OnboardingApproved {
		return false
	}
	return c.Status == CarrierStatusApproved || c.Status == CarrierStatusNew
}

// PlatformSourced is true for carriers acquired through our own network
func (c *CarrierProfile) PlatformSourced() bool {
	return c.Source == SourcePlatform
}

// Deactivate takes the carrier out of service; carriers are never deleted
func (c *CarrierProfile) Deactivate() {
	c.Status = CarrierStatusInactive
}

// CarrierRegistration is the onboarding payload for a new carrier
type CarrierRegistration struct {
	OwnerUserID      string     `json:"owner_user_id"`
	Name             string     `json:"name"`
	MCNumber         string     `json:"mc_number"`
	DOTNumber        string     `json:"dot_number"`
	ContactPhone     string     `json:"contact_phone"`
	Equipment        []string   `json:"equipment"`
	Regions          []string   `json:"regions"`
	HasW9            bool       `json:"has_w9"`
	HasInsuranceCert bool       `json:"has_insurance_cert"`
	HasAuthorityDoc  bool       `json:"has_authority_doc"`
	InsuranceExpiry  *time.Time `json:"insurance_expiry"`
	SafetyScore      float64    `json:"safety_score"`
	OnboardingStatus string     `json:"onboarding_status"`
	Source           string     `json:"source"`
}

func normalizeCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		code = NormalizeCode(code)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}

func containsCode(codes []string, code string) bool {
	code = NormalizeCode(code)
	if code == "" {
		return false
	}
	for _, c := range codes {
		if NormalizeCode(c) == code {
			return true
		}
	}
	return false
}

// NormalizeCode turns "dry van" and "Dry-Van" into "DRY_VAN"
func NormalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(code)
}
