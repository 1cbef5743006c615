package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transition kinds
const (
	TransitionInitial          = "INITIAL"
	TransitionAutoPromotion    = "AUTO_PROMOTION"
	TransitionRecompute        = "RECOMPUTE"
	TransitionForcePromote     = "FORCE_PROMOTE"
	TransitionEmergencyApprove = "EMERGENCY_APPROVE"
)

// TierTransition is the audit record for every tier or onboarding change
type TierTransition struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CarrierID string `json:"carrier_id" gorm:"not null;index"`
	Kind      string `json:"kind" gorm:"not null"`

	FromTier       Tier   `json:"from_tier" gorm:"type:varchar(16)"`
	ToTier         Tier   `json:"to_tier" gorm:"type:varchar(16)"`
	FromOnboarding string `json:"from_onboarding,omitempty"`
	ToOnboarding   string `json:"to_onboarding,omitempty"`

	// Manual actions record who and why; automatic ones the triggering scorecard
	OperatorID  string `json:"operator_id,omitempty"`
	Reason      string `json:"reason,omitempty"`
	ScorecardID string `json:"scorecard_id,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (t *TierTransition) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
