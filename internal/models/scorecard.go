package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scorecard is an immutable weekly performance snapshot for one carrier.
// (CarrierID, Period) is unique; rows are only ever inserted.
type Scorecard struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CarrierID string `json:"carrier_id" gorm:"not null;uniqueIndex:idx_carrier_period"`
	Period    string `json:"period" gorm:"not null;uniqueIndex:idx_carrier_period"`

	OnTimePickup       float64 `json:"on_time_pickup"`
	OnTimeDelivery     float64 `json:"on_time_delivery"`
	Communication      float64 `json:"communication"`
	ClaimRatio         float64 `json:"claim_ratio"`
	DocumentTimeliness float64 `json:"document_timeliness"`
	AcceptanceRate     float64 `json:"acceptance_rate"`
	GPSCompliance      float64 `json:"gps_compliance"`

	OverallScore      float64 `json:"overall_score"`
	TierAtCalculation Tier    `json:"tier_at_calculation" gorm:"type:varchar(16)"`
	BonusAmount       float64 `json:"bonus_amount"`

	// Degraded is set when one or more inputs were missing and counted as zero
	Degraded bool `json:"degraded" gorm:"default:false"`

	CalculatedAt time.Time `json:"calculated_at" gorm:"not null;index"`
}

func (s *Scorecard) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// ScorecardInput is the scorecard-compute request body
type ScorecardInput struct {
	Period  string     `json:"period"`
	Metrics RawMetrics `json:"metrics"`
}
