package models

import (
	"time"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/utils"
	"gorm.io/gorm"
)

// Load statuses
const (
	LoadStatusPosted    = "POSTED"
	LoadStatusTendered  = "TENDERED"
	LoadStatusCovered   = "COVERED"
	LoadStatusDelivered = "DELIVERED"
	LoadStatusCancelled = "CANCELLED"
)

// Load represents a shipment posted by a broker
type Load struct {
	gorm.Model

	LoadID   string `json:"load_id" gorm:"uniqueIndex"`
	BrokerID string `json:"broker_id" gorm:"index"`

	// Route details
	OriginCity       string `json:"origin_city"`
	OriginState      string `json:"origin_state"`
	OriginZip        string `json:"origin_zip"`
	DestinationCity  string `json:"destination_city"`
	DestinationState string `json:"destination_state"`
	DestinationZip   string `json:"destination_zip"`

	// Required equipment type, e.g. "DRY_VAN", "REEFER", "FLATBED"
	Equipment string `json:"equipment"`

	PickupDate   time.Time `json:"pickup_date"`
	DeliveryDate time.Time `json:"delivery_date"`
	PostedRate   float64   `json:"posted_rate"`

	Status    string `json:"status" gorm:"index;default:POSTED"`
	CarrierID string `json:"carrier_id,omitempty" gorm:"index"` // set on tender acceptance
}

// BeforeCreate generates LoadID and normalizes codes
func (l *Load) BeforeCreate(tx *gorm.DB) error {
	l.Normalize()
	return nil
}

func (l *Load) Normalize() {
	if l.LoadID == "" {
		l.LoadID = utils.GenerateSecureID("LD")
	}
	l.Equipment = NormalizeCode(l.Equipment)
	l.OriginState = NormalizeCode(l.OriginState)
	l.DestinationState = NormalizeCode(l.DestinationState)
	if l.Status == "" {
		l.Status = LoadStatusPosted
	}
}
