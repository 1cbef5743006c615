package storage

import (
	"context"
	"errors"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
)

var (
	// ErrNotFound is returned when a carrier, load or scorecard does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key (carrier, period) already exists
	ErrDuplicate = errors.New("duplicate record")
	// ErrConflict is returned when a carrier no longer has the tier or
	// onboarding status a transition was decided from
	ErrConflict = errors.New("record changed concurrently")
)

// Store defines the interface for storage operations
type Store interface {
	// Carrier operations
	CreateCarrier(ctx context.Context, carrier *models.CarrierProfile, initial *models.TierTransition) (*models.CarrierProfile, error)
	GetCarrier(ctx context.Context, carrierID string) (*models.CarrierProfile, error)
	GetAllCarriers(ctx context.Context) ([]*models.CarrierProfile, error)
	GetMatchableCarriers(ctx context.Context) ([]*models.CarrierProfile, error)
	UpdateCarrier(ctx context.Context, carrier *models.CarrierProfile) error
	SetCarrierStatus(ctx context.Context, carrierID, status string) error

	// Load operations
	CreateLoad(ctx context.Context, load *models.Load) (*models.Load, error)
	GetLoad(ctx context.Context, loadID string) (*models.Load, error)
	GetLoadsByStatus(ctx context.Context, status string) ([]*models.Load, error)

	// Scorecard operations. Scorecards are insert-only.
	CreateScorecard(ctx context.Context, scorecard *models.Scorecard) error
	GetScorecard(ctx context.Context, carrierID, period string) (*models.Scorecard, error)
	GetScorecards(ctx context.Context, carrierID string, limit int) ([]models.Scorecard, error)
	GetLatestScorecards(ctx context.Context, carrierIDs []string) (map[string]*models.Scorecard, error)

	// Tier operations. ApplyTierTransition moves the carrier from the
	// transition's From tier and onboarding status to its To values and
	// records the audit row, together or not at all. It returns ErrConflict
	// if the stored carrier no longer matches the From values.
	ApplyTierTransition(ctx context.Context, transition *models.TierTransition) error
	GetTierTransitions(ctx context.Context, carrierID string) ([]models.TierTransition, error)
}
