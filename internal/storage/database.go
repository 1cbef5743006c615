package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolation is the Postgres SQLSTATE for a unique index conflict
const uniqueViolation = "23505"

// DatabaseStore is the PostgreSQL-backed Store
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store over an open gorm connection
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Carrier operations
func (d *DatabaseStore) CreateCarrier(ctx context.Context, carrier *models.CarrierProfile, initial *models.TierTransition) (*models.CarrierProfile, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(carrier).Error; err != nil {
			return translateError(err)
		}
		if initial == nil {
			return nil
		}
		initial.CarrierID = carrier.CarrierID
		return tx.Create(initial).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create carrier: %w", err)
	}
	return carrier, nil
}

func (d *DatabaseStore) GetCarrier(ctx context.Context, carrierID string) (*models.CarrierProfile, error) {
	var carrier models.CarrierProfile
	err := d.db.WithContext(ctx).Where("carrier_id = ?", carrierID).First(&carrier).Error
	if err != nil {
		return nil, fmt.Errorf("carrier %s: %w", carrierID, translateError(err))
	}
	return &carrier, nil
}

func (d *DatabaseStore) GetAllCarriers(ctx context.Context) ([]*models.CarrierProfile, error) {
	var carriers []*models.CarrierProfile
	if err := d.db.WithContext(ctx).Order("id").Find(&carriers).Error; err != nil {
		return nil, fmt.Errorf("list carriers: %w", err)
	}
	return carriers, nil
}

func (d *DatabaseStore) GetMatchableCarriers(ctx context.Context) ([]*models.CarrierProfile, error) {
	var carriers []*models.CarrierProfile
	err := d.db.WithContext(ctx).
		Where("onboarding_status = ?", models.OnboardingApproved).
		Where("status IN ?", []string{models.CarrierStatusApproved, models.CarrierStatusNew}).
		Order("id").
		Find(&carriers).Error
	if err != nil {
		return nil, fmt.Errorf("list matchable carriers: %w", err)
	}
	return carriers, nil
}

func (d *DatabaseStore) UpdateCarrier(ctx context.Context, carrier *models.CarrierProfile) error {
	if err := d.db.WithContext(ctx).Save(carrier).Error; err != nil {
		return fmt.Errorf("update carrier %s: %w", carrier.CarrierID, translateError(err))
	}
	return nil
}

func (d *DatabaseStore) SetCarrierStatus(ctx context.Context, carrierID, status string) error {
	res := d.db.WithContext(ctx).Model(&models.CarrierProfile{}).
		Where("carrier_id = ?", carrierID).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update carrier %s status: %w", carrierID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("carrier %s: %w", carrierID, ErrNotFound)
	}
	return nil
}

// Load operations
func (d *DatabaseStore) CreateLoad(ctx context.Context, load *models.Load) (*models.Load, error) {
	if err := d.db.WithContext(ctx).Create(load).Error; err != nil {
		return nil, fmt.Errorf("create load: %w", translateError(err))
	}
	return load, nil
}

func (d *DatabaseStore) GetLoad(ctx context.Context, loadID string) (*models.Load, error) {
	var load models.Load
	if err := d.db.WithContext(ctx).Where("load_id = ?", loadID).First(&load).Error; err != nil {
		return nil, fmt.Errorf("load %s: %w", loadID, translateError(err))
	}
	return &load, nil
}

func (d *DatabaseStore) GetLoadsByStatus(ctx context.Context, status string) ([]*models.Load, error) {
	var loads []*models.Load
	if err := d.db.WithContext(ctx).Where("status = ?", status).Order("id").Find(&loads).Error; err != nil {
		return nil, fmt.Errorf("list loads: %w", err)
	}
	return loads, nil
}

// Scorecard operations
func (d *DatabaseStore) CreateScorecard(ctx context.Context, scorecard *models.Scorecard) error {
	if err := d.db.WithContext(ctx).Create(scorecard).Error; err != nil {
		return fmt.Errorf("scorecard %s/%s: %w", scorecard.CarrierID, scorecard.Period, translateError(err))
	}
	return nil
}

func (d *DatabaseStore) GetScorecard(ctx context.Context, carrierID, period string) (*models.Scorecard, error) {
	var scorecard models.Scorecard
	err := d.db.WithContext(ctx).
		Where("carrier_id = ? AND period = ?", carrierID, period).
		First(&scorecard).Error
	if err != nil {
		return nil, fmt.Errorf("scorecard %s/%s: %w", carrierID, period, translateError(err))
	}
	return &scorecard, nil
}

func (d *DatabaseStore) GetScorecards(ctx context.Context, carrierID string, limit int) ([]models.Scorecard, error) {
	var scorecards []models.Scorecard
	q := d.db.WithContext(ctx).Where("carrier_id = ?", carrierID).Order("calculated_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&scorecards).Error; err != nil {
		return nil, fmt.Errorf("list scorecards: %w", err)
	}
	return scorecards, nil
}

func (d *DatabaseStore) GetLatestScorecards(ctx context.Context, carrierIDs []string) (map[string]*models.Scorecard, error) {
	latest := make(map[string]*models.Scorecard, len(carrierIDs))
	if len(carrierIDs) == 0 {
		return latest, nil
	}

	var scorecards []models.Scorecard
	err := d.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (carrier_id) * FROM scorecards
			WHERE carrier_id IN ? ORDER BY carrier_id, calculated_at DESC`, carrierIDs).
		Scan(&scorecards).Error
	if err != nil {
		return nil, fmt.Errorf("latest scorecards: %w", err)
	}

	for i := range scorecards {
		latest[scorecards[i].CarrierID] = &scorecards[i]
	}
	return latest, nil
}

// Tier operations
func (d *DatabaseStore) ApplyTierTransition(ctx context.Context, transition *models.TierTransition) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CarrierProfile{}).
			Where("carrier_id = ? AND tier = ? AND onboarding_status = ?",
				transition.CarrierID, transition.FromTier, transition.FromOnboarding).
			Updates(map[string]interface{}{
				"tier":              transition.ToTier,
				"onboarding_status": transition.ToOnboarding,
			})
		if res.Error != nil {
			return fmt.Errorf("update carrier tier: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return d.missingOrChanged(tx, transition.CarrierID)
		}

		if err := tx.Create(transition).Error; err != nil {
			return fmt.Errorf("record tier transition: %w", err)
		}
		return nil
	})
}

// missingOrChanged explains why a conditional carrier update matched no row
func (d *DatabaseStore) missingOrChanged(tx *gorm.DB, carrierID string) error {
	var count int64
	if err := tx.Model(&models.CarrierProfile{}).Where("carrier_id = ?", carrierID).Count(&count).Error; err != nil {
		return fmt.Errorf("carrier %s: %w", carrierID, err)
	}
	if count == 0 {
		return fmt.Errorf("carrier %s: %w", carrierID, ErrNotFound)
	}
	return fmt.Errorf("carrier %s: %w", carrierID, ErrConflict)
}

func (d *DatabaseStore) GetTierTransitions(ctx context.Context, carrierID string) ([]models.TierTransition, error) {
	var transitions []models.TierTransition
	err := d.db.WithContext(ctx).Where("carrier_id = ?", carrierID).Order("created_at").Find(&transitions).Error
	if err != nil {
		return nil, fmt.Errorf("list tier transitions: %w", err)
	}
	return transitions, nil
}

// translateError maps driver errors onto the storage sentinels
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
