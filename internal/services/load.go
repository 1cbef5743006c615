package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/engine"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/storage"
)

// LoadService posts and looks up loads
type LoadService struct {
	store storage.Store
}

func NewLoadService(store storage.Store) *LoadService {
	return &LoadService{store: store}
}

func (s *LoadService) Create(ctx context.Context, load *models.Load) (*models.Load, error) {
	load.Normalize()
	if err := validateLoad(load); err != nil {
		return nil, ValidationError(err)
	}

	created, err := s.store.CreateLoad(ctx, load)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ConflictError("load %s already exists", load.LoadID)
		}
		return nil, err
	}

	log.Printf("📦 Load posted: %s %s,%s -> %s,%s (%s)", created.LoadID,
		created.OriginCity, created.OriginState, created.DestinationCity, created.DestinationState, created.Equipment)
	return created, nil
}

func (s *LoadService) Get(ctx context.Context, loadID string) (*models.Load, error) {
	load, err := s.store.GetLoad(ctx, loadID)
	if err != nil {
		return nil, lookupError(err, "load %s not found", loadID)
	}
	return load, nil
}

func validateLoad(l *models.Load) error {
	var errs []error
	if l.Equipment == "" {
		errs = append(errs, errors.New("equipment is required"))
	}
	if l.OriginState == "" {
		errs = append(errs, errors.New("origin_state is required"))
	} else if _, ok := engine.RegionForState(l.OriginState); !ok {
		errs = append(errs, errors.New("origin_state is not a US state code"))
	}
	if strings.TrimSpace(l.DestinationState) == "" {
		errs = append(errs, errors.New("destination_state is required"))
	}
	if !l.PickupDate.IsZero() && !l.DeliveryDate.IsZero() && l.DeliveryDate.Before(l.PickupDate) {
		errs = append(errs, errors.New("delivery_date is before pickup_date"))
	}
	return errors.Join(errs...)
}
