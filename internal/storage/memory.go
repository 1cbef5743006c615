package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/google/uuid"
)

// MemoryStore holds all data in memory, for tests and local runs
type MemoryStore struct {
	carriers     map[string]*models.CarrierProfile
	carrierOrder []string
	loads        map[string]*models.Load
	scorecards   map[string][]models.Scorecard // by carrier, insertion order
	transitions  map[string][]models.TierTransition

	// Mutexes for thread safety
	carrierMu   sync.RWMutex
	loadMu      sync.RWMutex
	scorecardMu sync.RWMutex
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carriers:    make(map[string]*models.CarrierProfile),
		loads:       make(map[string]*models.Load),
		scorecards:  make(map[string][]models.Scorecard),
		transitions: make(map[string][]models.TierTransition),
	}
}

// Carrier operations
func (m *MemoryStore) CreateCarrier(_ context.Context, carrier *models.CarrierProfile, initial *models.TierTransition) (*models.CarrierProfile, error) {
	m.carrierMu.Lock()
	defer m.carrierMu.Unlock()

	carrier.Normalize()
	if _, exists := m.carriers[carrier.CarrierID]; exists {
		return nil, fmt.Errorf("carrier %s: %w", carrier.CarrierID, ErrDuplicate)
	}

	now := time.Now()
	carrier.ID = uint(len(m.carrierOrder) + 1)
	carrier.CreatedAt = now
	carrier.UpdatedAt = now

	m.carriers[carrier.CarrierID] = cloneCarrier(carrier)
	m.carrierOrder = append(m.carrierOrder, carrier.CarrierID)

	if initial != nil {
		initial.CarrierID = carrier.CarrierID
		m.appendTransition(initial, now)
	}
	return carrier, nil
}

func (m *MemoryStore) GetCarrier(_ context.Context, carrierID string) (*models.CarrierProfile, error) {
	m.carrierMu.RLock()
	defer m.carrierMu.RUnlock()

	carrier, exists := m.carriers[carrierID]
	if !exists {
		return nil, fmt.Errorf("carrier %s: %w", carrierID, ErrNotFound)
	}
	return cloneCarrier(carrier), nil
}

func (m *MemoryStore) GetAllCarriers(_ context.Context) ([]*models.CarrierProfile, error) {
	m.carrierMu.RLock()
	defer m.carrierMu.RUnlock()

	carriers := make([]*models.CarrierProfile, 0, len(m.carrierOrder))
	for _, id := range m.carrierOrder {
		carriers = append(carriers, cloneCarrier(m.carriers[id]))
	}
	return carriers, nil
}

func (m *MemoryStore) GetMatchableCarriers(ctx context.Context) ([]*models.CarrierProfile, error) {
	all, err := m.GetAllCarriers(ctx)
	if err != nil {
		return nil, err
	}

	var carriers []*models.CarrierProfile
	for _, c := range all {
		if c.IsMatchable() {
			carriers = append(carriers, c)
		}
	}
	return carriers, nil
}

func (m *MemoryStore) UpdateCarrier(_ context.Context, carrier *models.CarrierProfile) error {
	m.carrierMu.Lock()
	defer m.carrierMu.Unlock()

	if _, exists := m.carriers[carrier.CarrierID]; !exists {
		return fmt.Errorf("carrier %s: %w", carrier.CarrierID, ErrNotFound)
	}
	carrier.UpdatedAt = time.Now()
	m.carriers[carrier.CarrierID] = cloneCarrier(carrier)
	return nil
}

func (m *MemoryStore) SetCarrierStatus(_ context.Context, carrierID, status string) error {
	m.carrierMu.Lock()
	defer m.carrierMu.Unlock()

	stored, exists := m.carriers[carrierID]
	if !exists {
		return fmt.Errorf("carrier %s: %w", carrierID, ErrNotFound)
	}
	stored.Status = status
	stored.UpdatedAt = time.Now()
	return nil
}

// Load operations
func (m *MemoryStore) CreateLoad(_ context.Context, load *models.Load) (*models.Load, error) {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	load.Normalize()
	if _, exists := m.loads[load.LoadID]; exists {
		return nil, fmt.Errorf("load %s: %w", load.LoadID, ErrDuplicate)
	}

	now := time.Now()
	load.ID = uint(len(m.loads) + 1)
	load.CreatedAt = now
	load.UpdatedAt = now

	stored := *load
	m.loads[load.LoadID] = &stored
	return load, nil
}

func (m *MemoryStore) GetLoad(_ context.Context, loadID string) (*models.Load, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	load, exists := m.loads[loadID]
	if !exists {
		return nil, fmt.Errorf("load %s: %w", loadID, ErrNotFound)
	}
	out := *load
	return &out, nil
}

func (m *MemoryStore) GetLoadsByStatus(_ context.Context, status string) ([]*models.Load, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	var loads []*models.Load
	for _, load := range m.loads {
		if load.Status == status {
			out := *load
			loads = append(loads, &out)
		}
	}
	sort.Slice(loads, func(i, j int) bool { return loads[i].ID < loads[j].ID })
	return loads, nil
}

// Scorecard operations
func (m *MemoryStore) CreateScorecard(_ context.Context, scorecard *models.Scorecard) error {
	m.scorecardMu.Lock()
	defer m.scorecardMu.Unlock()

	for _, existing := range m.scorecards[scorecard.CarrierID] {
		if existing.Period == scorecard.Period {
			return fmt.Errorf("scorecard %s/%s: %w", scorecard.CarrierID, scorecard.Period, ErrDuplicate)
		}
	}
	if scorecard.ID == "" {
		scorecard.ID = uuid.NewString()
	}
	m.scorecards[scorecard.CarrierID] = append(m.scorecards[scorecard.CarrierID], *scorecard)
	return nil
}

func (m *MemoryStore) GetScorecard(_ context.Context, carrierID, period string) (*models.Scorecard, error) {
	m.scorecardMu.RLock()
	defer m.scorecardMu.RUnlock()

	for _, s := range m.scorecards[carrierID] {
		if s.Period == period {
			out := s
			return &out, nil
		}
	}
	return nil, fmt.Errorf("scorecard %s/%s: %w", carrierID, period, ErrNotFound)
}

// GetScorecards returns the most recent first; limit <= 0 returns all
func (m *MemoryStore) GetScorecards(_ context.Context, carrierID string, limit int) ([]models.Scorecard, error) {
	m.scorecardMu.RLock()
	defer m.scorecardMu.RUnlock()

	out := recentFirst(m.scorecards[carrierID])
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) GetLatestScorecards(_ context.Context, carrierIDs []string) (map[string]*models.Scorecard, error) {
	m.scorecardMu.RLock()
	defer m.scorecardMu.RUnlock()

	latest := make(map[string]*models.Scorecard, len(carrierIDs))
	for _, id := range carrierIDs {
		cards := recentFirst(m.scorecards[id])
		if len(cards) == 0 {
			continue
		}
		s := cards[0]
		latest[id] = &s
	}
	return latest, nil
}

// Tier operations
func (m *MemoryStore) ApplyTierTransition(_ context.Context, transition *models.TierTransition) error {
	m.carrierMu.Lock()
	defer m.carrierMu.Unlock()

	stored, exists := m.carriers[transition.CarrierID]
	if !exists {
		return fmt.Errorf("carrier %s: %w", transition.CarrierID, ErrNotFound)
	}
	if stored.Tier != transition.FromTier || stored.OnboardingStatus != transition.FromOnboarding {
		return fmt.Errorf("carrier %s is %s/%s, not %s/%s: %w", transition.CarrierID,
			stored.Tier, stored.OnboardingStatus, transition.FromTier, transition.FromOnboarding, ErrConflict)
	}

	now := time.Now()
	stored.Tier = transition.ToTier
	stored.OnboardingStatus = transition.ToOnboarding
	stored.UpdatedAt = now
	m.appendTransition(transition, now)
	return nil
}

func (m *MemoryStore) GetTierTransitions(_ context.Context, carrierID string) ([]models.TierTransition, error) {
	m.carrierMu.RLock()
	defer m.carrierMu.RUnlock()

	return append([]models.TierTransition(nil), m.transitions[carrierID]...), nil
}

// appendTransition must be called with carrierMu held
func (m *MemoryStore) appendTransition(t *models.TierTransition, now time.Time) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	m.transitions[t.CarrierID] = append(m.transitions[t.CarrierID], *t)
}

// recentFirst copies cards newest first; equal timestamps keep the later insert first
func recentFirst(cards []models.Scorecard) []models.Scorecard {
	out := make([]models.Scorecard, len(cards))
	for i, c := range cards {
		out[len(cards)-1-i] = c
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CalculatedAt.After(out[j].CalculatedAt)
	})
	return out
}

func cloneCarrier(c *models.CarrierProfile) *models.CarrierProfile {
	out := *c
	out.Equipment = append([]string(nil), c.Equipment...)
	out.Regions = append([]string(nil), c.Regions...)
	if c.InsuranceExpiry != nil {
		expiry := *c.InsuranceExpiry
		out.InsuranceExpiry = &expiry
	}
	return &out
}
