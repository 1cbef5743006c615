package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/engine"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/storage"
)

// MatchService ranks the approved carrier pool against a posted load
type MatchService struct {
	store   storage.Store
	matcher *engine.Matcher
	clock   func() time.Time
}

func NewMatchService(store storage.Store, policy engine.Policy, opts ...engine.MatcherOption) *MatchService {
	return &MatchService{
		store:   store,
		matcher: engine.NewMatcher(policy, opts...),
		clock:   time.Now,
	}
}

// Match returns ranked carriers for a load. An empty pool is not an error.
func (s *MatchService) Match(ctx context.Context, loadID string) (models.MatchResponse, error) {
	load, err := s.store.GetLoad(ctx, loadID)
	if err != nil {
		return models.MatchResponse{}, lookupError(err, "load %s not found", loadID)
	}

	carriers, err := s.store.GetMatchableCarriers(ctx)
	if err != nil {
		return models.MatchResponse{}, fmt.Errorf("load carrier pool: %w", err)
	}

	ids := make([]string, len(carriers))
	for i, c := range carriers {
		ids[i] = c.CarrierID
	}
	latest, err := s.store.GetLatestScorecards(ctx, ids)
	if err != nil {
		return models.MatchResponse{}, fmt.Errorf("load latest scorecards: %w", err)
	}

	candidates := make([]engine.Candidate, len(carriers))
	for i, c := range carriers {
		candidates[i] = engine.Candidate{Carrier: c, Latest: latest[c.CarrierID]}
	}

	resp, err := s.matcher.Match(ctx, load, candidates, s.clock())
	if err != nil {
		return models.MatchResponse{}, err
	}

	log.Printf("🎯 Load %s matched %d of %d carriers (fallback=%v suggest_dat=%v)",
		loadID, len(resp.Matches), resp.CandidateCount, resp.Fallback, resp.SuggestDAT)
	return resp, nil
}
