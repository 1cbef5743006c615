package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/services"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/storage"
)

// ReviewSummary counts the outcome of one weekly tier review
type ReviewSummary struct {
	Reviewed int
	Promoted int
	Demoted  int
	Failed   int
}

// TierReview recomputes the tier of every carrier in the approved pool.
// Suspended and inactive carriers keep their tier until reinstated.
type TierReview struct {
	store storage.Store
	tiers *services.TierService
}

func NewTierReview(store storage.Store, tiers *services.TierService) *TierReview {
	return &TierReview{store: store, tiers: tiers}
}

func (j *TierReview) RunOnce(ctx context.Context) (ReviewSummary, error) {
	log.Println("Running weekly tier review...")

	carriers, err := j.store.GetMatchableCarriers(ctx)
	if err != nil {
		return ReviewSummary{}, fmt.Errorf("list carriers: %w", err)
	}

	var summary ReviewSummary
	for _, carrier := range carriers {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		decision, err := j.tiers.Recompute(ctx, carrier.CarrierID, services.ReviewOperator)
		if err != nil {
			log.Printf("Tier review failed for %s: %v", carrier.CarrierID, err)
			summary.Failed++
			continue
		}

		summary.Reviewed++
		switch {
		case !decision.Changed:
		case decision.To.Above(decision.From):
			summary.Promoted++
		default:
			summary.Demoted++
		}
	}

	log.Printf("Tier review: %d reviewed, %d promoted, %d demoted, %d failed",
		summary.Reviewed, summary.Promoted, summary.Demoted, summary.Failed)
	return summary, nil
}
