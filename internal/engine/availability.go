package engine

import "github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"

// AvailabilityScorer awards the availability factor of a match score
type AvailabilityScorer interface {
	Score(c *models.CarrierProfile, l *models.Load) int
}

// FlatAvailability gives every candidate the same points. It stands in until
// real capacity data is wired in.
type FlatAvailability struct {
	Points int
}

func (f FlatAvailability) Score(*models.CarrierProfile, *models.Load) int {
	return f.Points
}
